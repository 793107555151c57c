/* Copyright 2025 Medtrack Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
)

func TestMedicationInsert(t *testing.T) {
	testCases := []struct {
		frequency   Frequency
		customHours int
		expected    int
	}{
		{frequency: FrequencyDaily, customHours: 0, expected: 0},
		{frequency: FrequencyDaily, customHours: 6, expected: 0},
		{frequency: FrequencyCustom, customHours: 6, expected: 6},
	}

	for _, tc := range testCases {
		t.Run(string(tc.frequency), func(t *testing.T) {
			db := InitTestMemoryDB(t)

			m := Medication{
				Name:                "Aspirin",
				Dosage:              "100mg",
				FirstDoseTime:       "08:00",
				Frequency:           tc.frequency,
				CustomIntervalHours: tc.customHours,
				Active:              true,
				StartDate:           "2025-03-10",
				CreatedAt:           1741593600000000000,
			}
			if err := m.Insert(db); err != nil {
				t.Fatal(err)
			}

			var isNull bool
			MustScan(t, "checking custom hours", db.QueryRow("SELECT custom_interval_hours IS NULL FROM medications WHERE id = ?", m.ID), &isNull)
			assert.Equal(t, isNull, tc.expected == 0, "custom hours nullness mismatch")

			got, err := GetMedication(db, m.ID)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, got.Name, "Aspirin", "name mismatch")
			assert.Equal(t, got.CustomIntervalHours, tc.expected, "custom hours mismatch")
			assert.Equal(t, got.RemoteID, "", "remote id should be empty")
			assert.DeepEqual(t, got.AlertHandles, []string{}, "handles mismatch")
		})
	}
}

func TestMedicationUpdateRemoteID(t *testing.T) {
	db := InitTestMemoryDB(t)

	m := Medication{Name: "Ibuprofen", FirstDoseTime: "09:00", Frequency: FrequencyEvery8, Active: true, StartDate: "2025-03-10"}
	if err := m.Insert(db); err != nil {
		t.Fatal(err)
	}

	if err := m.UpdateRemoteID(db, "remote-1"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, m.RemoteID, "remote-1", "remote id mismatch on struct")

	err := m.UpdateRemoteID(db, "remote-2")
	assert.NotEqual(t, err, nil, "second back-fill should fail")

	got, err := GetMedication(db, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.RemoteID, "remote-1", "remote id should not change")
}

func TestMedicationAlertHandles(t *testing.T) {
	db := InitTestMemoryDB(t)

	m := Medication{Name: "Metformin", FirstDoseTime: "07:30", Frequency: FrequencyEvery12, Active: true, StartDate: "2025-03-10"}
	if err := m.Insert(db); err != nil {
		t.Fatal(err)
	}
	if err := m.UpdateAlertHandles(db, []string{"h1", "h2"}); err != nil {
		t.Fatal(err)
	}
	if err := m.UpdateActive(db, false); err != nil {
		t.Fatal(err)
	}

	got, err := GetMedication(db, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, got.AlertHandles, []string{"h1", "h2"}, "handles mismatch")
	assert.Equal(t, got.Active, false, "active mismatch")

	active, err := ListMedications(db, true)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(active), 0, "paused medication should not be listed as active")
}

func TestGetMedicationNotFound(t *testing.T) {
	db := InitTestMemoryDB(t)

	_, err := GetMedication(db, 42)
	assert.Equal(t, err, ErrNotFound, "error mismatch")
}

func TestDoseRecordInsertIfAbsent(t *testing.T) {
	db := InitTestMemoryDB(t)

	d := DoseRecord{MedicationID: 1, MedicationName: "Aspirin", Date: "2025-03-10", DoseOrdinal: 0, ScheduledTime: "08:00"}
	inserted, err := d.InsertIfAbsent(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, inserted, true, "first insert should happen")

	dup := DoseRecord{MedicationID: 1, MedicationName: "Aspirin", Date: "2025-03-10", DoseOrdinal: 0, ScheduledTime: "08:00"}
	inserted, err = dup.InsertIfAbsent(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, inserted, false, "duplicate should be ignored")
	assert.Equal(t, MustCount(t, db, "dose_records", ""), 1, "row count mismatch")

	ok, err := HasDoseRecords(db, 1, "2025-03-10")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ok, true, "should have dose records")
}

func TestDoseRecordUpdateTaken(t *testing.T) {
	db := InitTestMemoryDB(t)

	d := DoseRecord{MedicationID: 1, MedicationName: "Aspirin", Date: "2025-03-10", ScheduledTime: "08:00"}
	if _, err := d.InsertIfAbsent(db); err != nil {
		t.Fatal(err)
	}

	if err := d.UpdateTaken(db, true, "08:12"); err != nil {
		t.Fatal(err)
	}
	got, err := GetDoseRecord(db, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.Taken, true, "taken mismatch")
	assert.Equal(t, got.TakenTime, "08:12", "taken time mismatch")

	if err := d.UpdateTaken(db, false, "09:00"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, MustCount(t, db, "dose_records", "taken_time IS NULL AND taken = false"), 1, "taken time should be cleared")
}

func TestNoteRemoteID(t *testing.T) {
	db := InitTestMemoryDB(t)

	n := Note{Text: "slept well", CreatedAt: "2025-03-10 08:00:00"}
	if err := n.Insert(db); err != nil {
		t.Fatal(err)
	}

	notes, err := ListNotes(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(notes), 1, "note count mismatch")
	assert.Equal(t, notes[0].RemoteID, "", "remote id should be empty")

	if err := n.UpdateRemoteID(db, "doc-1"); err != nil {
		t.Fatal(err)
	}
	got, err := GetNote(db, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.RemoteID, "doc-1", "remote id mismatch")
}

func TestAlerts(t *testing.T) {
	db := InitTestMemoryDB(t)

	for i, fireAt := range []int64{100, 200, 300} {
		a := Alert{Handle: string(rune('a' + i)), FireAt: fireAt, Title: "Reminder: Aspirin", Body: "Take 100mg"}
		if err := a.Insert(db); err != nil {
			t.Fatal(err)
		}
	}

	due, err := ListDueAlerts(db, 200)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(due), 2, "due count mismatch")

	if err := due[0].MarkDelivered(db, 250); err != nil {
		t.Fatal(err)
	}
	pending, err := ListPendingAlerts(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(pending), 2, "pending count mismatch")
	assert.Equal(t, pending[0].Handle, "b", "first pending mismatch")

	ok, err := ExpungeAlert(db, "c")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ok, true, "alert should be deleted")

	ok, err = ExpungeAlert(db, "c")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ok, false, "alert should already be gone")
}

func TestSystem(t *testing.T) {
	db := InitTestMemoryDB(t)

	var val string
	err := GetSystem(db, "user_uuid", &val)
	assert.Equal(t, err, ErrNotFound, "missing key error mismatch")

	if err := UpsertSystem(db, "user_uuid", "u1"); err != nil {
		t.Fatal(err)
	}
	if err := UpsertSystem(db, "user_uuid", "u2"); err != nil {
		t.Fatal(err)
	}

	if err := GetSystem(db, "user_uuid", &val); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, val, "u2", "value mismatch")
	assert.Equal(t, MustCount(t, db, "system", "key = ?", "user_uuid"), 1, "row count mismatch")

	if err := DeleteSystem(db, "user_uuid"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, GetSystem(db, "user_uuid", &val), ErrNotFound, "deleted key error mismatch")
}
