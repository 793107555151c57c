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

package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/database"
)

var today = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func insertMedication(t *testing.T, db *database.DB, freq database.Frequency, customHours int, first string) database.Medication {
	m := database.Medication{
		Name:                fmt.Sprintf("med-%s-%d", freq, customHours),
		FirstDoseTime:       first,
		Frequency:           freq,
		CustomIntervalHours: customHours,
		Active:              true,
		StartDate:           today.Format("2006-01-02"),
	}
	if err := m.Insert(db); err != nil {
		t.Fatal(err)
	}

	return m
}

func TestDosesPerDay(t *testing.T) {
	testCases := []struct {
		freq        database.Frequency
		customHours int
		expected    int
	}{
		{freq: database.FrequencyDaily, expected: 1},
		{freq: database.FrequencyEvery12, expected: 2},
		{freq: database.FrequencyEvery8, expected: 3},
		{freq: database.FrequencyWeekly, expected: 1},
		{freq: database.FrequencyMonthly, expected: 1},
		{freq: database.FrequencyCustom, customHours: 6, expected: 4},
		{freq: database.FrequencyCustom, customHours: 5, expected: 4},
		{freq: database.FrequencyCustom, customHours: 1, expected: 24},
		{freq: database.FrequencyCustom, customHours: 24, expected: 1},
		{freq: database.FrequencyCustom, customHours: 30, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %d", tc.freq, tc.customHours), func(t *testing.T) {
			assert.Equal(t, DosesPerDay(tc.freq, tc.customHours), tc.expected, "doses per day mismatch")
		})
	}
}

func TestDoseTimes(t *testing.T) {
	testCases := []struct {
		first       string
		freq        database.Frequency
		customHours int
		expected    []string
	}{
		{first: "08:00", freq: database.FrequencyDaily, expected: []string{"08:00"}},
		{first: "08:00", freq: database.FrequencyEvery12, expected: []string{"08:00", "20:00"}},
		{first: "06:30", freq: database.FrequencyEvery8, expected: []string{"06:30", "14:30", "22:30"}},
		{first: "20:00", freq: database.FrequencyEvery8, expected: []string{"20:00", "04:00", "12:00"}},
		{first: "09:15", freq: database.FrequencyWeekly, expected: []string{"09:15"}},
		{first: "09:15", freq: database.FrequencyMonthly, expected: []string{"09:15"}},
		{first: "00:00", freq: database.FrequencyCustom, customHours: 6, expected: []string{"00:00", "06:00", "12:00", "18:00"}},
		{first: "07:00", freq: database.FrequencyCustom, customHours: 30, expected: []string{"07:00"}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s %d", tc.first, tc.freq, tc.customHours), func(t *testing.T) {
			got, err := DoseTimes(tc.first, tc.freq, tc.customHours)
			if err != nil {
				t.Fatal(err)
			}

			assert.DeepEqual(t, got, tc.expected, "dose times mismatch")
		})
	}
}

func TestDoseTimesInvalid(t *testing.T) {
	_, err := DoseTimes("8am", database.FrequencyDaily, 0)
	assert.NotEqual(t, err, nil, "should fail on a malformed time")
}

func TestHorizon(t *testing.T) {
	dates := Horizon(today)

	assert.Equal(t, len(dates), HorizonDays, "horizon length mismatch")
	assert.Equal(t, dates[0].Format("2006-01-02"), "2025-03-10", "first date mismatch")
	assert.Equal(t, dates[30].Format("2006-01-02"), "2025-04-09", "last date mismatch")
}

func TestGenerateUpcomingDoses(t *testing.T) {
	testCases := []struct {
		freq        database.Frequency
		customHours int
		perDay      int
		times       []string
	}{
		{freq: database.FrequencyDaily, perDay: 1, times: []string{"08:00"}},
		{freq: database.FrequencyEvery12, perDay: 2, times: []string{"08:00", "20:00"}},
		{freq: database.FrequencyEvery8, perDay: 3, times: []string{"08:00", "16:00", "00:00"}},
		{freq: database.FrequencyWeekly, perDay: 1, times: []string{"08:00"}},
		{freq: database.FrequencyMonthly, perDay: 1, times: []string{"08:00"}},
		{freq: database.FrequencyCustom, customHours: 6, perDay: 4, times: []string{"08:00", "14:00", "20:00", "02:00"}},
		{freq: database.FrequencyCustom, customHours: 30, perDay: 1, times: []string{"08:00"}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %d", tc.freq, tc.customHours), func(t *testing.T) {
			db := database.InitTestMemoryDB(t)
			m := insertMedication(t, db, tc.freq, tc.customHours, "08:00")

			n, err := GenerateUpcomingDoses(db, today)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, n, tc.perDay*HorizonDays, "inserted count mismatch")

			for _, d := range Horizon(today) {
				date := d.Format("2006-01-02")
				assert.Equal(t, database.MustCount(t, db, "dose_records", "medication_id = ? AND date = ?", m.ID, date), tc.perDay, "per day count mismatch on "+date)
			}

			records, err := database.ListDoseRecords(db, "2025-03-25")
			if err != nil {
				t.Fatal(err)
			}
			got := make([]string, len(records))
			for _, r := range records {
				got[r.DoseOrdinal] = r.ScheduledTime
				assert.Equal(t, r.Taken, false, "taken should default to false")
				assert.Equal(t, r.MedicationName, m.Name, "denormalized name mismatch")
			}
			assert.DeepEqual(t, got, tc.times, "scheduled times mismatch")
		})
	}
}

func TestGenerateUpcomingDosesIdempotent(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	insertMedication(t, db, database.FrequencyEvery8, 0, "08:00")
	insertMedication(t, db, database.FrequencyDaily, 0, "21:00")

	n, err := GenerateUpcomingDoses(db, today)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, 4*HorizonDays, "first run count mismatch")

	n, err = GenerateUpcomingDoses(db, today)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, 0, "second run should insert nothing")
	assert.Equal(t, database.MustCount(t, db, "dose_records", ""), 4*HorizonDays, "total count mismatch")
}

func TestGenerateUpcomingDosesSkipsExistingDates(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	m := insertMedication(t, db, database.FrequencyEvery12, 0, "08:00")

	// a single pre-existing record marks the date as generated
	database.MustExec(t, "inserting a dose", db, `INSERT INTO dose_records
		(medication_id, medication_name, date, dose_ordinal, scheduled_time, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, "2025-03-12", 0, "09:00", 1)

	n, err := GenerateUpcomingDoses(db, today)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, 2*(HorizonDays-1), "inserted count mismatch")
	assert.Equal(t, database.MustCount(t, db, "dose_records", "date = ?", "2025-03-12"), 1, "existing date should be untouched")
}

func TestGenerateUpcomingDosesFutureStart(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	m := database.Medication{
		Name:          "Aspirin",
		FirstDoseTime: "08:00",
		Frequency:     database.FrequencyDaily,
		Active:        true,
		StartDate:     "2025-03-20",
	}
	if err := m.Insert(db); err != nil {
		t.Fatal(err)
	}

	n, err := GenerateUpcomingDoses(db, today)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, HorizonDays-10, "inserted count mismatch")
	assert.Equal(t, database.MustCount(t, db, "dose_records", "date < ?", "2025-03-20"), 0, "no dose should precede the start date")
	assert.Equal(t, database.MustCount(t, db, "dose_records", "date = ?", "2025-03-20"), 1, "start date count mismatch")
}

func TestGenerateUpcomingDosesIgnoresPaused(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	m := insertMedication(t, db, database.FrequencyDaily, 0, "08:00")
	if err := m.UpdateActive(db, false); err != nil {
		t.Fatal(err)
	}

	n, err := GenerateUpcomingDoses(db, today)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, 0, "paused medication should not be expanded")
}

func TestEnsureGenerated(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	insertMedication(t, db, database.FrequencyDaily, 0, "08:00")

	n, err := EnsureGenerated(db, today)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, HorizonDays, "first run count mismatch")

	var last string
	if err := database.GetSystem(db, consts.SystemLastGeneratedOn, &last); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, last, "2025-03-10", "last generated date mismatch")

	insertMedication(t, db, database.FrequencyDaily, 0, "09:00")
	n, err = EnsureGenerated(db, today)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, 0, "same day should be skipped")

	n, err = EnsureGenerated(db, today.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, HorizonDays+1, "next day count mismatch")
}
