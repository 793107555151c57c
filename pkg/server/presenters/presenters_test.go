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

package presenters

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/server/database"
)

func TestFormatTS(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}

	input := time.Date(2025, 3, 10, 17, 30, 0, 123456789, loc)
	got := FormatTS(input)

	assert.Equal(t, got.Location(), time.UTC, "location mismatch")
	assert.Equal(t, got.Equal(time.Date(2025, 3, 10, 8, 30, 0, 123457000, time.UTC)), true, "time mismatch")
}

func TestPresentMedication(t *testing.T) {
	interval := 6
	ts := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	m := database.Medication{
		Model:               database.Model{ID: 7, CreatedAt: ts, UpdatedAt: ts},
		UUID:                "a1b2",
		UserID:              3,
		Name:                "Ibuprofen",
		Dosage:              "200mg",
		FirstDoseTime:       "08:00",
		Frequency:           "custom",
		CustomIntervalHours: &interval,
		Active:              true,
		StartDate:           "2025-03-10",
	}

	b, err := json.Marshal(PresentMedication(m))
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, got["uuid"], "a1b2", "uuid mismatch")
	assert.Equal(t, got["custom_interval_hours"], float64(6), "interval mismatch")
	assert.Equal(t, got["active"], true, "active mismatch")
	_, hasID := got["id"]
	_, hasUserID := got["user_id"]
	assert.Equal(t, hasID, false, "internal id should not be exposed")
	assert.Equal(t, hasUserID, false, "user id should not be exposed")
}

func TestPresentCollections(t *testing.T) {
	if diff := cmp.Diff(PresentMedications(nil), []Medication{}); diff != "" {
		t.Errorf("medications mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(PresentRecords(nil), []Record{}); diff != "" {
		t.Errorf("records mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(PresentIntakes(nil), []Intake{}); diff != "" {
		t.Errorf("intakes mismatch (-got +want):\n%s", diff)
	}

	records := PresentRecords([]database.Record{{UUID: "r1", Text: "slept well"}, {UUID: "r2", Text: "headache"}})
	assert.Equal(t, len(records), 2, "length mismatch")
	assert.Equal(t, records[1].Text, "headache", "text mismatch")
}

func TestPresentSession(t *testing.T) {
	expiresAt := time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)
	s := database.Session{Key: "k", ExpiresAt: expiresAt}
	u := database.User{UUID: "u1"}

	got := PresentSession(s, u)

	assert.Equal(t, got, Session{Key: "k", ExpiresAt: expiresAt.Unix(), UserUUID: "u1"}, "session mismatch")
}
