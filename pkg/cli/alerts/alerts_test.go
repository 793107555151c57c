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

package alerts

import (
	"fmt"
	"testing"
	"time"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/pkg/errors"
)

type registration struct {
	fireAt time.Time
	title  string
	body   string
}

// fakeScheduler records registrations and cancellations in memory
type fakeScheduler struct {
	registered map[string]registration
	cancelled  []string
	failAfter  int
	failCancel map[string]bool
	seq        int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		registered: map[string]registration{},
		failAfter:  -1,
		failCancel: map[string]bool{},
	}
}

func (s *fakeScheduler) Register(fireAt time.Time, title, body string) (string, error) {
	if s.failAfter >= 0 && s.seq >= s.failAfter {
		return "", errors.New("platform refused the alert")
	}

	s.seq++
	h := fmt.Sprintf("h%d", s.seq)
	s.registered[h] = registration{fireAt: fireAt, title: title, body: body}

	return h, nil
}

func (s *fakeScheduler) Cancel(handle string) error {
	if s.failCancel[handle] {
		return errors.New("cancel failed")
	}

	s.cancelled = append(s.cancelled, handle)
	delete(s.registered, handle)

	return nil
}

var now = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func TestCount(t *testing.T) {
	testCases := []struct {
		freq        database.Frequency
		customHours int
		expected    int
	}{
		{freq: database.FrequencyDaily, expected: 30},
		{freq: database.FrequencyEvery12, expected: 60},
		{freq: database.FrequencyEvery8, expected: 90},
		{freq: database.FrequencyWeekly, expected: 5},
		{freq: database.FrequencyMonthly, expected: 1},
		{freq: database.FrequencyCustom, customHours: 1, expected: 90},
		{freq: database.FrequencyCustom, customHours: 7, expected: 90},
		{freq: database.FrequencyCustom, customHours: 30, expected: 24},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %d", tc.freq, tc.customHours), func(t *testing.T) {
			interval := 24 * time.Hour
			switch tc.freq {
			case database.FrequencyEvery12:
				interval = 12 * time.Hour
			case database.FrequencyEvery8:
				interval = 8 * time.Hour
			case database.FrequencyWeekly:
				interval = 168 * time.Hour
			case database.FrequencyMonthly:
				interval = 720 * time.Hour
			case database.FrequencyCustom:
				interval = time.Duration(tc.customHours) * time.Hour
			}

			assert.Equal(t, Count(interval), tc.expected, "count mismatch")
		})
	}
}

func TestPlanFireTimes(t *testing.T) {
	t.Run("first in the past", func(t *testing.T) {
		first := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

		got, err := PlanFireTimes(first, database.FrequencyDaily, 0, now)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, len(got), 29, "count mismatch")
		assert.Equal(t, got[0], first.Add(24*time.Hour), "first time mismatch")
		for i := 1; i < len(got); i++ {
			assert.Equal(t, got[i].Sub(got[i-1]), 24*time.Hour, "spacing mismatch")
		}
	})

	t.Run("first in the future", func(t *testing.T) {
		first := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

		got, err := PlanFireTimes(first, database.FrequencyEvery8, 0, now)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, len(got), 90, "count mismatch")
		assert.Equal(t, got[0], first, "first time mismatch")
		assert.Equal(t, got[89], first.Add(89*8*time.Hour), "last time mismatch")
	})

	t.Run("custom", func(t *testing.T) {
		first := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)

		got, err := PlanFireTimes(first, database.FrequencyCustom, 30, now)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, len(got), 24, "count mismatch")
		assert.Equal(t, got[1], first.Add(30*time.Hour), "second time mismatch")
	})
}

func TestFirstFireTime(t *testing.T) {
	testCases := []struct {
		startDate string
		expected  time.Time
	}{
		{startDate: "2025-01-01", expected: time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC)},
		{startDate: "2025-03-10", expected: time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC)},
		{startDate: "2025-03-15", expected: time.Date(2025, time.March, 15, 7, 30, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.startDate, func(t *testing.T) {
			m := database.Medication{FirstDoseTime: "07:30", StartDate: tc.startDate}

			got, err := FirstFireTime(m, now)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, got, tc.expected, "first fire time mismatch")
		})
	}
}

func TestContent(t *testing.T) {
	title, body := Content(database.Medication{Name: "Aspirin", Dosage: "100mg"})
	assert.Equal(t, title, "Reminder: Aspirin", "title mismatch")
	assert.Equal(t, body, "Take 100mg", "body mismatch")

	_, body = Content(database.Medication{Name: "Aspirin"})
	assert.Equal(t, body, "Time for your medication", "default body mismatch")
}

func TestArmMedication(t *testing.T) {
	s := newFakeScheduler()
	m := database.Medication{
		Name:          "Aspirin",
		Dosage:        "100mg",
		FirstDoseTime: "20:00",
		Frequency:     database.FrequencyEvery12,
		StartDate:     "2025-03-10",
	}

	handles, err := ArmMedication(s, m, now)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(handles), 60, "handle count mismatch")
	assert.Equal(t, len(s.registered), 60, "registration count mismatch")

	first := s.registered[handles[0]]
	assert.Equal(t, first.fireAt, time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC), "first fire time mismatch")
	assert.Equal(t, first.title, "Reminder: Aspirin", "title mismatch")
	assert.Equal(t, first.body, "Take 100mg", "body mismatch")
}

func TestArmMedicationFailure(t *testing.T) {
	s := newFakeScheduler()
	s.failAfter = 3

	m := database.Medication{Name: "Aspirin", FirstDoseTime: "20:00", Frequency: database.FrequencyDaily, StartDate: "2025-03-10"}

	handles, err := ArmMedication(s, m, now)
	assert.NotEqual(t, err, nil, "error should be returned")
	assert.Equal(t, len(handles), 0, "no handle should be returned")
	assert.Equal(t, len(s.registered), 0, "registered alerts should be cancelled")
	assert.DeepEqual(t, s.cancelled, []string{"h1", "h2", "h3"}, "cancelled mismatch")
}

func TestCancelAll(t *testing.T) {
	s := newFakeScheduler()
	for i := 0; i < 3; i++ {
		if _, err := s.Register(now, "t", "b"); err != nil {
			t.Fatal(err)
		}
	}
	s.failCancel["h2"] = true

	err := CancelAll(s, []string{"h1", "h2", "h3"})
	assert.NotEqual(t, err, nil, "error should be returned")
	assert.DeepEqual(t, s.cancelled, []string{"h1", "h3"}, "remaining handles should still be cancelled")
}
