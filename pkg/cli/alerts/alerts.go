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

// Package alerts arms and cancels the device alerts of medications.
//
// The core only depends on the Scheduler boundary: registering a fire time
// yields an opaque handle, which is all that is needed to cancel it later.
package alerts

import (
	"fmt"
	"math"
	"time"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/schedule"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"
)

const (
	// MaxAlerts caps the number of alerts armed for one medication
	MaxAlerts = 90
	// Horizon is the span covered by the alerts of one medication
	Horizon = 30 * 24 * time.Hour
)

// Scheduler registers device alerts
type Scheduler interface {
	// Register arms an alert and returns its handle
	Register(fireAt time.Time, title, body string) (string, error)
	// Cancel disarms the alert with the given handle
	Cancel(handle string) error
}

// Count returns the number of alerts planned for the given interval
func Count(interval time.Duration) int {
	n := int(math.Ceil(float64(Horizon) / float64(interval)))
	if n > MaxAlerts {
		return MaxAlerts
	}

	return n
}

// PlanFireTimes returns the fire times of a medication whose first dose is at
// first, dropping those that are not after now
func PlanFireTimes(first time.Time, freq database.Frequency, customHours int, now time.Time) ([]time.Time, error) {
	interval := schedule.Interval(freq, customHours)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.HOURLY,
		Interval: int(interval / time.Hour),
		Count:    Count(interval),
		Dtstart:  first,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building the recurrence rule")
	}

	ret := []time.Time{}
	for _, t := range r.All() {
		if t.After(now) {
			ret = append(ret, t)
		}
	}

	return ret, nil
}

// FirstFireTime returns the time of the first dose of the medication: the
// first dose time on its start date, or on today if it started earlier
func FirstFireTime(m database.Medication, now time.Time) (time.Time, error) {
	offset, err := schedule.ParseTimeOfDay(m.FirstDoseTime)
	if err != nil {
		return time.Time{}, err
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	start, err := time.ParseInLocation(clock.DateLayout, m.StartDate, now.Location())
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing start date '%s'", m.StartDate)
	}
	if start.After(day) {
		day = start
	}

	return day.Add(offset), nil
}

// Content returns the title and body of the alerts of the medication
func Content(m database.Medication) (string, string) {
	title := fmt.Sprintf("Reminder: %s", m.Name)

	body := "Time for your medication"
	if m.Dosage != "" {
		body = fmt.Sprintf("Take %s", m.Dosage)
	}

	return title, body
}

// ArmMedication registers an alert for every planned dose of the medication
// and returns their handles. If any registration fails, the alerts armed so
// far are cancelled.
func ArmMedication(s Scheduler, m database.Medication, now time.Time) ([]string, error) {
	first, err := FirstFireTime(m, now)
	if err != nil {
		return nil, errors.Wrap(err, "computing the first fire time")
	}

	times, err := PlanFireTimes(first, m.Frequency, m.CustomIntervalHours, now)
	if err != nil {
		return nil, err
	}

	title, body := Content(m)

	handles := []string{}
	for _, t := range times {
		h, err := s.Register(t, title, body)
		if err != nil {
			CancelAll(s, handles)
			return nil, errors.Wrapf(err, "registering alert at %s", t.Format(time.RFC3339))
		}

		handles = append(handles, h)
	}

	return handles, nil
}

// CancelAll cancels every handle. A failure does not stop the remaining
// cancellations; the first error is returned.
func CancelAll(s Scheduler, handles []string) error {
	var ret error

	for _, h := range handles {
		if err := s.Cancel(h); err != nil && ret == nil {
			ret = errors.Wrapf(err, "cancelling alert %s", h)
		}
	}

	return ret
}
