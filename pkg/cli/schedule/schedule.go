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

// Package schedule expands medication recurrence rules into dated dose records
package schedule

import (
	"fmt"
	"time"

	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"
)

// HorizonDays is the number of calendar days, today included, that dose
// records are generated for
const HorizonDays = 31

// Interval returns the spacing between two doses of the frequency
func Interval(freq database.Frequency, customHours int) time.Duration {
	switch freq {
	case database.FrequencyEvery12:
		return 12 * time.Hour
	case database.FrequencyEvery8:
		return 8 * time.Hour
	case database.FrequencyWeekly:
		return 7 * 24 * time.Hour
	case database.FrequencyMonthly:
		return 30 * 24 * time.Hour
	case database.FrequencyCustom:
		if customHours > 0 {
			return time.Duration(customHours) * time.Hour
		}
	}

	return 24 * time.Hour
}

// DosesPerDay returns the number of doses scheduled on each day
func DosesPerDay(freq database.Frequency, customHours int) int {
	switch freq {
	case database.FrequencyEvery12:
		return 2
	case database.FrequencyEvery8:
		return 3
	case database.FrequencyCustom:
		if customHours > 0 && customHours < 24 {
			return 24 / customHours
		}
	}

	return 1
}

// ParseTimeOfDay returns the offset from midnight of an HH:MM time
func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing time of day '%s'", s)
	}

	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatTimeOfDay(d time.Duration) string {
	minutes := int(d/time.Minute) % (24 * 60)

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DoseTimes returns the HH:MM clock time of every dose of a day, in dose
// order. Times past midnight wrap around.
func DoseTimes(firstDoseTime string, freq database.Frequency, customHours int) ([]string, error) {
	first, err := ParseTimeOfDay(firstDoseTime)
	if err != nil {
		return nil, err
	}

	n := DosesPerDay(freq, customHours)
	interval := Interval(freq, customHours)

	ret := make([]string, 0, n)
	for k := 0; k < n; k++ {
		ret = append(ret, formatTimeOfDay(first+time.Duration(k)*interval))
	}

	return ret, nil
}

// Horizon returns the dates of the generation horizon starting at today
func Horizon(today time.Time) []time.Time {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   HorizonDays,
		Dtstart: today,
	})
	if err != nil {
		// the rule is built from constants
		panic(errors.Wrap(err, "building the horizon rule"))
	}

	return r.All()
}

func generateForMedication(db *database.DB, m database.Medication, dates []time.Time, createdAt int64) (int, error) {
	times, err := DoseTimes(m.FirstDoseTime, m.Frequency, m.CustomIntervalHours)
	if err != nil {
		return 0, errors.Wrapf(err, "computing dose times of medication %d", m.ID)
	}

	count := 0
	for _, d := range dates {
		date := d.Format(clock.DateLayout)

		// dates share a fixed width layout, so they order as strings
		if m.StartDate != "" && date < m.StartDate {
			continue
		}

		exists, err := database.HasDoseRecords(db, m.ID, date)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}

		for ordinal, t := range times {
			r := database.DoseRecord{
				MedicationID:   m.ID,
				MedicationName: m.Name,
				Date:           date,
				DoseOrdinal:    ordinal,
				ScheduledTime:  t,
				CreatedAt:      createdAt,
			}

			inserted, err := r.InsertIfAbsent(db)
			if err != nil {
				return count, err
			}
			if inserted {
				count++
			}
		}
	}

	return count, nil
}

// GenerateUpcomingDoses creates the dose records of every active medication
// for the horizon starting at today. Dates before a medication's start date
// and dates that already have any record for it are left untouched. It returns the number of inserted records.
func GenerateUpcomingDoses(db *database.DB, today time.Time) (int, error) {
	meds, err := database.ListMedications(db, true)
	if err != nil {
		return 0, errors.Wrap(err, "getting active medications")
	}

	dates := Horizon(today)
	createdAt := time.Now().UnixNano()

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "beginning a transaction")
	}

	total := 0
	for _, m := range meds {
		n, err := generateForMedication(tx, m, dates, createdAt)
		if err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "generating doses of %s", m.Name)
		}

		log.Debug("generated %d doses of %s\n", n, m.Name)
		total += n
	}

	if err := database.UpsertSystem(tx, consts.SystemLastGeneratedOn, today.Format(clock.DateLayout)); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing transaction")
	}

	return total, nil
}

// EnsureGenerated generates upcoming doses unless it has already been done today
func EnsureGenerated(db *database.DB, today time.Time) (int, error) {
	var last string
	err := database.GetSystem(db, consts.SystemLastGeneratedOn, &last)
	if err != nil && err != database.ErrNotFound {
		return 0, err
	}

	if last == today.Format(clock.DateLayout) {
		return 0, nil
	}

	return GenerateUpcomingDoses(db, today)
}
