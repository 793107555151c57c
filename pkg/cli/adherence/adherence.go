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

// Package adherence derives how consistently doses are taken from the dose records
package adherence

import (
	"math"
	"time"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
)

// DefaultWindowDays is the length of the trailing window adherence is computed over
const DefaultWindowDays = 30

// Summary is the tally of dose records within a date range
type Summary struct {
	From    string
	To      string
	Total   int
	Taken   int
	Percent int
}

// Tally counts the dose records, and those taken, dated between from and to inclusive
func Tally(db *database.DB, from, to time.Time) (Summary, error) {
	s := Summary{
		From: from.Format(clock.DateLayout),
		To:   to.Format(clock.DateLayout),
	}

	err := db.QueryRow(`SELECT count(*), coalesce(sum(CASE WHEN taken THEN 1 ELSE 0 END), 0)
		FROM dose_records WHERE date >= ? AND date <= ?`, s.From, s.To).Scan(&s.Total, &s.Taken)
	if err != nil {
		return s, errors.Wrap(err, "counting dose records")
	}

	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Taken) / float64(s.Total) * 100))
	}

	return s, nil
}

// Compute returns the percentage of dose records taken over the trailing
// window of windowDays days ending today. It is 0 when there is no record.
func Compute(db *database.DB, today time.Time, windowDays int) (int, error) {
	s, err := Tally(db, today.AddDate(0, 0, -windowDays), today)
	if err != nil {
		return 0, err
	}

	return s.Percent, nil
}

// Rating describes an adherence percentage
func Rating(percent int) string {
	switch {
	case percent >= 95:
		return "excellent"
	case percent >= 80:
		return "good"
	case percent >= 70:
		return "moderate"
	default:
		return "needs improvement"
	}
}

// Mark is the intake status of a calendar day
type Mark string

const (
	// MarkComplete is a day on which every dose was taken
	MarkComplete Mark = "complete"
	// MarkPartial is a day on which some doses were taken
	MarkPartial Mark = "partial"
	// MarkMissed is a day on which no dose was taken
	MarkMissed Mark = "missed"
)

// DayMark is the mark of a date
type DayMark struct {
	Date  string
	Total int
	Taken int
	Mark  Mark
}

func markOf(total, taken int) Mark {
	if taken == 0 {
		return MarkMissed
	}
	if taken < total {
		return MarkPartial
	}

	return MarkComplete
}

// DayMarks returns the mark of every date between from and to that has dose records
func DayMarks(db *database.DB, from, to time.Time) ([]DayMark, error) {
	rows, err := db.Query(`SELECT date, count(*), coalesce(sum(CASE WHEN taken THEN 1 ELSE 0 END), 0)
		FROM dose_records
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date ASC`, from.Format(clock.DateLayout), to.Format(clock.DateLayout))
	if err != nil {
		return nil, errors.Wrap(err, "querying dose records by date")
	}
	defer rows.Close()

	ret := []DayMark{}
	for rows.Next() {
		var m DayMark
		if err := rows.Scan(&m.Date, &m.Total, &m.Taken); err != nil {
			return nil, errors.Wrap(err, "scanning a row")
		}
		m.Mark = markOf(m.Total, m.Taken)

		ret = append(ret, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating rows")
	}

	return ret, nil
}
