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

// Package validate checks user input before anything is persisted
package validate

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/pkg/errors"
)

// MaxNameLength is the maximum number of characters of a medication name
const MaxNameLength = 100

var (
	// ErrNameEmpty is an error for an empty medication name
	ErrNameEmpty = errors.New("The medication name is empty")
	// ErrNameTooLong is an error for a medication name over MaxNameLength characters
	ErrNameTooLong = errors.New("The medication name is too long")
	// ErrInvalidTime is an error for a time of day not in the 24-hour HH:MM form
	ErrInvalidTime = errors.New("The time must be in HH:MM format")
	// ErrInvalidFrequency is an error for an unknown frequency
	ErrInvalidFrequency = errors.New("The frequency is invalid")
	// ErrCustomIntervalRequired is an error for a custom frequency without a valid interval
	ErrCustomIntervalRequired = errors.New("A custom frequency requires an interval of at least 1 hour")
	// ErrCustomIntervalNotAllowed is an error for an interval given with a non-custom frequency
	ErrCustomIntervalNotAllowed = errors.New("An interval can only be set for a custom frequency")
	// ErrInvalidDate is an error for a date not in the YYYY-MM-DD form
	ErrInvalidDate = errors.New("The date must be in YYYY-MM-DD format")
	// ErrYearOutOfRange is an error for a date whose year is not between 1900 and 2100
	ErrYearOutOfRange = errors.New("The year must be between 1900 and 2100")
	// ErrNoteEmpty is an error for an empty note
	ErrNoteEmpty = errors.New("The note is empty")
	// ErrTitleEmpty is an error for a reminder without a title
	ErrTitleEmpty = errors.New("The reminder title is empty")
)

// MedicationName validates a medication name
func MedicationName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}

	return nil
}

// TimeOfDay validates a 24-hour HH:MM time of day
func TimeOfDay(s string) error {
	if len(s) != 5 {
		return ErrInvalidTime
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return ErrInvalidTime
	}

	return nil
}

// Frequency parses a frequency
func Frequency(s string) (database.Frequency, error) {
	for _, f := range database.Frequencies {
		if string(f) == s {
			return f, nil
		}
	}

	return "", ErrInvalidFrequency
}

// CustomInterval validates the interval hours against the frequency. The
// interval is required if and only if the frequency is custom.
func CustomInterval(freq database.Frequency, hours int) error {
	if freq == database.FrequencyCustom {
		if hours < 1 {
			return ErrCustomIntervalRequired
		}

		return nil
	}

	if hours != 0 {
		return ErrCustomIntervalNotAllowed
	}

	return nil
}

// Date validates a YYYY-MM-DD calendar date
func Date(s string) error {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ErrInvalidDate
	}

	if t.Year() < 1900 || t.Year() > 2100 {
		return ErrYearOutOfRange
	}

	return nil
}

// NoteText validates the text of a note
func NoteText(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrNoteEmpty
	}

	return nil
}

// ReminderTitle validates the title of a scheduled reminder
func ReminderTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrTitleEmpty
	}

	return nil
}
