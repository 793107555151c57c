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

package app

import "github.com/pkg/errors"

var (
	// ErrNotFound is an error for a missing resource
	ErrNotFound = errors.New("not found")
	// ErrLoginInvalid is an error for an invalid login
	ErrLoginInvalid = errors.New("Wrong email and password combination")

	// ErrEmailRequired is an error for a missing email
	ErrEmailRequired = errors.New("Please enter an email")
	// ErrPasswordRequired is an error for a missing password
	ErrPasswordRequired = errors.New("Please enter a password")
	// ErrPasswordTooShort is an error for a short password
	ErrPasswordTooShort = errors.New("Password should be at least 8 characters long")
	// ErrDuplicateEmail is an error for an email that is already taken
	ErrDuplicateEmail = errors.New("This email is already taken")

	// ErrNameRequired is an error for a medication without a name
	ErrNameRequired = errors.New("Medication name is required")
	// ErrInvalidTime is an error for a time that is not HH:MM
	ErrInvalidTime = errors.New("Time must be in the HH:MM format")
	// ErrInvalidFrequency is an error for an unknown frequency
	ErrInvalidFrequency = errors.New("Invalid frequency")
	// ErrInvalidCustomInterval is an error for a custom interval that does not
	// match the frequency
	ErrInvalidCustomInterval = errors.New("A custom interval of at least 1 hour is required for, and only for, the custom frequency")
	// ErrInvalidDate is an error for a date that is not YYYY-MM-DD
	ErrInvalidDate = errors.New("Date must be in the YYYY-MM-DD format")
	// ErrInvalidDateRange is an error for a range ending before it starts
	ErrInvalidDateRange = errors.New("The start of the range must not be after its end")
	// ErrTextRequired is an error for a record without text
	ErrTextRequired = errors.New("Record text is required")
)

// validationErrors are the errors caused by an invalid input
var validationErrors = []error{
	ErrEmailRequired,
	ErrPasswordRequired,
	ErrPasswordTooShort,
	ErrNameRequired,
	ErrInvalidTime,
	ErrInvalidFrequency,
	ErrInvalidCustomInterval,
	ErrInvalidDate,
	ErrInvalidDateRange,
	ErrTextRequired,
}

// IsValidationError tells if the cause of the given error is an invalid input
func IsValidationError(err error) bool {
	cause := errors.Cause(err)
	for _, e := range validationErrors {
		if cause == e {
			return true
		}
	}

	return false
}
