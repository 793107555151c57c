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

package helpers

import (
	"regexp"
	"time"
)

// DateLayout is the layout of calendar dates exchanged with devices
const DateLayout = "2006-01-02"

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidDate tells if s is a calendar date in the YYYY-MM-DD format
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}

	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTimeOfDay tells if s is a 24-hour HH:MM time
func ValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}
