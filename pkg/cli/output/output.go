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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"io"

	"github.com/medtrack/medtrack/pkg/cli/bridge"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
)

// Outcome prints the result of a write. verb is the past participle of the
// local action, such as "saved" or "deleted".
func Outcome(verb string, r bridge.Result) {
	switch {
	case r.Status == bridge.Synced:
		log.Successf("%s and synced\n", verb)
	case r.RemoteErr != nil && bridge.IsAuthError(r.RemoteErr):
		log.Warnf("%s locally, not synced: could not sign in to the server\n", verb)
	case r.RemoteErr != nil:
		log.Warnf("%s locally, not synced: %s\n", verb, r.RemoteErr.Error())
	default:
		log.Successf("%s locally, not synced\n", verb)
	}
}

// Frequency formats the frequency of a medication
func Frequency(m database.Medication) string {
	if m.Frequency == database.FrequencyCustom {
		return fmt.Sprintf("every %dh", m.CustomIntervalHours)
	}

	return string(m.Frequency)
}

// MedicationInfo prints the details of a medication
func MedicationInfo(w io.Writer, m database.Medication) {
	fmt.Fprintf(w, "  medication id: %d\n", m.ID)
	fmt.Fprintf(w, "  name: %s\n", m.Name)
	if m.Dosage != "" {
		fmt.Fprintf(w, "  dosage: %s\n", m.Dosage)
	}
	fmt.Fprintf(w, "  schedule: %s from %s, starting %s\n", Frequency(m), m.FirstDoseTime, m.StartDate)
	fmt.Fprintf(w, "  alerts armed: %d\n", len(m.AlertHandles))
}
