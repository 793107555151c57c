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

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/bridge"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
)

func TestOutcome(t *testing.T) {
	testCases := []struct {
		name     string
		result   bridge.Result
		expected string
	}{
		{
			name:     "synced",
			result:   bridge.Result{Status: bridge.Synced, LocalID: 1, RemoteID: "r1"},
			expected: "saved and synced",
		},
		{
			name:     "nothing to mirror",
			result:   bridge.Result{Status: bridge.LocalOnly, LocalID: 1},
			expected: "saved locally, not synced",
		},
		{
			name:     "remote failure",
			result:   bridge.Result{Status: bridge.LocalOnly, LocalID: 1, RemoteErr: errors.New("creating the note remotely: 500")},
			expected: "saved locally, not synced: creating the note remotely: 500",
		},
		{
			name:     "auth failure",
			result:   bridge.Result{Status: bridge.LocalOnly, LocalID: 1, RemoteErr: errors.Wrap(bridge.ErrAuth, "connection refused")},
			expected: "saved locally, not synced: could not sign in to the server",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			restore := log.SetOutput(&buf)
			defer restore()

			Outcome("saved", tc.result)

			assert.Equal(t, strings.Contains(buf.String(), tc.expected), true, "output mismatch: "+buf.String())
		})
	}
}

func TestFrequency(t *testing.T) {
	assert.Equal(t, Frequency(database.Medication{Frequency: database.FrequencyDaily}), "daily", "daily mismatch")
	assert.Equal(t, Frequency(database.Medication{Frequency: database.FrequencyCustom, CustomIntervalHours: 6}), "every 6h", "custom mismatch")
}

func TestMedicationInfo(t *testing.T) {
	var buf bytes.Buffer

	MedicationInfo(&buf, database.Medication{
		ID:            3,
		Name:          "Aspirin",
		Dosage:        "100mg",
		Frequency:     database.FrequencyEvery12,
		FirstDoseTime: "08:00",
		StartDate:     "2025-03-10",
		AlertHandles:  []string{"a", "b"},
	})

	got := buf.String()
	assert.Equal(t, strings.Contains(got, "medication id: 3"), true, "id mismatch")
	assert.Equal(t, strings.Contains(got, "dosage: 100mg"), true, "dosage mismatch")
	assert.Equal(t, strings.Contains(got, "every12 from 08:00, starting 2025-03-10"), true, "schedule mismatch")
	assert.Equal(t, strings.Contains(got, "alerts armed: 2"), true, "alerts mismatch")
}
