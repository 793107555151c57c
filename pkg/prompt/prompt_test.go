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

package prompt

import (
	"strings"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	testCases := []struct {
		question   string
		optimistic bool
		expected   string
	}{
		{
			question:   "Remove medication Ibuprofen?",
			optimistic: false,
			expected:   "Remove medication Ibuprofen? (y/N)",
		},
		{
			question:   "Continue?",
			optimistic: true,
			expected:   "Continue? (Y/n)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.question, func(t *testing.T) {
			result := FormatQuestion(tc.question, tc.optimistic)
			assert.Equal(t, result, tc.expected, "formatted question mismatch")
		})
	}
}

func TestReadYesNo(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		optimistic bool
		expected   bool
	}{
		{"y", "y\n", false, true},
		{"uppercase Y", "Y\n", false, true},
		{"yes", "yes\n", false, true},
		{"n", "n\n", false, false},
		{"n when optimistic", "n\n", true, false},
		{"empty", "\n", false, false},
		{"empty when optimistic", "\n", true, true},
		{"closed input", "", false, false},
		{"closed input when optimistic", "", true, true},
		{"no trailing newline", "y", false, true},
		{"surrounding space", "  y  \n", false, true},
		{"other", "maybe\n", true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadYesNo(strings.NewReader(tc.input), tc.optimistic)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}
