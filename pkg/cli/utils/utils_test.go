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

package utils

import (
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
)

func TestParseID(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{input: "1", expected: 1, ok: true},
		{input: "42", expected: 42, ok: true},
		{input: "", ok: false},
		{input: "-3", ok: false},
		{input: "4a", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseID(tc.input)

			assert.Equal(t, err == nil, tc.ok, "error mismatch")
			assert.Equal(t, got, tc.expected, "id mismatch")
		})
	}
}

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateUUID()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(a), 36, "uuid length mismatch")
	assert.NotEqual(t, a, b, "uuids should differ")
}
