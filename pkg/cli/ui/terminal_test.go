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

package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/log"
)

func TestPromptInput(t *testing.T) {
	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	defer restore()

	var got string
	if err := PromptInput(strings.NewReader("alice@example.com\r\n"), "email", &got); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, got, "alice@example.com", "input mismatch")
	assert.Equal(t, strings.Contains(buf.String(), "email"), true, "prompt should be printed")
}

func TestConfirm(t *testing.T) {
	testCases := []struct {
		input      string
		optimistic bool
		expected   bool
	}{
		{input: "y\n", optimistic: false, expected: true},
		{input: "n\n", optimistic: true, expected: false},
		{input: "\n", optimistic: true, expected: true},
		{input: "\n", optimistic: false, expected: false},
		{input: "", optimistic: false, expected: false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q optimistic %t", tc.input, tc.optimistic), func(t *testing.T) {
			var buf bytes.Buffer
			restore := log.SetOutput(&buf)
			defer restore()

			got, err := Confirm(strings.NewReader(tc.input), "remove?", tc.optimistic)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestReadStdInput(t *testing.T) {
	got, err := ReadStdInput(strings.NewReader("slept well\nno side effects\n"))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, got, "slept well\nno side effects", "content mismatch")
}
