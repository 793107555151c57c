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

// Package assert provides functions to assert a condition in tests
package assert

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func getErrorMessage(m string, a, b interface{}) string {
	return fmt.Sprintf(`%s.
Actual:
========================
%+v
========================

Expected:
========================
%+v
========================

%s`, m, a, b, string(debug.Stack()))
}

func checkEqual(a, b interface{}, message string) (bool, string) {
	if a == b {
		return true, ""
	}

	var m string
	if len(message) == 0 {
		m = fmt.Sprintf("%v != %v", a, b)
	} else {
		m = message
	}
	errorMessage := getErrorMessage(m, a, b)

	return false, errorMessage
}

// Equal errors a test if the actual does not match the expected
func Equal(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	ok, m := checkEqual(a, b, message)
	if !ok {
		t.Error(m)
	}
}

// Equalf fails a test if the actual does not match the expected
func Equalf(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	ok, m := checkEqual(a, b, message)
	if !ok {
		t.Fatal(m)
	}
}

// NotEqual fails a test if the actual matches the expected
func NotEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	ok, m := checkEqual(a, b, message)
	if ok {
		t.Error(m)
	}
}

// DeepEqual fails a test if the actual does not deeply equal the expected
func DeepEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("%s (-got +want):\n%s", message, diff)
	}
}

// ErrorIs fails a test unless the cause of the given error is the target
func ErrorIs(t *testing.T, err, target error, message string) {
	t.Helper()

	if errors.Cause(err) != target {
		t.Errorf("%s: got error %v, want %v", message, err, target)
	}
}

// EqualJSON asserts that two JSON strings are equal
func EqualJSON(t *testing.T, a, b, message string) {
	t.Helper()

	var o1 interface{}
	var o2 interface{}

	if err := json.Unmarshal([]byte(a), &o1); err != nil {
		t.Fatal(errors.Wrapf(err, "unmarshalling %s", message))
	}
	if err := json.Unmarshal([]byte(b), &o2); err != nil {
		t.Fatal(errors.Wrapf(err, "unmarshalling %s", message))
	}

	DeepEqual(t, o1, o2, message)
}

// StatusCodeEquals asserts that the response status code equals the expected
// and prints the response body on failure.
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode != expected {
		body, err := io.ReadAll(res.Body)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reading body"))
		}

		t.Errorf("status code mismatch. %s: got %d want %d. body: %s", message, res.StatusCode, expected, strings.TrimSpace(string(body)))
	}
}
