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

// Package prompt reads yes/no answers for the confirmations of the medtrack
// commands
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FormatQuestion appends the choices to a yes/no question. The capitalized
// choice is the answer assumed on an empty input.
func FormatQuestion(question string, optimistic bool) string {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	return fmt.Sprintf("%s %s", question, choices)
}

// ReadYesNo reads one answer from r. "y" and "yes" confirm in any case. An
// empty answer, including a closed input, confirms only when optimistic.
func ReadYesNo(r io.Reader, optimistic bool) (bool, error) {
	reader := bufio.NewReader(r)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	case "":
		return optimistic, nil
	}

	return false, nil
}
