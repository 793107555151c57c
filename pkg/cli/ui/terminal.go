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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/prompt"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

func readLine(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "reading input")
	}

	return strings.Trim(input, "\r\n"), nil
}

// PromptInput prompts the user input and saves the result to the destination
func PromptInput(r io.Reader, message string, dest *string) error {
	log.Askf(message)

	input, err := readLine(r)
	if err != nil {
		return errors.Wrap(err, "getting user input")
	}

	*dest = input

	return nil
}

// PromptPassword prompts the user input a password and saves the result to the destination.
// The input is masked, meaning it is not echoed on the terminal.
func PromptPassword(message string, dest *string) error {
	log.Askf(message)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return errors.Wrap(err, "getting user input")
	}

	fmt.Println("")

	*dest = string(password)

	return nil
}

// Confirm prompts for user input to confirm a choice
func Confirm(r io.Reader, question string, optimistic bool) (bool, error) {
	log.Askf(prompt.FormatQuestion(question, optimistic))

	confirmed, err := prompt.ReadYesNo(r, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "getting user input")
	}

	return confirmed, nil
}

// IsPiped tells if the standard input is not a terminal
func IsPiped() bool {
	fInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return fInfo.Mode()&os.ModeCharDevice == 0
}

// ReadStdInput reads every line from r
func ReadStdInput(r io.Reader) (string, error) {
	var lines []string

	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return "", errors.Wrap(err, "reading pipe")
	}

	return strings.Join(lines, "\n"), nil
}
