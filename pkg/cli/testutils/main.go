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

// Package testutils provides utilities used in tests that run the medtrack binary
package testutils

import (
	"bufio"
	"bytes"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/pkg/errors"
)

// Prompts for user input
const (
	PromptRemoveMedication = "every dose of it?"
	PromptRemoveNote       = "remove the note"
)

// Timeout for waiting for prompts in tests
const promptTimeout = 10 * time.Second

// RunMedtrackCmdOptions is an option for RunMedtrackCmd
type RunMedtrackCmdOptions struct {
	Env []string
}

// NewMedtrackCmd returns a new medtrack command along with its stderr and stdout
func NewMedtrackCmd(opts RunMedtrackCmdOptions, binaryName string, arg ...string) (*exec.Cmd, *bytes.Buffer, *bytes.Buffer, error) {
	var stderr, stdout bytes.Buffer

	binaryPath, err := filepath.Abs(binaryName)
	if err != nil {
		return &exec.Cmd{}, &stderr, &stdout, errors.Wrap(err, "getting the absolute path to the test binary")
	}

	cmd := exec.Command(binaryPath, arg...)
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout
	cmd.Env = opts.Env

	return cmd, &stderr, &stdout, nil
}

// RunMedtrackCmd runs a medtrack command and returns its stdout
func RunMedtrackCmd(t *testing.T, opts RunMedtrackCmdOptions, binaryName string, arg ...string) string {
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	cmd, stderr, stdout, err := NewMedtrackCmd(opts, binaryName, arg...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting command").Error())
	}

	if err := cmd.Run(); err != nil {
		t.Logf("\n%s", stdout)
		t.Fatal(errors.Wrapf(err, "running command %s", stderr.String()))
	}

	// Print stdout if and only if test fails later
	t.Logf("\n%s", stdout)

	return stdout.String()
}

// WaitMedtrackCmd runs a medtrack command and hands its stdout and stdin to the callback
func WaitMedtrackCmd(t *testing.T, opts RunMedtrackCmdOptions, runFunc func(io.Reader, io.WriteCloser) error, binaryName string, arg ...string) (string, error) {
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	binaryPath, err := filepath.Abs(binaryName)
	if err != nil {
		return "", errors.Wrap(err, "getting absolute path to test binary")
	}

	cmd := exec.Command(binaryPath, arg...)
	cmd.Env = opts.Env

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", errors.Wrap(err, "getting stdout pipe")
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", errors.Wrap(err, "getting stdin")
	}
	defer stdin.Close()

	if err = cmd.Start(); err != nil {
		return "", errors.Wrap(err, "starting command")
	}

	var output bytes.Buffer
	tee := io.TeeReader(stdout, &output)

	if err := runFunc(tee, stdin); err != nil {
		t.Logf("\n%s", output.String())
		return output.String(), errors.Wrap(err, "running callback")
	}

	io.Copy(&output, stdout)

	if err := cmd.Wait(); err != nil {
		t.Logf("\n%s", output.String())
		return output.String(), errors.Wrapf(err, "command failed: %s", stderr.String())
	}

	t.Logf("\n%s", output.String())
	return output.String(), nil
}

// MustWaitMedtrackCmd runs WaitMedtrackCmd and fails the test on error
func MustWaitMedtrackCmd(t *testing.T, opts RunMedtrackCmdOptions, runFunc func(io.Reader, io.WriteCloser) error, binaryName string, arg ...string) string {
	output, err := WaitMedtrackCmd(t, opts, runFunc, binaryName, arg...)
	if err != nil {
		t.Fatal(err)
	}

	return output
}

// waitForPrompt reads stdout byte by byte until the expected prompt
// appears, so that prompts without a trailing newline are found too.
func waitForPrompt(stdout io.Reader, expectedPrompt string, timeout time.Duration) error {
	type result struct {
		found bool
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		reader := bufio.NewReader(stdout)
		var buffer strings.Builder

		for {
			b, err := reader.ReadByte()
			if err != nil {
				resultCh <- result{err: err}
				return
			}

			buffer.WriteByte(b)
			if strings.Contains(buffer.String(), expectedPrompt) {
				resultCh <- result{found: true}
				return
			}
		}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil && res.err != io.EOF {
			return errors.Wrap(res.err, "reading stdout")
		}
		if !res.found {
			return errors.Errorf("expected prompt '%s' not found in stdout", expectedPrompt)
		}
		return nil
	case <-time.After(timeout):
		return errors.Errorf("timeout waiting for prompt '%s'", expectedPrompt)
	}
}

func respondToPrompt(stdout io.Reader, stdin io.WriteCloser, expectedPrompt, response string) error {
	if err := waitForPrompt(stdout, expectedPrompt, promptTimeout); err != nil {
		return err
	}

	if _, err := io.WriteString(stdin, response); err != nil {
		return errors.Wrapf(err, "answering '%s'", expectedPrompt)
	}

	return nil
}

// ConfirmRemoveMedication waits for the prompt for removing a medication and confirms
func ConfirmRemoveMedication(stdout io.Reader, stdin io.WriteCloser) error {
	return respondToPrompt(stdout, stdin, PromptRemoveMedication, "y\n")
}

// CancelRemoveMedication waits for the prompt for removing a medication and declines
func CancelRemoveMedication(stdout io.Reader, stdin io.WriteCloser) error {
	return respondToPrompt(stdout, stdin, PromptRemoveMedication, "n\n")
}

// ConfirmRemoveNote waits for the prompt for removing a note and confirms
func ConfirmRemoveNote(stdout io.Reader, stdin io.WriteCloser) error {
	return respondToPrompt(stdout, stdin, PromptRemoveNote, "y\n")
}

// PipeContent writes the given content to stdin and closes it, as a shell pipe would
func PipeContent(content string) func(io.Reader, io.WriteCloser) error {
	return func(stdout io.Reader, stdin io.WriteCloser) error {
		if _, err := io.WriteString(stdin, content); err != nil {
			return errors.Wrap(err, "writing to stdin")
		}

		// the reader waits for EOF
		return stdin.Close()
	}
}

// MustOpenDatabase opens the database at the given path and fails the test on error
func MustOpenDatabase(t *testing.T, dbPath string) *database.DB {
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}
	t.Cleanup(func() { db.Close() })

	return db
}
