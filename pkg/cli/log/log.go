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

// Package log prints colored messages to the terminal
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

const (
	debugEnvName  = "MEDTRACK_DEBUG"
	debugEnvValue = "1"
)

var (
	// ColorRed is a red foreground color
	ColorRed = color.New(color.FgRed)
	// ColorGreen is a green foreground color
	ColorGreen = color.New(color.FgGreen)
	// ColorYellow is a yellow foreground color
	ColorYellow = color.New(color.FgYellow)
	// ColorBlue is a blue foreground color
	ColorBlue = color.New(color.FgBlue)
	// ColorGray is a gray foreground color
	ColorGray = color.New(color.FgHiBlack)
)

var indent = "  "

var out io.Writer = color.Output

// SetOutput redirects all messages to the given writer and returns a
// function restoring the previous one
func SetOutput(w io.Writer) func() {
	prev := out
	out = w

	return func() {
		out = prev
	}
}

func emit(symbol, msg string) {
	fmt.Fprintf(out, "%s%s %s", indent, symbol, msg)
}

// Info prints information
func Info(msg string) {
	emit(ColorBlue.Sprint("•"), msg)
}

// Infof prints information with optional format verbs
func Infof(msg string, v ...interface{}) {
	emit(ColorBlue.Sprint("•"), fmt.Sprintf(msg, v...))
}

// Success prints a success message
func Success(msg string) {
	emit(ColorGreen.Sprint("✔"), msg)
}

// Successf prints a success message with optional format verbs
func Successf(msg string, v ...interface{}) {
	emit(ColorGreen.Sprint("✔"), fmt.Sprintf(msg, v...))
}

// Plainf prints a plain message without any prefix symbol. It takes optional format verbs.
func Plainf(msg string, v ...interface{}) {
	fmt.Fprintf(out, "%s%s", indent, fmt.Sprintf(msg, v...))
}

// Warnf prints a warning message with optional format verbs
func Warnf(msg string, v ...interface{}) {
	emit(ColorYellow.Sprint("!"), fmt.Sprintf(msg, v...))
}

// Error prints an error message
func Error(msg string) {
	emit(ColorRed.Sprint("⨯"), msg)
}

// Errorf prints an error message with optional format verbs
func Errorf(msg string, v ...interface{}) {
	emit(ColorRed.Sprint("⨯"), fmt.Sprintf(msg, v...))
}

// Askf prints a question with optional format verbs
func Askf(msg string, v ...interface{}) {
	fmt.Fprintf(out, "%s%s %s: ", indent, ColorGreen.Sprint("[?]"), fmt.Sprintf(msg, v...))
}

// Alertf prints a delivered medication alert
func Alertf(title, body string) {
	fmt.Fprintf(out, "%s%s %s\n%s%s\n", indent, ColorYellow.Sprint("⏰"), ColorYellow.Sprint(title), indent+indent, body)
}

// isDebug returns true if debug mode is enabled
func isDebug() bool {
	return os.Getenv(debugEnvName) == debugEnvValue
}

// Debug prints to the console if MEDTRACK_DEBUG is set
func Debug(msg string, v ...interface{}) {
	if isDebug() {
		fmt.Fprintf(out, "%s %s", ColorGray.Sprint("DEBUG:"), fmt.Sprintf(msg, v...))
	}
}
