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

// Package context defines the runtime state shared by medtrack commands
package context

import (
	"net/http"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/clock"
)

// Paths contain directory definitions
type Paths struct {
	Config string
	Data   string
}

// Pushover holds the credentials used to deliver alerts through Pushover
type Pushover struct {
	Token string
	User  string
}

// Enabled tells if alerts should be delivered through Pushover
func (p Pushover) Enabled() bool {
	return p.Token != "" && p.User != ""
}

// SMTP holds the mail server and addresses used to deliver alerts by email
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Enabled tells if alerts should be delivered by email
func (s SMTP) Enabled() bool {
	return s.Host != "" && s.Port != 0 && s.From != "" && s.To != ""
}

// MedtrackCtx is a context holding the information of the current runtime
type MedtrackCtx struct {
	Paths            Paths
	APIEndpoint      string
	Editor           string
	Version          string
	DB               *database.DB
	SessionKey       string
	SessionKeyExpiry int64
	UserUUID         string
	Pushover         Pushover
	SMTP             SMTP
	Clock            clock.Clock
	HTTPClient       *http.Client
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx MedtrackCtx) MedtrackCtx {
	if ctx.SessionKey != "" {
		ctx.SessionKey = "1"
	} else {
		ctx.SessionKey = "0"
	}
	if ctx.Pushover.Token != "" {
		ctx.Pushover.Token = "1"
	}
	if ctx.SMTP.Password != "" {
		ctx.SMTP.Password = "1"
	}

	return ctx
}
