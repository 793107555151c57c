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

// Package app implements the operations of the medtrack remote store
package app

import (
	"time"

	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DefaultSessionTTL is the lifetime of a session unless configured otherwise
const DefaultSessionTTL = 100 * 24 * time.Hour

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrInvalidSessionTTL is an error for a non-positive session lifetime
	ErrInvalidSessionTTL = errors.New("Session lifetime must be positive")
)

// App is an application context
type App struct {
	DB               *gorm.DB
	Clock            clock.Clock
	SessionTTL       time.Duration
	DisableRateLimit bool
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}

	return nil
}
