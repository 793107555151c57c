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

// Package controllers implements the HTTP handlers of the medtrack server
package controllers

import (
	"github.com/medtrack/medtrack/pkg/server/app"
)

// Controllers is a group of controllers
type Controllers struct {
	Sessions    *Sessions
	Medications *Medications
	Records     *Records
	Intakes     *Intakes
	Health      *Health
}

// New returns a new group of controllers
func New(app *app.App) *Controllers {
	c := Controllers{}

	c.Sessions = NewSessions(app)
	c.Medications = NewMedications(app)
	c.Records = NewRecords(app)
	c.Intakes = NewIntakes(app)
	c.Health = NewHealth(app)

	return &c
}
