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

package controllers

import (
	"net/http"

	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/presenters"
)

// NewIntakes creates a new Intakes controller.
func NewIntakes(app *app.App) *Intakes {
	return &Intakes{app: app}
}

// Intakes is a controller for the intake events
type Intakes struct {
	app *app.App
}

// CreateIntakePayload is the payload for appending an intake event
type CreateIntakePayload struct {
	MedicationUUID string `json:"medication_uuid"`
	MedicationName string `json:"medication_name"`
	Date           string `json:"date"`
	ScheduledTime  string `json:"scheduled_time"`
	Taken          bool   `json:"taken"`
	TakenTime      string `json:"taken_time"`
	LocalTimestamp string `json:"local_timestamp"`
	Origin         string `json:"origin"`
}

// IntakeResp is the response carrying an intake event
type IntakeResp struct {
	Intake presenters.Intake `json:"intake"`
}

// IntakesResp is the response carrying the intake events of a user
type IntakesResp struct {
	Intakes []presenters.Intake `json:"intakes"`
}

// intakesQuery is the query of the intake listing
type intakesQuery struct {
	From string `schema:"from"`
	To   string `schema:"to"`
}

// Create handles POST /users/{userUUID}/intakes
func (i *Intakes) Create(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	var params CreateIntakePayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	intake, err := i.app.CreateIntake(user, app.IntakeParams{
		MedicationUUID: params.MedicationUUID,
		MedicationName: params.MedicationName,
		Date:           params.Date,
		ScheduledTime:  params.ScheduledTime,
		Taken:          params.Taken,
		TakenTime:      params.TakenTime,
		LocalTimestamp: params.LocalTimestamp,
		Origin:         params.Origin,
	})
	if err != nil {
		handleJSONError(w, err, "creating intake")
		return
	}

	respondJSON(w, http.StatusCreated, IntakeResp{Intake: presenters.PresentIntake(intake)})
}

// Index handles GET /users/{userUUID}/intakes?from=YYYY-MM-DD&to=YYYY-MM-DD
func (i *Intakes) Index(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	var q intakesQuery
	if err := parseQuery(r, &q); err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	intakes, err := i.app.GetIntakes(user, q.From, q.To)
	if err != nil {
		handleJSONError(w, err, "getting intakes")
		return
	}

	respondJSON(w, http.StatusOK, IntakesResp{Intakes: presenters.PresentIntakes(intakes)})
}
