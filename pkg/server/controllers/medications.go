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

	"github.com/gorilla/mux"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/presenters"
	"github.com/pkg/errors"
)

// NewMedications creates a new Medications controller.
func NewMedications(app *app.App) *Medications {
	return &Medications{app: app}
}

// Medications is a controller for the medication documents
type Medications struct {
	app *app.App
}

// CreateMedicationPayload is the payload for creating a medication document
type CreateMedicationPayload struct {
	Name                string `json:"name"`
	Dosage              string `json:"dosage"`
	Notes               string `json:"notes"`
	FirstDoseTime       string `json:"first_dose_time"`
	Frequency           string `json:"frequency"`
	CustomIntervalHours *int   `json:"custom_interval_hours"`
	Active              bool   `json:"active"`
	StartDate           string `json:"start_date"`
	LocalTimestamp      string `json:"local_timestamp"`
	Origin              string `json:"origin"`
}

// MedicationResp is the response carrying a medication document
type MedicationResp struct {
	Medication presenters.Medication `json:"medication"`
}

// MedicationsResp is the response carrying the medication documents of a user
type MedicationsResp struct {
	Medications []presenters.Medication `json:"medications"`
}

// Create handles POST /users/{userUUID}/medications
func (m *Medications) Create(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	var params CreateMedicationPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	med, err := m.app.CreateMedication(user, app.MedicationParams{
		Name:                params.Name,
		Dosage:              params.Dosage,
		Notes:               params.Notes,
		FirstDoseTime:       params.FirstDoseTime,
		Frequency:           params.Frequency,
		CustomIntervalHours: params.CustomIntervalHours,
		Active:              params.Active,
		StartDate:           params.StartDate,
		LocalTimestamp:      params.LocalTimestamp,
		Origin:              params.Origin,
	})
	if err != nil {
		handleJSONError(w, err, "creating medication")
		return
	}

	respondJSON(w, http.StatusCreated, MedicationResp{Medication: presenters.PresentMedication(med)})
}

// Index handles GET /users/{userUUID}/medications
func (m *Medications) Index(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	meds, err := m.app.GetMedications(user)
	if err != nil {
		handleJSONError(w, err, "getting medications")
		return
	}

	respondJSON(w, http.StatusOK, MedicationsResp{Medications: presenters.PresentMedications(meds)})
}

// UpdateMedicationPayload is the payload for updating a medication document
type UpdateMedicationPayload struct {
	Active         *bool  `json:"active"`
	LocalTimestamp string `json:"local_timestamp"`
}

// Update handles PATCH /users/{userUUID}/medications/{medicationUUID}. Only
// the active flag can be changed.
func (m *Medications) Update(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	uuid := mux.Vars(r)["medicationUUID"]

	var params UpdateMedicationPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if params.Active == nil {
		handleJSONError(w, errors.Wrap(errBadRequest, "active is required"), "validating payload")
		return
	}

	med, err := m.app.UpdateMedicationStatus(user, uuid, *params.Active, params.LocalTimestamp)
	if err != nil {
		handleJSONError(w, err, "updating medication")
		return
	}

	respondJSON(w, http.StatusOK, MedicationResp{Medication: presenters.PresentMedication(med)})
}

// Delete handles DELETE /users/{userUUID}/medications/{medicationUUID}
func (m *Medications) Delete(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	uuid := mux.Vars(r)["medicationUUID"]

	med, err := m.app.DeleteMedication(user, uuid)
	if err != nil {
		handleJSONError(w, err, "deleting medication")
		return
	}

	respondJSON(w, http.StatusOK, MedicationResp{Medication: presenters.PresentMedication(med)})
}
