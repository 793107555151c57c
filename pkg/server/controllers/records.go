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
)

// NewRecords creates a new Records controller.
func NewRecords(app *app.App) *Records {
	return &Records{app: app}
}

// Records is a controller for the daily record documents
type Records struct {
	app *app.App
}

// CreateRecordPayload is the payload for creating a record
type CreateRecordPayload struct {
	Text           string `json:"text"`
	LocalTimestamp string `json:"local_timestamp"`
	Origin         string `json:"origin"`
}

// RecordResp is the response carrying a record
type RecordResp struct {
	Record presenters.Record `json:"record"`
}

// RecordsResp is the response carrying the records of a user
type RecordsResp struct {
	Records []presenters.Record `json:"records"`
}

// Create handles POST /users/{userUUID}/records
func (rc *Records) Create(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	var params CreateRecordPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	record, err := rc.app.CreateRecord(user, params.Text, params.LocalTimestamp, params.Origin)
	if err != nil {
		handleJSONError(w, err, "creating record")
		return
	}

	respondJSON(w, http.StatusCreated, RecordResp{Record: presenters.PresentRecord(record)})
}

// Index handles GET /users/{userUUID}/records
func (rc *Records) Index(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	records, err := rc.app.GetRecords(user)
	if err != nil {
		handleJSONError(w, err, "getting records")
		return
	}

	respondJSON(w, http.StatusOK, RecordsResp{Records: presenters.PresentRecords(records)})
}

// Delete handles DELETE /users/{userUUID}/records/{recordUUID}
func (rc *Records) Delete(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	record, err := rc.app.DeleteRecord(user, mux.Vars(r)["recordUUID"])
	if err != nil {
		handleJSONError(w, err, "deleting record")
		return
	}

	respondJSON(w, http.StatusOK, RecordResp{Record: presenters.PresentRecord(record)})
}
