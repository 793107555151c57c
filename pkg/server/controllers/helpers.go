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
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/context"
	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/medtrack/medtrack/pkg/server/log"
	"github.com/medtrack/medtrack/pkg/server/middleware"
	"github.com/pkg/errors"
)

// errBadRequest is an error for a payload or a query that cannot be decoded
var errBadRequest = errors.New("Malformed request")

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// parseRequestData decodes the JSON body of the request into dst
func parseRequestData(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errBadRequest
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}

	return nil
}

// parseQuery decodes the URL query of the request into dst
func parseQuery(r *http.Request, dst interface{}) error {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}

	return nil
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// getStatusCode maps an application error to a response status code
func getStatusCode(err error) int {
	cause := errors.Cause(err)

	switch {
	case cause == errBadRequest, app.IsValidationError(cause):
		return http.StatusBadRequest
	case cause == app.ErrLoginInvalid:
		return http.StatusUnauthorized
	case cause == app.ErrNotFound:
		return http.StatusNotFound
	case cause == app.ErrDuplicateEmail:
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// handleJSONError responds with the status code and the message for the
// given error. Unexpected errors are logged and hidden from the client.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := getStatusCode(err)
	if statusCode == http.StatusInternalServerError {
		middleware.DoError(w, msg, err, statusCode)
		return
	}

	http.Error(w, errors.Cause(err).Error(), statusCode)
}

// mustUser returns the authenticated user of the request. The route must be
// wrapped by the authentication middleware.
func mustUser(r *http.Request) database.User {
	user := context.User(r.Context())
	if user == nil {
		panic("request is not authenticated")
	}

	return *user
}

func setSessionCookie(w http.ResponseWriter, key string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "id",
		Value:    key,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
	})
}

func unsetSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "id",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
	})
}
