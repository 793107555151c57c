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
	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/medtrack/medtrack/pkg/server/middleware"
	"github.com/medtrack/medtrack/pkg/server/presenters"
	"github.com/pkg/errors"
)

// NewSessions creates a new Sessions controller.
func NewSessions(app *app.App) *Sessions {
	return &Sessions{app: app}
}

// Sessions is a controller issuing and revoking sessions
type Sessions struct {
	app *app.App
}

// CredentialsPayload is the payload for signing up and signing in
type CredentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func respondWithSession(w http.ResponseWriter, statusCode int, session database.Session, user database.User) {
	setSessionCookie(w, session.Key, session.ExpiresAt)
	respondJSON(w, statusCode, presenters.PresentSession(session, user))
}

// CreateAnonymous handles POST /sessions/anonymous. It creates a user without
// credentials and a session for it.
func (s *Sessions) CreateAnonymous(w http.ResponseWriter, r *http.Request) {
	user, err := s.app.CreateAnonymousUser()
	if err != nil {
		handleJSONError(w, err, "creating anonymous user")
		return
	}

	session, err := s.app.CreateSession(user.ID)
	if err != nil {
		handleJSONError(w, err, "creating session")
		return
	}

	respondWithSession(w, http.StatusCreated, session, user)
}

// Signup handles POST /signup
func (s *Sessions) Signup(w http.ResponseWriter, r *http.Request) {
	var params CredentialsPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := s.app.CreateUser(params.Email, params.Password)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := s.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	respondWithSession(w, http.StatusCreated, *session, user)
}

// Signin handles POST /signin
func (s *Sessions) Signin(w http.ResponseWriter, r *http.Request) {
	var params CredentialsPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := s.app.Authenticate(params.Email, params.Password)
	if err != nil {
		handleJSONError(w, err, "authenticating")
		return
	}

	session, err := s.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	respondWithSession(w, http.StatusOK, *session, *user)
}

// Signout handles POST /signout. Signing out without a session succeeds.
func (s *Sessions) Signout(w http.ResponseWriter, r *http.Request) {
	key, err := middleware.GetCredential(r)
	if err != nil {
		handleJSONError(w, errors.Wrap(errBadRequest, err.Error()), "getting credentials")
		return
	}

	if key != "" {
		if err := s.app.DeleteSession(key); err != nil {
			handleJSONError(w, err, "deleting session")
			return
		}

		unsetSessionCookie(w)
	}

	w.WriteHeader(http.StatusNoContent)
}
