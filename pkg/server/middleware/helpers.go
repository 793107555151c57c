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

// Package middleware provides the HTTP middlewares of the medtrack server
package middleware

import (
	"net/http"
	"strings"

	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/log"
	"github.com/pkg/errors"
)

// Middleware is a middleware for request handlers
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// sessionCookieName is the name of the cookie carrying the session key
const sessionCookieName = "id"

var errMalformedAuth = errors.New("invalid authorization header")

func getSessionKeyFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(sessionCookieName)

	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", errors.Wrap(err, "reading session cookie")
	}

	return c.Value, nil
}

func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	payload, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return "", errMalformedAuth
	}

	return payload, nil
}

// GetCredential extracts a session key from the request from the request header or
// the cookie, in that order
func GetCredential(r *http.Request) (string, error) {
	sessionKey, err := getSessionKeyFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from Authorization header")
	}

	if sessionKey == "" {
		sessionKey, err = getSessionKeyFromCookie(r)
		if err != nil {
			return "", errors.Wrap(err, "getting session key from cookie")
		}
	}

	return sessionKey, nil
}

// DoError logs the error and responds with the given status code and a
// generic message
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = errors.Wrap(err, msg).Error()
	}

	if statusCode >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).Error(message)
	}

	http.Error(w, http.StatusText(statusCode), statusCode)
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="Medtrack", charset="UTF-8"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// RespondForbidden responds with forbidden
func RespondForbidden(w http.ResponseWriter) {
	http.Error(w, "forbidden", http.StatusForbidden)
}

// RespondNotFound responds with not found
func RespondNotFound(w http.ResponseWriter) {
	http.Error(w, "not found", http.StatusNotFound)
}

// NotSupported is the handler for the route that is no longer supported
func NotSupported(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "API version is not supported. Please upgrade your client.", http.StatusGone)
}
