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

package middleware

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/context"
	"github.com/medtrack/medtrack/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// AuthWithSession performs user authentication with session. Sessions expire
// according to the clock of the app.
func AuthWithSession(a *app.App, r *http.Request) (database.User, database.Session, bool, error) {
	var user database.User
	var session database.Session

	sessionKey, err := GetCredential(r)
	if err != nil {
		return user, session, false, pkgErrors.Wrap(err, "getting credential")
	}
	if sessionKey == "" {
		return user, session, false, nil
	}

	err = a.DB.Where("key = ?", sessionKey).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, session, false, nil
	} else if err != nil {
		return user, session, false, pkgErrors.Wrap(err, "finding session")
	}

	if !session.ExpiresAt.After(a.Clock.Now()) {
		return user, session, false, nil
	}

	err = a.DB.Where("id = ?", session.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, session, false, nil
	} else if err != nil {
		return user, session, false, pkgErrors.Wrap(err, "finding user from session")
	}

	return user, session, true, nil
}

// Auth is an authentication middleware
func Auth(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, session, ok, err := AuthWithSession(a, r)
		if err != nil {
			// a malformed header is treated as a missing credential
			if errors.Is(err, errMalformedAuth) {
				RespondUnauthorized(w)
				return
			}

			DoError(w, "authenticating with session", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		ctx = context.WithSession(ctx, &session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserScope restricts the handler to the user named by the userUUID path
// variable. It must be wrapped by Auth.
func UserScope(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := context.User(r.Context())
		if user == nil {
			RespondUnauthorized(w)
			return
		}

		if mux.Vars(r)["userUUID"] != user.UUID {
			RespondForbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
