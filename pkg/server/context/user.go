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

// Package context carries the authenticated user through request contexts
package context

import (
	"context"

	"github.com/medtrack/medtrack/pkg/server/database"
)

const (
	userKey    privateKey = "user"
	sessionKey privateKey = "session"
)

type privateKey string

// WithUser creates a new context with the given user
func WithUser(ctx context.Context, user *database.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// WithSession creates a new context with the session the request was authenticated with
func WithSession(ctx context.Context, session *database.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// User retrieves a user from the given context. It returns a pointer to
// a user. If the context does not contain a user, it returns nil.
func User(ctx context.Context) *database.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*database.User); ok {
			return user
		}
	}

	return nil
}

// Session retrieves the session from the given context, or nil
func Session(ctx context.Context) *database.Session {
	if temp := ctx.Value(sessionKey); temp != nil {
		if s, ok := temp.(*database.Session); ok {
			return s
		}
	}

	return nil
}
