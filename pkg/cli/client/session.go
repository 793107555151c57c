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

package client

import (
	"strconv"

	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
)

// HasSession tells if the context holds an unexpired session
func HasSession(ctx context.MedtrackCtx) bool {
	if ctx.SessionKey == "" || ctx.UserUUID == "" {
		return false
	}

	return ctx.SessionKeyExpiry == 0 || ctx.Clock.Now().Unix() < ctx.SessionKeyExpiry
}

// SaveSession persists the session in the local store and sets it on the context
func SaveSession(ctx *context.MedtrackCtx, s SessionResp) error {
	tx, err := ctx.DB.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	kv := map[string]string{
		consts.SystemSessionKey:       s.Key,
		consts.SystemSessionKeyExpiry: strconv.FormatInt(s.ExpiresAt, 10),
		consts.SystemUserUUID:         s.UserUUID,
	}
	for k, v := range kv {
		if err := database.UpsertSystem(tx, k, v); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "saving the session")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	ctx.SessionKey = s.Key
	ctx.SessionKeyExpiry = s.ExpiresAt
	ctx.UserUUID = s.UserUUID

	return nil
}

// ClearSession removes the session from the local store and the context
func ClearSession(ctx *context.MedtrackCtx) error {
	tx, err := ctx.DB.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	for _, k := range []string{consts.SystemSessionKey, consts.SystemSessionKeyExpiry, consts.SystemUserUUID} {
		if err := database.DeleteSystem(tx, k); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "deleting the session")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	ctx.SessionKey = ""
	ctx.SessionKeyExpiry = 0
	ctx.UserUUID = ""

	return nil
}

// EnsureSession makes sure the context holds a usable session, creating an
// anonymous one on demand. The remote user it belongs to scopes every remote
// path and is not guaranteed to survive a reinstall.
func EnsureSession(ctx *context.MedtrackCtx) error {
	if HasSession(*ctx) {
		return nil
	}

	log.Debug("creating an anonymous session\n")

	s, err := CreateAnonymousSession(*ctx)
	if err != nil {
		return err
	}

	return SaveSession(ctx, s)
}
