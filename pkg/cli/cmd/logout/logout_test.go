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

package logout

import (
	"bytes"
	"testing"
	"time"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/context"
	cliDatabase "github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/controllers"
	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/medtrack/medtrack/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestDo(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest(db)
	server := controllers.MustNewServer(t, &a)

	user := testutils.SetupAnonymousUser(db)
	session := testutils.SetupSession(db, user, a.Clock.Now().Add(time.Hour))

	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = server.URL + "/api"
	if err := client.SaveSession(&ctx, client.SessionResp{Key: session.Key, ExpiresAt: session.ExpiresAt.Unix(), UserUUID: user.UUID}); err != nil {
		t.Fatal(errors.Wrap(err, "saving the session"))
	}

	if err := Do(&ctx); err != nil {
		t.Fatal(errors.Wrap(err, "logging out"))
	}

	var count int64
	if err := db.Model(&database.Session{}).Where("key = ?", session.Key).Count(&count).Error; err != nil {
		t.Fatal(errors.Wrap(err, "counting sessions"))
	}
	assert.Equal(t, count, int64(0), "session should be deleted on the server")
	assert.Equal(t, ctx.SessionKey, "", "session key should be cleared")
	assert.Equal(t, cliDatabase.MustCount(t, ctx.DB, "system", "key = ?", consts.SystemSessionKey), 0, "session should be forgotten")
}

func TestDoUnreachableServer(t *testing.T) {
	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	defer restore()

	ctx := context.InitTestCtx(t)
	if err := client.SaveSession(&ctx, client.SessionResp{Key: "someKey", UserUUID: "user-1"}); err != nil {
		t.Fatal(errors.Wrap(err, "saving the session"))
	}

	if err := Do(&ctx); err != nil {
		t.Fatal(errors.Wrap(err, "logging out"))
	}

	assert.Equal(t, ctx.SessionKey, "", "session key should be cleared")
	assert.Equal(t, cliDatabase.MustCount(t, ctx.DB, "system", "key = ?", consts.SystemSessionKey), 0, "session should be forgotten")
}

func TestDoNotLoggedIn(t *testing.T) {
	ctx := context.InitTestCtx(t)

	assert.Equal(t, Do(&ctx), ErrNotLoggedIn, "error mismatch")
}
