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

package login

import (
	"fmt"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/controllers"
	"github.com/medtrack/medtrack/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestGetServerDisplayURL(t *testing.T) {
	testCases := []struct {
		apiEndpoint string
		expected    string
	}{
		{
			apiEndpoint: "https://medtrack.mydomain.com/api",
			expected:    "https://medtrack.mydomain.com",
		},
		{
			apiEndpoint: "https://mysubdomain.mydomain.com/medtrack/api",
			expected:    "https://mysubdomain.mydomain.com",
		},
		{
			apiEndpoint: "some-string",
			expected:    "",
		},
		{
			apiEndpoint: "",
			expected:    "",
		},
		{
			apiEndpoint: "https://",
			expected:    "",
		},
		{
			apiEndpoint: "https://abc",
			expected:    "https://abc",
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("for input %s", tc.apiEndpoint), func(t *testing.T) {
			got := getServerDisplayURL(context.MedtrackCtx{APIEndpoint: tc.apiEndpoint})
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func setupServer(t *testing.T) (context.MedtrackCtx, app.App) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest(db)
	server := controllers.MustNewServer(t, &a)

	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = server.URL + "/api"

	return ctx, a
}

func TestDo(t *testing.T) {
	ctx, a := setupServer(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	if err := Do(&ctx, "alice@example.com", "pass1234"); err != nil {
		t.Fatal(errors.Wrap(err, "signing in"))
	}

	assert.NotEqual(t, ctx.SessionKey, "", "session key should be set")
	assert.Equal(t, ctx.UserUUID, user.UUID, "user uuid mismatch")

	var key, userUUID string
	database.MustScan(t, "getting the session key",
		ctx.DB.QueryRow("SELECT value FROM system WHERE key = ?", consts.SystemSessionKey), &key)
	database.MustScan(t, "getting the user uuid",
		ctx.DB.QueryRow("SELECT value FROM system WHERE key = ?", consts.SystemUserUUID), &userUUID)
	assert.Equal(t, key, ctx.SessionKey, "stored session key mismatch")
	assert.Equal(t, userUUID, user.UUID, "stored user uuid mismatch")
}

func TestDoInvalidLogin(t *testing.T) {
	ctx, a := setupServer(t)
	testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	err := Do(&ctx, "alice@example.com", "wrong")

	assert.Equal(t, errors.Cause(err), client.ErrInvalidLogin, "error mismatch")
	assert.Equal(t, ctx.SessionKey, "", "session key should not be set")
	assert.Equal(t, database.MustCount(t, ctx.DB, "system", "key = ?", consts.SystemSessionKey), 0, "session should not be stored")
}
