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
	"io"
	"net/http"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/testutils"
)

func TestNewRouterValidatesApp(t *testing.T) {
	a := app.App{}
	_, err := NewRouter(&a, RouteConfig{})

	assert.NotEqual(t, err, nil, "expected an error for an invalid app")
}

func TestHealth(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest(db)
	server := MustNewServer(t, &a)

	req := testutils.MakeReq(server.URL, "GET", "/health", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, string(body), "ok", "body mismatch")
}

func TestUnknownRoutes(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	testCases := []struct {
		method   string
		path     string
		expected int
	}{
		{"GET", "/api/v1/foo", http.StatusNotFound},
		{"GET", "/api/v2/users/" + user.UUID + "/records", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, tc.method, tc.path, "")
			res := testutils.HTTPAuthDo(t, db, req, user)

			assert.StatusCodeEquals(t, res, tc.expected, "")
		})
	}
}

func TestScopedRoutesRequireAuth(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/medications"},
		{"POST", "/medications"},
		{"PATCH", "/medications/some-uuid"},
		{"DELETE", "/medications/some-uuid"},
		{"GET", "/records"},
		{"POST", "/records"},
		{"DELETE", "/records/some-uuid"},
		{"GET", "/intakes"},
		{"POST", "/intakes"},
	}

	for _, p := range paths {
		endpoint := "/api/v1/users/" + alice.UUID + p.path

		t.Run(p.method+" "+p.path+" unauthenticated", func(t *testing.T) {
			req := testutils.MakeReq(server.URL, p.method, endpoint, "{}")
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")
		})

		t.Run(p.method+" "+p.path+" other user", func(t *testing.T) {
			req := testutils.MakeReq(server.URL, p.method, endpoint, "{}")
			res := testutils.HTTPAuthDo(t, db, req, bob)

			assert.StatusCodeEquals(t, res, http.StatusForbidden, "")
		})
	}
}
