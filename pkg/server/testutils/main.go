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

// Package testutils provides utilities used in the server tests
package testutils

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/medtrack/medtrack/pkg/server/crypt"
	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/medtrack/medtrack/pkg/server/helpers"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	// a unique name per test keeps the shared cache from leaking between tests
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", MustUUID(t))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting the connection pool"))
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.InitSchema(db); err != nil {
		t.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// SetupUserData creates and returns a new user with email and password for testing purposes
func SetupUserData(db *gorm.DB, email, password string) database.User {
	uuid, err := helpers.GenUUID()
	if err != nil {
		panic(errors.Wrap(err, "Failed to generate UUID"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(errors.Wrap(err, "Failed to hash password"))
	}

	user := database.User{
		UUID:     uuid,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
	}

	if err := db.Save(&user).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare user"))
	}

	return user
}

// SetupAnonymousUser creates and returns a new user without credentials
func SetupAnonymousUser(db *gorm.DB) database.User {
	uuid, err := helpers.GenUUID()
	if err != nil {
		panic(errors.Wrap(err, "Failed to generate UUID"))
	}

	user := database.User{UUID: uuid, Anonymous: true}
	if err := db.Save(&user).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare user"))
	}

	return user
}

// SetupSession creates and returns a new session for the user, expiring at the given time
func SetupSession(db *gorm.DB, user database.User, expiresAt time.Time) database.Session {
	key, err := crypt.GetRandomStr(32)
	if err != nil {
		panic(errors.Wrap(err, "generating key"))
	}

	session := database.Session{
		Key:       key,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := db.Save(&session).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare session"))
	}

	return session
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}
	t.Cleanup(func() { res.Body.Close() })

	return res
}

// SetReqAuthHeader sets the authorization header in the given request for the given user
func SetReqAuthHeader(t *testing.T, db *gorm.DB, req *http.Request, user database.User) {
	session := SetupSession(db, user, time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC))

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Key))
}

// HTTPAuthDo makes an HTTP request with an appropriate authorization header for the user
func HTTPAuthDo(t *testing.T, db *gorm.DB, req *http.Request, user database.User) *http.Response {
	SetReqAuthHeader(t, db, req, user)

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}
