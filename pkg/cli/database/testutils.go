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

package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var defaultSchemaSQL string

// GetDefaultSchemaSQL returns the default schema SQL for tests
func GetDefaultSchemaSQL() string {
	return defaultSchemaSQL
}

// MustScan scans the given row and fails a test in case of any errors
func MustScan(t *testing.T, message string, row *sql.Row, args ...interface{}) {
	err := row.Scan(args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "scanning a row"), message))
	}
}

// MustExec executes the given SQL query and fails a test if an error occurs
func MustExec(t *testing.T, message string, db *DB, query string, args ...interface{}) sql.Result {
	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "executing sql"), message))
	}

	return result
}

// InitTestMemoryDB initializes an in-memory test database with the default schema.
func InitTestMemoryDB(t *testing.T) *DB {
	db := OpenTestMemoryDB(t)

	if _, err := db.Exec(defaultSchemaSQL); err != nil {
		t.Fatal(errors.Wrap(err, "running schema sql"))
	}

	return db
}

// OpenTestMemoryDB opens an empty in-memory test database. Used for migration testing.
func OpenTestMemoryDB(t *testing.T) *DB {
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := Open(dbName)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening in-memory database"))
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustCount returns the number of rows of the given table matching the condition
func MustCount(t *testing.T, db *DB, table, where string, args ...interface{}) int {
	query := "SELECT count(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	MustScan(t, fmt.Sprintf("counting %s", table), db.QueryRow(query, args...), &count)

	return count
}
