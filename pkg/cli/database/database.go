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

// Package database provides the local SQLite store of the device
package database

import (
	"database/sql"

	// sqlite driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLCommon is the minimal interface required by a db connection
type SQLCommon interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// DB contains information about the current database connection.
// When Tx is set, every statement runs inside that transaction.
type DB struct {
	Conn *sql.DB
	Tx   *sql.Tx
}

// Open initializes a new connection to the sqlite database at the given path
func Open(p string) (*DB, error) {
	conn, err := sql.Open("sqlite3", p)
	if err != nil {
		return nil, errors.Wrap(err, "opening db connection")
	}

	// The store is a single file shared by every component of the process.
	// Statements are executed one at a time on a single connection.
	conn.SetMaxOpenConns(1)

	return &DB{Conn: conn}, nil
}

func (d *DB) common() SQLCommon {
	if d.Tx != nil {
		return d.Tx
	}

	return d.Conn
}

// Begin begins a transaction and returns a handle bound to it
func (d *DB) Begin() (*DB, error) {
	tx, err := d.Conn.Begin()
	if err != nil {
		return nil, err
	}

	return &DB{Conn: d.Conn, Tx: tx}, nil
}

// Commit commits a transaction
func (d *DB) Commit() error {
	if d.Tx == nil {
		return errors.New("not in a transaction")
	}

	return d.Tx.Commit()
}

// Rollback rolls back a transaction
func (d *DB) Rollback() error {
	if d.Tx == nil {
		return errors.New("not in a transaction")
	}

	return d.Tx.Rollback()
}

// Prepare prepares a given query
func (d *DB) Prepare(query string) (*sql.Stmt, error) {
	return d.common().Prepare(query)
}

// Exec executes a sql
func (d *DB) Exec(query string, values ...interface{}) (sql.Result, error) {
	return d.common().Exec(query, values...)
}

// Query queries rows
func (d *DB) Query(query string, values ...interface{}) (*sql.Rows, error) {
	return d.common().Query(query, values...)
}

// QueryRow queries a row
func (d *DB) QueryRow(query string, values ...interface{}) *sql.Row {
	return d.common().QueryRow(query, values...)
}

// Close closes a db connection
func (d *DB) Close() error {
	return d.Conn.Close()
}
