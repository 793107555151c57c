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
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/medtrack/medtrack/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverSQLite opens a SQLite database through a pure Go driver
	DriverSQLite = "sqlite"
	// DriverPostgres opens a PostgreSQL database
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is an error for an unsupported database driver
var ErrUnknownDriver = errors.New("unknown database driver")

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&Medication{},
		&Record{},
		&Intake{},
	); err != nil {
		return errors.Wrap(err, "auto-migrating the schema")
	}

	return nil
}

// getDBLogLevel maps the server log level to the gorm log level. Queries are
// only logged at the debug level.
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

func getDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		if !isMemoryDSN(dsn) {
			dir := filepath.Dir(strings.TrimPrefix(dsn, "file:"))
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrapf(err, "creating database directory at %s", dir)
			}
		}

		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	}

	return nil, errors.Wrapf(ErrUnknownDriver, "'%s'", driver)
}

// Open initializes the database connection
func Open(driver, dsn, logLevel string) (*gorm.DB, error) {
	dialector, err := getDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(logLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "getting the connection pool")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Setup opens the database and brings its schema up to date
func Setup(driver, dsn, logLevel string) (*gorm.DB, error) {
	db, err := Open(driver, dsn, logLevel)
	if err != nil {
		return nil, err
	}

	if err := InitSchema(db); err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}
