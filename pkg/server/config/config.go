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

// Package config resolves the medtrack server configuration from flags,
// the environment and an optional .env file
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/medtrack/medtrack/pkg/dirs"
	"github.com/medtrack/medtrack/pkg/server/log"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// AppEnvTest represents an app environment for tests
	AppEnvTest string = "TEST"
	// DriverSQLite is the database driver for a SQLite file
	DriverSQLite = "sqlite"
	// DriverPostgres is the database driver for a PostgreSQL server
	DriverPostgres = "postgres"
	// DefaultDBDir is the default directory name for medtrack data
	DefaultDBDir = "medtrack"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultSessionDays is the default lifetime of a session in days
	DefaultSessionDays = 100
)

var (
	// ErrDBMissingDSN is an error for an incomplete configuration missing the database DSN
	ErrDBMissingDSN = errors.New("DB DSN is empty")
	// ErrDBDriverInvalid is an error for an unsupported database driver
	ErrDBDriverInvalid = errors.New("Invalid DB driver")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrSessionDaysInvalid is an error for a non-positive session lifetime
	ErrSessionDaysInvalid = errors.New("Invalid session lifetime")
)

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// LoadEnv loads environment variables from the given .env file, if it
// exists. Variables already set in the environment take precedence.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	return nil
}

// DefaultDSN returns the path of the SQLite database in the user data directory
func DefaultDSN() string {
	d, err := dirs.Current()
	if err != nil {
		return DefaultDBFilename
	}

	return filepath.Join(d.Data, DefaultDBDir, DefaultDBFilename)
}

// Config is an application configuration
type Config struct {
	AppEnv      string
	Port        string
	DBDriver    string
	DBDSN       string
	LogLevel    string
	SessionDays int
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv      string
	Port        string
	DBDriver    string
	DBDSN       string
	LogLevel    string
	SessionDays int
}

// New constructs and returns a new validated config.
// Empty params fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:      getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:        getOrEnv(p.Port, "PORT", "3001"),
		DBDriver:    getOrEnv(p.DBDriver, "DB_DRIVER", DriverSQLite),
		DBDSN:       getOrEnv(p.DBDSN, "DB_DSN", ""),
		LogLevel:    getOrEnv(p.LogLevel, "LOG_LEVEL", log.LevelInfo),
		SessionDays: p.SessionDays,
	}

	if c.DBDSN == "" && c.DBDriver == DriverSQLite {
		c.DBDSN = DefaultDSN()
	}

	if c.SessionDays == 0 {
		days, err := strconv.Atoi(getOrEnv("", "SESSION_DAYS", strconv.Itoa(DefaultSessionDays)))
		if err != nil {
			return Config{}, errors.Wrap(ErrSessionDaysInvalid, err.Error())
		}
		c.SessionDays = days
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validate(c Config) error {
	if c.Port == "" {
		return ErrPortInvalid
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.Wrapf(ErrPortInvalid, "'%s'", c.Port)
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		return errors.Wrapf(ErrDBDriverInvalid, "'%s'", c.DBDriver)
	}
	if c.DBDSN == "" {
		return ErrDBMissingDSN
	}
	if c.SessionDays <= 0 {
		return ErrSessionDaysInvalid
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}
