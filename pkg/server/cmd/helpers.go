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

package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/config"
	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/pkg/errors"
)

// envFile is the optional file the environment is loaded from
const envFile = ".env"

func initApp(cfg config.Config) (app.App, error) {
	db, err := database.Setup(cfg.DBDriver, cfg.DBDSN, cfg.LogLevel)
	if err != nil {
		return app.App{}, errors.Wrap(err, "setting up the database")
	}

	return app.App{
		DB:               db,
		Clock:            clock.New(),
		SessionTTL:       time.Duration(cfg.SessionDays) * 24 * time.Hour,
		DisableRateLimit: cfg.AppEnv == config.AppEnvTest,
	}, nil
}

func closeDB(a *app.App) {
	sqlDB, err := a.DB.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		// Print type hint for non-boolean flags
		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// dbFlags registers the flags selecting the database
func dbFlags(fs *flag.FlagSet) (driver, dsn *string) {
	driver = fs.String("dbDriver", "", "Database driver: sqlite or postgres (env: DB_DRIVER, default: sqlite)")
	dsn = fs.String("dbDSN", "", "Database DSN or SQLite file path (env: DB_DSN, default: $XDG_DATA_HOME/medtrack/server.db)")

	return driver, dsn
}

// requireString validates that a required string flag is not empty
func requireString(value, fieldName string) error {
	if value == "" {
		return errors.Errorf("%s is required", fieldName)
	}

	return nil
}

// setupAppWithDB creates config, initializes app, and returns cleanup function
func setupAppWithDB(driver, dsn string) (*app.App, func(), error) {
	cfg, err := config.New(config.Params{
		DBDriver: driver,
		DBDSN:    dsn,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}

	a, err := initApp(cfg)
	if err != nil {
		return nil, nil, err
	}

	return &a, func() { closeDB(&a) }, nil
}

// exitOnError prints the error with the usage of the command and exits
func exitOnError(fs *flag.FlagSet, err error) {
	if err == nil {
		return
	}

	fmt.Printf("Error: %s\n\n", err)
	if fs != nil {
		fs.Usage()
	}
	os.Exit(1)
}
