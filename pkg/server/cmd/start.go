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
	"fmt"
	"net/http"

	"github.com/medtrack/medtrack/pkg/server/buildinfo"
	"github.com/medtrack/medtrack/pkg/server/config"
	"github.com/medtrack/medtrack/pkg/server/controllers"
	"github.com/medtrack/medtrack/pkg/server/log"
	"github.com/pkg/errors"
)

// newHandler builds the request handler serving the routes of the configured app
func newHandler(cfg config.Config) (http.Handler, func(), error) {
	a, err := initApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { closeDB(&a) }

	ctl := controllers.New(&a)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&a, rc)
	if err != nil {
		cleanup()
		return nil, nil, errors.Wrap(err, "initializing router")
	}

	return r, cleanup, nil
}

func startCmd(args []string) {
	fs := setupFlagSet("start", "medtrack-server start")

	appEnv := fs.String("appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	dbDriver, dbDSN := dbFlags(fs)
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	sessionDays := fs.Int("sessionDays", 0, "Session lifetime in days (env: SESSION_DAYS, default: 100)")

	exitOnError(nil, fs.Parse(args))
	exitOnError(nil, config.LoadEnv(envFile))

	cfg, err := config.New(config.Params{
		AppEnv:      *appEnv,
		Port:        *port,
		DBDriver:    *dbDriver,
		DBDSN:       *dbDSN,
		LogLevel:    *logLevel,
		SessionDays: *sessionDays,
	})
	exitOnError(fs, err)

	log.SetLevel(cfg.LogLevel)

	handler, cleanup, err := newHandler(cfg)
	exitOnError(nil, err)
	defer cleanup()

	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"dbDriver": cfg.DBDriver,
	}).Info("Medtrack server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), handler); err != nil {
		log.ErrorWrap(err, "server failed")
		cleanup()
		exitOnError(nil, err)
	}
}
