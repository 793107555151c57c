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

// Package infra provides operations and definitions for the
// local infrastructure for medtrack
package infra

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/medtrack/medtrack/pkg/cli/alerts"
	"github.com/medtrack/medtrack/pkg/cli/bridge"
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/config"
	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/migrate"
	"github.com/medtrack/medtrack/pkg/cli/schedule"
	"github.com/medtrack/medtrack/pkg/cli/utils"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/medtrack/medtrack/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	// DefaultAPIEndpoint is the default API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:3001/api"
)

// RunEFunc is a function type of medtrack commands
type RunEFunc func(*cobra.Command, []string) error

func getDBPath(paths context.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return filepath.Join(paths.Data, consts.MedtrackDirName, consts.MedtrackDBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection.
// It is enriched with config values by setupCtx once files and the
// database have been initialized.
func newBaseCtx(versionTag, customDBPath string) (context.MedtrackCtx, error) {
	d, err := dirs.Current()
	if err != nil {
		return context.MedtrackCtx{}, errors.Wrap(err, "resolving directories")
	}

	paths := context.Paths{
		Config: d.Config,
		Data:   d.Data,
	}

	db, err := database.Open(getDBPath(paths, customDBPath))
	if err != nil {
		return context.MedtrackCtx{}, errors.Wrap(err, "connecting to db")
	}

	ctx := context.MedtrackCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
		Clock:   clock.New(),
	}

	return ctx, nil
}

// Init initializes the medtrack environment and returns a new context.
// A non-empty apiEndpoint takes precedence over the configured one without
// being written to the config file.
func Init(versionTag, apiEndpoint, dbPath string) (*context.MedtrackCtx, error) {
	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initFiles(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}
	if err := InitDB(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}
	if err := InitSystem(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing system data")
	}

	ctx, err = setupCtx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}
	if apiEndpoint != "" {
		ctx.APIEndpoint = apiEndpoint
	}

	if n, err := schedule.EnsureGenerated(ctx.DB, clock.Today(ctx.Clock)); err != nil {
		log.Warnf("could not generate upcoming doses: %s\n", err.Error())
	} else if n > 0 {
		log.Debug("generated %d upcoming doses\n", n)
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from config file and database
func setupCtx(ctx context.MedtrackCtx) (context.MedtrackCtx, error) {
	db := ctx.DB

	var sessionKey, userUUID string
	var sessionKeyExpiry int64

	if err := database.GetSystem(db, consts.SystemSessionKey, &sessionKey); err != nil && err != database.ErrNotFound {
		return ctx, errors.Wrap(err, "finding session key")
	}
	if err := database.GetSystem(db, consts.SystemSessionKeyExpiry, &sessionKeyExpiry); err != nil && err != database.ErrNotFound {
		return ctx, errors.Wrap(err, "finding session key expiry")
	}
	if err := database.GetSystem(db, consts.SystemUserUUID, &userUUID); err != nil && err != database.ErrNotFound {
		return ctx, errors.Wrap(err, "finding user uuid")
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	from := cf.SMTPUsername
	if from == "" {
		from = cf.AlertEmail
	}

	ret := context.MedtrackCtx{
		Paths:            ctx.Paths,
		Version:          ctx.Version,
		DB:               ctx.DB,
		SessionKey:       sessionKey,
		SessionKeyExpiry: sessionKeyExpiry,
		UserUUID:         userUUID,
		APIEndpoint:      cf.APIEndpoint,
		Editor:           cf.Editor,
		Pushover: context.Pushover{
			Token: cf.PushoverToken,
			User:  cf.PushoverUser,
		},
		SMTP: context.SMTP{
			Host:     cf.SMTPHost,
			Port:     cf.SMTPPort,
			Username: cf.SMTPUsername,
			Password: cf.SMTPPassword,
			From:     from,
			To:       cf.AlertEmail,
		},
		Clock:      ctx.Clock,
		HTTPClient: client.NewRateLimitedHTTPClient(),
	}

	return ret, nil
}

// InitDB creates the schema of a fresh install and migrates an existing one
func InitDB(ctx context.MedtrackCtx) error {
	log.Debug("initializing the database\n")

	if err := database.InitSchema(ctx.DB); err != nil {
		return errors.Wrap(err, "creating the schema")
	}
	if _, err := migrate.Run(ctx.DB, migrate.Sequence); err != nil {
		return errors.Wrap(err, "running migrations")
	}

	return nil
}

func initSystemKV(db *database.DB, key string, val string) error {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM system WHERE key = ?", key).Scan(&count); err != nil {
		return errors.Wrapf(err, "counting %s", key)
	}

	if count > 0 {
		return nil
	}

	if _, err := db.Exec("INSERT INTO system (key, value) VALUES (?, ?)", key, val); err != nil {
		return errors.Wrapf(err, "inserting %s %s", key, val)
	}

	return nil
}

// InitSystem inserts system data if missing
func InitSystem(ctx context.MedtrackCtx) error {
	log.Debug("initializing the system\n")

	tx, err := ctx.DB.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	nowStr := strconv.FormatInt(ctx.Clock.Now().Unix(), 10)
	if err := initSystemKV(tx, consts.SystemInitializedAt, nowStr); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "initializing system config for %s", consts.SystemInitializedAt)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	return nil
}

// getEditorCommand returns the system's editor command with appropriate flags,
// if necessary, to make the command wait until editor is close to exit.
func getEditorCommand() string {
	switch editor := os.Getenv("EDITOR"); editor {
	case "subl":
		return "subl -n -w"
	case "code":
		return "code -n -w"
	case "mate":
		return "mate -w"
	case "vim", "nano", "emacs", "nvim":
		return editor
	default:
		return "vi"
	}
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.MedtrackCtx) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	cf := config.Config{
		APIEndpoint: DefaultAPIEndpoint,
		Editor:      getEditorCommand(),
	}

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the medtrack directories and files inside
func initFiles(ctx context.MedtrackCtx) error {
	if err := context.InitMedtrackDirs(ctx.Paths); err != nil {
		return errors.Wrap(err, "creating the medtrack dirs")
	}
	if err := initConfigFile(ctx); err != nil {
		return errors.Wrap(err, "generating the config file")
	}

	return nil
}

// NewBridge returns a bridge that arms alerts in the local alert queue
func NewBridge(ctx *context.MedtrackCtx) *bridge.Bridge {
	return bridge.New(ctx, alerts.NewQueue(ctx.DB))
}

// NewNotifier returns the notifier for every configured delivery channel,
// falling back to the terminal
func NewNotifier(ctx context.MedtrackCtx) alerts.Notifier {
	var ret alerts.Fanout

	if ctx.Pushover.Enabled() {
		ret = append(ret, alerts.NewPushover(ctx.Pushover.Token, ctx.Pushover.User))
	}
	if ctx.SMTP.Enabled() {
		s := ctx.SMTP
		ret = append(ret, alerts.NewEmail(s.Host, s.Port, s.Username, s.Password, s.From, s.To))
	}

	switch len(ret) {
	case 0:
		return alerts.Console{}
	case 1:
		return ret[0]
	default:
		return ret
	}
}
