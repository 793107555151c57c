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

package main

import (
	"os"
	"strings"

	"github.com/medtrack/medtrack/pkg/cli/infra"
	"github.com/medtrack/medtrack/pkg/cli/log"

	// commands
	"github.com/medtrack/medtrack/pkg/cli/cmd/adherence"
	"github.com/medtrack/medtrack/pkg/cli/cmd/alerts"
	"github.com/medtrack/medtrack/pkg/cli/cmd/calendar"
	"github.com/medtrack/medtrack/pkg/cli/cmd/dose"
	"github.com/medtrack/medtrack/pkg/cli/cmd/login"
	"github.com/medtrack/medtrack/pkg/cli/cmd/logout"
	"github.com/medtrack/medtrack/pkg/cli/cmd/med"
	"github.com/medtrack/medtrack/pkg/cli/cmd/note"
	"github.com/medtrack/medtrack/pkg/cli/cmd/remind"
	"github.com/medtrack/medtrack/pkg/cli/cmd/root"
	"github.com/medtrack/medtrack/pkg/cli/cmd/signup"
	"github.com/medtrack/medtrack/pkg/cli/cmd/version"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

// parseDBPath extracts the --dbPath flag value from command line arguments
// regardless of where it appears. It returns an empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}

func main() {
	// --dbPath is needed before the context exists, and it may follow the
	// subcommand, which root.ParseFlags does not handle.
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, apiEndpoint, dbPath)
	if err != nil {
		log.Errorf("initializing: %s\n", err.Error())
		os.Exit(1)
	}
	defer ctx.DB.Close()

	root.Register(med.NewCmd(ctx))
	root.Register(dose.NewCmd(ctx))
	root.Register(adherence.NewCmd(ctx))
	root.Register(calendar.NewCmd(ctx))
	root.Register(note.NewCmd(ctx))
	root.Register(remind.NewCmd(ctx))
	root.Register(alerts.NewCmd(ctx))
	root.Register(login.NewCmd(ctx))
	root.Register(signup.NewCmd(ctx))
	root.Register(logout.NewCmd(ctx))
	root.Register(version.NewCmd(ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		ctx.DB.Close()
		os.Exit(1)
	}
}
