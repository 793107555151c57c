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

package logout

import (
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/infra"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for logging out when not logged in
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  medtrack logout`

// NewCmd returns a new logout command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Sign out and forget the session",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do signs out on the server and forgets the session. The session is
// forgotten even if the server cannot be reached.
func Do(ctx *context.MedtrackCtx) error {
	if ctx.SessionKey == "" {
		return ErrNotLoggedIn
	}

	if err := client.Signout(*ctx); err != nil {
		log.Warnf("could not sign out on the server: %s\n", err.Error())
	}

	if err := client.ClearSession(ctx); err != nil {
		return errors.Wrap(err, "deleting the session")
	}

	return nil
}

func newRun(ctx *context.MedtrackCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := Do(ctx)
		if err == ErrNotLoggedIn {
			log.Error("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
