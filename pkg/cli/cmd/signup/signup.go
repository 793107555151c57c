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

package signup

import (
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/cmd/login"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  medtrack signup --email alice@example.com`

// NewCmd returns a new signup command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:     "signup",
		Short:   "Create an account and sign in to it",
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, password, err := login.ReadCredentials(cmd.InOrStdin(), email)
			if err != nil {
				return err
			}

			if err := Do(ctx, e, password); err != nil {
				return err
			}

			log.Success("signed up and signed in\n")

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "the email of the account (prompted if omitted)")

	return cmd
}

// Do creates an account and stores the session issued for it
func Do(ctx *context.MedtrackCtx, email, password string) error {
	s, err := client.Signup(*ctx, email, password)
	if err != nil {
		return err
	}

	if err := client.SaveSession(ctx, s); err != nil {
		return errors.Wrap(err, "saving the session")
	}

	return nil
}
