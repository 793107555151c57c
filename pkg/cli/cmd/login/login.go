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

package login

import (
	"io"
	"net/url"
	"strings"

	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/infra"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  medtrack login`

// NewCmd returns a new login command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Sign in to an account so that every device shares the same records",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx, &email),
	}

	cmd.Flags().StringVar(&email, "email", "", "the email of the account (prompted if omitted)")

	return cmd
}

// getServerDisplayURL returns the scheme and host of the API endpoint
func getServerDisplayURL(ctx context.MedtrackCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// ReadCredentials prompts for the email, unless given, and the password
func ReadCredentials(r io.Reader, email string) (string, string, error) {
	if email == "" {
		if err := ui.PromptInput(r, "email", &email); err != nil {
			return "", "", errors.Wrap(err, "getting email input")
		}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", errors.New("Email is empty")
	}

	var password string
	if err := ui.PromptPassword("password", &password); err != nil {
		return "", "", errors.Wrap(err, "getting password input")
	}
	if password == "" {
		return "", "", errors.New("Password is empty")
	}

	return email, password, nil
}

// Do signs in and stores the new session. Records written under the
// previous session stay with the account they were written to.
func Do(ctx *context.MedtrackCtx, email, password string) error {
	s, err := client.Signin(*ctx, email, password)
	if err != nil {
		return err
	}

	if err := client.SaveSession(ctx, s); err != nil {
		return errors.Wrap(err, "saving the session")
	}

	return nil
}

func newRun(ctx *context.MedtrackCtx, email *string) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if u := getServerDisplayURL(*ctx); u != "" {
			log.Infof("signing in to %s\n", u)
		}

		e, password, err := ReadCredentials(cmd.InOrStdin(), *email)
		if err != nil {
			return err
		}

		if err := Do(ctx, e, password); err != nil {
			if errors.Cause(err) == client.ErrInvalidLogin {
				return errors.New("wrong email and password combination")
			}

			return errors.Wrap(err, "signing in")
		}

		log.Success("signed in\n")

		return nil
	}
}
