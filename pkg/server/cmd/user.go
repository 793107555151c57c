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
	"io"
	"os"

	"github.com/medtrack/medtrack/pkg/prompt"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/pkg/errors"
)

// errAborted is returned when the operator declines a confirmation
var errAborted = errors.New("Aborted by user")

// confirm prompts for user input to confirm a choice
func confirm(r io.Reader, w io.Writer, question string, optimistic bool) (bool, error) {
	fmt.Fprint(w, prompt.FormatQuestion(question, optimistic)+" ")

	confirmed, err := prompt.ReadYesNo(r, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return confirmed, nil
}

func userCreate(args []string, w io.Writer) error {
	fs := setupFlagSet("create", "medtrack-server user create")

	email := fs.String("email", "", "User email address (required)")
	password := fs.String("password", "", "User password (required)")
	dbDriver, dbDSN := dbFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireString(*email, "email"); err != nil {
		return err
	}
	if err := requireString(*password, "password"); err != nil {
		return err
	}

	a, cleanup, err := setupAppWithDB(*dbDriver, *dbDSN)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.CreateUser(*email, *password)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	fmt.Fprintf(w, "User created successfully\n")
	fmt.Fprintf(w, "Email: %s\n", *email)
	fmt.Fprintf(w, "UUID: %s\n", user.UUID)

	return nil
}

func userRemove(args []string, stdin io.Reader, w io.Writer) error {
	fs := setupFlagSet("remove", "medtrack-server user remove")

	email := fs.String("email", "", "User email address (required)")
	yes := fs.Bool("yes", false, "Skip the confirmation")
	dbDriver, dbDSN := dbFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireString(*email, "email"); err != nil {
		return err
	}

	a, cleanup, err := setupAppWithDB(*dbDriver, *dbDSN)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := a.GetUserByEmail(*email); err != nil {
		if errors.Is(err, app.ErrNotFound) {
			return errors.Errorf("user with email %s not found", *email)
		}
		return errors.Wrap(err, "finding user")
	}

	if !*yes {
		ok, err := confirm(stdin, w, fmt.Sprintf("Remove user %s and all of their documents?", *email), false)
		if err != nil {
			return errors.Wrap(err, "getting confirmation")
		}
		if !ok {
			return errAborted
		}
	}

	if err := a.RemoveUser(*email); err != nil {
		return errors.Wrap(err, "removing user")
	}

	fmt.Fprintf(w, "User removed successfully\n")
	fmt.Fprintf(w, "Email: %s\n", *email)

	return nil
}

func userCmd(args []string) {
	if len(args) < 1 {
		fmt.Println(`Usage:
  medtrack-server user [command]

Available commands:
  create: Create a new user
  remove: Remove a user and their documents`)
		os.Exit(1)
	}

	subcommand := args[0]
	subArgs := args[1:]

	var err error
	switch subcommand {
	case "create":
		err = userCreate(subArgs, os.Stdout)
	case "remove":
		err = userRemove(subArgs, os.Stdin, os.Stdout)
		if errors.Is(err, errAborted) {
			fmt.Println(err)
			return
		}
	default:
		err = errors.Errorf("unknown subcommand: %s", subcommand)
	}

	exitOnError(nil, err)
}
