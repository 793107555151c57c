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

// Package remind implements the commands managing ad hoc reminders
package remind

import (
	"fmt"
	"io"

	"github.com/medtrack/medtrack/pkg/cli/bridge"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/infra"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/output"
	"github.com/medtrack/medtrack/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Remind yourself of a refill
 medtrack remind add --date 2025-03-20 --time 09:00 --title "Refill" --message "Pick up the prescription"

 * List reminders
 medtrack remind ls

 * Cancel a reminder
 medtrack remind rm 1`

// NewCmd returns a new remind command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remind",
		Aliases: []string{"r"},
		Short:   "Manage ad hoc reminders",
		Example: example,
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newLsCmd(ctx))
	cmd.AddCommand(newRmCmd(ctx))

	return cmd
}

func newAddCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var date, at, title, message string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a reminder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := infra.NewBridge(ctx).CreateReminder(date, at, title, message)
			if err != nil {
				return errors.Wrap(err, "adding the reminder")
			}

			output.Outcome("saved", r)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "the day in YYYY-MM-DD")
	f.StringVarP(&at, "time", "t", "", "the time in HH:MM")
	f.StringVar(&title, "title", "", "the title of the reminder")
	f.StringVarP(&message, "message", "m", "", "the message of the reminder")

	return cmd
}

func newLsCmd(ctx *context.MedtrackCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l"},
		Short:   "List reminders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listReminders(ctx.DB, cmd.OutOrStdout())
		},
	}
}

func listReminders(db *database.DB, w io.Writer) error {
	reminders, err := database.ListScheduledNotifications(db)
	if err != nil {
		return errors.Wrap(err, "listing reminders")
	}

	if len(reminders) == 0 {
		fmt.Fprintln(w, "no reminders")
		return nil
	}

	for _, n := range reminders {
		fmt.Fprintf(w, "%s %s %s %s: %s\n", log.ColorYellow.Sprintf("(%d)", n.ID), n.Date, n.Time, n.Title, n.Message)
	}

	return nil
}

func newRmCmd(ctx *context.MedtrackCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Cancel a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}

			r, err := infra.NewBridge(ctx).DeleteEntity(bridge.KindReminder, id)
			if err != nil {
				return errors.Wrap(err, "removing the reminder")
			}

			output.Outcome("deleted", r)

			return nil
		},
	}
}
