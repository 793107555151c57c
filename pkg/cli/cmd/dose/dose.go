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

// Package dose implements the commands tracking scheduled doses
package dose

import (
	"fmt"
	"io"

	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/infra"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/output"
	"github.com/medtrack/medtrack/pkg/cli/schedule"
	"github.com/medtrack/medtrack/pkg/cli/utils"
	"github.com/medtrack/medtrack/pkg/cli/validate"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * List today's doses
 medtrack dose ls

 * Mark a dose as taken now, or at a given time
 medtrack dose take 12
 medtrack dose take 12 --at 08:15

 * Undo it
 medtrack dose untake 12

 * Show the intake events stored on the server for a week
 medtrack dose history --from 2025-03-03 --to 2025-03-09`

// NewCmd returns a new dose command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dose",
		Aliases: []string{"d"},
		Short:   "Track scheduled doses",
		Example: example,
	}

	cmd.AddCommand(newGenCmd(ctx))
	cmd.AddCommand(newLsCmd(ctx))
	cmd.AddCommand(newTakeCmd(ctx))
	cmd.AddCommand(newUntakeCmd(ctx))
	cmd.AddCommand(newHistoryCmd(ctx))

	return cmd
}

func newGenCmd(ctx *context.MedtrackCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: fmt.Sprintf("Generate the doses of active medications for the next %d days", schedule.HorizonDays),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := schedule.GenerateUpcomingDoses(ctx.DB, clock.Today(ctx.Clock))
			if err != nil {
				return errors.Wrap(err, "generating doses")
			}

			log.Successf("generated %d doses\n", n)

			return nil
		},
	}
}

func newLsCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l"},
		Short:   "List the doses of a day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = clock.Today(ctx.Clock).Format(clock.DateLayout)
			}
			if err := validate.Date(date); err != nil {
				return err
			}

			return listDoses(ctx.DB, cmd.OutOrStdout(), date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "the day in YYYY-MM-DD (defaults to today)")

	return cmd
}

func printDoseLine(w io.Writer, d database.DoseRecord) {
	status := log.ColorGray.Sprint("[ ]")
	if d.Taken {
		status = log.ColorGreen.Sprintf("[taken %s]", d.TakenTime)
	}

	fmt.Fprintf(w, "%s %s %s %s\n", log.ColorYellow.Sprintf("(%d)", d.ID), d.ScheduledTime, d.MedicationName, status)
}

func listDoses(db *database.DB, w io.Writer, date string) error {
	doses, err := database.ListDoseRecords(db, date)
	if err != nil {
		return errors.Wrap(err, "listing doses")
	}

	fmt.Fprintf(w, "on %s\n", date)
	if len(doses) == 0 {
		fmt.Fprintln(w, "no doses")
		return nil
	}

	taken := 0
	for _, d := range doses {
		printDoseLine(w, d)
		if d.Taken {
			taken++
		}
	}
	fmt.Fprintf(w, "%d of %d taken\n", taken, len(doses))

	return nil
}

// ErrNoSession is returned when reading the server without a session
var ErrNoSession = errors.New("no session with the server. nothing has been synced yet, or run 'medtrack login'")

func newHistoryCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the intake events stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := clock.Today(ctx.Clock).Format(clock.DateLayout)
			if from == "" {
				from = today
			}
			if to == "" {
				to = today
			}
			if err := validate.Date(from); err != nil {
				return err
			}
			if err := validate.Date(to); err != nil {
				return err
			}

			return printHistory(ctx, cmd.OutOrStdout(), from, to)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "the first day in YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&to, "to", "", "the last day in YYYY-MM-DD (defaults to today)")

	return cmd
}

func printHistory(ctx *context.MedtrackCtx, w io.Writer, from, to string) error {
	if !client.HasSession(*ctx) {
		return ErrNoSession
	}

	resp, err := client.GetIntakes(*ctx, from, to)
	if err != nil {
		return errors.Wrap(err, "getting the intake history")
	}

	fmt.Fprintf(w, "from %s to %s\n", from, to)
	if len(resp.Intakes) == 0 {
		fmt.Fprintln(w, "no intake events")
		return nil
	}

	for _, i := range resp.Intakes {
		status := log.ColorGray.Sprint("[not taken]")
		if i.Taken {
			status = log.ColorGreen.Sprintf("[taken %s]", i.TakenTime)
		}

		fmt.Fprintf(w, "%s %s %s %s\n", i.Date, i.ScheduledTime, i.MedicationName, status)
	}

	return nil
}

func newTakeCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "take <id>",
		Short: "Mark a dose as taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTaken(ctx, args[0], true, at)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "the time the dose was taken in HH:MM (defaults to now)")

	return cmd
}

func newUntakeCmd(ctx *context.MedtrackCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "untake <id>",
		Short: "Mark a dose as not taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTaken(ctx, args[0], false, "")
		},
	}
}

func setTaken(ctx *context.MedtrackCtx, arg string, taken bool, at string) error {
	id, err := utils.ParseID(arg)
	if err != nil {
		return err
	}

	r, err := infra.NewBridge(ctx).SetDoseTaken(id, taken, at)
	if err != nil {
		return errors.Wrap(err, "updating the dose")
	}

	output.Outcome("saved", r)

	return nil
}
