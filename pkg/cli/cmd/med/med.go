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

// Package med implements the commands managing medications
package med

import (
	"fmt"
	"io"

	"github.com/medtrack/medtrack/pkg/cli/bridge"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/infra"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/output"
	"github.com/medtrack/medtrack/pkg/cli/ui"
	"github.com/medtrack/medtrack/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Add a medication taken twice a day from 08:00
 medtrack med add Aspirin --dosage 100mg --time 08:00 --frequency every12

 * Add a medication taken every 6 hours
 medtrack med add Ibuprofen --time 07:00 --frequency custom --hours 6

 * List active medications
 medtrack med ls

 * Pause a medication
 medtrack med pause 2

 * Remove a medication and its doses
 medtrack med rm 2`

// NewCmd returns a new med command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "med",
		Aliases: []string{"m"},
		Short:   "Manage medications",
		Example: example,
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newLsCmd(ctx))
	cmd.AddCommand(newPauseCmd(ctx))
	cmd.AddCommand(newRmCmd(ctx))

	return cmd
}

func newAddCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var p bridge.MedicationParams

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a medication and schedule its doses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Name = args[0]

			return runAdd(ctx, cmd.OutOrStdout(), p)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&p.Dosage, "dosage", "d", "", "the dosage of each dose")
	f.StringVarP(&p.Notes, "notes", "n", "", "free text notes")
	f.StringVarP(&p.FirstDoseTime, "time", "t", "", "the time of the first dose of the day in HH:MM")
	f.StringVarP(&p.Frequency, "frequency", "f", string(database.FrequencyDaily), "one of daily, every12, every8, weekly, monthly, custom")
	f.IntVar(&p.CustomIntervalHours, "hours", 0, "the interval in hours of a custom frequency")
	f.StringVar(&p.StartDate, "start", "", "the first day of the schedule in YYYY-MM-DD (defaults to today)")

	return cmd
}

func runAdd(ctx *context.MedtrackCtx, w io.Writer, p bridge.MedicationParams) error {
	r, err := infra.NewBridge(ctx).CreateMedication(p)
	if err != nil {
		return errors.Wrap(err, "adding the medication")
	}

	output.Outcome("saved", r)

	m, err := database.GetMedication(ctx.DB, r.LocalID)
	if err != nil {
		return errors.Wrap(err, "finding the saved medication")
	}
	output.MedicationInfo(w, m)

	return nil
}

func newLsCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l"},
		Short:   "List medications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listMedications(ctx.DB, cmd.OutOrStdout(), all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include paused medications")

	return cmd
}

func printMedicationLine(w io.Writer, m database.Medication) {
	line := fmt.Sprintf("%s %s", log.ColorYellow.Sprintf("(%d)", m.ID), m.Name)
	if m.Dosage != "" {
		line = fmt.Sprintf("%s %s", line, m.Dosage)
	}
	line = fmt.Sprintf("%s, %s from %s", line, output.Frequency(m), m.FirstDoseTime)
	if !m.Active {
		line = fmt.Sprintf("%s %s", line, log.ColorGray.Sprint("[paused]"))
	}

	fmt.Fprintln(w, line)
}

func listMedications(db *database.DB, w io.Writer, all bool) error {
	meds, err := database.ListMedications(db, !all)
	if err != nil {
		return errors.Wrap(err, "listing medications")
	}

	if len(meds) == 0 {
		fmt.Fprintln(w, "no medications")
		return nil
	}

	for _, m := range meds {
		printMedicationLine(w, m)
	}

	return nil
}

func newPauseCmd(ctx *context.MedtrackCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause a medication and cancel its alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}

			r, err := infra.NewBridge(ctx).SetMedicationActive(id, false)
			if err != nil {
				return errors.Wrap(err, "pausing the medication")
			}

			output.Outcome("paused", r)

			return nil
		},
	}
}

func newRmCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a medication along with its doses and alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}

			return runRm(ctx, cmd.InOrStdin(), id, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "assume yes to the prompt")

	return cmd
}

func runRm(ctx *context.MedtrackCtx, r io.Reader, id int, yes bool) error {
	m, err := database.GetMedication(ctx.DB, id)
	if err != nil {
		return errors.Wrapf(err, "finding medication %d", id)
	}

	if !yes {
		ok, err := ui.Confirm(r, fmt.Sprintf("remove %s and every dose of it?", m.Name), false)
		if err != nil {
			return errors.Wrap(err, "getting confirmation")
		}
		if !ok {
			log.Warnf("aborted by user\n")
			return nil
		}
	}

	res, err := infra.NewBridge(ctx).DeleteEntity(bridge.KindMedication, id)
	if err != nil {
		return errors.Wrap(err, "removing the medication")
	}

	output.Outcome("deleted", res)

	return nil
}
