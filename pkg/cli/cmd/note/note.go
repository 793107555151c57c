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

// Package note implements the commands managing daily records
package note

import (
	"fmt"
	"io"
	"strings"

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
 * Open an editor to write a note
 medtrack note add

 * Skip the editor by providing content directly
 medtrack note add -c "felt dizzy after the evening dose"

 * Send stdin content to a note
 echo "slept well" | medtrack note add

 * List notes
 medtrack note ls

 * Remove a note
 medtrack note rm 3`

// NewCmd returns a new note command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"n"},
		Short:   "Manage daily notes",
		Example: example,
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newLsCmd(ctx))
	cmd.AddCommand(newRmCmd(ctx))

	return cmd
}

func getContent(ctx *context.MedtrackCtx, cmd *cobra.Command, contentFlag string) (string, error) {
	if contentFlag != "" {
		return contentFlag, nil
	}

	if ui.IsPiped() {
		c, err := ui.ReadStdInput(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, "reading piped input")
		}
		return c, nil
	}

	fpath, err := ui.GetTmpContentPath(*ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(*ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "getting editor input")
	}

	return c, nil
}

func newAddCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var contentFlag string

	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"a"},
		Short:   "Add a note",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := getContent(ctx, cmd, contentFlag)
			if err != nil {
				return err
			}

			return runAdd(ctx, content)
		},
	}

	cmd.Flags().StringVarP(&contentFlag, "content", "c", "", "the content of the note")

	return cmd
}

func runAdd(ctx *context.MedtrackCtx, content string) error {
	r, err := infra.NewBridge(ctx).CreateNote(content)
	if err != nil {
		return errors.Wrap(err, "adding the note")
	}

	output.Outcome("saved", r)

	return nil
}

func newLsCmd(ctx *context.MedtrackCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l"},
		Short:   "List notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listNotes(ctx.DB, cmd.OutOrStdout())
		},
	}
}

// formatBody returns an excerpt of the given note text and a boolean
// indicating if the returned string has been excerpted
func formatBody(text string) (string, bool) {
	trimmed := strings.TrimRight(text, "\r\n")

	if idx := strings.IndexAny(trimmed, "\r\n"); idx > -1 {
		return strings.TrimSpace(trimmed[:idx]), true
	}

	return strings.TrimSpace(trimmed), false
}

func listNotes(db *database.DB, w io.Writer) error {
	notes, err := database.ListNotes(db)
	if err != nil {
		return errors.Wrap(err, "listing notes")
	}

	if len(notes) == 0 {
		fmt.Fprintln(w, "no notes")
		return nil
	}

	for _, n := range notes {
		body, isExcerpt := formatBody(n.Text)
		if isExcerpt {
			body = fmt.Sprintf("%s %s", body, log.ColorYellow.Sprint("[---More---]"))
		}

		fmt.Fprintf(w, "%s %s %s\n", log.ColorYellow.Sprintf("(%d)", n.ID), log.ColorGray.Sprint(n.CreatedAt), body)
	}

	return nil
}

func newRmCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a note",
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
	n, err := database.GetNote(ctx.DB, id)
	if err != nil {
		return errors.Wrapf(err, "finding note %d", id)
	}

	if !yes {
		body, _ := formatBody(n.Text)
		ok, err := ui.Confirm(r, fmt.Sprintf("remove the note \"%s\"?", body), false)
		if err != nil {
			return errors.Wrap(err, "getting confirmation")
		}
		if !ok {
			log.Warnf("aborted by user\n")
			return nil
		}
	}

	res, err := infra.NewBridge(ctx).DeleteEntity(bridge.KindNote, id)
	if err != nil {
		return errors.Wrap(err, "removing the note")
	}

	output.Outcome("deleted", res)

	return nil
}
