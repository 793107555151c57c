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

package adherence

import (
	"fmt"
	"io"

	adh "github.com/medtrack/medtrack/pkg/cli/adherence"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Show adherence over the last 30 days
 medtrack adherence

 * Show adherence over the last week
 medtrack adherence --days 7`

// NewCmd returns a new adherence command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:     "adherence",
		Aliases: []string{"adh"},
		Short:   "Show the percentage of doses taken",
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return errors.New("--days must be at least 1")
			}

			today := clock.Today(ctx.Clock)
			s, err := adh.Tally(ctx.DB, today.AddDate(0, 0, -days), today)
			if err != nil {
				return errors.Wrap(err, "computing adherence")
			}

			printSummary(cmd.OutOrStdout(), s, days)

			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", adh.DefaultWindowDays, "the number of trailing days")

	return cmd
}

func printSummary(w io.Writer, s adh.Summary, days int) {
	fmt.Fprintf(w, "adherence over the last %d days (%s to %s)\n", days, s.From, s.To)

	if s.Total == 0 {
		fmt.Fprintln(w, "0% - no doses scheduled")
		return
	}

	fmt.Fprintf(w, "%d%% - %s\n", s.Percent, adh.Rating(s.Percent))
	fmt.Fprintf(w, "%d of %d doses taken\n", s.Taken, s.Total)
}
