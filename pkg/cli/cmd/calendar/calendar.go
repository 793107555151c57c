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

package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/medtrack/medtrack/pkg/cli/adherence"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const monthLayout = "2006-01"

var example = `
 * Show the current month
 medtrack calendar

 * Show another month
 medtrack calendar --month 2025-02`

// NewCmd returns a new calendar command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show the intake status of each day of a month",
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := clock.Today(ctx.Clock)

			first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
			if month != "" {
				t, err := time.ParseInLocation(monthLayout, month, today.Location())
				if err != nil {
					return errors.Errorf("invalid month '%s'. Use YYYY-MM", month)
				}
				first = t
			}
			last := first.AddDate(0, 1, -1)

			marks, err := adherence.DayMarks(ctx.DB, first, last)
			if err != nil {
				return errors.Wrap(err, "getting the day marks")
			}

			renderMonth(cmd.OutOrStdout(), first, marks)

			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "the month in YYYY-MM (defaults to the current month)")

	return cmd
}

func cell(day int, m adherence.DayMark, ok bool) string {
	s := fmt.Sprintf("%2d", day)
	if !ok {
		return s + " "
	}

	switch m.Mark {
	case adherence.MarkComplete:
		return log.ColorGreen.Sprint(s + "+")
	case adherence.MarkPartial:
		return log.ColorYellow.Sprint(s + "~")
	default:
		return log.ColorRed.Sprint(s + "x")
	}
}

// renderMonth prints the month starting at first as a grid of weeks starting
// on Monday. Each day with doses carries the mark of its intake status.
func renderMonth(w io.Writer, first time.Time, marks []adherence.DayMark) {
	byDate := map[string]adherence.DayMark{}
	for _, m := range marks {
		byDate[m.Date] = m
	}

	fmt.Fprintf(w, "%s\n", first.Format("January 2006"))
	fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")

	// time.Weekday starts on Sunday
	offset := (int(first.Weekday()) + 6) % 7
	cells := make([]string, offset, 42)
	for i := range cells {
		cells[i] = "   "
	}

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		m, ok := byDate[d.Format(clock.DateLayout)]
		cells = append(cells, cell(d.Day(), m, ok))
	}

	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}

		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells[i:end], " "), " "))
	}

	fmt.Fprintf(w, "%s all taken  %s some taken  %s none taken\n",
		log.ColorGreen.Sprint("+"), log.ColorYellow.Sprint("~"), log.ColorRed.Sprint("x"))
}
