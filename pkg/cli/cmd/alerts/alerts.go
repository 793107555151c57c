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

package alerts

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	notify "github.com/medtrack/medtrack/pkg/cli/alerts"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/infra"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Deliver alerts as they come due until interrupted
 medtrack alerts run

 * Deliver the alerts that are due and exit
 medtrack alerts run --once

 * List pending alerts
 medtrack alerts ls`

// NewCmd returns a new alerts command
func NewCmd(ctx *context.MedtrackCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alerts",
		Short:   "Deliver and inspect medication alerts",
		Example: example,
	}

	cmd.AddCommand(newRunCmd(ctx))
	cmd.AddCommand(newLsCmd(ctx))

	return cmd
}

func newRunCmd(ctx *context.MedtrackCtx) *cobra.Command {
	var once bool
	var spec string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deliver due alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := notify.NewDispatcher(ctx.DB, infra.NewNotifier(*ctx), ctx.Clock)

			if err := deliver(d); err != nil {
				return err
			}
			if once {
				return nil
			}

			if err := d.Start(spec); err != nil {
				return err
			}
			defer d.Stop()

			log.Infof("delivering alerts on '%s'. Press Ctrl+C to stop\n", spec)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&once, "once", false, "deliver the due alerts and exit")
	f.StringVar(&spec, "schedule", notify.DefaultSpec, "the cron schedule of deliveries")

	return cmd
}

func deliver(d *notify.Dispatcher) error {
	res, err := d.DeliverDue()
	if err != nil {
		return errors.Wrap(err, "delivering alerts")
	}

	log.Infof("delivered %d, expired %d, failed %d\n", res.Delivered, res.Expired, res.Failed)

	return nil
}

func newLsCmd(ctx *context.MedtrackCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l"},
		Short:   "List pending alerts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := notify.NewQueue(ctx.DB).Pending()
			if err != nil {
				return errors.Wrap(err, "listing alerts")
			}

			printAlerts(cmd.OutOrStdout(), pending, ctx.Clock.Now().Location())

			return nil
		},
	}
}

func printAlerts(w io.Writer, pending []database.Alert, loc *time.Location) {
	if len(pending) == 0 {
		fmt.Fprintln(w, "no pending alerts")
		return
	}

	for _, a := range pending {
		fireAt := time.Unix(a.FireAt, 0).In(loc).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s %s: %s\n", fireAt, a.Title, a.Body)
	}
}
