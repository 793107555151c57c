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
	"sync"
	"time"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

// DefaultSpec is the cron spec the dispatcher checks for due alerts on
const DefaultSpec = "@every 1m"

// MaxLateness is how late an alert may still be delivered. Older alerts,
// missed while the dispatcher was not running, are expired without notice.
const MaxLateness = time.Hour

// Dispatcher delivers the due alerts of a Queue
type Dispatcher struct {
	db       *database.DB
	notifier Notifier
	clock    clock.Clock

	mu   sync.Mutex
	cron *cron.Cron
}

// NewDispatcher returns a dispatcher sending due alerts through the notifier
func NewDispatcher(db *database.DB, n Notifier, c clock.Clock) *Dispatcher {
	return &Dispatcher{
		db:       db,
		notifier: n,
		clock:    c,
	}
}

// Result is the outcome of one delivery pass
type Result struct {
	Delivered int
	Expired   int
	Failed    int
}

// DeliverDue sends every alert whose fire time has passed and marks it
// delivered. A failed delivery is left pending for the next pass.
func (d *Dispatcher) DeliverDue() (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var ret Result
	now := d.clock.Now()

	due, err := database.ListDueAlerts(d.db, now.Unix())
	if err != nil {
		return ret, errors.Wrap(err, "getting due alerts")
	}

	for _, a := range due {
		if now.Sub(time.Unix(a.FireAt, 0)) > MaxLateness {
			if err := a.MarkDelivered(d.db, now.Unix()); err != nil {
				return ret, err
			}

			log.Debug("expired alert %s\n", a.Handle)
			ret.Expired++
			continue
		}

		if err := d.notifier.Notify(a); err != nil {
			log.Errorf("%s\n", err.Error())
			ret.Failed++
			continue
		}

		if err := a.MarkDelivered(d.db, now.Unix()); err != nil {
			return ret, err
		}
		ret.Delivered++
	}

	return ret, nil
}

// ErrStarted is returned when starting a dispatcher that is already running
var ErrStarted = errors.New("the dispatcher is already running")

// Start runs DeliverDue on the given cron spec until Stop is called
func (d *Dispatcher) Start(spec string) error {
	d.mu.Lock()
	running := d.cron != nil
	d.mu.Unlock()
	if running {
		return ErrStarted
	}

	c := cron.New()

	err := c.AddFunc(spec, func() {
		if _, err := d.DeliverDue(); err != nil {
			log.Errorf("delivering alerts: %s\n", err.Error())
		}
	})
	if err != nil {
		return errors.Wrapf(err, "scheduling the dispatcher with '%s'", spec)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cron != nil {
		return ErrStarted
	}

	c.Start()
	d.cron = c

	return nil
}

// Stop stops the scheduled deliveries
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	c := d.cron
	d.cron = nil
	d.mu.Unlock()

	if c != nil {
		c.Stop()
	}
}
