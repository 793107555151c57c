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
	"bytes"
	"testing"
	"time"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
)

type fakeNotifier struct {
	sent []string
	fail bool
}

func (n *fakeNotifier) Notify(a database.Alert) error {
	if n.fail {
		return errors.New("unreachable")
	}

	n.sent = append(n.sent, a.Handle)
	return nil
}

func TestDeliverDue(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	q := NewQueue(db)

	c := clock.NewMock()
	c.SetNow(now)

	stale, err := q.Register(now.Add(-3*time.Hour), "Reminder: Aspirin", "Take 100mg")
	if err != nil {
		t.Fatal(err)
	}
	due, err := q.Register(now.Add(-time.Minute), "Reminder: Aspirin", "Take 100mg")
	if err != nil {
		t.Fatal(err)
	}
	future, err := q.Register(now.Add(time.Hour), "Reminder: Aspirin", "Take 100mg")
	if err != nil {
		t.Fatal(err)
	}

	n := &fakeNotifier{}
	d := NewDispatcher(db, n, c)

	res, err := d.DeliverDue()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, res, Result{Delivered: 1, Expired: 1}, "result mismatch")
	assert.DeepEqual(t, n.sent, []string{due}, "sent mismatch")

	pending, err := q.Pending()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(pending), 1, "pending count mismatch")
	assert.Equal(t, pending[0].Handle, future, "pending alert mismatch")
	assert.Equal(t, database.MustCount(t, db, "alerts", "handle = ? AND delivered_at IS NOT NULL", stale), 1, "stale alert should be expired")

	c.Advance(90 * time.Minute)
	res, err = d.DeliverDue()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, res, Result{Delivered: 1}, "second pass result mismatch")
	assert.DeepEqual(t, n.sent, []string{due, future}, "second pass sent mismatch")
}

func TestDeliverDueFailure(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	q := NewQueue(db)

	c := clock.NewMock()
	c.SetNow(now)

	if _, err := q.Register(now.Add(-time.Minute), "Reminder: Aspirin", "Take 100mg"); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(db, &fakeNotifier{fail: true}, c)

	res, err := d.DeliverDue()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, res, Result{Failed: 1}, "result mismatch")

	pending, err := q.Pending()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(pending), 1, "failed alert should stay pending")
}

func TestDeliverDuePartialFanout(t *testing.T) {
	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	defer restore()

	db := database.InitTestMemoryDB(t)
	q := NewQueue(db)

	c := clock.NewMock()
	c.SetNow(now)

	handle, err := q.Register(now.Add(-time.Minute), "Reminder: Aspirin", "Take 100mg")
	if err != nil {
		t.Fatal(err)
	}

	ok := &fakeNotifier{}
	d := NewDispatcher(db, Fanout{ok, &fakeNotifier{fail: true}}, c)

	for i := 0; i < 3; i++ {
		if _, err := d.DeliverDue(); err != nil {
			t.Fatal(err)
		}
		c.Advance(time.Minute)
	}

	assert.DeepEqual(t, ok.sent, []string{handle}, "the alert should be sent once")
	assert.Equal(t, database.MustCount(t, db, "alerts", "delivered_at IS NULL"), 0, "pending count mismatch")
}

func TestStartTwice(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	d := NewDispatcher(db, &fakeNotifier{}, clock.NewMock())

	if err := d.Start(DefaultSpec); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, d.Start(DefaultSpec), ErrStarted, "a running dispatcher should not be started again")

	d.Stop()
	if err := d.Start(DefaultSpec); err != nil {
		t.Fatal(errors.Wrap(err, "restarting after stop"))
	}
	d.Stop()
}

func TestStartInvalidSpec(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	d := NewDispatcher(db, &fakeNotifier{}, clock.NewMock())

	err := d.Start("every now and then")
	assert.NotEqual(t, err, nil, "invalid spec should fail")

	if err := d.Start(DefaultSpec); err != nil {
		t.Fatal(err)
	}
	d.Stop()
}
