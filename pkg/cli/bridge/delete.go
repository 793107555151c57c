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

package bridge

import (
	"github.com/medtrack/medtrack/pkg/cli/alerts"
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
)

// Kind is a kind of entity that can be deleted
type Kind string

const (
	// KindMedication is a medication along with its doses and alerts
	KindMedication Kind = "medication"
	// KindNote is a daily record
	KindNote Kind = "note"
	// KindReminder is an ad hoc reminder
	KindReminder Kind = "reminder"
)

// ErrUnknownKind is an error for deleting an entity of an unknown kind
var ErrUnknownKind = errors.New("unknown kind of entity")

// DeleteEntity deletes an entity locally and then its remote mirror, if one
// was recorded
func (b *Bridge) DeleteEntity(kind Kind, id int) (Result, error) {
	switch kind {
	case KindMedication:
		return b.deleteMedication(id)
	case KindNote:
		return b.deleteNote(id)
	case KindReminder:
		return b.deleteReminder(id)
	}

	return failed(id, errors.Wrapf(ErrUnknownKind, "%s", kind))
}

// ignoreGone treats a remote document that no longer exists as deleted
func ignoreGone(err error) error {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.IsNotFound() {
		return nil
	}

	return err
}

func (b *Bridge) deleteMedication(id int) (Result, error) {
	m, err := database.GetMedication(b.ctx.DB, id)
	if err != nil {
		return failed(id, errors.Wrapf(err, "finding medication %d", id))
	}

	if err := alerts.CancelAll(b.scheduler, m.AlertHandles); err != nil {
		log.Warnf("could not cancel every alert of %s: %s\n", m.Name, err.Error())
	}

	tx, err := b.ctx.DB.Begin()
	if err != nil {
		return failed(id, errors.Wrap(err, "beginning a transaction"))
	}
	if _, err := database.ExpungeDoseRecords(tx, m.ID); err != nil {
		tx.Rollback()
		return failed(id, err)
	}
	if err := m.Expunge(tx); err != nil {
		tx.Rollback()
		return failed(id, err)
	}
	if err := tx.Commit(); err != nil {
		return failed(id, errors.Wrap(err, "committing transaction"))
	}

	if m.RemoteID == "" {
		return localOnly(m.ID, "", nil), nil
	}

	if err := b.authorize(); err != nil {
		return localOnly(m.ID, m.RemoteID, b.classify("deleting the medication remotely", err)), nil
	}
	if _, err := client.DeleteMedication(*b.ctx, m.RemoteID); ignoreGone(err) != nil {
		return localOnly(m.ID, m.RemoteID, b.classify("deleting the medication remotely", err)), nil
	}

	return synced(m.ID, m.RemoteID), nil
}

func (b *Bridge) deleteNote(id int) (Result, error) {
	n, err := database.GetNote(b.ctx.DB, id)
	if err != nil {
		return failed(id, errors.Wrapf(err, "finding note %d", id))
	}

	if err := n.Expunge(b.ctx.DB); err != nil {
		return failed(id, err)
	}

	if n.RemoteID == "" {
		return localOnly(n.ID, "", nil), nil
	}

	if err := b.authorize(); err != nil {
		return localOnly(n.ID, n.RemoteID, b.classify("deleting the note remotely", err)), nil
	}
	if _, err := client.DeleteRecord(*b.ctx, n.RemoteID); ignoreGone(err) != nil {
		return localOnly(n.ID, n.RemoteID, b.classify("deleting the note remotely", err)), nil
	}

	return synced(n.ID, n.RemoteID), nil
}

func (b *Bridge) deleteReminder(id int) (Result, error) {
	n, err := database.GetScheduledNotification(b.ctx.DB, id)
	if err != nil {
		return failed(id, errors.Wrapf(err, "finding reminder %d", id))
	}

	if n.AlertHandle != "" {
		if err := b.scheduler.Cancel(n.AlertHandle); err != nil {
			log.Warnf("could not cancel the alert of reminder %d: %s\n", id, err.Error())
		}
	}

	if err := n.Expunge(b.ctx.DB); err != nil {
		return failed(id, err)
	}

	return localOnly(n.ID, "", nil), nil
}
