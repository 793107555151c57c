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
	"strings"

	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/validate"
	"github.com/pkg/errors"
)

// CreateNote saves a daily record and mirrors it to the remote store
func (b *Bridge) CreateNote(text string) (Result, error) {
	if err := validate.NoteText(text); err != nil {
		return failed(0, err)
	}

	n := database.Note{
		Text:      strings.TrimSpace(text),
		CreatedAt: b.now().Format(consts.NoteTimestampLayout),
	}
	if err := n.Insert(b.ctx.DB); err != nil {
		return failed(0, errors.Wrap(err, "saving the note"))
	}

	if err := b.authorize(); err != nil {
		return localOnly(n.ID, "", b.classify("creating the note remotely", err)), nil
	}

	resp, err := client.CreateRecord(*b.ctx, client.RecordPayload{
		Text:           n.Text,
		LocalTimestamp: n.CreatedAt,
		Origin:         consts.RemoteOrigin,
	})
	if err != nil {
		return localOnly(n.ID, "", b.classify("creating the note remotely", err)), nil
	}

	remoteID := resp.Record.UUID
	if err := n.UpdateRemoteID(b.ctx.DB, remoteID); err != nil {
		log.Debug("back-filling remote id %s: %s\n", remoteID, err.Error())
		return localOnly(n.ID, remoteID, errors.Wrap(err, "back-filling the remote id")), nil
	}

	return synced(n.ID, remoteID), nil
}
