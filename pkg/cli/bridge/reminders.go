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
	"time"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/validate"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
)

// DefaultReminderMessage is the body of a reminder created without a message
const DefaultReminderMessage = "Scheduled reminder"

// ErrPastReminder is an error for a reminder that would fire in the past
var ErrPastReminder = errors.New("Reminder time must be in the future")

// CreateReminder schedules an ad hoc reminder on the device. Reminders are
// not mirrored to the remote store.
func (b *Bridge) CreateReminder(date, at, title, message string) (Result, error) {
	if err := validate.Date(date); err != nil {
		return failed(0, err)
	}
	if err := validate.TimeOfDay(at); err != nil {
		return failed(0, err)
	}
	if err := validate.ReminderTitle(title); err != nil {
		return failed(0, err)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultReminderMessage
	}

	now := b.now()
	fireAt, err := time.ParseInLocation(clock.DateLayout+" 15:04", date+" "+at, now.Location())
	if err != nil {
		return failed(0, errors.Wrap(err, "parsing the reminder time"))
	}
	if !fireAt.After(now) {
		return failed(0, ErrPastReminder)
	}

	title = strings.TrimSpace(title)
	handle, err := b.scheduler.Register(fireAt, title, message)
	if err != nil {
		return failed(0, errors.Wrap(err, "scheduling the reminder"))
	}

	n := database.ScheduledNotification{
		Date:        date,
		Time:        at,
		Title:       title,
		Message:     message,
		AlertHandle: handle,
		CreatedAt:   now.UnixNano(),
	}
	if err := n.Insert(b.ctx.DB); err != nil {
		if cerr := b.scheduler.Cancel(handle); cerr != nil {
			log.Debug("cancelling unsaved reminder %s: %s\n", handle, cerr.Error())
		}

		return failed(0, errors.Wrap(err, "saving the reminder"))
	}

	return localOnly(n.ID, "", nil), nil
}
