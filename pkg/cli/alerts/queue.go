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
	"time"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/utils"
	"github.com/pkg/errors"
)

// Queue is a Scheduler keeping alerts in the local store until the
// Dispatcher delivers them
type Queue struct {
	db *database.DB
}

// NewQueue returns a new queue backed by the given database
func NewQueue(db *database.DB) *Queue {
	return &Queue{db: db}
}

// Register stores an alert firing at the given time
func (q *Queue) Register(fireAt time.Time, title, body string) (string, error) {
	handle, err := utils.GenerateUUID()
	if err != nil {
		return "", errors.Wrap(err, "generating a handle")
	}

	a := database.Alert{
		Handle: handle,
		FireAt: fireAt.Unix(),
		Title:  title,
		Body:   body,
	}
	if err := a.Insert(q.db); err != nil {
		return "", err
	}

	return handle, nil
}

// Cancel removes the alert with the given handle. Cancelling an alert that
// is already gone is not an error.
func (q *Queue) Cancel(handle string) error {
	if _, err := database.ExpungeAlert(q.db, handle); err != nil {
		return err
	}

	return nil
}

// Pending returns the alerts that have not been delivered yet
func (q *Queue) Pending() ([]database.Alert, error) {
	return database.ListPendingAlerts(q.db)
}
