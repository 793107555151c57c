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
	"time"

	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/validate"
	"github.com/pkg/errors"
)

// SetDoseTaken marks a dose as taken at takenTime, or at the current time if
// takenTime is empty, or clears it. Every change is appended remotely as an
// intake event.
func (b *Bridge) SetDoseTaken(doseID int, taken bool, takenTime string) (Result, error) {
	if taken && takenTime == "" {
		takenTime = b.now().Format("15:04")
	}
	if taken {
		if err := validate.TimeOfDay(takenTime); err != nil {
			return failed(doseID, err)
		}
	}

	d, err := database.GetDoseRecord(b.ctx.DB, doseID)
	if err != nil {
		return failed(doseID, errors.Wrapf(err, "finding dose %d", doseID))
	}

	if err := d.UpdateTaken(b.ctx.DB, taken, takenTime); err != nil {
		return failed(doseID, err)
	}

	var medicationUUID string
	m, err := database.GetMedication(b.ctx.DB, d.MedicationID)
	if err == nil {
		medicationUUID = m.RemoteID
	} else if errors.Cause(err) != database.ErrNotFound {
		return localOnly(d.ID, "", errors.Wrap(err, "finding the medication of the dose")), nil
	}

	if err := b.authorize(); err != nil {
		return localOnly(d.ID, "", b.classify("recording the intake remotely", err)), nil
	}

	resp, err := client.CreateIntake(*b.ctx, client.IntakePayload{
		MedicationUUID: medicationUUID,
		MedicationName: d.MedicationName,
		Date:           d.Date,
		ScheduledTime:  d.ScheduledTime,
		Taken:          d.Taken,
		TakenTime:      d.TakenTime,
		LocalTimestamp: b.now().Format(time.RFC3339),
		Origin:         consts.RemoteOrigin,
	})
	if err != nil {
		return localOnly(d.ID, "", b.classify("recording the intake remotely", err)), nil
	}

	return synced(d.ID, resp.Intake.UUID), nil
}
