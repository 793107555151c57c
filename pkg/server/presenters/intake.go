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

package presenters

import (
	"time"

	"github.com/medtrack/medtrack/pkg/server/database"
)

// Intake is a result of PresentIntake
type Intake struct {
	UUID           string    `json:"uuid"`
	MedicationUUID string    `json:"medication_uuid"`
	MedicationName string    `json:"medication_name"`
	Date           string    `json:"date"`
	ScheduledTime  string    `json:"scheduled_time"`
	Taken          bool      `json:"taken"`
	TakenTime      string    `json:"taken_time"`
	LocalTimestamp string    `json:"local_timestamp"`
	Origin         string    `json:"origin"`
	CreatedAt      time.Time `json:"created_at"`
}

// PresentIntake presents an intake event
func PresentIntake(i database.Intake) Intake {
	return Intake{
		UUID:           i.UUID,
		MedicationUUID: i.MedicationUUID,
		MedicationName: i.MedicationName,
		Date:           i.Date,
		ScheduledTime:  i.ScheduledTime,
		Taken:          i.Taken,
		TakenTime:      i.TakenTime,
		LocalTimestamp: i.LocalTimestamp,
		Origin:         i.Origin,
		CreatedAt:      FormatTS(i.CreatedAt),
	}
}

// PresentIntakes presents intake events
func PresentIntakes(intakes []database.Intake) []Intake {
	ret := []Intake{}

	for _, i := range intakes {
		ret = append(ret, PresentIntake(i))
	}

	return ret
}
