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

// Medication is a result of PresentMedication
type Medication struct {
	UUID                string    `json:"uuid"`
	Name                string    `json:"name"`
	Dosage              string    `json:"dosage"`
	Notes               string    `json:"notes"`
	FirstDoseTime       string    `json:"first_dose_time"`
	Frequency           string    `json:"frequency"`
	CustomIntervalHours *int      `json:"custom_interval_hours"`
	Active              bool      `json:"active"`
	StartDate           string    `json:"start_date"`
	LocalTimestamp      string    `json:"local_timestamp"`
	Origin              string    `json:"origin"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PresentMedication presents a medication
func PresentMedication(m database.Medication) Medication {
	return Medication{
		UUID:                m.UUID,
		Name:                m.Name,
		Dosage:              m.Dosage,
		Notes:               m.Notes,
		FirstDoseTime:       m.FirstDoseTime,
		Frequency:           m.Frequency,
		CustomIntervalHours: m.CustomIntervalHours,
		Active:              m.Active,
		StartDate:           m.StartDate,
		LocalTimestamp:      m.LocalTimestamp,
		Origin:              m.Origin,
		CreatedAt:           FormatTS(m.CreatedAt),
		UpdatedAt:           FormatTS(m.UpdatedAt),
	}
}

// PresentMedications presents medications
func PresentMedications(medications []database.Medication) []Medication {
	ret := []Medication{}

	for _, m := range medications {
		ret = append(ret, PresentMedication(m))
	}

	return ret
}
