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

package app

import (
	"strings"

	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/medtrack/medtrack/pkg/server/helpers"
	"github.com/pkg/errors"
)

// IntakeParams is the content of an intake event
type IntakeParams struct {
	MedicationUUID string
	MedicationName string
	Date           string
	ScheduledTime  string
	Taken          bool
	TakenTime      string
	LocalTimestamp string
	Origin         string
}

func validateIntake(p IntakeParams) error {
	if strings.TrimSpace(p.MedicationName) == "" {
		return ErrNameRequired
	}
	if !helpers.ValidDate(p.Date) {
		return ErrInvalidDate
	}
	if !helpers.ValidTimeOfDay(p.ScheduledTime) {
		return ErrInvalidTime
	}
	if p.Taken && !helpers.ValidTimeOfDay(p.TakenTime) {
		return ErrInvalidTime
	}

	return nil
}

// CreateIntake appends an intake event for the user. The linked medication
// does not need to exist.
func (a *App) CreateIntake(user database.User, p IntakeParams) (database.Intake, error) {
	if err := validateIntake(p); err != nil {
		return database.Intake{}, err
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Intake{}, err
	}

	takenTime := p.TakenTime
	if !p.Taken {
		takenTime = ""
	}

	i := database.Intake{
		UUID:           uuid,
		UserID:         user.ID,
		MedicationUUID: p.MedicationUUID,
		MedicationName: p.MedicationName,
		Date:           p.Date,
		ScheduledTime:  p.ScheduledTime,
		Taken:          p.Taken,
		TakenTime:      takenTime,
		LocalTimestamp: p.LocalTimestamp,
		Origin:         p.Origin,
	}
	if err := a.DB.Create(&i).Error; err != nil {
		return database.Intake{}, errors.Wrap(err, "inserting intake")
	}

	return i, nil
}

// GetIntakes returns the intake events of the user dated between from and to
// inclusive, in the order they were recorded. An empty bound is open.
func (a *App) GetIntakes(user database.User, from, to string) ([]database.Intake, error) {
	if from != "" && !helpers.ValidDate(from) {
		return nil, ErrInvalidDate
	}
	if to != "" && !helpers.ValidDate(to) {
		return nil, ErrInvalidDate
	}
	if from != "" && to != "" && from > to {
		return nil, ErrInvalidDateRange
	}

	q := a.DB.Where("user_id = ?", user.ID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var ret []database.Intake
	if err := q.Order("id ASC").Find(&ret).Error; err != nil {
		return nil, errors.Wrap(err, "finding intakes")
	}

	return ret, nil
}
