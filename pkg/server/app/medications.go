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
	"errors"
	"strings"

	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/medtrack/medtrack/pkg/server/helpers"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// FrequencyCustom is the frequency that repeats every CustomIntervalHours hours
const FrequencyCustom = "custom"

// Frequencies lists the frequencies a medication may have
var Frequencies = []string{"daily", "every12", "every8", "weekly", "monthly", FrequencyCustom}

// MedicationParams is the content of a medication document
type MedicationParams struct {
	Name                string
	Dosage              string
	Notes               string
	FirstDoseTime       string
	Frequency           string
	CustomIntervalHours *int
	Active              bool
	StartDate           string
	LocalTimestamp      string
	Origin              string
}

func validateFrequency(freq string, customHours *int) error {
	valid := false
	for _, f := range Frequencies {
		if f == freq {
			valid = true
			break
		}
	}
	if !valid {
		return pkgErrors.Wrapf(ErrInvalidFrequency, "'%s'", freq)
	}

	if freq == FrequencyCustom {
		if customHours == nil || *customHours < 1 {
			return ErrInvalidCustomInterval
		}
	} else if customHours != nil {
		return ErrInvalidCustomInterval
	}

	return nil
}

func validateMedication(p MedicationParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if !helpers.ValidTimeOfDay(p.FirstDoseTime) {
		return ErrInvalidTime
	}
	if err := validateFrequency(p.Frequency, p.CustomIntervalHours); err != nil {
		return err
	}
	if !helpers.ValidDate(p.StartDate) {
		return ErrInvalidDate
	}

	return nil
}

// CreateMedication creates a medication document for the user
func (a *App) CreateMedication(user database.User, p MedicationParams) (database.Medication, error) {
	if err := validateMedication(p); err != nil {
		return database.Medication{}, err
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Medication{}, err
	}

	m := database.Medication{
		UUID:                uuid,
		UserID:              user.ID,
		Name:                strings.TrimSpace(p.Name),
		Dosage:              p.Dosage,
		Notes:               p.Notes,
		FirstDoseTime:       p.FirstDoseTime,
		Frequency:           p.Frequency,
		CustomIntervalHours: p.CustomIntervalHours,
		Active:              p.Active,
		StartDate:           p.StartDate,
		LocalTimestamp:      p.LocalTimestamp,
		Origin:              p.Origin,
	}
	if err := a.DB.Create(&m).Error; err != nil {
		return database.Medication{}, pkgErrors.Wrap(err, "inserting medication")
	}

	return m, nil
}

// GetMedications returns the medication documents of the user in creation order
func (a *App) GetMedications(user database.User) ([]database.Medication, error) {
	var ret []database.Medication
	if err := a.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&ret).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding medications")
	}

	return ret, nil
}

// GetMedication finds a medication document of the user
func (a *App) GetMedication(user database.User, uuid string) (database.Medication, error) {
	var m database.Medication
	err := a.DB.Where("user_id = ? AND uuid = ?", user.ID, uuid).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	} else if err != nil {
		return m, pkgErrors.Wrap(err, "finding medication")
	}

	return m, nil
}

// UpdateMedicationStatus sets the active flag of a medication document
func (a *App) UpdateMedicationStatus(user database.User, uuid string, active bool, localTimestamp string) (database.Medication, error) {
	m, err := a.GetMedication(user, uuid)
	if err != nil {
		return m, err
	}

	if err := a.DB.Model(&m).Updates(map[string]interface{}{
		"active":          active,
		"local_timestamp": localTimestamp,
	}).Error; err != nil {
		return m, pkgErrors.Wrap(err, "updating medication")
	}
	m.Active = active
	m.LocalTimestamp = localTimestamp

	return m, nil
}

// DeleteMedication deletes a medication document. Its intake events are kept.
func (a *App) DeleteMedication(user database.User, uuid string) (database.Medication, error) {
	m, err := a.GetMedication(user, uuid)
	if err != nil {
		return m, err
	}

	if err := a.DB.Delete(&m).Error; err != nil {
		return m, pkgErrors.Wrap(err, "deleting medication")
	}

	return m, nil
}
