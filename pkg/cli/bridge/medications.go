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

	"github.com/medtrack/medtrack/pkg/cli/alerts"
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/medtrack/medtrack/pkg/cli/schedule"
	"github.com/medtrack/medtrack/pkg/cli/validate"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
)

// MedicationParams is the input for creating a medication
type MedicationParams struct {
	Name          string
	Dosage        string
	Notes         string
	FirstDoseTime string
	Frequency     string
	// CustomIntervalHours is required for the custom frequency and must be 0 otherwise
	CustomIntervalHours int
	// StartDate defaults to today
	StartDate string
}

func (b *Bridge) buildMedication(p MedicationParams) (database.Medication, error) {
	if err := validate.MedicationName(p.Name); err != nil {
		return database.Medication{}, err
	}
	if err := validate.TimeOfDay(p.FirstDoseTime); err != nil {
		return database.Medication{}, err
	}
	freq, err := validate.Frequency(p.Frequency)
	if err != nil {
		return database.Medication{}, err
	}
	if err := validate.CustomInterval(freq, p.CustomIntervalHours); err != nil {
		return database.Medication{}, err
	}

	startDate := p.StartDate
	if startDate == "" {
		startDate = clock.Today(b.ctx.Clock).Format(clock.DateLayout)
	}
	if err := validate.Date(startDate); err != nil {
		return database.Medication{}, err
	}

	return database.Medication{
		Name:                strings.TrimSpace(p.Name),
		Dosage:              strings.TrimSpace(p.Dosage),
		Notes:               strings.TrimSpace(p.Notes),
		FirstDoseTime:       p.FirstDoseTime,
		Frequency:           freq,
		CustomIntervalHours: p.CustomIntervalHours,
		Active:              true,
		AlertHandles:        []string{},
		StartDate:           startDate,
		CreatedAt:           b.now().UnixNano(),
	}, nil
}

// arm registers the alerts of a new medication and stores their handles.
// Failures are logged and leave the medication without alerts.
func (b *Bridge) arm(m *database.Medication) {
	handles, err := alerts.ArmMedication(b.scheduler, *m, b.now())
	if err != nil {
		log.Warnf("could not schedule alerts for %s: %s\n", m.Name, err.Error())
		return
	}

	if err := m.UpdateAlertHandles(b.ctx.DB, handles); err != nil {
		log.Warnf("could not store alerts for %s: %s\n", m.Name, err.Error())
		if err := alerts.CancelAll(b.scheduler, handles); err != nil {
			log.Debug("cancelling unstored alerts: %s\n", err.Error())
		}
	}
}

func customHoursPayload(m database.Medication) *int {
	if m.Frequency != database.FrequencyCustom {
		return nil
	}

	h := m.CustomIntervalHours
	return &h
}

// CreateMedication saves a new medication, generates its upcoming doses,
// arms its alerts and mirrors it to the remote store.
func (b *Bridge) CreateMedication(p MedicationParams) (Result, error) {
	m, err := b.buildMedication(p)
	if err != nil {
		return failed(0, err)
	}

	if err := m.Insert(b.ctx.DB); err != nil {
		return failed(0, errors.Wrap(err, "saving the medication"))
	}

	if _, err := schedule.GenerateUpcomingDoses(b.ctx.DB, clock.Today(b.ctx.Clock)); err != nil {
		log.Warnf("could not generate doses for %s: %s\n", m.Name, err.Error())
	}

	b.arm(&m)

	if err := b.authorize(); err != nil {
		return localOnly(m.ID, "", b.classify("creating the medication remotely", err)), nil
	}

	resp, err := client.CreateMedication(*b.ctx, client.MedicationPayload{
		Name:                m.Name,
		Dosage:              m.Dosage,
		Notes:               m.Notes,
		FirstDoseTime:       m.FirstDoseTime,
		Frequency:           string(m.Frequency),
		CustomIntervalHours: customHoursPayload(m),
		Active:              m.Active,
		StartDate:           m.StartDate,
		LocalTimestamp:      b.now().Format(time.RFC3339),
		Origin:              consts.RemoteOrigin,
	})
	if err != nil {
		return localOnly(m.ID, "", b.classify("creating the medication remotely", err)), nil
	}

	remoteID := resp.Medication.UUID
	if err := m.UpdateRemoteID(b.ctx.DB, remoteID); err != nil {
		log.Debug("back-filling remote id %s: %s\n", remoteID, err.Error())
		return localOnly(m.ID, remoteID, errors.Wrap(err, "back-filling the remote id")), nil
	}

	return synced(m.ID, remoteID), nil
}

// SetMedicationActive pauses a medication. Pausing cancels its armed alerts.
// A paused medication cannot be resumed.
func (b *Bridge) SetMedicationActive(id int, active bool) (Result, error) {
	m, err := database.GetMedication(b.ctx.DB, id)
	if err != nil {
		return failed(id, errors.Wrapf(err, "finding medication %d", id))
	}

	if active {
		if !m.Active {
			return failed(id, ErrReactivate)
		}

		return current(m.ID, m.RemoteID), nil
	}

	if err := alerts.CancelAll(b.scheduler, m.AlertHandles); err != nil {
		log.Warnf("could not cancel every alert of %s: %s\n", m.Name, err.Error())
	}

	tx, err := b.ctx.DB.Begin()
	if err != nil {
		return failed(id, errors.Wrap(err, "beginning a transaction"))
	}
	if err := m.UpdateAlertHandles(tx, []string{}); err != nil {
		tx.Rollback()
		return failed(id, err)
	}
	if err := m.UpdateActive(tx, false); err != nil {
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
		return localOnly(m.ID, m.RemoteID, b.classify("pausing the medication remotely", err)), nil
	}
	if _, err := client.UpdateMedicationStatus(*b.ctx, m.RemoteID, false, b.now().Format(time.RFC3339)); err != nil {
		return localOnly(m.ID, m.RemoteID, b.classify("pausing the medication remotely", err)), nil
	}

	return synced(m.ID, m.RemoteID), nil
}

// current reports an entity that needed no write
func current(localID int, remoteID string) Result {
	if remoteID == "" {
		return localOnly(localID, "", nil)
	}

	return synced(localID, remoteID)
}
