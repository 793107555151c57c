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

package database

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrNotFound is an error returned when a row does not exist in the local store
var ErrNotFound = errors.New("not found")

// Frequency is the recurrence rule of a medication
type Frequency string

const (
	// FrequencyDaily is one dose a day
	FrequencyDaily Frequency = "daily"
	// FrequencyEvery12 is a dose every 12 hours
	FrequencyEvery12 Frequency = "every12"
	// FrequencyEvery8 is a dose every 8 hours
	FrequencyEvery8 Frequency = "every8"
	// FrequencyWeekly is a weekly dose
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly is a monthly dose
	FrequencyMonthly Frequency = "monthly"
	// FrequencyCustom is a dose every custom_interval_hours hours
	FrequencyCustom Frequency = "custom"
)

// Frequencies lists every valid frequency
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyEvery12,
	FrequencyEvery8,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyCustom,
}

// Medication is a medication schedule
type Medication struct {
	ID                  int
	RemoteID            string
	Name                string
	Dosage              string
	Notes               string
	FirstDoseTime       string
	Frequency           Frequency
	CustomIntervalHours int
	Active              bool
	AlertHandles        []string
	StartDate           string
	CreatedAt           int64
}

// DoseRecord is one scheduled dose of a medication on a date
type DoseRecord struct {
	ID             int
	MedicationID   int
	MedicationName string
	Date           string
	DoseOrdinal    int
	ScheduledTime  string
	Taken          bool
	TakenTime      string
	CreatedAt      int64
}

// Note is a personal daily record
type Note struct {
	ID        int
	RemoteID  string
	Text      string
	CreatedAt string
}

// ScheduledNotification is an ad hoc reminder set by the user
type ScheduledNotification struct {
	ID          int
	Date        string
	Time        string
	Title       string
	Message     string
	AlertHandle string
	CreatedAt   int64
}

// Alert is an armed device alert
type Alert struct {
	ID          int
	Handle      string
	FireAt      int64
	Title       string
	Body        string
	DeliveredAt int64
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}

func lastID(res sql.Result) (int, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "getting last insert id")
	}

	return int(id), nil
}

const medicationColumns = `id, remote_id, name, dosage, notes, first_dose_time, frequency,
	custom_interval_hours, active, alert_handles, start_date, created_at`

func scanMedication(s scanner) (Medication, error) {
	var m Medication
	var remoteID sql.NullString
	var customHours sql.NullInt64
	var handles string

	err := s.Scan(&m.ID, &remoteID, &m.Name, &m.Dosage, &m.Notes, &m.FirstDoseTime, &m.Frequency,
		&customHours, &m.Active, &handles, &m.StartDate, &m.CreatedAt)
	if err != nil {
		return m, err
	}

	m.RemoteID = remoteID.String
	m.CustomIntervalHours = int(customHours.Int64)
	if err := json.Unmarshal([]byte(handles), &m.AlertHandles); err != nil {
		return m, errors.Wrapf(err, "decoding alert handles of medication %d", m.ID)
	}

	return m, nil
}

func encodeHandles(handles []string) (string, error) {
	if handles == nil {
		handles = []string{}
	}

	b, err := json.Marshal(handles)
	if err != nil {
		return "", errors.Wrap(err, "encoding alert handles")
	}

	return string(b), nil
}

// Insert inserts a new medication and sets its local id
func (m *Medication) Insert(db *DB) error {
	handles, err := encodeHandles(m.AlertHandles)
	if err != nil {
		return err
	}

	var customHours sql.NullInt64
	if m.Frequency == FrequencyCustom {
		customHours = nullInt(m.CustomIntervalHours)
	}

	res, err := db.Exec(`INSERT INTO medications
		(remote_id, name, dosage, notes, first_dose_time, frequency, custom_interval_hours, active, alert_handles, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(m.RemoteID), m.Name, m.Dosage, m.Notes, m.FirstDoseTime, m.Frequency, customHours, m.Active, handles, m.StartDate, m.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "inserting medication %s", m.Name)
	}

	m.ID, err = lastID(res)
	return err
}

// UpdateRemoteID back-fills the remote id of the medication. It only ever
// moves the column from NULL to a value.
func (m *Medication) UpdateRemoteID(db *DB, remoteID string) error {
	if err := updateRemoteID(db, "medications", m.ID, remoteID); err != nil {
		return err
	}

	m.RemoteID = remoteID
	return nil
}

// UpdateActive updates the active flag of the medication
func (m *Medication) UpdateActive(db *DB, active bool) error {
	if _, err := db.Exec("UPDATE medications SET active = ? WHERE id = ?", active, m.ID); err != nil {
		return errors.Wrapf(err, "updating active status of medication %d", m.ID)
	}

	m.Active = active
	return nil
}

// UpdateAlertHandles replaces the armed alert handles of the medication
func (m *Medication) UpdateAlertHandles(db *DB, handles []string) error {
	encoded, err := encodeHandles(handles)
	if err != nil {
		return err
	}

	if _, err := db.Exec("UPDATE medications SET alert_handles = ? WHERE id = ?", encoded, m.ID); err != nil {
		return errors.Wrapf(err, "updating alert handles of medication %d", m.ID)
	}

	m.AlertHandles = handles
	return nil
}

// Expunge hard-deletes the medication from the database
func (m Medication) Expunge(db *DB) error {
	if _, err := db.Exec("DELETE FROM medications WHERE id = ?", m.ID); err != nil {
		return errors.Wrapf(err, "deleting medication %d", m.ID)
	}

	return nil
}

// GetMedication finds a medication by its local id
func GetMedication(db *DB, id int) (Medication, error) {
	m, err := scanMedication(db.QueryRow("SELECT "+medicationColumns+" FROM medications WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	} else if err != nil {
		return m, errors.Wrapf(err, "finding medication %d", id)
	}

	return m, nil
}

// ListMedications returns medications ordered by name
func ListMedications(db *DB, activeOnly bool) ([]Medication, error) {
	query := "SELECT " + medicationColumns + " FROM medications"
	if activeOnly {
		query += " WHERE active = true"
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, "querying medications")
	}
	defer rows.Close()

	ret := []Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning a medication")
		}

		ret = append(ret, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating medications")
	}

	return ret, nil
}

const doseRecordColumns = `id, medication_id, medication_name, date, dose_ordinal,
	scheduled_time, taken, taken_time, created_at`

func scanDoseRecord(s scanner) (DoseRecord, error) {
	var d DoseRecord
	var takenTime sql.NullString

	err := s.Scan(&d.ID, &d.MedicationID, &d.MedicationName, &d.Date, &d.DoseOrdinal,
		&d.ScheduledTime, &d.Taken, &takenTime, &d.CreatedAt)
	d.TakenTime = takenTime.String

	return d, err
}

// InsertIfAbsent inserts the dose record unless one already exists for the same
// medication, date and ordinal. It reports whether a row was inserted.
func (d *DoseRecord) InsertIfAbsent(db *DB) (bool, error) {
	res, err := db.Exec(`INSERT OR IGNORE INTO dose_records
		(medication_id, medication_name, date, dose_ordinal, scheduled_time, taken, taken_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.MedicationID, d.MedicationName, d.Date, d.DoseOrdinal, d.ScheduledTime, d.Taken, nullString(d.TakenTime), d.CreatedAt)
	if err != nil {
		return false, errors.Wrapf(err, "inserting dose %d of medication %d on %s", d.DoseOrdinal, d.MedicationID, d.Date)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return false, nil
	}

	d.ID, err = lastID(res)
	return true, err
}

// UpdateTaken marks the dose as taken at the given time, or clears it
func (d *DoseRecord) UpdateTaken(db *DB, taken bool, takenTime string) error {
	if !taken {
		takenTime = ""
	}

	if _, err := db.Exec("UPDATE dose_records SET taken = ?, taken_time = ? WHERE id = ?", taken, nullString(takenTime), d.ID); err != nil {
		return errors.Wrapf(err, "updating dose record %d", d.ID)
	}

	d.Taken = taken
	d.TakenTime = takenTime
	return nil
}

// GetDoseRecord finds a dose record by its local id
func GetDoseRecord(db *DB, id int) (DoseRecord, error) {
	d, err := scanDoseRecord(db.QueryRow("SELECT "+doseRecordColumns+" FROM dose_records WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	} else if err != nil {
		return d, errors.Wrapf(err, "finding dose record %d", id)
	}

	return d, nil
}

// ListDoseRecords returns the dose records scheduled on the given date
func ListDoseRecords(db *DB, date string) ([]DoseRecord, error) {
	rows, err := db.Query("SELECT "+doseRecordColumns+" FROM dose_records WHERE date = ? ORDER BY scheduled_time ASC, medication_name ASC, dose_ordinal ASC", date)
	if err != nil {
		return nil, errors.Wrap(err, "querying dose records")
	}
	defer rows.Close()

	ret := []DoseRecord{}
	for rows.Next() {
		d, err := scanDoseRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning a dose record")
		}

		ret = append(ret, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating dose records")
	}

	return ret, nil
}

// HasDoseRecords tells if any dose record exists for the medication on the date
func HasDoseRecords(db *DB, medicationID int, date string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT count(*) FROM dose_records WHERE medication_id = ? AND date = ?", medicationID, date).Scan(&count)
	if err != nil {
		return false, errors.Wrapf(err, "counting dose records of medication %d on %s", medicationID, date)
	}

	return count > 0, nil
}

// ExpungeDoseRecords deletes every dose record of the medication
func ExpungeDoseRecords(db *DB, medicationID int) (int64, error) {
	res, err := db.Exec("DELETE FROM dose_records WHERE medication_id = ?", medicationID)
	if err != nil {
		return 0, errors.Wrapf(err, "deleting dose records of medication %d", medicationID)
	}

	return res.RowsAffected()
}

// Insert inserts a new note and sets its local id
func (n *Note) Insert(db *DB) error {
	res, err := db.Exec("INSERT INTO notes (text, created_at, remote_id) VALUES (?, ?, ?)", n.Text, n.CreatedAt, nullString(n.RemoteID))
	if err != nil {
		return errors.Wrap(err, "inserting note")
	}

	n.ID, err = lastID(res)
	return err
}

// UpdateRemoteID back-fills the remote id of the note
func (n *Note) UpdateRemoteID(db *DB, remoteID string) error {
	if err := updateRemoteID(db, "notes", n.ID, remoteID); err != nil {
		return err
	}

	n.RemoteID = remoteID
	return nil
}

// Expunge hard-deletes the note from the database
func (n Note) Expunge(db *DB) error {
	if _, err := db.Exec("DELETE FROM notes WHERE id = ?", n.ID); err != nil {
		return errors.Wrapf(err, "deleting note %d", n.ID)
	}

	return nil
}

func scanNote(s scanner) (Note, error) {
	var n Note
	var remoteID sql.NullString

	err := s.Scan(&n.ID, &remoteID, &n.Text, &n.CreatedAt)
	n.RemoteID = remoteID.String

	return n, err
}

// GetNote finds a note by its local id
func GetNote(db *DB, id int) (Note, error) {
	n, err := scanNote(db.QueryRow("SELECT id, remote_id, text, created_at FROM notes WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	} else if err != nil {
		return n, errors.Wrapf(err, "finding note %d", id)
	}

	return n, nil
}

// ListNotes returns notes, most recent first
func ListNotes(db *DB) ([]Note, error) {
	rows, err := db.Query("SELECT id, remote_id, text, created_at FROM notes ORDER BY id DESC")
	if err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	defer rows.Close()

	ret := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning a note")
		}

		ret = append(ret, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating notes")
	}

	return ret, nil
}

func updateRemoteID(db *DB, table string, id int, remoteID string) error {
	res, err := db.Exec("UPDATE "+table+" SET remote_id = ? WHERE id = ? AND remote_id IS NULL", remoteID, id)
	if err != nil {
		return errors.Wrapf(err, "updating remote id of %s %d", table, id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return errors.Errorf("%s %d is missing or already linked to a remote id", table, id)
	}

	return nil
}

// Insert inserts a new scheduled notification and sets its local id
func (s *ScheduledNotification) Insert(db *DB) error {
	res, err := db.Exec("INSERT INTO scheduled_notifications (date, time, title, message, alert_handle, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		s.Date, s.Time, s.Title, s.Message, s.AlertHandle, s.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "inserting scheduled notification")
	}

	s.ID, err = lastID(res)
	return err
}

// Expunge hard-deletes the scheduled notification from the database
func (s ScheduledNotification) Expunge(db *DB) error {
	if _, err := db.Exec("DELETE FROM scheduled_notifications WHERE id = ?", s.ID); err != nil {
		return errors.Wrapf(err, "deleting scheduled notification %d", s.ID)
	}

	return nil
}

const scheduledNotificationColumns = "id, date, time, title, message, alert_handle, created_at"

func scanScheduledNotification(s scanner) (ScheduledNotification, error) {
	var n ScheduledNotification
	err := s.Scan(&n.ID, &n.Date, &n.Time, &n.Title, &n.Message, &n.AlertHandle, &n.CreatedAt)

	return n, err
}

// GetScheduledNotification finds a scheduled notification by its local id
func GetScheduledNotification(db *DB, id int) (ScheduledNotification, error) {
	n, err := scanScheduledNotification(db.QueryRow("SELECT "+scheduledNotificationColumns+" FROM scheduled_notifications WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	} else if err != nil {
		return n, errors.Wrapf(err, "finding scheduled notification %d", id)
	}

	return n, nil
}

// ListScheduledNotifications returns scheduled notifications in chronological order
func ListScheduledNotifications(db *DB) ([]ScheduledNotification, error) {
	rows, err := db.Query("SELECT " + scheduledNotificationColumns + " FROM scheduled_notifications ORDER BY date ASC, time ASC")
	if err != nil {
		return nil, errors.Wrap(err, "querying scheduled notifications")
	}
	defer rows.Close()

	ret := []ScheduledNotification{}
	for rows.Next() {
		n, err := scanScheduledNotification(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning a scheduled notification")
		}

		ret = append(ret, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating scheduled notifications")
	}

	return ret, nil
}

// Insert inserts a new alert and sets its local id
func (a *Alert) Insert(db *DB) error {
	res, err := db.Exec("INSERT INTO alerts (handle, fire_at, title, body) VALUES (?, ?, ?, ?)", a.Handle, a.FireAt, a.Title, a.Body)
	if err != nil {
		return errors.Wrapf(err, "inserting alert %s", a.Handle)
	}

	a.ID, err = lastID(res)
	return err
}

// MarkDelivered records the delivery time of the alert
func (a *Alert) MarkDelivered(db *DB, deliveredAt int64) error {
	if _, err := db.Exec("UPDATE alerts SET delivered_at = ? WHERE id = ?", deliveredAt, a.ID); err != nil {
		return errors.Wrapf(err, "marking alert %s delivered", a.Handle)
	}

	a.DeliveredAt = deliveredAt
	return nil
}

// ExpungeAlert deletes the alert with the given handle. It reports whether a row was deleted.
func ExpungeAlert(db *DB, handle string) (bool, error) {
	res, err := db.Exec("DELETE FROM alerts WHERE handle = ?", handle)
	if err != nil {
		return false, errors.Wrapf(err, "deleting alert %s", handle)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting affected rows")
	}

	return n > 0, nil
}

func queryAlerts(db *DB, query string, args ...interface{}) ([]Alert, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying alerts")
	}
	defer rows.Close()

	ret := []Alert{}
	for rows.Next() {
		var a Alert
		var deliveredAt sql.NullInt64

		if err := rows.Scan(&a.ID, &a.Handle, &a.FireAt, &a.Title, &a.Body, &deliveredAt); err != nil {
			return nil, errors.Wrap(err, "scanning an alert")
		}
		a.DeliveredAt = deliveredAt.Int64

		ret = append(ret, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating alerts")
	}

	return ret, nil
}

// ListDueAlerts returns undelivered alerts whose fire time is not after the given unix time
func ListDueAlerts(db *DB, now int64) ([]Alert, error) {
	return queryAlerts(db, "SELECT id, handle, fire_at, title, body, delivered_at FROM alerts WHERE delivered_at IS NULL AND fire_at <= ? ORDER BY fire_at ASC", now)
}

// ListPendingAlerts returns undelivered alerts in the order they fire
func ListPendingAlerts(db *DB) ([]Alert, error) {
	return queryAlerts(db, "SELECT id, handle, fire_at, title, body, delivered_at FROM alerts WHERE delivered_at IS NULL ORDER BY fire_at ASC")
}
