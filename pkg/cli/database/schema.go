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
	"github.com/pkg/errors"
)

// InitSchema creates the tables of a fresh install. Later additions to the
// schema are applied on top of it by the migrate package.
func InitSchema(db *DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS medications
		(
			id integer PRIMARY KEY AUTOINCREMENT,
			name text NOT NULL,
			dosage text NOT NULL DEFAULT '',
			notes text NOT NULL DEFAULT '',
			first_dose_time text NOT NULL,
			frequency text NOT NULL,
			custom_interval_hours integer NULL,
			active bool NOT NULL DEFAULT true,
			alert_handles text NOT NULL DEFAULT '[]',
			start_date text NOT NULL,
			created_at integer NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "creating medications table")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS dose_records
		(
			id integer PRIMARY KEY AUTOINCREMENT,
			medication_id integer NOT NULL,
			medication_name text NOT NULL,
			date text NOT NULL,
			scheduled_time text NOT NULL,
			taken bool NOT NULL DEFAULT false,
			taken_time text NULL,
			created_at integer NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "creating dose_records table")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS notes
		(
			id integer PRIMARY KEY AUTOINCREMENT,
			text text NOT NULL,
			created_at text NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "creating notes table")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS scheduled_notifications
		(
			id integer PRIMARY KEY AUTOINCREMENT,
			date text NOT NULL,
			time text NOT NULL,
			title text NOT NULL,
			message text NOT NULL,
			alert_handle text NOT NULL,
			created_at integer NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "creating scheduled_notifications table")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS system
		(
			key string NOT NULL,
			value text NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "creating system table")
	}

	_, err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_system_key ON system(key);
		CREATE INDEX IF NOT EXISTS idx_dose_records_medication_id_date ON dose_records(medication_id, date);`)
	if err != nil {
		return errors.Wrap(err, "creating indices")
	}

	return nil
}
