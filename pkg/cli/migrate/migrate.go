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

// Package migrate upgrades the local store of existing installs to the
// current schema
package migrate

import (
	"strings"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
)

// TableName is the name of the table recording applied migrations
const TableName = "schema_migrations"

// additiveColumn is a column added to installs that predate it. Adding it
// again fails with a duplicate column error, which is expected.
type additiveColumn struct {
	table      string
	definition string
}

var additiveColumns = []additiveColumn{
	{table: "medications", definition: "remote_id text NULL"},
	{table: "notes", definition: "remote_id text NULL"},
}

// Sequence is the ordered list of local schema migrations
var Sequence = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-dose-ordinal",
			Up: []string{
				`ALTER TABLE dose_records ADD COLUMN dose_ordinal integer NOT NULL DEFAULT 0`,
				`UPDATE dose_records SET dose_ordinal = (
					SELECT count(*) FROM dose_records AS prev
					WHERE prev.medication_id = dose_records.medication_id
						AND prev.date = dose_records.date
						AND prev.id < dose_records.id
				)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_dose_records_medication_id_date_ordinal ON dose_records(medication_id, date, dose_ordinal)`,
				`CREATE INDEX IF NOT EXISTS idx_dose_records_date ON dose_records(date)`,
			},
			Down: []string{
				`DROP INDEX IF EXISTS idx_dose_records_date`,
				`DROP INDEX IF EXISTS idx_dose_records_medication_id_date_ordinal`,
				`ALTER TABLE dose_records DROP COLUMN dose_ordinal`,
			},
		},
		{
			Id: "2-alerts",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS alerts
				(
					id integer PRIMARY KEY AUTOINCREMENT,
					handle text NOT NULL,
					fire_at integer NOT NULL,
					title text NOT NULL,
					body text NOT NULL,
					delivered_at integer NULL
				)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_handle ON alerts(handle)`,
				`CREATE INDEX IF NOT EXISTS idx_alerts_fire_at ON alerts(fire_at)`,
			},
			Down: []string{
				`DROP TABLE IF EXISTS alerts`,
			},
		},
	},
}

func isDuplicateColumn(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

// AddColumns adds the additive columns, ignoring those that already exist
func AddColumns(db *database.DB) error {
	for _, c := range additiveColumns {
		_, err := db.Exec("ALTER TABLE " + c.table + " ADD COLUMN " + c.definition)
		if err == nil {
			log.Debug("added column %s.%s\n", c.table, c.definition)
			continue
		}
		if isDuplicateColumn(err) {
			continue
		}

		return errors.Wrapf(err, "adding column to %s", c.table)
	}

	return nil
}

// Run applies the additive columns and every pending migration of the
// sequence. It returns the number of migrations applied.
func Run(db *database.DB, src migrate.MigrationSource) (int, error) {
	if err := AddColumns(db); err != nil {
		return 0, errors.Wrap(err, "adding columns")
	}

	ms := migrate.MigrationSet{TableName: TableName}
	n, err := ms.Exec(db.Conn, "sqlite3", src, migrate.Up)
	if err != nil {
		return n, errors.Wrap(err, "running migrations")
	}

	log.Debug("applied %d migrations\n", n)

	return n, nil
}
