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
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/medtrack/medtrack/pkg/server/database/migrations"
	"github.com/medtrack/medtrack/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MigrationTableName is the name of the table that keeps track of migrations
const MigrationTableName = "schema_migrations"

type migrationFile struct {
	filename string
	version  int
}

// parseMigrationFilename returns the version of a migration file named NNN-description.sql
func parseMigrationFilename(name string) (int, error) {
	if !strings.HasSuffix(name, ".sql") {
		return 0, errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	parts := strings.SplitN(strings.TrimSuffix(name, ".sql"), "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}

	version := parts[0]
	if len(version) != 3 {
		return 0, errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("invalid migration filename %s: version must be numeric", name)
		}
	}

	return strconv.Atoi(version)
}

// Migrate runs the embedded migrations
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

// getMigrationFiles reads, validates, and sorts migration files
func getMigrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var ret []migrationFile
	seen := map[int]string{}
	for _, e := range entries {
		name := e.Name()

		v, err := parseMigrationFilename(name)
		if err != nil {
			return nil, err
		}
		if existing, found := seen[v]; found {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, existing, name)
		}
		seen[v] = name

		ret = append(ret, migrationFile{filename: name, version: v})
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].version < ret[j].version
	})

	return ret, nil
}

func migrate(db *gorm.DB, fsys fs.FS) error {
	if err := db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, MigrationTableName)).Error; err != nil {
		return errors.Wrap(err, "initializing migration table")
	}

	var version int
	if err := db.Raw(fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", MigrationTableName)).Scan(&version).Error; err != nil {
		return errors.Wrap(err, "reading current version")
	}

	files, err := getMigrationFiles(fsys)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": version,
	}).Info("Database schema version.")

	for _, m := range files {
		if m.version <= version {
			continue
		}

		sql, err := fs.ReadFile(fsys, m.filename)
		if err != nil {
			return errors.Wrapf(err, "reading migration file %s", m.filename)
		}
		if strings.TrimSpace(string(sql)) == "" {
			return errors.Errorf("migration file %s is empty", m.filename)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(sql)).Error; err != nil {
				return errors.Wrapf(err, "migration %s failed", m.filename)
			}
			if err := tx.Exec(fmt.Sprintf("INSERT INTO %s (version) VALUES (?)", MigrationTableName), m.version).Error; err != nil {
				return errors.Wrapf(err, "recording migration %s", m.filename)
			}

			return nil
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"file": m.filename,
		}).Info("Applied migration.")
	}

	return nil
}
