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

// CreateRecord creates a daily record document for the user
func (a *App) CreateRecord(user database.User, text, localTimestamp, origin string) (database.Record, error) {
	if strings.TrimSpace(text) == "" {
		return database.Record{}, ErrTextRequired
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Record{}, err
	}

	r := database.Record{
		UUID:           uuid,
		UserID:         user.ID,
		Text:           text,
		LocalTimestamp: localTimestamp,
		Origin:         origin,
	}
	if err := a.DB.Create(&r).Error; err != nil {
		return database.Record{}, pkgErrors.Wrap(err, "inserting record")
	}

	return r, nil
}

// GetRecords returns the records of the user, newest first
func (a *App) GetRecords(user database.User) ([]database.Record, error) {
	var ret []database.Record
	if err := a.DB.Where("user_id = ?", user.ID).Order("id DESC").Find(&ret).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding records")
	}

	return ret, nil
}

// DeleteRecord deletes a record of the user
func (a *App) DeleteRecord(user database.User, uuid string) (database.Record, error) {
	var r database.Record
	err := a.DB.Where("user_id = ? AND uuid = ?", user.ID, uuid).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r, ErrNotFound
	} else if err != nil {
		return r, pkgErrors.Wrap(err, "finding record")
	}

	if err := a.DB.Delete(&r).Error; err != nil {
		return r, pkgErrors.Wrap(err, "deleting record")
	}

	return r, nil
}
