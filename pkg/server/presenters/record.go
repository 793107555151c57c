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

// Record is a result of PresentRecord
type Record struct {
	UUID           string    `json:"uuid"`
	Text           string    `json:"text"`
	LocalTimestamp string    `json:"local_timestamp"`
	Origin         string    `json:"origin"`
	CreatedAt      time.Time `json:"created_at"`
}

// PresentRecord presents a record
func PresentRecord(r database.Record) Record {
	return Record{
		UUID:           r.UUID,
		Text:           r.Text,
		LocalTimestamp: r.LocalTimestamp,
		Origin:         r.Origin,
		CreatedAt:      FormatTS(r.CreatedAt),
	}
}

// PresentRecords presents records
func PresentRecords(records []database.Record) []Record {
	ret := []Record{}

	for _, r := range records {
		ret = append(ret, PresentRecord(r))
	}

	return ret
}
