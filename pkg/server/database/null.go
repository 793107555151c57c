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
)

// NullString is a nullable string column that marshals to JSON null
type NullString struct {
	sql.NullString
}

// ToNullString returns a NullString that is null if the given string is empty
func ToNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: s != ""}}
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(ns.String)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == nil {
		ns.Valid = false
		ns.String = ""
		return nil
	}

	ns.Valid = true
	ns.String = *s
	return nil
}
