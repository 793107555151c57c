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
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user. Anonymous users have neither an email nor a password.
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;uniqueIndex"`
	Email       NullString `gorm:"uniqueIndex"`
	Password    NullString `json:"-"`
	Anonymous   bool       `json:"anonymous"`
	LastLoginAt *time.Time `json:"-"`
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// Medication is a mirrored medication document
type Medication struct {
	Model
	UUID                string `gorm:"type:text;uniqueIndex"`
	UserID              int    `gorm:"index"`
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

// Record is a mirrored daily record document
type Record struct {
	Model
	UUID           string `gorm:"type:text;uniqueIndex"`
	UserID         int    `gorm:"index"`
	Text           string
	LocalTimestamp string
	Origin         string
}

// Intake is an append-only intake event
type Intake struct {
	Model
	UUID           string `gorm:"type:text;uniqueIndex"`
	UserID         int    `gorm:"index"`
	MedicationUUID string `gorm:"index"`
	MedicationName string
	Date           string
	ScheduledTime  string
	Taken          bool
	TakenTime      string
	LocalTimestamp string
	Origin         string
}
