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

// Package consts provides definitions of constants
package consts

var (
	// MedtrackDirName is the name of the directory containing medtrack files
	MedtrackDirName = "medtrack"
	// MedtrackDBFileName is a filename for the medtrack SQLite database
	MedtrackDBFileName = "medtrack.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "medtrackrc"

	// SystemSessionKey is the session key for the remote store
	SystemSessionKey = "session_token"
	// SystemSessionKeyExpiry is the timestamp at which the session key will expire
	SystemSessionKeyExpiry = "session_token_expiry"
	// SystemUserUUID is the id of the remote user that scopes every remote path
	SystemUserUUID = "user_uuid"
	// SystemLastGeneratedOn is the date on which doses were most recently generated
	SystemLastGeneratedOn = "last_generated_on"
	// SystemInitializedAt is the timestamp at which the local store was first set up
	SystemInitializedAt = "initialized_at"

	// RemoteOrigin tags every document this device writes to the remote store
	RemoteOrigin = "sqlite-sync"
	// NoteTimestampLayout is the display format of the note creation time
	NoteTimestampLayout = "2006-01-02 15:04:05"
)
