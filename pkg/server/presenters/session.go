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
	"github.com/medtrack/medtrack/pkg/server/database"
)

// Session is a result of PresentSession
type Session struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
	UserUUID  string `json:"user_uuid"`
}

// PresentSession presents a session issued to the given user
func PresentSession(s database.Session, user database.User) Session {
	return Session{
		Key:       s.Key,
		ExpiresAt: s.ExpiresAt.Unix(),
		UserUUID:  user.UUID,
	}
}
