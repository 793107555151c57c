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
	"fmt"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/medtrack/medtrack/pkg/server/testutils"
)

func TestValidate(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	testCases := []struct {
		app      App
		expected error
	}{
		{
			app:      App{DB: db, Clock: clock.NewMock(), SessionTTL: DefaultSessionTTL},
			expected: nil,
		},
		{
			app:      App{Clock: clock.NewMock(), SessionTTL: DefaultSessionTTL},
			expected: ErrEmptyDB,
		},
		{
			app:      App{DB: db, SessionTTL: DefaultSessionTTL},
			expected: ErrEmptyClock,
		},
		{
			app:      App{DB: db, Clock: clock.NewMock()},
			expected: ErrInvalidSessionTTL,
		},
	}

	for idx, tc := range testCases {
		got := tc.app.Validate()

		assert.Equal(t, got, tc.expected, fmt.Sprintf("test case %d", idx))
	}
}
