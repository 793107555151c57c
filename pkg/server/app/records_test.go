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
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/server/testutils"
)

func TestRecords(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := NewTest(db)
	alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	r1, err := a.CreateRecord(alice, "slept badly", "2025-03-10T08:00:00Z", "device-a")
	if err != nil {
		t.Fatal(err)
	}
	r2, err := a.CreateRecord(alice, "felt dizzy after lunch", "2025-03-10T13:00:00Z", "device-a")
	if err != nil {
		t.Fatal(err)
	}

	_, err = a.CreateRecord(alice, " \n", "", "")
	assert.Equal(t, err, ErrTextRequired, "blank text error mismatch")

	got, err := a.GetRecords(alice)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equalf(t, len(got), 2, "length mismatch")
	assert.Equal(t, got[0].UUID, r2.UUID, "newest record should come first")
	assert.Equal(t, got[1].UUID, r1.UUID, "oldest record should come last")

	_, err = a.DeleteRecord(bob, r1.UUID)
	assert.Equal(t, err, ErrNotFound, "other user's record should not be deleted")

	deleted, err := a.DeleteRecord(alice, r1.UUID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, deleted.Text, "slept badly", "deleted record mismatch")

	got, err = a.GetRecords(alice)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(got), 1, "length after delete mismatch")
}
