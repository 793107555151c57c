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

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/server/app"
	"github.com/medtrack/medtrack/pkg/server/database"
	"github.com/medtrack/medtrack/pkg/server/testutils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const medicationPayload = `{
	"name": "Ibuprofen",
	"dosage": "200mg",
	"notes": "with food",
	"first_dose_time": "08:00",
	"frequency": "every8",
	"custom_interval_hours": null,
	"active": true,
	"start_date": "2025-03-10",
	"local_timestamp": "2025-03-10T08:00:00+01:00",
	"origin": "device-a"
}`

func medicationsPath(user database.User) string {
	return fmt.Sprintf("/api/v1/users/%s/medications", user.UUID)
}

func setupMedication(t *testing.T, db *gorm.DB, user database.User, name string) database.Medication {
	m := database.Medication{
		UUID:          testutils.MustUUID(t),
		UserID:        user.ID,
		Name:          name,
		FirstDoseTime: "08:00",
		Frequency:     "daily",
		Active:        true,
		StartDate:     "2025-03-10",
	}
	testutils.MustExec(t, db.Save(&m), "preparing medication")

	return m
}

func TestCreateMedication(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := app.NewTest(db)
		server := MustNewServer(t, &a)
		user := testutils.SetupAnonymousUser(db)

		req := testutils.MakeReq(server.URL, "POST", medicationsPath(user), medicationPayload)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "")

		var medCount int64
		var med database.Medication
		testutils.MustExec(t, db.Model(&database.Medication{}).Count(&medCount), "counting medications")
		testutils.MustExec(t, db.First(&med), "finding medication")

		assert.Equalf(t, medCount, int64(1), "medication count mismatch")
		assert.Equal(t, med.UserID, user.ID, "user id mismatch")
		assert.Equal(t, med.Name, "Ibuprofen", "name mismatch")
		assert.Equal(t, med.Notes, "with food", "notes mismatch")
		assert.Equal(t, med.Origin, "device-a", "origin mismatch")

		var got MedicationResp
		if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
			t.Fatal(errors.Wrap(err, "decoding"))
		}
		assert.Equal(t, got.Medication.UUID, med.UUID, "uuid mismatch")
		assert.Equal(t, got.Medication.Frequency, "every8", "frequency mismatch")
		assert.Equal(t, got.Medication.Active, true, "active mismatch")
		assert.Equal(t, got.Medication.LocalTimestamp, "2025-03-10T08:00:00+01:00", "local timestamp mismatch")
	})

	t.Run("invalid", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := app.NewTest(db)
		server := MustNewServer(t, &a)
		user := testutils.SetupAnonymousUser(db)

		payload := `{"name": "Ibuprofen", "first_dose_time": "8am", "frequency": "daily", "start_date": "2025-03-10"}`
		req := testutils.MakeReq(server.URL, "POST", medicationsPath(user), payload)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")

		var medCount int64
		testutils.MustExec(t, db.Model(&database.Medication{}).Count(&medCount), "counting medications")
		assert.Equal(t, medCount, int64(0), "medication count mismatch")
	})
}

func TestGetMedications(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	m1 := setupMedication(t, db, alice, "Ibuprofen")
	m2 := setupMedication(t, db, alice, "Vitamin D")
	setupMedication(t, db, bob, "Aspirin")

	req := testutils.MakeReq(server.URL, "GET", medicationsPath(alice), "")
	res := testutils.HTTPAuthDo(t, db, req, alice)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var got MedicationsResp
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding"))
	}

	assert.Equalf(t, len(got.Medications), 2, "length mismatch")
	assert.Equal(t, got.Medications[0].UUID, m1.UUID, "first medication mismatch")
	assert.Equal(t, got.Medications[1].UUID, m2.UUID, "second medication mismatch")
}

func TestUpdateMedication(t *testing.T) {
	testCases := []struct {
		name           string
		payload        string
		expectedStatus int
		expectedActive bool
	}{
		{"pause", `{"active": false, "local_timestamp": "2025-03-11T09:00:00Z"}`, http.StatusOK, false},
		{"missing active", `{"local_timestamp": "2025-03-11T09:00:00Z"}`, http.StatusBadRequest, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			a := app.NewTest(db)
			server := MustNewServer(t, &a)
			user := testutils.SetupAnonymousUser(db)
			m := setupMedication(t, db, user, "Ibuprofen")

			req := testutils.MakeReq(server.URL, "PATCH", medicationsPath(user)+"/"+m.UUID, tc.payload)
			res := testutils.HTTPAuthDo(t, db, req, user)

			assert.StatusCodeEquals(t, res, tc.expectedStatus, "")

			var got database.Medication
			testutils.MustExec(t, db.Where("uuid = ?", m.UUID).First(&got), "finding medication")
			assert.Equal(t, got.Active, tc.expectedActive, "active mismatch")
		})
	}

	t.Run("not found", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := app.NewTest(db)
		server := MustNewServer(t, &a)
		user := testutils.SetupAnonymousUser(db)

		req := testutils.MakeReq(server.URL, "PATCH", medicationsPath(user)+"/"+testutils.MustUUID(t), `{"active": false}`)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})
}

func TestDeleteMedication(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := app.NewTest(db)
		server := MustNewServer(t, &a)
		user := testutils.SetupAnonymousUser(db)
		m := setupMedication(t, db, user, "Ibuprofen")

		req := testutils.MakeReq(server.URL, "DELETE", medicationsPath(user)+"/"+m.UUID, "")
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var got MedicationResp
		if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
			t.Fatal(errors.Wrap(err, "decoding"))
		}
		assert.Equal(t, got.Medication.UUID, m.UUID, "uuid mismatch")

		var medCount int64
		testutils.MustExec(t, db.Model(&database.Medication{}).Count(&medCount), "counting medications")
		assert.Equal(t, medCount, int64(0), "medication count mismatch")
	})

	t.Run("other user's medication", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := app.NewTest(db)
		server := MustNewServer(t, &a)
		alice := testutils.SetupAnonymousUser(db)
		bob := testutils.SetupAnonymousUser(db)
		m := setupMedication(t, db, bob, "Aspirin")

		req := testutils.MakeReq(server.URL, "DELETE", medicationsPath(alice)+"/"+m.UUID, "")
		res := testutils.HTTPAuthDo(t, db, req, alice)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")

		var medCount int64
		testutils.MustExec(t, db.Model(&database.Medication{}).Count(&medCount), "counting medications")
		assert.Equal(t, medCount, int64(1), "medication count mismatch")
	})
}
