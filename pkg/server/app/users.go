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
	"github.com/medtrack/medtrack/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

func newUser() (database.User, error) {
	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.User{}, err
	}

	return database.User{UUID: uuid}, nil
}

// CreateAnonymousUser creates a user without credentials. Its data can only be
// reached with the sessions issued to it.
func (a *App) CreateAnonymousUser() (database.User, error) {
	user, err := newUser()
	if err != nil {
		return user, err
	}
	user.Anonymous = true

	if err := a.DB.Create(&user).Error; err != nil {
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	return user, nil
}

// CreateUser creates a user with an email and a password
func (a *App) CreateUser(email, password string) (database.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	user, err := newUser()
	if err != nil {
		return user, err
	}
	user.Email = database.ToNullString(email)
	user.Password = database.ToNullString(string(hashedPassword))

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return pkgErrors.Wrap(err, "counting user")
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		if err := tx.Create(&user).Error; err != nil {
			return pkgErrors.Wrap(err, "saving user")
		}

		return a.TouchLastLoginAt(user, tx)
	})
	if err != nil {
		return database.User{}, err
	}

	return user, nil
}

// GetUserByEmail finds a user by email
func (a *App) GetUserByEmail(email string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	return &user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := a.GetUserByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLoginInvalid
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password)); err != nil {
		return nil, ErrLoginInvalid
	}

	return user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	if err := a.TouchLastLoginAt(*user, a.DB); err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// RemoveUser deletes the user with the given email along with its sessions
// and documents
func (a *App) RemoveUser(email string) error {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&database.Intake{}, &database.Record{}, &database.Medication{}} {
			if err := tx.Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				return pkgErrors.Wrap(err, "deleting documents")
			}
		}
		if err := a.DeleteUserSessions(tx, user.ID); err != nil {
			return err
		}
		if err := tx.Delete(user).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting user")
		}

		return nil
	})
}
