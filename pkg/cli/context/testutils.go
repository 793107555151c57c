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

package context

import (
	"testing"

	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/clock"
	"github.com/pkg/errors"
)

// InitTestCtx initializes a test context with an in-memory database
// and a temporary directory for all paths
func InitTestCtx(t *testing.T) MedtrackCtx {
	return InitTestCtxWithDB(t, database.InitTestMemoryDB(t))
}

// InitTestCtxWithDB initializes a test context with the provided database
// and a temporary directory for all paths.
func InitTestCtxWithDB(t *testing.T, db *database.DB) MedtrackCtx {
	tmpDir := t.TempDir()
	paths := Paths{
		Config: tmpDir,
		Data:   tmpDir,
	}

	if err := InitMedtrackDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	return MedtrackCtx{
		DB:    db,
		Paths: paths,
		Clock: clock.NewMock(),
	}
}
