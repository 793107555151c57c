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

package remind

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/medtrack/medtrack/pkg/assert"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
)

func silence(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	t.Cleanup(restore)

	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	return &buf
}

func TestAddListRm(t *testing.T) {
	logs := silence(t)
	ctx := context.InitTestCtx(t)

	cmd := NewCmd(&ctx)
	cmd.SetArgs([]string{"add", "--date", "2025-03-20", "--time", "09:00", "--title", "Refill"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, database.MustCount(t, ctx.DB, "scheduled_notifications", ""), 1, "reminder count mismatch")
	assert.Equal(t, database.MustCount(t, ctx.DB, "alerts", ""), 1, "alert count mismatch")
	assert.Equal(t, strings.Contains(logs.String(), "saved locally, not synced"), true, "outcome should be printed")

	var buf bytes.Buffer
	if err := listReminders(ctx.DB, &buf); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, buf.String(), "(1) 2025-03-20 09:00 Refill: Scheduled reminder\n", "list mismatch")

	cmd = NewCmd(&ctx)
	cmd.SetArgs([]string{"rm", "1"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, database.MustCount(t, ctx.DB, "scheduled_notifications", ""), 0, "reminder should be removed")
	assert.Equal(t, database.MustCount(t, ctx.DB, "alerts", ""), 0, "alert should be cancelled")
}

func TestAddInPast(t *testing.T) {
	silence(t)
	ctx := context.InitTestCtx(t)

	cmd := NewCmd(&ctx)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"add", "--date", "2025-03-10", "--time", "07:00", "--title", "Refill"})

	assert.NotEqual(t, cmd.Execute(), nil, "a reminder in the past should fail")
	assert.Equal(t, database.MustCount(t, ctx.DB, "scheduled_notifications", ""), 0, "nothing should be saved")
}

func TestListRemindersEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := listReminders(database.InitTestMemoryDB(t), &buf); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, buf.String(), "no reminders\n", "output mismatch")
}
