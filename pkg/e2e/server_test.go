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

package e2e

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/medtrack/medtrack/pkg/assert"
	"gorm.io/gorm"
)

var testServerBinary string

func TestMain(m *testing.M) {
	testServerBinary = filepath.Join(os.TempDir(), "medtrack-test-server")
	if out, err := exec.Command("go", "build", "-o", testServerBinary, "../server").CombinedOutput(); err != nil {
		fmt.Printf("failed to build server: %v\n%s", err, out)
		os.Exit(1)
	}

	code := m.Run()
	os.Remove(testServerBinary)

	os.Exit(code)
}

func openServerDB(t *testing.T, path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func waitForHealth(t *testing.T, port string) {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/health", port))
		if err == nil {
			resp.Body.Close()
			assert.Equal(t, resp.StatusCode, http.StatusOK, "health endpoint should return 200")
			return
		}

		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("server did not become healthy")
}

func TestServerStart(t *testing.T) {
	tmpDB := filepath.Join(t.TempDir(), "test.db")
	port := "13456"

	cmd := exec.Command(testServerBinary, "start", "--port", port)
	cmd.Env = append(os.Environ(), "DB_DSN="+tmpDB, "APP_ENV=PRODUCTION")
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	stop := func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
			cmd.Wait()
		}
	}
	defer stop()

	waitForHealth(t, port)

	// release the database before inspecting it
	stop()

	db := openServerDB(t, tmpDB)

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM schema_migrations").Scan(&count).Error; err != nil {
		t.Fatalf("schema_migrations table not found: %v", err)
	}
	assert.NotEqual(t, count, int64(0), "migrations should have run")

	for _, table := range []string{"users", "sessions", "medications", "records", "intakes"} {
		assert.Equal(t, db.Migrator().HasTable(table), true, fmt.Sprintf("%s table should exist", table))
	}
}

func TestServerVersion(t *testing.T) {
	output, err := exec.Command(testServerBinary, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	assert.Equal(t, strings.HasPrefix(string(output), "medtrack-server-"), true, "version output mismatch")
}

func TestServerRootCommand(t *testing.T) {
	output, err := exec.Command(testServerBinary).CombinedOutput()
	if err != nil {
		t.Fatalf("server command failed: %v", err)
	}

	outputStr := string(output)
	assert.Equal(t, strings.Contains(outputStr, "Medtrack server - the remote store for medtrack devices"), true, "output should contain description")
	assert.Equal(t, strings.Contains(outputStr, "start: Start the server"), true, "output should contain start command")
	assert.Equal(t, strings.Contains(outputStr, "version: Print the version"), true, "output should contain version command")
}

func TestServerStartInvalidConfig(t *testing.T) {
	cmd := exec.Command(testServerBinary, "start")
	cmd.Env = []string{"PORT=not-a-port"}

	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected command to fail with invalid config")
	}

	outputStr := string(output)
	assert.Equal(t, strings.Contains(outputStr, "Error:"), true, "output should contain error message")
	assert.Equal(t, strings.Contains(outputStr, "Invalid Port"), true, "output should mention the invalid port")
	assert.Equal(t, strings.Contains(outputStr, "medtrack-server start [flags]"), true, "output should show usage")
}

func TestServerUnknownCommand(t *testing.T) {
	output, err := exec.Command(testServerBinary, "unknown").CombinedOutput()
	if err == nil {
		t.Fatal("expected command to fail with unknown command")
	}

	assert.Equal(t, strings.Contains(string(output), "Unknown command"), true, "output should contain unknown command message")
}

func TestServerUser(t *testing.T) {
	tmpDB := filepath.Join(t.TempDir(), "test.db")

	output, err := exec.Command(testServerBinary, "user", "create",
		"--dbDSN", tmpDB,
		"--email", "alice@example.com",
		"--password", "password123").CombinedOutput()
	if err != nil {
		t.Fatalf("user create failed: %v\nOutput: %s", err, output)
	}
	assert.Equal(t, strings.Contains(string(output), "User created successfully"), true, "output should show success message")

	output, err = exec.Command(testServerBinary, "user", "create",
		"--dbDSN", tmpDB,
		"--email", "bob@example.com",
		"--password", "short").CombinedOutput()
	if err == nil {
		t.Fatal("expected command to fail with short password")
	}
	assert.Equal(t, strings.Contains(string(output), "Password should be at least 8 characters long"), true, "output should show password error")

	output, err = exec.Command(testServerBinary, "user", "remove",
		"--dbDSN", tmpDB,
		"--email", "alice@example.com",
		"--yes").CombinedOutput()
	if err != nil {
		t.Fatalf("user remove failed: %v\nOutput: %s", err, output)
	}

	db := openServerDB(t, tmpDB)

	var count int64
	db.Table("users").Count(&count)
	assert.Equal(t, count, int64(0), "should have 0 users after removal")
}
