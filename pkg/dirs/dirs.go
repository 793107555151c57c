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

// Package dirs resolves the XDG base directories medtrack keeps its
// configuration and local database in.
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

// The environment variable names for the XDG base directory specification
const (
	envConfigHome = "XDG_CONFIG_HOME"
	envDataHome   = "XDG_DATA_HOME"
	envCacheHome  = "XDG_CACHE_HOME"
)

// Dirs is a set of resolved base directories
type Dirs struct {
	Home string
	// Config is the directory in which user-specific configurations are written
	Config string
	// Data is the directory in which user-specific data files are written
	Data string
	// Cache is the directory for user-specific non-essential data
	Cache string
}

// Resolve builds the base directories for the given home directory, letting
// non-empty XDG variables returned by getenv take precedence.
func Resolve(home string, getenv func(string) string) Dirs {
	pick := func(envName, fallback string) string {
		if dir := getenv(envName); dir != "" {
			return dir
		}

		return fallback
	}

	return Dirs{
		Home:   home,
		Config: pick(envConfigHome, filepath.Join(home, ".config")),
		Data:   pick(envDataHome, filepath.Join(home, ".local", "share")),
		Cache:  pick(envCacheHome, filepath.Join(home, ".cache")),
	}
}

// Current resolves the base directories of the current user from the process environment
func Current() (Dirs, error) {
	usr, err := user.Current()
	if err != nil {
		return Dirs{}, errors.Wrap(err, "getting home dir")
	}

	return Resolve(usr.HomeDir, os.Getenv), nil
}
