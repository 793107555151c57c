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

// Package config reads and writes the medtrack configuration file
package config

import (
	"fmt"
	"os"

	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds medtrack configuration
type Config struct {
	APIEndpoint   string `yaml:"apiEndpoint"`
	Editor        string `yaml:"editor,omitempty"`
	PushoverToken string `yaml:"pushoverToken,omitempty"`
	PushoverUser  string `yaml:"pushoverUser,omitempty"`
	SMTPHost      string `yaml:"smtpHost,omitempty"`
	SMTPPort      int    `yaml:"smtpPort,omitempty"`
	SMTPUsername  string `yaml:"smtpUsername,omitempty"`
	SMTPPassword  string `yaml:"smtpPassword,omitempty"`
	AlertEmail    string `yaml:"alertEmail,omitempty"`
}

// GetPath returns the path to the medtrack config file
func GetPath(ctx context.MedtrackCtx) string {
	return fmt.Sprintf("%s/%s/%s", ctx.Paths.Config, consts.MedtrackDirName, consts.ConfigFilename)
}

// Read reads the config file
func Read(ctx context.MedtrackCtx) (Config, error) {
	var ret Config

	configPath := GetPath(ctx)
	b, err := os.ReadFile(configPath)
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(ctx context.MedtrackCtx, cf Config) error {
	path := GetPath(ctx)

	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	err = os.WriteFile(path, b, 0600)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}
