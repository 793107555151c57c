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

// Package ui provides the user interface for the program
package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/medtrack/medtrack/pkg/cli/consts"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/utils"
	"github.com/pkg/errors"
)

// tmpContentFileBase is the base name of the files holding content being written
const tmpContentFileBase = "MEDTRACK_TMPCONTENT"

// GetTmpContentPath returns the path to a new temporary file for content
// being written in the editor
func GetTmpContentPath(ctx context.MedtrackCtx) (string, error) {
	dir := filepath.Join(ctx.Paths.Data, consts.MedtrackDirName)

	for i := 0; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d.txt", tmpContentFileBase, i))

		ok, err := utils.FileExists(candidate)
		if err != nil {
			return "", errors.Wrapf(err, "checking if file exists at %s", candidate)
		}
		if !ok {
			return candidate, nil
		}
	}
}

func newEditorCmd(ctx context.MedtrackCtx, fpath string) (*exec.Cmd, error) {
	args := strings.Fields(ctx.Editor)
	if len(args) == 0 {
		return nil, errors.New("no editor is configured")
	}
	args = append(args, fpath)

	return exec.Command(args[0], args[1:]...), nil
}

// GetEditorInput gets the user input by launching a text editor and waiting for
// it to exit
func GetEditorInput(ctx context.MedtrackCtx, fpath string) (string, error) {
	ok, err := utils.FileExists(fpath)
	if err != nil {
		return "", errors.Wrapf(err, "checking if the file exists at %s", fpath)
	}
	if !ok {
		f, err := os.Create(fpath)
		if err != nil {
			return "", errors.Wrap(err, "creating a temporary content file")
		}
		if err := f.Close(); err != nil {
			return "", errors.Wrap(err, "closing the temporary content file")
		}
	}

	cmd, err := newEditorCmd(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "creating an editor command")
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(err, "running the editor")
	}

	b, err := os.ReadFile(fpath)
	if err != nil {
		return "", errors.Wrap(err, "reading the temporary content file")
	}

	if err := os.Remove(fpath); err != nil {
		return "", errors.Wrap(err, "removing the temporary content file")
	}

	return string(b), nil
}
