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

// Package bridge writes entities to the local store first and then mirrors
// them to the remote store on a best-effort basis.
//
// A local failure aborts the operation before any remote call. A remote
// failure never undoes the local write and is never retried.
package bridge

import (
	"time"

	"github.com/medtrack/medtrack/pkg/cli/alerts"
	"github.com/medtrack/medtrack/pkg/cli/client"
	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
)

// Status is the outcome of a write
type Status int

const (
	// Failed means the local write failed and nothing was persisted
	Failed Status = iota
	// LocalOnly means the local write succeeded but the remote store was not updated
	LocalOnly
	// Synced means both the local and the remote writes succeeded
	Synced
)

func (s Status) String() string {
	switch s {
	case Synced:
		return "synced"
	case LocalOnly:
		return "local only"
	default:
		return "failed"
	}
}

// Result is the tagged outcome of a write. RemoteErr is set when the status
// is LocalOnly because the remote write failed, as opposed to there being
// nothing to mirror.
type Result struct {
	Status    Status
	LocalID   int
	RemoteID  string
	RemoteErr error
}

var (
	// ErrAuth is an error for a remote write that could not be attempted
	// because no session could be established
	ErrAuth = errors.New("could not authenticate with the remote store")
	// ErrReactivate is an error for resuming a paused medication
	ErrReactivate = errors.New("A paused medication cannot be resumed. Add it again instead")
)

// IsAuthError tells if the remote failure is an authentication failure
func IsAuthError(err error) bool {
	return errors.Cause(err) == ErrAuth
}

// Bridge couples the local store with the remote store
type Bridge struct {
	ctx       *context.MedtrackCtx
	scheduler alerts.Scheduler
}

// New returns a bridge writing through the given context. Medication alerts
// are armed with the scheduler.
func New(ctx *context.MedtrackCtx, s alerts.Scheduler) *Bridge {
	return &Bridge{
		ctx:       ctx,
		scheduler: s,
	}
}

func (b *Bridge) now() time.Time {
	return b.ctx.Clock.Now()
}

// authorize makes sure a session exists before a remote write
func (b *Bridge) authorize() error {
	if err := client.EnsureSession(b.ctx); err != nil {
		return errors.Wrap(ErrAuth, err.Error())
	}

	return nil
}

// classify turns a failed remote call into the error reported in the result.
// A rejected session is forgotten so that the next write creates a new one.
func (b *Bridge) classify(op string, err error) error {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.IsUnauthorized() {
		if cerr := client.ClearSession(b.ctx); cerr != nil {
			log.Debug("clearing the rejected session: %s\n", cerr.Error())
		}

		err = errors.Wrap(ErrAuth, err.Error())
	}

	if IsAuthError(err) {
		log.Debug("%s: authentication failure: %s\n", op, err.Error())
	} else {
		log.Debug("%s: remote write failure: %s\n", op, err.Error())
	}

	return errors.Wrap(err, op)
}

func failed(localID int, err error) (Result, error) {
	return Result{Status: Failed, LocalID: localID}, err
}

func localOnly(localID int, remoteID string, remoteErr error) Result {
	return Result{Status: LocalOnly, LocalID: localID, RemoteID: remoteID, RemoteErr: remoteErr}
}

func synced(localID int, remoteID string) Result {
	return Result{Status: Synced, LocalID: localID, RemoteID: remoteID}
}
