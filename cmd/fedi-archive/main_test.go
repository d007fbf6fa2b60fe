// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
)

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "generic", err: errors.New("boom"), want: exitGeneral},
		{name: "config", err: fmt.Errorf("no token: %w", relaierrors.ErrConfig), want: exitConfig},
		{
			name: "invalid token wins over transport",
			err:  &relaierrors.HTTPError{StatusCode: 401, Err: errors.Join(relaierrors.ErrTransport, relaierrors.ErrInvalidToken)},
			want: exitConfig,
		},
		{
			name: "account not found",
			err:  &relaierrors.HTTPError{StatusCode: 404, Err: errors.Join(relaierrors.ErrTransport, relaierrors.ErrAccountNotFound)},
			want: exitConfig,
		},
		{
			name: "rate limit",
			err:  &relaierrors.HTTPError{StatusCode: 429, Err: errors.Join(relaierrors.ErrTransport, relaierrors.ErrRateLimit)},
			want: exitTransport,
		},
		{name: "transport", err: fmt.Errorf("dial: %w", relaierrors.ErrTransport), want: exitTransport},
		{name: "timeout", err: fmt.Errorf("statuses request aborted: %w", context.DeadlineExceeded), want: exitTransport},
		{name: "schema", err: &relaierrors.MissingFieldError{Field: "id", Source: "x", Err: relaierrors.ErrSchema}, want: exitIntegrity},
		{name: "data integrity", err: fmt.Errorf("archive: %w", relaierrors.ErrDataIntegrity), want: exitIntegrity},
		{name: "duplicate", err: &relaierrors.DuplicateError{ID: "1"}, want: exitIntegrity},
		{name: "interrupted", err: fmt.Errorf("statuses request aborted: %w", context.Canceled), want: exitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorToExitCode(tt.err); got != tt.want {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExecute_Version(t *testing.T) {
	env := newTestEnv(t)
	code, stdout, _ := env.run("--version")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if stdout == "" {
		t.Error("expected version output")
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	code, _, stderr := env.run("frobnicate")
	if code != exitGeneral {
		t.Errorf("exit code = %d, want %d", code, exitGeneral)
	}
	if stderr == "" {
		t.Error("expected an error message on stderr")
	}
}
