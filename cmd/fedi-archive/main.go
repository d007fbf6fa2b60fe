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
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/pkg/version"
	"github.com/spf13/cobra"
)

// Exit codes reported by the CLI.
const (
	exitOK          = 0
	exitGeneral     = 1
	exitConfig      = 2
	exitTransport   = 3
	exitIntegrity   = 4
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI with args and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("Command failed")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return exitOK
}

func newRootCommand() *cobra.Command {
	var common commonOptions

	rootCmd := &cobra.Command{
		Use:   "fedi-archive",
		Short: "Keep a local JSON archive of your Mastodon statuses",
		Long: `fedi-archive fetches the statuses of a Mastodon account and keeps them in a
single JSON file, sorted oldest first and free of duplicates.

Run it once to fetch the full history, then again with --update-in-place to
fetch only what was posted since the newest archived status.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	common.register(rootCmd)

	rootCmd.AddCommand(newFetchCommand(&common))
	rootCmd.AddCommand(newWhoamiCommand(&common))

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes.
// Auth and configuration problems are checked first because HTTP failures
// wrap ErrTransport alongside the more specific sentinel.
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, relaierrors.ErrConfig),
		errors.Is(err, relaierrors.ErrInvalidToken),
		errors.Is(err, relaierrors.ErrAccountNotFound):
		return exitConfig
	case errors.Is(err, relaierrors.ErrTransport),
		errors.Is(err, relaierrors.ErrRateLimit),
		errors.Is(err, context.DeadlineExceeded):
		return exitTransport
	case errors.Is(err, relaierrors.ErrSchema),
		errors.Is(err, relaierrors.ErrDataIntegrity),
		errors.Is(err, relaierrors.ErrDuplicateStatus):
		return exitIntegrity
	}
	return exitGeneral
}
