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
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirseerhq/fedi-archive/internal/config"
	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/internal/logging"
	"github.com/sirseerhq/fedi-archive/internal/mastodon"
	"github.com/sirseerhq/fedi-archive/internal/metadata"
	"github.com/sirseerhq/fedi-archive/internal/metrics"
	"github.com/spf13/cobra"
)

// envFile is loaded from the working directory before configuration.
const envFile = ".env"

// newClient builds the API client. Tests replace it to inject a mock.
var newClient = func(opts mastodon.Options) (mastodon.Client, error) {
	return mastodon.NewRESTClient(opts)
}

// commonOptions holds the flags shared by every command.
type commonOptions struct {
	configPath string
	host       string
	token      string
	accountID  string
	timeout    time.Duration
	logLevel   string
}

func (o *commonOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Config file path (default: .fedi-archive.yaml or ~/.fedi-archive/config.yaml)")
	flags.StringVar(&o.host, "host", "", "Server base URL, e.g. https://mastodon.social (overrides FEDI_HOST)")
	flags.StringVar(&o.token, "token", "", "Access token (overrides FEDI_ACCESS_TOKEN)")
	flags.StringVar(&o.accountID, "account-id", "", "Account id to archive (default: the token's own account)")
	flags.DurationVar(&o.timeout, "timeout", 0, "Per-request timeout, 0 for none (default from config: 30s)")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error or disabled")
}

// session carries everything a command needs once configuration is settled.
type session struct {
	cfg      *config.Config
	creds    config.Credentials
	tracker  *metadata.Tracker
	recorder *metrics.Recorder
	logger   zerolog.Logger
}

// newSession loads configuration, applies flags, sets up logging and
// resolves credentials. It performs no network I/O, so configuration errors
// surface before anything is sent.
func newSession(cmd *cobra.Command, common *commonOptions, apply func(*config.Config)) (*session, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(common.configPath)
	if err != nil {
		return nil, err
	}

	if common.host != "" {
		cfg.Server.Host = common.host
	}
	if common.accountID != "" {
		cfg.Server.AccountID = common.accountID
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Defaults.Timeout = common.timeout
	}
	if common.logLevel != "" {
		cfg.Logging.Level = common.logLevel
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setupLogging(cfg, cmd.ErrOrStderr())

	creds, err := cfg.ResolveCredentials(common.token)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		creds:    creds,
		tracker:  metadata.New(),
		recorder: metrics.NewRecorder(),
		logger:   logging.NewLogger("cli"),
	}, nil
}

func setupLogging(cfg *config.Config, w io.Writer) {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: w,
	})
}

func (s *session) observer() mastodon.RequestObserver {
	return mastodon.MultiObserver(s.tracker, s.recorder)
}

func (s *session) clientOptions(token, accountID string) mastodon.Options {
	return mastodon.Options{
		Host:        s.cfg.Server.Host,
		Token:       token,
		Timeout:     s.cfg.Defaults.Timeout,
		PageSize:    s.cfg.GetPageSize(accountID),
		CursorParam: s.cfg.GetCursorParam(accountID),
		Observer:    s.observer(),
	}
}

// accessToken returns the configured token or exchanges client credentials
// for one.
func (s *session) accessToken(ctx context.Context) (string, error) {
	if !s.creds.NeedsExchange() {
		return s.creds.Token, nil
	}

	s.logger.Debug().Str("host", s.cfg.Server.Host).Msg("Exchanging client credentials for an access token")

	token, err := mastodon.ExchangeToken(ctx, mastodon.TokenRequest{
		Host:         s.cfg.Server.Host,
		ClientID:     s.creds.ClientID,
		ClientSecret: s.creds.ClientSecret,
	}, mastodon.Options{
		Timeout:  s.cfg.Defaults.Timeout,
		Observer: s.observer(),
	})
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// connect obtains a token, resolves the account id and returns a client
// configured for that account.
func (s *session) connect(ctx context.Context, verify bool) (mastodon.Client, string, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, "", err
	}

	accountID := s.cfg.Server.AccountID
	initial := s.clientOptions(token, accountID)
	client, err := newClient(initial)
	if err != nil {
		return nil, "", err
	}

	if accountID == "" || verify {
		resolved, err := client.VerifyCredentials(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve account id: %w", err)
		}
		s.logger.Debug().Str("account_id", resolved).Msg("Verified credentials")
		if accountID == "" {
			accountID = resolved
		}
	}
	if accountID == "" {
		return nil, "", fmt.Errorf("account id could not be determined: %w", relaierrors.ErrConfig)
	}

	// Account-specific overrides need the resolved id.
	if opts := s.clientOptions(token, accountID); opts.PageSize != initial.PageSize || opts.CursorParam != initial.CursorParam {
		if client, err = newClient(opts); err != nil {
			return nil, "", err
		}
	}

	return client, accountID, nil
}
