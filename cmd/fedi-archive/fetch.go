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
	"fmt"
	"io"
	"time"

	"github.com/sirseerhq/fedi-archive/internal/archive"
	"github.com/sirseerhq/fedi-archive/internal/config"
	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/internal/metadata"
	"github.com/sirseerhq/fedi-archive/internal/output"
	"github.com/sirseerhq/fedi-archive/internal/status"
	"github.com/sirseerhq/fedi-archive/pkg/version"
	"github.com/spf13/cobra"
)

// fetchOptions holds the flags of the fetch command.
type fetchOptions struct {
	file          string
	updateInPlace bool
	full          bool
	pageSize      int
	cursorParam   string
	onDuplicate   string
	metadataDir   string
	metricsFile   string
}

func newFetchCommand(common *commonOptions) *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch [FILE]",
		Short: "Fetch statuses into a JSON archive",
		Long: `Fetch the statuses of an account and write them as a JSON array sorted
oldest first.

Without FILE the full history is printed to stdout. With FILE the full
history replaces FILE. With --update-in-place the existing archive in FILE is
read first, only statuses newer than its most recent one are fetched, and the
merged result replaces FILE.

Authentication:
  - Use --token to provide an access token directly
  - Or set FEDI_ACCESS_TOKEN (a .env file in the working directory is read)
  - Or set FEDI_CLIENT_ID and FEDI_CLIENT_SECRET to exchange them for a token`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.file = args[0]
			}
			return runFetch(cmd, common, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.updateInPlace, "update-in-place", "u", false, "Merge newly fetched statuses into FILE")
	flags.BoolVar(&opts.full, "full", false, "With --update-in-place, ignore the existing archive and refetch everything")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Statuses per page, 0 for the server default")
	flags.StringVar(&opts.cursorParam, "cursor-param", "", "Resume parameter: since_id or min_id")
	flags.StringVar(&opts.onDuplicate, "on-duplicate", "", "Repeated status ids: drop (keep the archived copy) or fail")
	flags.StringVar(&opts.metadataDir, "metadata-dir", "", "Directory for fetch metadata records")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	return cmd
}

func (o fetchOptions) apply(cfg *config.Config) {
	if o.pageSize != 0 {
		cfg.OverridePageSize(o.pageSize)
	}
	if o.cursorParam != "" {
		cfg.OverrideCursorParam(o.cursorParam)
	}
	if o.onDuplicate != "" {
		cfg.Defaults.OnDuplicate = o.onDuplicate
	}
	if o.metadataDir != "" {
		cfg.Defaults.MetadataDir = o.metadataDir
	}
	if o.metricsFile != "" {
		cfg.Defaults.MetricsFile = o.metricsFile
	}
}

// runFetch executes the fetch command. The archive is read before any
// network call and written only after every page was fetched and merged.
func runFetch(cmd *cobra.Command, common *commonOptions, opts fetchOptions) error {
	if opts.updateInPlace && opts.file == "" {
		return fmt.Errorf("--update-in-place requires a FILE argument: %w", relaierrors.ErrConfig)
	}

	s, err := newSession(cmd, common, opts.apply)
	if err != nil {
		return err
	}
	policy, err := archive.ParseDuplicatePolicy(s.cfg.Defaults.OnDuplicate)
	if err != nil {
		return err
	}

	archivePath := ""
	if opts.updateInPlace {
		archivePath = opts.file
	}
	loaded, err := archive.Load(archivePath, opts.full)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, accountID, err := s.connect(ctx, false)
	if err != nil {
		return err
	}

	incremental := loaded.Cursor != ""
	if opts.updateInPlace && !opts.full && loaded.Empty() {
		s.logger.Info().
			Str("file", opts.file).
			Bool("file_exists", loaded.Existed).
			Msg("Archive holds no statuses, starting a full fetch")
	}
	s.logger.Info().
		Str("account_id", accountID).
		Bool("incremental", incremental).
		Str("cursor", loaded.Cursor).
		Int("archived", len(loaded.Statuses)).
		Msg("Fetching statuses")

	fetched, err := client.FetchStatuses(ctx, accountID, loaded.Cursor)
	if err != nil {
		return err
	}
	for _, st := range fetched {
		s.tracker.UpdateStatusStats(st.ID, st.CreatedAt)
	}

	merged, err := archive.Merge(loaded.Statuses, fetched, policy)
	if err != nil {
		return err
	}
	if len(merged.Dropped) > 0 {
		s.logger.Warn().
			Strs("ids", merged.Dropped).
			Int("count", len(merged.Dropped)).
			Msg("Dropped statuses already present in the archive")
	}

	if err := writeArchive(cmd.OutOrStdout(), opts.file, merged.Statuses); err != nil {
		return err
	}

	s.logger.Info().
		Int("fetched", len(fetched)).
		Int("archived", len(merged.Statuses)).
		Int("dropped", len(merged.Dropped)).
		Int("api_calls", s.tracker.APICalls()).
		Str("file", opts.file).
		Msg("Archive written")

	s.tracker.RecordMerge(len(merged.Statuses), len(merged.Dropped))
	s.recordRun(metadata.FetchParams{
		Host:        s.cfg.Server.Host,
		AccountID:   accountID,
		ArchivePath: opts.file,
		Cursor:      loaded.Cursor,
		CursorParam: s.cfg.GetCursorParam(accountID),
		PageSize:    s.cfg.GetPageSize(accountID),
		Full:        !incremental,
		OnDuplicate: policy.String(),
	}, len(fetched), len(merged.Statuses), len(merged.Dropped))

	return nil
}

func writeArchive(stdout io.Writer, file string, statuses []status.Status) error {
	var writer output.ArchiveWriter
	if file == "" {
		writer = output.NewWriter(stdout)
	} else {
		writer = output.NewFileWriter(file)
	}
	defer writer.Close()

	return writer.Write(statuses)
}

// recordRun persists metadata and metrics for a successful run. The archive
// is already written at this point, so failures are logged, not returned.
func (s *session) recordRun(params metadata.FetchParams, fetched, archived, dropped int) {
	if dir := s.cfg.Defaults.MetadataDir; dir != "" {
		prev, err := metadata.LoadLatestMetadata(dir, params.Host, params.AccountID)
		if err != nil {
			s.logger.Warn().Err(err).Str("dir", dir).Msg("Could not read previous fetch metadata")
		}
		meta := s.tracker.GenerateMetadata(version.Version, params, params.Cursor != "", prev.Ref())
		path, err := metadata.SaveMetadata(meta, dir)
		if err != nil {
			s.logger.Warn().Err(err).Str("dir", dir).Msg("Could not save fetch metadata")
		} else {
			s.logger.Debug().Str("path", path).Str("fetch_id", meta.FetchID).Msg("Saved fetch metadata")
		}
	}

	if file := s.cfg.Defaults.MetricsFile; file != "" {
		s.recorder.SetFetched(fetched)
		s.recorder.SetArchived(archived)
		s.recorder.SetDropped(dropped)
		s.recorder.MarkSuccess(time.Now())
		if err := s.recorder.WriteTextfile(file); err != nil {
			s.logger.Warn().Err(err).Str("file", file).Msg("Could not write metrics")
		}
	}
}
