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

// Package metadata provides functionality for tracking and persisting metadata
// about fetch runs. It records how many statuses were fetched and archived,
// how many API calls were made, the id and timestamp range covered, and a
// link to the previous run for the same account.
//
// Metadata files are written to a configurable directory as
// fetch-metadata-{unix}.json so external tools can analyze archive history.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirseerhq/fedi-archive/internal/output"
)

const (
	// MethodVersion identifies the fetch strategy recorded in metadata.
	MethodVersion = "mastodon-rest-link-v1"
)

// Tracker collects statistics during a fetch run and generates metadata.
// Create one at the start of each run. It is safe for concurrent use and
// satisfies mastodon.RequestObserver.
type Tracker struct {
	mu             sync.Mutex
	startTime      time.Time
	apiCallCount   int
	failedAPICalls int
	stats          StatusStats
	archived       int
	dropped        int
}

// StatusStats holds the id and timestamp range of fetched statuses.
type StatusStats struct {
	Total  int    // Number of statuses fetched
	First  string // Lowest status id seen
	Last   string // Highest status id seen
	Oldest string // Earliest created_at
	Newest string // Latest created_at
}

// New creates a new metadata tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// ObserveRequest records one API call. Calls that got no response or a
// non-2xx response are also counted as failed.
func (t *Tracker) ObserveRequest(_ string, statusCode int, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.apiCallCount++
	if statusCode < 200 || statusCode > 299 {
		t.failedAPICalls++
	}
}

// UpdateStatusStats adds one fetched status to the running statistics.
func (t *Tracker) UpdateStatusStats(id, createdAt string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Total++

	if t.stats.First == "" || idLess(id, t.stats.First) {
		t.stats.First = id
	}
	if t.stats.Last == "" || idLess(t.stats.Last, id) {
		t.stats.Last = id
	}

	if t.stats.Oldest == "" || createdAt < t.stats.Oldest {
		t.stats.Oldest = createdAt
	}
	if createdAt > t.stats.Newest {
		t.stats.Newest = createdAt
	}
}

// RecordMerge stores the outcome of merging into the archive.
func (t *Tracker) RecordMerge(archived, dropped int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.archived = archived
	t.dropped = dropped
}

// Stats returns a snapshot of the fetched status statistics.
func (t *Tracker) Stats() StatusStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// APICalls returns the number of requests observed.
func (t *Tracker) APICalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apiCallCount
}

// GenerateMetadata creates the FetchMetadata record for a successful run.
//
// Parameters:
//   - archiverVersion: the fedi-archive version (from version.Version)
//   - params: the fetch parameters used for this run
//   - incremental: whether the run resumed from an archive cursor
//   - previousFetch: the previous run for the same account, if known
func (t *Tracker) GenerateMetadata(archiverVersion string, params FetchParams, incremental bool, previousFetch *FetchRef) *FetchMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()

	return &FetchMetadata{
		ArchiverVersion: archiverVersion,
		MethodVersion:   MethodVersion,
		FetchID:         fmt.Sprintf("%s-%s", getFetchType(incremental), uuid.NewString()),
		Parameters:      params,
		Results: FetchResults{
			StatusesFetched:   t.stats.Total,
			StatusesArchived:  t.archived,
			DuplicatesDropped: t.dropped,
			FirstID:           t.stats.First,
			LastID:            t.stats.Last,
			OldestStatus:      t.stats.Oldest,
			NewestStatus:      t.stats.Newest,
			Duration:          completedAt.Sub(t.startTime).String(),
			APICallCount:      t.apiCallCount,
			FailedAPICalls:    t.failedAPICalls,
			StartedAt:         t.startTime,
			CompletedAt:       completedAt,
		},
		Incremental:   incremental,
		PreviousFetch: previousFetch,
	}
}

// Ref returns a reference to m suitable for a later run's PreviousFetch.
func (m *FetchMetadata) Ref() *FetchRef {
	if m == nil {
		return nil
	}
	return &FetchRef{FetchID: m.FetchID, CompletedAt: m.Results.CompletedAt}
}

// SaveMetadata atomically writes metadata to dir as
// fetch-metadata-{unix start time}.json and returns the file path.
func SaveMetadata(metadata *FetchMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	filename := fmt.Sprintf("fetch-metadata-%d.json", metadata.Results.StartedAt.Unix())
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := output.WriteFileAtomic(path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("failed to save metadata: %w", err)
	}

	return path, nil
}

// LoadLatestMetadata returns the most recent metadata record in dir for the
// given host and account, or nil when there is none. Unreadable files are
// skipped so one corrupt record does not block later runs.
func LoadLatestMetadata(dir, host, accountID string) (*FetchMetadata, error) {
	files, err := filepath.Glob(filepath.Join(dir, "fetch-metadata-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *FetchMetadata
	for _, file := range files {
		data, readErr := os.ReadFile(file)
		if readErr != nil {
			continue
		}
		var m FetchMetadata
		if json.Unmarshal(data, &m) != nil {
			continue
		}
		if !sameHost(m.Parameters.Host, host) || m.Parameters.AccountID != accountID {
			continue
		}
		if latest == nil || m.Results.CompletedAt.After(latest.Results.CompletedAt) {
			mCopy := m
			latest = &mCopy
		}
	}

	return latest, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *FetchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

func getFetchType(incremental bool) string {
	if incremental {
		return "incremental"
	}
	return "full"
}

func sameHost(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

// idLess orders decimal status ids numerically without parsing them.
func idLess(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
