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

// Package metadata types define the structures used for tracking and
// persisting information about fetch runs.
package metadata

import (
	"time"
)

// FetchMetadata is the record written for one successful fetch run. It
// captures what was asked for, what came back and what ended up in the
// archive.
type FetchMetadata struct {
	ArchiverVersion string       `json:"archiver_version"`
	MethodVersion   string       `json:"method_version"`
	FetchID         string       `json:"fetch_id"`
	Parameters      FetchParams  `json:"parameters"`
	Results         FetchResults `json:"results"`
	Incremental     bool         `json:"incremental"`
	PreviousFetch   *FetchRef    `json:"previous_fetch,omitempty"`
}

// FetchParams captures the inputs of a fetch run.
type FetchParams struct {
	Host        string `json:"host"`
	AccountID   string `json:"account_id"`
	ArchivePath string `json:"archive_path,omitempty"`
	Cursor      string `json:"cursor,omitempty"`
	CursorParam string `json:"cursor_param"`
	PageSize    int    `json:"page_size,omitempty"`
	Full        bool   `json:"full"`
	OnDuplicate string `json:"on_duplicate"`
}

// FetchResults holds the statistics of a completed run. Status timestamps are
// kept exactly as the server sent them.
type FetchResults struct {
	StatusesFetched   int       `json:"statuses_fetched"`
	StatusesArchived  int       `json:"statuses_archived"`
	DuplicatesDropped int       `json:"duplicates_dropped"`
	FirstID           string    `json:"first_status_id,omitempty"`
	LastID            string    `json:"last_status_id,omitempty"`
	OldestStatus      string    `json:"oldest_status_created_at,omitempty"`
	NewestStatus      string    `json:"newest_status_created_at,omitempty"`
	Duration          string    `json:"fetch_duration"`
	APICallCount      int       `json:"api_calls_made"`
	FailedAPICalls    int       `json:"api_calls_failed"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
}

// FetchRef links a run to the one before it for the same account.
type FetchRef struct {
	FetchID     string    `json:"fetch_id"`
	CompletedAt time.Time `json:"completed_at"`
}
