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

// Package archive loads an existing status archive and merges newly fetched
// statuses into it.
//
// An archive is a single JSON array of statuses. After every successful run it
// is sorted ascending by created_at and holds each status id at most once.
// The loader is the only place that decides where an incremental fetch
// resumes: the id of the most recent archived status.
//
// Ordering compares created_at as strings. That matches chronological order
// only while every status comes from one server using a fixed-width timestamp
// format, which Mastodon does.
//
// Example usage:
//
//	loaded, err := archive.Load("statuses.json", false)
//	if err != nil {
//	    return err
//	}
//	fetched, err := client.FetchStatuses(ctx, accountID, loaded.Cursor)
//	if err != nil {
//	    return err
//	}
//	merged, err := archive.Merge(loaded.Statuses, fetched, archive.DuplicateDrop)
package archive
