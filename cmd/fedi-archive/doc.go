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

// Package main implements the fedi-archive command-line interface.
// It fetches the statuses of one Mastodon account and maintains a JSON
// archive of them, sorted ascending by created_at and free of duplicates.
//
// The CLI supports:
//   - A full fetch printed to stdout or written to a file
//   - Incremental updates of an existing archive with --update-in-place
//   - Access tokens from a flag, the environment, a .env file, or an
//     OAuth client-credentials exchange
//   - Optional fetch metadata records and a Prometheus textfile
//
// Usage:
//
//	fedi-archive fetch [FILE] [flags]
//	fedi-archive whoami [flags]
//
// Example:
//
//	export FEDI_HOST=https://mastodon.social
//	export FEDI_ACCESS_TOKEN=your_token
//	fedi-archive fetch statuses.json            # first run
//	fedi-archive fetch -u statuses.json         # later runs
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, account or configuration error
//   - 3: Network error, including HTTP failures and rate limiting
//   - 4: Unexpected response schema, unreadable archive or duplicate status
//   - 130: Interrupted
package main
