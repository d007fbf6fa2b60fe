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

package mastodon

import (
	"context"

	"github.com/sirseerhq/fedi-archive/internal/status"
)

// Client defines the interface for interacting with a Mastodon-compatible API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchStatuses walks the account's statuses timeline to completion.
	// An empty cursor performs a full historical fetch following rel="next";
	// a non-empty cursor fetches only statuses newer than it, following rel="prev".
	// On any error no statuses are returned.
	FetchStatuses(ctx context.Context, accountID, cursor string) ([]status.Status, error)

	// VerifyCredentials returns the id of the account owning the access token.
	VerifyCredentials(ctx context.Context) (string, error)
}
