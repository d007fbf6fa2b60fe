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

// Package mastodon provides a client for the REST API of Mastodon-compatible
// servers, limited to what archiving an account's statuses requires. It walks
// the cursor-based pagination of the statuses endpoint, resolves the account
// behind an access token, and exchanges client credentials for a token.
//
// The package includes:
//   - A Client interface for fetching statuses and verifying credentials
//   - A REST implementation over net/http with bearer authentication
//   - A parser for RFC 8288 style Link headers
//   - A typed traversal Direction tying cursor presence to the link relation
//   - Mock client for testing
//
// Pagination is asymmetric. A full fetch starts at the newest page and follows
// rel="next" toward older statuses. An incremental fetch sends since_id (or
// min_id) on the first request and then follows rel="prev" toward newer
// statuses, because that is the relation the server emits for a filtered
// result.
//
// Basic usage:
//
//	client, err := mastodon.NewRESTClient(mastodon.Options{
//	    Host:  "https://mastodon.example",
//	    Token: token,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	statuses, err := client.FetchStatuses(ctx, accountID, "")
package mastodon
