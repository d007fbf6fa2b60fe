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
	"net/http"
	"time"
)

// Direction is the pagination relation followed during a fetch.
// It is derived from cursor presence so that "resuming" and "follow prev"
// cannot drift apart.
type Direction int

const (
	// Next walks the full history; no cursor query parameter is sent.
	Next Direction = iota
	// Prev walks toward newer statuses after a cursor.
	Prev
)

// DirectionFor returns Prev when a resume cursor is present and Next otherwise.
func DirectionFor(cursor string) Direction {
	if cursor != "" {
		return Prev
	}
	return Next
}

// Rel returns the Link header relation name for the direction.
func (d Direction) Rel() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	return d.Rel()
}

// Cursor query parameter names accepted by the statuses endpoint.
const (
	CursorSinceID = "since_id"
	CursorMinID   = "min_id"
)

// Options configures a RESTClient.
type Options struct {
	// Host is the server base URL, e.g. https://mastodon.example.
	Host string

	// Token is the bearer access token.
	Token string

	// Timeout bounds each individual request. Zero means no timeout.
	Timeout time.Duration

	// PageSize is sent as the limit parameter on the first request when positive.
	PageSize int

	// CursorParam selects since_id (default) or min_id for incremental fetches.
	CursorParam string

	// Observer is notified after every request. Optional.
	Observer RequestObserver

	// HTTPClient replaces the default client. Its transport is wrapped with
	// authentication. Optional.
	HTTPClient *http.Client
}

// Endpoint labels used for logging, metrics and error messages.
const (
	EndpointStatuses          = "statuses"
	EndpointVerifyCredentials = "verify_credentials"
	EndpointOAuthToken        = "oauth_token"
)

// Default values for client operations
const (
	maxResponseBytes = 32 * 1024 * 1024
	oobRedirectURI   = "urn:ietf:wg:oauth:2.0:oob"
)
