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
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirseerhq/fedi-archive/internal/logging"
)

// TokenRequest holds the client credentials exchanged for an access token.
type TokenRequest struct {
	Host         string
	ClientID     string
	ClientSecret string
}

// ExchangeToken performs the OAuth2 client-credentials grant against
// POST {host}/oauth/token and returns the access_token field.
// opts supplies timeout, observer and HTTP client; its Host and Token are ignored.
func ExchangeToken(ctx context.Context, treq TokenRequest, opts Options) (string, error) {
	base, err := parseHost(treq.Host)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("client_id", treq.ClientID)
	form.Set("client_secret", treq.ClientSecret)
	form.Set("redirect_uri", oobRedirectURI)
	form.Set("grant_type", "client_credentials")

	u := *base
	u.Path = base.Path + "/oauth/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build %s request: %w", EndpointOAuthToken, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := newHTTPClient(base.Host, "", opts.Timeout, opts.HTTPClient)
	body, _, err := doRequest(client, req, EndpointOAuthToken, opts.Observer, logging.NewLogger("oauth"))
	if err != nil {
		return "", err
	}

	return stringField(body, "access_token", "/oauth/token")
}
