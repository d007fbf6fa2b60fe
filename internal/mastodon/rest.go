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
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/internal/logging"
	"github.com/sirseerhq/fedi-archive/internal/status"
	"github.com/tidwall/gjson"
)

// RESTClient implements the Client interface over the Mastodon REST API.
// Requests are issued one at a time; each page depends on the cursor
// returned by the previous one.
type RESTClient struct {
	http        *http.Client
	base        *url.URL
	pageSize    int
	cursorParam string
	observer    RequestObserver
	logger      zerolog.Logger
}

// NewRESTClient creates a client for the server at opts.Host.
// The host must be an absolute http(s) URL; any path it carries is kept as a
// prefix for API paths.
func NewRESTClient(opts Options) (*RESTClient, error) {
	base, err := parseHost(opts.Host)
	if err != nil {
		return nil, err
	}

	cursorParam := opts.CursorParam
	switch cursorParam {
	case "":
		cursorParam = CursorSinceID
	case CursorSinceID, CursorMinID:
	default:
		return nil, fmt.Errorf("unsupported cursor parameter %q (want %s or %s): %w",
			cursorParam, CursorSinceID, CursorMinID, relaierrors.ErrConfig)
	}
	if opts.PageSize < 0 {
		return nil, fmt.Errorf("page size must not be negative, got %d: %w", opts.PageSize, relaierrors.ErrConfig)
	}

	return &RESTClient{
		http:        newHTTPClient(base.Host, opts.Token, opts.Timeout, opts.HTTPClient),
		base:        base,
		pageSize:    opts.PageSize,
		cursorParam: cursorParam,
		observer:    opts.Observer,
		logger:      logging.NewLogger("mastodon"),
	}, nil
}

// FetchStatuses walks the statuses of accountID until no link in the active
// direction remains. With an empty cursor every reachable status is returned;
// otherwise only statuses newer than the cursor. Statuses are returned in the
// order received. Any failure discards everything fetched so far.
func (c *RESTClient) FetchStatuses(ctx context.Context, accountID, cursor string) ([]status.Status, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required: %w", relaierrors.ErrConfig)
	}

	dir := DirectionFor(cursor)
	next := c.firstStatusesURL(accountID, cursor, dir)

	c.logger.Debug().
		Str("direction", dir.Rel()).
		Str("cursor", cursor).
		Str("url", next).
		Msg("Starting statuses fetch")

	var (
		result  []status.Status
		visited = make(map[string]struct{})
	)
	for page := 1; next != ""; page++ {
		if _, seen := visited[next]; seen {
			return nil, fmt.Errorf("pagination cycle: %s was already fetched: %w", next, relaierrors.ErrSchema)
		}
		visited[next] = struct{}{}

		body, header, err := c.get(ctx, next, EndpointStatuses)
		if err != nil {
			return nil, err
		}

		statuses, err := status.DecodeArray(body, fmt.Sprintf("%s page %d", EndpointStatuses, page), relaierrors.ErrSchema)
		if err != nil {
			return nil, err
		}
		result = append(result, statuses...)

		next = c.followLink(header.Get("Link"), dir)

		c.logger.Debug().
			Int("page", page).
			Int("page_statuses", len(statuses)).
			Int("total", len(result)).
			Bool("has_more", next != "").
			Msg("Fetched statuses page")
	}

	return result, nil
}

// VerifyCredentials resolves the account id behind the access token.
func (c *RESTClient) VerifyCredentials(ctx context.Context) (string, error) {
	u := c.endpointURL("api", "v1", "accounts", "verify_credentials")
	body, _, err := c.get(ctx, u.String(), EndpointVerifyCredentials)
	if err != nil {
		return "", err
	}
	return stringField(body, "id", "/api/v1/accounts/verify_credentials")
}

// firstStatusesURL builds the initial request. Query parameters are only
// ever added here; later pages use the server-provided link verbatim.
func (c *RESTClient) firstStatusesURL(accountID, cursor string, dir Direction) string {
	u := c.endpointURL("api", "v1", "accounts", accountID, "statuses")

	q := url.Values{}
	if dir == Prev {
		q.Set(c.cursorParam, cursor)
	}
	if c.pageSize > 0 {
		q.Set("limit", strconv.Itoa(c.pageSize))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// followLink extracts the link for dir and rebases it on the configured host.
// Only the path and query of the returned link are kept so the configured
// scheme and host stay authoritative.
func (c *RESTClient) followLink(header string, dir Direction) string {
	raw, ok := ParseLink(header, dir.Rel())
	if !ok {
		return ""
	}

	link, err := url.Parse(raw)
	if err != nil || link.Path == "" {
		c.logger.Warn().
			Str("link", raw).
			Str("rel", dir.Rel()).
			Msg("Ignoring unparsable pagination link")
		return ""
	}

	next := *c.base
	next.Path = link.Path
	next.RawPath = link.RawPath
	next.RawQuery = link.RawQuery
	next.Fragment = ""

	return next.String()
}

// get issues an authenticated GET and returns the body of a 2xx response.
func (c *RESTClient) get(ctx context.Context, rawURL, endpoint string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	return doRequest(c.http, req, endpoint, c.observer, c.logger)
}

// endpointURL appends unescaped path segments to the configured host.
func (c *RESTClient) endpointURL(segments ...string) *url.URL {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.Join(segments, "/")
	u.RawPath = ""
	return &u
}

// doRequest executes req, reports it to observer and maps failures onto the
// error taxonomy. Shared by RESTClient and ExchangeToken.
func doRequest(client *http.Client, req *http.Request, endpoint string, observer RequestObserver, logger zerolog.Logger) ([]byte, http.Header, error) {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		observe(observer, endpoint, 0, time.Since(start))
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, nil, fmt.Errorf("%s request aborted: %w", endpoint, ctxErr)
		}
		return nil, nil, fmt.Errorf("%s request failed: %w", endpoint, errors.Join(relaierrors.ErrTransport, err))
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	duration := time.Since(start)
	observe(observer, endpoint, resp.StatusCode, duration)

	logger.Debug().
		Str("endpoint", endpoint).
		Str("url", req.URL.Redacted()).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("HTTP request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, statusError(resp.StatusCode, endpoint, body)
	}
	if readErr != nil {
		return nil, nil, fmt.Errorf("failed to read %s response: %w", endpoint, errors.Join(relaierrors.ErrTransport, readErr))
	}

	return body, resp.Header, nil
}

// statusError maps a non-success status onto the error taxonomy. Every
// variant wraps ErrTransport; auth, not-found and rate-limit responses also
// wrap their specific sentinel.
func statusError(code int, endpoint string, body []byte) error {
	kind := relaierrors.ErrTransport
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = errors.Join(relaierrors.ErrTransport, relaierrors.ErrInvalidToken)
	case http.StatusNotFound:
		kind = errors.Join(relaierrors.ErrTransport, relaierrors.ErrAccountNotFound)
	case http.StatusTooManyRequests:
		kind = errors.Join(relaierrors.ErrTransport, relaierrors.ErrRateLimit)
	}

	return &relaierrors.HTTPError{
		StatusCode: code,
		Endpoint:   endpoint,
		Message:    serverMessage(body),
		Err:        kind,
	}
}

// serverMessage extracts Mastodon's {"error": "..."} payload when present.
func serverMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	msg := gjson.GetBytes(body, "error_description")
	if !msg.Exists() {
		msg = gjson.GetBytes(body, "error")
	}
	return strings.TrimSpace(msg.String())
}

func observe(o RequestObserver, endpoint string, code int, d time.Duration) {
	if o != nil {
		o.ObserveRequest(endpoint, code, d)
	}
}

func parseHost(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("server host is required: %w", relaierrors.ErrConfig)
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid server host %q: %w", host, errors.Join(relaierrors.ErrConfig, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server host %q must be an absolute http(s) URL: %w", host, relaierrors.ErrConfig)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// stringField returns a required top-level string field of a JSON object,
// reporting its absence as *MissingFieldError instead of an empty value.
func stringField(body []byte, field, source string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%s response is not valid JSON: %w", source, relaierrors.ErrSchema)
	}
	v := gjson.GetBytes(body, field)
	if v.Type != gjson.String || v.Str == "" {
		return "", &relaierrors.MissingFieldError{Field: field, Source: source, Err: relaierrors.ErrSchema}
	}
	return v.Str, nil
}
