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
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirseerhq/fedi-archive/pkg/version"
)

// newHTTPClient builds the HTTP client used for every API call. The token is
// only ever sent to host (host[:port] of the configured server).
// A zero timeout leaves requests unbounded, matching net/http defaults.
func newHTTPClient(host, token string, timeout time.Duration, base *http.Client) *http.Client {
	var (
		rt    http.RoundTripper
		jar   http.CookieJar
		check func(*http.Request, []*http.Request) error
	)
	if base != nil {
		rt = base.Transport
		jar = base.Jar
		check = base.CheckRedirect
		if timeout == 0 {
			timeout = base.Timeout
		}
	}
	if rt == nil {
		rt = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        4,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}

	return &http.Client{
		Transport: &authTransport{
			host:  host,
			token: token,
			base:  rt,
		},
		Jar:           jar,
		CheckRedirect: check,
		Timeout:       timeout,
	}
}

// authTransport adds authentication header and safety limits to HTTP requests.
// Requests to any host but the configured one, such as a redirect hop to
// another domain, go out without credentials.
type authTransport struct {
	host  string
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request so the caller's copy stays untouched
	req = req.Clone(req.Context())

	if t.token != "" && strings.EqualFold(req.URL.Host, t.host) {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement. A body of exactly
// limit bytes still ends in io.EOF; only data past the limit is an error.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		var extra [1]byte
		n, err = lr.ReadCloser.Read(extra[:])
		if n > 0 {
			return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
		}
		return 0, err
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
