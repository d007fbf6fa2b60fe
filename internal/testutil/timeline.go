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

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TimelineServer simulates the statuses endpoint of a Mastodon server,
// including max_id, since_id, min_id and limit handling and the Link headers
// Mastodon emits. It also answers verify_credentials and oauth/token.
type TimelineServer struct {
	*httptest.Server

	AccountID    string
	Token        string
	ClientID     string
	ClientSecret string

	// DefaultLimit is used when the request carries no limit. Defaults to 20.
	DefaultLimit int

	mu       sync.Mutex
	statuses []TimelineStatus
	requests int32
}

// TimelineStatus is a status held by the TimelineServer. IDs must be decimal
// strings so they order numerically like Mastodon snowflake ids.
type TimelineStatus struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Content   string `json:"content"`
}

// NewTimelineServer starts a server for one account holding statuses.
func NewTimelineServer(t *testing.T, accountID, token string, statuses []TimelineStatus) *TimelineServer {
	t.Helper()

	ts := &TimelineServer{
		AccountID:    accountID,
		Token:        token,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		DefaultLimit: 20,
	}
	ts.Add(statuses...)
	ts.Server = httptest.NewServer(http.HandlerFunc(ts.serve))
	t.Cleanup(ts.Close)

	return ts
}

// Add publishes more statuses.
func (ts *TimelineServer) Add(statuses ...TimelineStatus) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.statuses = append(ts.statuses, statuses...)
	sort.SliceStable(ts.statuses, func(i, j int) bool {
		return idLess(ts.statuses[j].ID, ts.statuses[i].ID) // newest first
	})
}

// RequestCount returns the number of requests served.
func (ts *TimelineServer) RequestCount() int {
	return int(atomic.LoadInt32(&ts.requests))
}

func (ts *TimelineServer) serve(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&ts.requests, 1)

	if r.Method == http.MethodPost && r.URL.Path == "/oauth/token" {
		ts.serveToken(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+ts.Token {
		writeError(w, http.StatusUnauthorized, "The access token is invalid")
		return
	}

	switch r.URL.Path {
	case "/api/v1/accounts/verify_credentials":
		writeJSON(w, map[string]string{"id": ts.AccountID, "username": "archivist"})
	case "/api/v1/accounts/" + ts.AccountID + "/statuses":
		ts.serveStatuses(w, r)
	default:
		writeError(w, http.StatusNotFound, "Record not found")
	}
}

func (ts *TimelineServer) serveToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if r.PostForm.Get("grant_type") != "client_credentials" ||
		r.PostForm.Get("redirect_uri") != "urn:ietf:wg:oauth:2.0:oob" ||
		r.PostForm.Get("client_id") != ts.ClientID ||
		r.PostForm.Get("client_secret") != ts.ClientSecret {
		writeError(w, http.StatusUnauthorized, "invalid_client")
		return
	}
	writeJSON(w, map[string]interface{}{
		"access_token": ts.Token,
		"token_type":   "Bearer",
		"scope":        "read",
		"created_at":   time.Now().Unix(),
	})
}

func (ts *TimelineServer) serveStatuses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := ts.DefaultLimit
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
	}
	maxID, sinceID, minID := q.Get("max_id"), q.Get("since_id"), q.Get("min_id")

	ts.mu.Lock()
	var matching []TimelineStatus // newest first
	for _, s := range ts.statuses {
		if maxID != "" && !idLess(s.ID, maxID) {
			continue
		}
		if sinceID != "" && !idLess(sinceID, s.ID) {
			continue
		}
		if minID != "" && !idLess(minID, s.ID) {
			continue
		}
		matching = append(matching, s)
	}
	ts.mu.Unlock()

	var page []TimelineStatus
	if minID != "" {
		// min_id pages upward from the cursor: the oldest matches, newest first.
		start := len(matching) - limit
		if start < 0 {
			start = 0
		}
		page = matching[start:]
	} else {
		if len(matching) > limit {
			matching = matching[:limit]
		}
		page = matching
	}

	if len(page) > 0 {
		base := fmt.Sprintf("%s%s", ts.URL, r.URL.Path)
		next := url.Values{"max_id": {page[len(page)-1].ID}}
		prev := url.Values{"min_id": {page[0].ID}}
		if q.Get("limit") != "" {
			next.Set("limit", q.Get("limit"))
			prev.Set("limit", q.Get("limit"))
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?%s>; rel="next", <%s?%s>; rel="prev"`,
			base, next.Encode(), base, prev.Encode()))
	}

	if page == nil {
		page = []TimelineStatus{}
	}
	writeJSON(w, page)
}

// GenerateStatuses returns n statuses with ids first..first+n-1, one day apart
// starting at start.
func GenerateStatuses(first, n int, start time.Time) []TimelineStatus {
	out := make([]TimelineStatus, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, TimelineStatus{
			ID:        strconv.Itoa(first + i),
			CreatedAt: start.Add(time.Duration(i) * 24 * time.Hour).UTC().Format("2006-01-02T15:04:05.000Z"),
			Content:   fmt.Sprintf("<p>status %d</p>", first+i),
		})
	}
	return out
}

// idLess orders decimal id strings numerically.
func idLess(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
