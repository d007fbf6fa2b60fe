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
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestLimitedReader(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr bool
	}{
		{name: "under limit", body: "abc", limit: 8},
		{name: "exactly at limit", body: "abcdefgh", limit: 8},
		{name: "one byte over", body: "abcdefghi", limit: 8, wantErr: true},
		{name: "empty body", body: "", limit: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := &limitedReader{ReadCloser: io.NopCloser(strings.NewReader(tt.body)), limit: tt.limit}
			got, err := io.ReadAll(lr)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected size limit error, got nil")
				}
				if !strings.Contains(err.Error(), "exceeded limit") {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.body {
				t.Errorf("read %q, want %q", got, tt.body)
			}
		})
	}
}

func TestAuthTransport_CredentialsStayOnConfiguredHost(t *testing.T) {
	var foreignAuth []string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignAuth = append(foreignAuth, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer foreign.Close()

	var homeAuth string
	home := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		homeAuth = r.Header.Get("Authorization")
		http.Redirect(w, r, foreign.URL+"/elsewhere", http.StatusFound)
	}))
	defer home.Close()

	u, err := url.Parse(home.URL)
	if err != nil {
		t.Fatal(err)
	}
	client := newHTTPClient(u.Host, "secret", 0, nil)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, home.URL+"/api/v1/accounts/verify_credentials", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if homeAuth != "Bearer secret" {
		t.Errorf("configured host got Authorization %q", homeAuth)
	}
	if len(foreignAuth) != 1 {
		t.Fatalf("redirect target saw %d requests, want 1", len(foreignAuth))
	}
	if foreignAuth[0] != "" {
		t.Errorf("redirect target received Authorization %q", foreignAuth[0])
	}
}

func TestAuthTransport_UserAgentAndAccept(t *testing.T) {
	var ua, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	resp, err := newHTTPClient(u.Host, "", 0, nil).Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if ua == "" || !strings.HasPrefix(ua, "fedi-archive") {
		t.Errorf("User-Agent = %q", ua)
	}
	if accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
}
