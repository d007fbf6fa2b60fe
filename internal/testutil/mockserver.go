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

// Package testutil provides common test helpers for fedi-archive: mock
// Mastodon servers built on httptest and small fixture builders.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Page is a canned response served for one request URI.
type Page struct {
	// Status defaults to 200.
	Status int
	// Body is written verbatim.
	Body string
	// Links maps a relation to a request URI (path and query) on the same
	// server. It is rendered as an absolute URL in the Link header.
	Links map[string]string
	// RawLink, when set, is sent as the Link header instead of Links.
	RawLink string
}

// MockServer serves canned pages keyed by request URI and records every
// request it receives.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	pages    map[string]Page
	requests []RecordedRequest
}

// RecordedRequest captures what the client sent.
type RecordedRequest struct {
	Method        string
	RequestURI    string
	Authorization string
	UserAgent     string
	Form          map[string]string
}

// NewMockServer creates a server that answers with pages. When token is
// non-empty, requests without "Authorization: Bearer <token>" get a 401.
// Unknown URIs get a 404 with a Mastodon-style error body.
func NewMockServer(t *testing.T, token string, pages map[string]Page) *MockServer {
	t.Helper()

	m := &MockServer{token: token, pages: pages}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)

	return m
}

func (m *MockServer) serve(w http.ResponseWriter, r *http.Request) {
	m.record(r)

	if m.token != "" && r.Header.Get("Authorization") != "Bearer "+m.token {
		writeError(w, http.StatusUnauthorized, "The access token is invalid")
		return
	}

	m.mu.Lock()
	page, ok := m.pages[r.URL.RequestURI()]
	m.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}

	switch {
	case page.RawLink != "":
		w.Header().Set("Link", page.RawLink)
	case len(page.Links) > 0:
		w.Header().Set("Link", m.renderLinks(page.Links))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	code := page.Status
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	_, _ = w.Write([]byte(page.Body))
}

func (m *MockServer) record(r *http.Request) {
	rec := RecordedRequest{
		Method:        r.Method,
		RequestURI:    r.URL.RequestURI(),
		Authorization: r.Header.Get("Authorization"),
		UserAgent:     r.Header.Get("User-Agent"),
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			rec.Form = make(map[string]string, len(r.PostForm))
			for k := range r.PostForm {
				rec.Form[k] = r.PostForm.Get(k)
			}
		}
	}

	m.mu.Lock()
	m.requests = append(m.requests, rec)
	m.mu.Unlock()
}

// renderLinks formats links in a stable next, prev, other order.
func (m *MockServer) renderLinks(links map[string]string) string {
	parts := make([]string, 0, len(links))
	for _, rel := range []string{"next", "prev"} {
		if uri, ok := links[rel]; ok {
			parts = append(parts, fmt.Sprintf(`<%s%s>; rel="%s"`, m.URL, uri, rel))
		}
	}
	for rel, uri := range links {
		if rel != "next" && rel != "prev" {
			parts = append(parts, fmt.Sprintf(`<%s%s>; rel="%s"`, m.URL, uri, rel))
		}
	}
	return strings.Join(parts, ", ")
}

// Requests returns a copy of the recorded requests.
func (m *MockServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestURIs returns the request URIs in the order received.
func (m *MockServer) RequestURIs() []string {
	reqs := m.Requests()
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.RequestURI
	}
	return out
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
