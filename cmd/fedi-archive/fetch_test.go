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

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirseerhq/fedi-archive/internal/mastodon"
	"github.com/sirseerhq/fedi-archive/internal/testutil"
)

const testToken = "test-token"

var epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// testEnv isolates a CLI run from the host: a scratch working directory and
// HOME, and no FEDI_ or GMH_ variables.
type testEnv struct {
	t   *testing.T
	dir string
	ctx context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	for _, name := range []string{
		"FEDI_HOST", "GMH_HOST", "FEDI_ACCOUNT_ID", "FEDI_TIMEOUT", "FEDI_PAGE_SIZE",
		"FEDI_CURSOR_PARAM", "FEDI_ON_DUPLICATE", "FEDI_METADATA_DIR", "FEDI_METRICS_FILE",
		"FEDI_LOG_PRETTY", "FEDI_ACCESS_TOKEN", "GMH_ACCESS_TOKEN", "FEDI_CLIENT_ID", "FEDI_CLIENT_SECRET",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("FEDI_LOG_LEVEL", "disabled")

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return &testEnv{t: t, dir: dir, ctx: context.Background()}
}

func (e *testEnv) path(elem ...string) string {
	return filepath.Join(append([]string{e.dir}, elem...)...)
}

func (e *testEnv) run(args ...string) (int, string, string) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(e.ctx, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// mustRun fails the test unless the command exits 0.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	code, stdout, stderr := e.run(args...)
	if code != exitOK {
		e.t.Fatalf("%v exited %d: %s", args, code, stderr)
	}
	return stdout
}

func readBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

func TestFetch_FullToStdout(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 5, epoch))

	stdout := env.mustRun("fetch", "--host", server.URL, "--token", testToken, "--page-size", "2")

	ids := testutil.IDs(t, []byte(stdout))
	if want := []string{"100", "101", "102", "103", "104"}; !testutil.EqualStrings(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if !strings.HasPrefix(stdout, "[\n  {\n    \"id\"") {
		t.Errorf("expected two-space indented output, got %.40q", stdout)
	}
}

func TestFetch_FullToFile(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 3, epoch))
	file := env.path("archive.json")

	stdout := env.mustRun("fetch", file, "--host", server.URL, "--token", testToken)

	if stdout != "" {
		t.Errorf("nothing should be printed when writing a file, got %q", stdout)
	}
	if ids := testutil.ReadIDs(t, file); !testutil.EqualStrings(ids, []string{"100", "101", "102"}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestFetch_ResumeScenario(t *testing.T) {
	env := newTestEnv(t)
	const uri = "/api/v1/accounts/1/statuses"
	server := testutil.NewMockServer(t, testToken, map[string]testutil.Page{
		uri + "?since_id=100": {
			Body:  `[{"id":"101","created_at":"2024-01-02T00:00:00Z"}]`,
			Links: map[string]string{"prev": uri + "?min_id=101", "next": uri + "?max_id=101"},
		},
		uri + "?min_id=101": {
			Body: `[{"id":"102","created_at":"2024-01-03T00:00:00Z"}]`,
		},
	})
	file := testutil.WriteFile(t, env.dir, "archive.json", `[{"id":"100","created_at":"2024-01-01T00:00:00Z"}]`)

	env.mustRun("fetch", "-u", file, "--host", server.URL, "--token", testToken, "--account-id", "1")

	if ids := testutil.ReadIDs(t, file); !testutil.EqualStrings(ids, []string{"100", "101", "102"}) {
		t.Errorf("ids = %v, want [100 101 102]", ids)
	}
	want := []string{uri + "?since_id=100", uri + "?min_id=101"}
	if got := server.RequestURIs(); !testutil.EqualStrings(got, want) {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestFetch_FlagsOutrankAccountConfig(t *testing.T) {
	env := newTestEnv(t)
	const uri = "/api/v1/accounts/1/statuses"
	server := testutil.NewMockServer(t, testToken, map[string]testutil.Page{
		uri + "?limit=5&min_id=100": {Body: "[]"},
	})
	testutil.WriteFile(t, env.dir, ".fedi-archive.yaml", `
accounts:
  "1":
    page_size: 40
    cursor_param: since_id
`)
	file := testutil.WriteFile(t, env.dir, "archive.json", testutil.StatusArray("100", "2024-01-01T00:00:00Z"))

	env.mustRun("fetch", "-u", file, "--host", server.URL, "--token", testToken, "--account-id", "1",
		"--page-size", "5", "--cursor-param", "min_id")

	if got, want := server.RequestURIs(), []string{uri + "?limit=5&min_id=100"}; !testutil.EqualStrings(got, want) {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestFetch_EmptyArchiveIsFullFetch(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 2, epoch))
	file := testutil.WriteFile(t, env.dir, "archive.json", "[]")

	env.mustRun("fetch", "-u", file, "--host", server.URL, "--token", testToken)

	if ids := testutil.ReadIDs(t, file); !testutil.EqualStrings(ids, []string{"100", "101"}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestFetch_MissingArchiveIsLogged(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 1, epoch))
	args := []string{"fetch", "-u", env.path("archive.json"), "--host", server.URL, "--token", testToken, "--log-level", "info"}

	code, _, stderr := env.run(args...)
	if code != exitOK {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "starting a full fetch") {
		t.Errorf("missing archive was not reported:\n%s", stderr)
	}

	code, _, stderr = env.run(args...)
	if code != exitOK {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if strings.Contains(stderr, "starting a full fetch") {
		t.Errorf("second run should resume from the written archive:\n%s", stderr)
	}
}

func TestFetch_IncrementalRuns(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 7, epoch))
	file := env.path("archive.json")
	args := []string{"fetch", "-u", file, "--host", server.URL, "--token", testToken, "--page-size", "3"}

	// First run bootstraps the missing archive.
	env.mustRun(args...)
	if ids := testutil.ReadIDs(t, file); len(ids) != 7 {
		t.Fatalf("first run archived %d statuses, want 7", len(ids))
	}

	// since_id returns the newest page first, so the update fits in one page.
	server.Add(testutil.GenerateStatuses(107, 3, epoch.AddDate(0, 0, 7))...)
	env.mustRun(args...)

	ids := testutil.ReadIDs(t, file)
	want := []string{"100", "101", "102", "103", "104", "105", "106", "107", "108", "109"}
	if !testutil.EqualStrings(ids, want) {
		t.Fatalf("after update ids = %v, want %v", ids, want)
	}

	// Nothing new: the archive must come out byte for byte the same.
	before := readBytes(t, file)
	env.mustRun(args...)
	if after := readBytes(t, file); !bytes.Equal(before, after) {
		t.Error("a run with nothing new changed the archive")
	}
}

func TestFetch_MinIDCursorCatchesUpAcrossPages(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 2, epoch))
	file := env.path("archive.json")
	args := []string{"fetch", "-u", file, "--host", server.URL, "--token", testToken, "--page-size", "2", "--cursor-param", "min_id"}

	env.mustRun(args...)
	server.Add(testutil.GenerateStatuses(102, 5, epoch.AddDate(0, 0, 2))...)
	env.mustRun(args...)

	ids := testutil.ReadIDs(t, file)
	if want := []string{"100", "101", "102", "103", "104", "105", "106"}; !testutil.EqualStrings(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestFetch_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(500, 9, epoch))

	first := env.mustRun("fetch", "--host", server.URL, "--token", testToken, "--page-size", "4")
	second := env.mustRun("fetch", "--host", server.URL, "--token", testToken, "--page-size", "4")

	if first != second {
		t.Error("two full fetches of an unchanged account differ")
	}
}

func TestFetch_FullReplacesArchive(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 2, epoch))
	file := testutil.WriteFile(t, env.dir, "archive.json", testutil.StatusArray("1", "2020-01-01T00:00:00.000Z"))

	env.mustRun("fetch", "-u", "--full", file, "--host", server.URL, "--token", testToken)

	if ids := testutil.ReadIDs(t, file); !testutil.EqualStrings(ids, []string{"100", "101"}) {
		t.Errorf("ids = %v, want only the refetched statuses", ids)
	}
}

func TestFetch_ClientCredentialsExchange(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", "issued-token", testutil.GenerateStatuses(100, 2, epoch))
	t.Setenv("FEDI_CLIENT_ID", server.ClientID)
	t.Setenv("FEDI_CLIENT_SECRET", server.ClientSecret)

	stdout := env.mustRun("fetch", "--host", server.URL)

	if ids := testutil.IDs(t, []byte(stdout)); len(ids) != 2 {
		t.Errorf("ids = %v", ids)
	}
}

func TestFetch_DotEnvAndLegacyVariables(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 1, epoch))
	testutil.WriteFile(t, env.dir, ".env", "GMH_HOST="+server.URL+"\nGMH_ACCESS_TOKEN="+testToken+"\n")
	t.Cleanup(func() {
		os.Unsetenv("GMH_HOST")
		os.Unsetenv("GMH_ACCESS_TOKEN")
	})

	stdout := env.mustRun("fetch")

	if ids := testutil.IDs(t, []byte(stdout)); !testutil.EqualStrings(ids, []string{"100"}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestFetch_MetadataAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 3, epoch))
	file := env.path("archive.json")
	metaDir := env.path("meta")
	metricsFile := env.path("metrics", "fedi.prom")

	env.mustRun("fetch", "-u", file, "--host", server.URL, "--token", testToken,
		"--metadata-dir", metaDir, "--metrics-file", metricsFile)

	matches, err := filepath.Glob(filepath.Join(metaDir, "fetch-metadata-*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one metadata file, got %v (%v)", matches, err)
	}
	meta := string(readBytes(t, matches[0]))
	for _, want := range []string{`"account_id": "42"`, `"statuses_fetched": 3`, `"statuses_archived": 3`, `"incremental": false`} {
		if !strings.Contains(meta, want) {
			t.Errorf("metadata missing %s:\n%s", want, meta)
		}
	}

	prom := string(readBytes(t, metricsFile))
	for _, want := range []string{
		`fedi_archive_requests_total{code="200",endpoint="statuses"} 2`,
		`fedi_archive_requests_total{code="200",endpoint="verify_credentials"} 1`,
		"fedi_archive_statuses_archived 3",
	} {
		if !strings.Contains(prom, want) {
			t.Errorf("metrics missing %s:\n%s", want, prom)
		}
	}
}

func TestFetch_MetadataLinksPreviousRun(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 1, epoch))
	file := env.path("archive.json")
	metaDir := env.path("meta")
	args := []string{"fetch", "-u", file, "--host", server.URL, "--token", testToken, "--metadata-dir", metaDir}

	env.mustRun(args...)
	// Metadata files are named by start second.
	time.Sleep(1100 * time.Millisecond)
	server.Add(testutil.GenerateStatuses(101, 1, epoch.AddDate(0, 0, 1))...)
	env.mustRun(args...)

	matches, _ := filepath.Glob(filepath.Join(metaDir, "fetch-metadata-*.json"))
	if len(matches) != 2 {
		t.Fatalf("expected two metadata files, got %v", matches)
	}
	var linked int
	for _, m := range matches {
		content := string(readBytes(t, m))
		if strings.Contains(content, `"previous_fetch"`) && strings.Contains(content, `"incremental": true`) {
			linked++
		}
	}
	if linked != 1 {
		t.Errorf("expected the incremental run to link the full run, %d files linked", linked)
	}
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, env *testEnv, server *testutil.TimelineServer) []string
		wantCode int
	}{
		{
			name: "no credentials",
			setup: func(t *testing.T, env *testEnv, server *testutil.TimelineServer) []string {
				return []string{"fetch", "--host", server.URL}
			},
			wantCode: exitConfig,
		},
		{
			name: "no host",
			setup: func(t *testing.T, env *testEnv, server *testutil.TimelineServer) []string {
				return []string{"fetch", "--token", testToken}
			},
			wantCode: exitConfig,
		},
		{
			name: "update without file",
			setup: func(t *testing.T, env *testEnv, server *testutil.TimelineServer) []string {
				return []string{"fetch", "-u", "--host", server.URL, "--token", testToken}
			},
			wantCode: exitConfig,
		},
		{
			name: "bad duplicate policy",
			setup: func(t *testing.T, env *testEnv, server *testutil.TimelineServer) []string {
				return []string{"fetch", "--host", server.URL, "--token", testToken, "--on-duplicate", "keep"}
			},
			wantCode: exitConfig,
		},
		{
			name: "malformed archive",
			setup: func(t *testing.T, env *testEnv, server *testutil.TimelineServer) []string {
				file := testutil.WriteFile(t, env.dir, "archive.json", `{"not":"an array"}`)
				return []string{"fetch", "-u", file, "--host", server.URL, "--token", testToken}
			},
			wantCode: exitIntegrity,
		},
		{
			name: "archive status without created_at",
			setup: func(t *testing.T, env *testEnv, server *testutil.TimelineServer) []string {
				file := testutil.WriteFile(t, env.dir, "archive.json", `[{"id":"1"}]`)
				return []string{"fetch", "-u", file, "--host", server.URL, "--token", testToken}
			},
			wantCode: exitIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 2, epoch))
			args := tt.setup(t, env, server)

			var before []byte
			if data, err := os.ReadFile(env.path("archive.json")); err == nil {
				before = data
			}

			code, stdout, stderr := env.run(args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if !strings.HasPrefix(stderr, "Error: ") {
				t.Errorf("stderr = %q, want an Error: line", stderr)
			}
			if stdout != "" {
				t.Errorf("nothing may be written to stdout on failure, got %q", stdout)
			}
			if n := server.RequestCount(); n != 0 {
				t.Errorf("%d requests sent; configuration and archive errors must be caught first", n)
			}
			if before != nil {
				if after := readBytes(t, env.path("archive.json")); !bytes.Equal(before, after) {
					t.Error("archive changed after a failed run")
				}
			}
		})
	}
}

func TestFetch_ServerErrorsLeaveArchiveUntouched(t *testing.T) {
	const uri = "/api/v1/accounts/1/statuses"
	original := testutil.StatusArray("100", "2024-01-01T00:00:00Z")

	tests := []struct {
		name     string
		pages    map[string]testutil.Page
		token    string
		wantCode int
	}{
		{
			name:     "invalid token",
			pages:    map[string]testutil.Page{},
			token:    "wrong",
			wantCode: exitConfig,
		},
		{
			name: "server error on second page",
			pages: map[string]testutil.Page{
				uri + "?since_id=100": {Body: testutil.StatusArray("101", "2024-01-02T00:00:00Z"), Links: map[string]string{"prev": uri + "?min_id=101"}},
				uri + "?min_id=101":   {Status: 502, Body: "bad gateway"},
			},
			wantCode: exitTransport,
		},
		{
			name: "rate limited",
			pages: map[string]testutil.Page{
				uri + "?since_id=100": {Status: 429, Body: `{"error":"Too many requests"}`},
			},
			wantCode: exitTransport,
		},
		{
			name: "not an array",
			pages: map[string]testutil.Page{
				uri + "?since_id=100": {Body: `{"error":"maintenance"}`},
			},
			wantCode: exitIntegrity,
		},
		{
			name: "overlapping boundary with fail policy",
			pages: map[string]testutil.Page{
				uri + "?since_id=100": {Body: testutil.StatusArray("101", "2024-01-02T00:00:00Z", "100", "2024-01-01T00:00:00Z")},
			},
			wantCode: exitIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			server := testutil.NewMockServer(t, testToken, tt.pages)
			file := testutil.WriteFile(t, env.dir, "archive.json", original)

			token := tt.token
			if token == "" {
				token = testToken
			}
			code, _, stderr := env.run("fetch", "-u", file, "--host", server.URL, "--token", token,
				"--account-id", "1", "--on-duplicate", "fail")
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if got := string(readBytes(t, file)); got != original {
				t.Errorf("archive changed to %s", got)
			}
		})
	}
}

func TestFetch_OverlappingBoundaryDroppedByDefault(t *testing.T) {
	env := newTestEnv(t)
	const uri = "/api/v1/accounts/1/statuses"
	server := testutil.NewMockServer(t, testToken, map[string]testutil.Page{
		uri + "?since_id=100": {Body: testutil.StatusArray("101", "2024-01-02T00:00:00Z", "100", "2024-01-01T00:00:00Z")},
	})
	file := testutil.WriteFile(t, env.dir, "archive.json", testutil.StatusArray("100", "2024-01-01T00:00:00Z"))

	env.mustRun("fetch", "-u", file, "--host", server.URL, "--token", testToken, "--account-id", "1")

	if ids := testutil.ReadIDs(t, file); !testutil.EqualStrings(ids, []string{"100", "101"}) {
		t.Errorf("ids = %v, want [100 101]", ids)
	}
}

func TestFetch_WithMockClient(t *testing.T) {
	tests := []struct {
		name     string
		mock     *mastodon.MockClient
		wantCode int
		wantIDs  []string
	}{
		{
			name:     "success",
			mock:     mastodon.NewMockClient(),
			wantCode: exitOK,
			wantIDs:  []string{"110000000000000001", "110000000000000002", "110000000000000003"},
		},
		{
			name:     "auth failure",
			mock:     mastodon.NewMockClientWithOptions(mastodon.WithAuthFailure()),
			wantCode: exitConfig,
		},
		{
			name:     "transport failure",
			mock:     &mastodon.MockClient{AccountID: "1", ShouldFailTransport: true},
			wantCode: exitTransport,
		},
		{
			name:     "unexpected error",
			mock:     mastodon.NewMockClientWithOptions(mastodon.WithError(errors.New("boom"))),
			wantCode: exitGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			restore := newClient
			newClient = func(mastodon.Options) (mastodon.Client, error) { return tt.mock, nil }
			t.Cleanup(func() { newClient = restore })

			code, stdout, _ := env.run("fetch", "--host", "https://mastodon.example", "--token", testToken)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantIDs != nil {
				if ids := testutil.IDs(t, []byte(stdout)); !testutil.EqualStrings(ids, tt.wantIDs) {
					t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
				}
				if tt.mock.LastCursor != "" || tt.mock.LastAccountID != tt.mock.AccountID {
					t.Errorf("fetch called with account %q cursor %q", tt.mock.LastAccountID, tt.mock.LastCursor)
				}
				if tt.mock.LastDirection != mastodon.Next {
					t.Errorf("fetch walked %v, want next", tt.mock.LastDirection)
				}
			}
		})
	}
}

func TestFetch_Interrupted(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "42", testToken, testutil.GenerateStatuses(100, 1, epoch))
	file := testutil.WriteFile(t, env.dir, "archive.json", "[]")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env.ctx = ctx

	code, _, _ := env.run("fetch", "-u", file, "--host", server.URL, "--token", testToken, "--account-id", "42")
	if code != exitInterrupted {
		t.Errorf("exit code = %d, want %d", code, exitInterrupted)
	}
	if got := string(readBytes(t, file)); got != "[]" {
		t.Errorf("archive changed to %q", got)
	}
}

func TestWhoami(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "109348327046593264", testToken, nil)

	stdout := env.mustRun("whoami", "--host", server.URL, "--token", testToken, "--account-id", "ignored")

	if strings.TrimSpace(stdout) != "109348327046593264" {
		t.Errorf("whoami printed %q", stdout)
	}
}

func TestWhoami_InvalidToken(t *testing.T) {
	env := newTestEnv(t)
	server := testutil.NewTimelineServer(t, "1", testToken, nil)

	code, _, _ := env.run("whoami", "--host", server.URL, "--token", "nope")
	if code != exitConfig {
		t.Errorf("exit code = %d, want %d", code, exitConfig)
	}
}
