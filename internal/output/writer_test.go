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

package output

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/sirseerhq/fedi-archive/internal/status"
)

func sampleStatuses() []status.Status {
	return []status.Status{
		{ID: "100", CreatedAt: "2024-01-01T00:00:00Z", Raw: []byte(`{"id":"100","created_at":"2024-01-01T00:00:00Z","content":"<p>hello & welcome</p>","tags":[]}`)},
		{ID: "101", CreatedAt: "2024-01-02T00:00:00Z", Raw: []byte(`{"id":"101","created_at":"2024-01-02T00:00:00Z","reblog":null}`)},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.Write(sampleStatuses()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := `[
  {
    "id": "100",
    "created_at": "2024-01-01T00:00:00Z",
    "content": "<p>hello & welcome</p>",
    "tags": []
  },
  {
    "id": "101",
    "created_at": "2024-01-02T00:00:00Z",
    "reblog": null
  }
]
`
	if buf.String() != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
}

func TestWriter_Empty(t *testing.T) {
	tests := []struct {
		name     string
		statuses []status.Status
	}{
		{name: "nil", statuses: nil},
		{name: "empty", statuses: []status.Status{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(&buf).Write(tt.statuses); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != "[]\n" {
				t.Errorf("got %q, want %q", buf.String(), "[]\n")
			}
		})
	}
}

func TestWriter_SecondWriteFails(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write(nil); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if err := w.Write(sampleStatuses()); !errors.Is(err, errAlreadyWritten) {
		t.Errorf("expected errAlreadyWritten, got %v", err)
	}
	if w.Count() != 0 {
		t.Errorf("Count() = %d after rejected write", w.Count())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_PropagatesWriteError(t *testing.T) {
	err := NewWriter(failingWriter{}).Write(sampleStatuses())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}
