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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

// StatusJSON renders a minimal status object.
func StatusJSON(id, createdAt string) string {
	return fmt.Sprintf(`{"id":%q,"created_at":%q,"content":"<p>%s</p>"}`, id, createdAt, id)
}

// StatusArray renders a JSON array of minimal statuses from id, created_at pairs.
func StatusArray(pairs ...string) string {
	if len(pairs)%2 != 0 {
		panic("StatusArray needs id, created_at pairs")
	}
	items := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		items = append(items, StatusJSON(pairs[i], pairs[i+1]))
	}
	return "[" + strings.Join(items, ",") + "]"
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadIDs reads a JSON archive and returns the id of every element in order.
func ReadIDs(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return IDs(t, data)
}

// IDs returns the id of every element of a JSON array.
func IDs(t *testing.T, data []byte) []string {
	t.Helper()

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		t.Fatalf("expected JSON array, got %.80s", data)
	}
	ids := []string{}
	root.ForEach(func(_, v gjson.Result) bool {
		ids = append(ids, v.Get("id").String())
		return true
	})
	return ids
}

// EqualStrings reports whether a and b hold the same elements in order.
func EqualStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
