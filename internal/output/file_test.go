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
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileWriter_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "archive.json")
	w := NewFileWriter(path)

	if err := w.Write(sampleStatuses()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}

	want, _ := Encode(sampleStatuses())
	if got := readFile(t, path); got != string(want) {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestFileWriter_ReplacesAndKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "archive.json")
	if err := os.WriteFile(path, []byte("[]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := NewFileWriter(path).Write(sampleStatuses()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("temporary files left behind: %v", names)
	}
}

func TestFileWriter_DirectoryTargetFails(t *testing.T) {
	dir := t.TempDir()
	if err := NewFileWriter(dir).Write(sampleStatuses()); err == nil {
		t.Fatal("expected error writing over a directory")
	}
}

func TestFileWriter_FailureLeavesOriginal(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("requires a non-root unix user")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "archive.json")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if err := NewFileWriter(path).Write(sampleStatuses()); err == nil {
		t.Fatal("expected error in read-only directory")
	}
	if got := readFile(t, path); got != "original" {
		t.Errorf("archive changed to %q", got)
	}
}
