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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirseerhq/fedi-archive/internal/status"
)

// defaultFileMode is used when the target does not exist yet.
const defaultFileMode fs.FileMode = 0o644

// FileWriter atomically replaces the archive at a path.
type FileWriter struct {
	mu      sync.Mutex
	path    string
	count   int
	written bool
}

// NewFileWriter creates a writer for path. Nothing touches the file system
// until Write.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Path returns the target path.
func (w *FileWriter) Path() string {
	return w.path
}

// Write encodes statuses and renames them over the target in one step.
// The target keeps its permissions when it already exists.
func (w *FileWriter) Write(statuses []status.Status) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written {
		return errAlreadyWritten
	}

	data, err := Encode(statuses)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(w.path, data); err != nil {
		return err
	}

	w.written = true
	w.count = len(statuses)
	return nil
}

// Count returns the number of statuses written.
func (w *FileWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close implements ArchiveWriter.
func (w *FileWriter) Close() error {
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it over path. On any failure the temporary file is removed and path
// is left as it was.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tempFile, mode); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
