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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirseerhq/fedi-archive/internal/status"
)

// indent is the per-level indentation of written archives.
const indent = "  "

// errAlreadyWritten is returned by a second Write on the same writer.
var errAlreadyWritten = errors.New("archive already written")

// Writer encodes an archive to an io.Writer. It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	output  io.Writer
	count   int
	written bool
}

// NewWriter creates a Writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{output: w}
}

// Write encodes statuses as an indented JSON array followed by a newline.
// A nil or empty slice produces [].
func (w *Writer) Write(statuses []status.Status) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written {
		return errAlreadyWritten
	}

	data, err := Encode(statuses)
	if err != nil {
		return err
	}
	if _, err := w.output.Write(data); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	w.written = true
	w.count = len(statuses)
	return nil
}

// Count returns the number of statuses written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close implements ArchiveWriter. The underlying writer is owned by the caller.
func (w *Writer) Close() error {
	return nil
}

// Encode renders statuses exactly as the writers do.
func Encode(statuses []status.Status) ([]byte, error) {
	if statuses == nil {
		statuses = []status.Status{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(statuses); err != nil {
		return nil, fmt.Errorf("failed to encode archive: %w", err)
	}
	return buf.Bytes(), nil
}
