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

package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/internal/status"
)

// Loaded is the result of reading an archive.
type Loaded struct {
	// Statuses is a working copy sorted descending by created_at.
	Statuses []status.Status

	// Cursor is the id of the most recent status, or empty when the archive
	// holds nothing and a full fetch is needed.
	Cursor string

	// Existed reports whether the archive file was present on disk.
	Existed bool
}

// Empty reports whether the archive holds no statuses.
func (l *Loaded) Empty() bool {
	return len(l.Statuses) == 0
}

// Load reads the archive at path and determines the resume cursor.
//
// An empty path or full == true returns an empty set without touching the
// file system. A missing, empty or whitespace-only file, or one holding [],
// also returns an empty set. Anything that is not a JSON array of statuses
// with string id and created_at fields fails with ErrDataIntegrity so an
// unreadable archive is never overwritten.
func Load(path string, full bool) (*Loaded, error) {
	if path == "" || full {
		return &Loaded{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Loaded{}, nil
		}
		return nil, fmt.Errorf("failed to read archive %s: %w", path, errors.Join(relaierrors.ErrDataIntegrity, err))
	}

	loaded := &Loaded{Existed: true}
	if len(bytes.TrimSpace(data)) == 0 {
		return loaded, nil
	}

	statuses, err := status.DecodeArray(data, path, relaierrors.ErrDataIntegrity)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return loaded, nil
	}

	SortDescending(statuses)
	loaded.Statuses = statuses
	loaded.Cursor = statuses[0].ID

	return loaded, nil
}

// SortDescending stably orders statuses newest first by created_at.
func SortDescending(statuses []status.Status) {
	slices.SortStableFunc(statuses, func(a, b status.Status) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
}

// SortAscending stably orders statuses oldest first by created_at.
func SortAscending(statuses []status.Status) {
	slices.SortStableFunc(statuses, func(a, b status.Status) int {
		return strings.Compare(a.CreatedAt, b.CreatedAt)
	})
}
