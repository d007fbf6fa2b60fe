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
	"fmt"
	"strings"

	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/internal/status"
)

// DuplicatePolicy decides what Merge does with a status id seen twice.
type DuplicatePolicy int

const (
	// DuplicateDrop keeps the first occurrence. Existing statuses come first,
	// so the archived copy wins over a refetched one.
	DuplicateDrop DuplicatePolicy = iota
	// DuplicateFail aborts the merge with a *DuplicateError.
	DuplicateFail
)

// ParseDuplicatePolicy maps "drop" or "fail" to a policy. Empty means drop.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DuplicateDrop, nil
	case "fail":
		return DuplicateFail, nil
	default:
		return DuplicateDrop, fmt.Errorf("unknown duplicate policy %q (want drop or fail): %w", s, relaierrors.ErrConfig)
	}
}

// String implements fmt.Stringer.
func (p DuplicatePolicy) String() string {
	if p == DuplicateFail {
		return "fail"
	}
	return "drop"
}

// MergeResult is the merged archive.
type MergeResult struct {
	// Statuses sorted ascending by created_at, each id at most once.
	Statuses []status.Status

	// Dropped lists ids removed as duplicates, in the order encountered.
	Dropped []string
}

// Merge concatenates existing and fetched, removes repeated ids according to
// policy and stably sorts the result ascending by created_at. Statuses with
// equal timestamps keep their relative order from the concatenation.
// Neither input slice is modified.
func Merge(existing, fetched []status.Status, policy DuplicatePolicy) (*MergeResult, error) {
	combined := make([]status.Status, 0, len(existing)+len(fetched))
	seen := make(map[string]struct{}, len(existing)+len(fetched))
	result := &MergeResult{}

	for _, batch := range [][]status.Status{existing, fetched} {
		for _, s := range batch {
			if _, dup := seen[s.ID]; dup {
				if policy == DuplicateFail {
					return nil, &relaierrors.DuplicateError{ID: s.ID}
				}
				result.Dropped = append(result.Dropped, s.ID)
				continue
			}
			seen[s.ID] = struct{}{}
			combined = append(combined, s)
		}
	}

	SortAscending(combined)
	result.Statuses = combined

	return result, nil
}
