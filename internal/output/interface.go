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

import "github.com/sirseerhq/fedi-archive/internal/status"

// ArchiveWriter writes a complete archive in one call.
// An archive is a single JSON array, so Write may only succeed once per writer.
type ArchiveWriter interface {
	// Write encodes statuses in the order given.
	Write(statuses []status.Status) error

	// Close releases any resources. It never publishes a partial archive.
	Close() error
}
