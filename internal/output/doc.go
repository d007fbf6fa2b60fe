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

// Package output writes status archives as a pretty-printed JSON array.
//
// Two writers share the ArchiveWriter interface. Writer encodes to any
// io.Writer, which the CLI uses for stdout. FileWriter replaces a file
// atomically: the archive is written to a temporary file in the same
// directory, synced and renamed over the target, so a crash mid-write leaves
// the previous archive untouched.
//
// HTML in status content is written as-is rather than escaped to \u003c
// sequences, and unknown status fields are preserved byte for byte.
//
// Example usage:
//
//	w := output.NewFileWriter("statuses.json")
//	defer w.Close()
//
//	if err := w.Write(merged.Statuses); err != nil {
//	    return err
//	}
//	fmt.Printf("Wrote %d statuses\n", w.Count())
package output
