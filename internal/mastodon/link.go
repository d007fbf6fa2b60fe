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

package mastodon

import "strings"

// ParseLink returns the URL marked with rel in a Link header value such as
//
//	<https://host/api/v1/accounts/1/statuses?max_id=9>; rel="next", <https://host/...?min_id=12>; rel="prev"
//
// The first well-formed segment containing the literal rel="<rel>" wins.
// Segments are split on commas, so a URL containing a comma is not supported.
// Matching is by substring, so another attribute whose value contains that
// text is a false positive. Relative URLs are returned as is. Any
// irregularity yields ok=false and pagination simply stops.
func ParseLink(header, rel string) (string, bool) {
	if header == "" || rel == "" {
		return "", false
	}
	token := `rel="` + rel + `"`

	for _, segment := range strings.Split(header, ",") {
		if !strings.Contains(segment, token) {
			continue
		}
		target, _, _ := strings.Cut(segment, ";")
		target = strings.TrimSpace(target)
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		target = strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
		if target == "" {
			continue
		}
		return target, true
	}
	return "", false
}
