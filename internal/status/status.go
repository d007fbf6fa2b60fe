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

// Package status models a single post retrieved from a Mastodon-compatible
// server. A Status is an opaque JSON document; only its "id" and "created_at"
// fields are read. The raw bytes are kept untouched so that archiving never
// loses fields the server adds over time.
//
// Ordering assumption: lexicographic ordering of created_at strings matches
// chronological ordering. This holds only when every record comes from the
// same server using a fixed-width, fixed-precision timestamp format. It is not
// verified here.
package status

import (
	"encoding/json"
	"fmt"

	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/tidwall/gjson"
)

// Field names the engine depends on.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
)

// Status is one post with its identity and sort key extracted.
type Status struct {
	ID        string
	CreatedAt string
	Raw       json.RawMessage
}

// MarshalJSON emits the document as it was received.
func (s Status) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return []byte("null"), nil
	}
	return s.Raw, nil
}

// UnmarshalJSON keeps the raw document and extracts id and created_at.
// Missing fields are reported as *MissingFieldError wrapping ErrSchema.
func (s *Status) UnmarshalJSON(data []byte) error {
	st, err := fromResult(gjson.ParseBytes(data), "status", relaierrors.ErrSchema)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// DecodeArray parses body as a JSON array of statuses. source names the
// origin for error messages and kind is the sentinel the errors wrap
// (ErrSchema for API responses, ErrDataIntegrity for archive files).
func DecodeArray(body []byte, source string, kind error) ([]Status, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s is not valid JSON: %w", source, kind)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%s: expected a JSON array, got %s: %w", source, describe(root), kind)
	}

	elems := root.Array()
	out := make([]Status, 0, len(elems))
	for i, elem := range elems {
		st, err := fromResult(elem, fmt.Sprintf("%s[%d]", source, i), kind)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func fromResult(r gjson.Result, source string, kind error) (Status, error) {
	if !r.IsObject() {
		return Status{}, fmt.Errorf("%s: expected an object, got %s: %w", source, describe(r), kind)
	}
	id := r.Get(FieldID)
	if id.Type != gjson.String || id.Str == "" {
		return Status{}, &relaierrors.MissingFieldError{Field: FieldID, Source: source, Err: kind}
	}
	created := r.Get(FieldCreatedAt)
	if created.Type != gjson.String || created.Str == "" {
		return Status{}, &relaierrors.MissingFieldError{Field: FieldCreatedAt, Source: source, Err: kind}
	}
	return Status{
		ID:        id.Str,
		CreatedAt: created.Str,
		Raw:       json.RawMessage(r.Raw),
	}, nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "boolean"
	default:
		return "null"
	}
}
