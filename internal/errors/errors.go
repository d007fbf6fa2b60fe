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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrTransport indicates a connection, DNS or non-success HTTP status failure.
	// Maps to exit code 3.
	ErrTransport = errors.New("transport error")

	// ErrSchema indicates a response that is not the expected JSON shape.
	// Maps to exit code 4.
	ErrSchema = errors.New("unexpected response schema")

	// ErrDataIntegrity indicates the existing archive could not be read or parsed.
	// The run aborts before any fetch so a good archive is never overwritten.
	// Maps to exit code 4.
	ErrDataIntegrity = errors.New("archive data integrity error")

	// ErrConfig indicates missing or invalid configuration, such as no usable credential.
	// Maps to exit code 2.
	ErrConfig = errors.New("invalid configuration")

	// ErrInvalidToken indicates the server rejected the access token.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrAccountNotFound indicates the account does not exist or is not visible.
	// Maps to exit code 2.
	ErrAccountNotFound = errors.New("account not found")

	// ErrRateLimit indicates the server rate limit has been exceeded.
	// Maps to exit code 3.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrDuplicateStatus indicates the same status id appeared twice while merging.
	// Maps to exit code 4.
	ErrDuplicateStatus = errors.New("duplicate status id")
)

// HTTPError describes a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a JSON document lacking a required string field.
// Source names where the document came from (an endpoint or a file).
type MissingFieldError struct {
	Field  string
	Source string
	Err    error
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q in %s", e.Field, e.Source)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *MissingFieldError) Unwrap() error {
	return e.Err
}

// DuplicateError reports a status id present in both merge inputs.
type DuplicateError struct {
	ID string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("status %s appears more than once", e.ID)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateStatus
}
