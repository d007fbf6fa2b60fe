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

import (
	"context"
	"fmt"

	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/internal/status"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Statuses to return from FetchStatuses
	Statuses []status.Status

	// AccountID to return from VerifyCredentials
	AccountID string

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth      bool
	ShouldFailTransport bool

	// Track calls for verification
	FetchCount    int
	VerifyCount   int
	LastAccountID string
	LastCursor    string
	LastDirection Direction
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Statuses:  generateTestStatuses(),
		AccountID: "109348327046593264",
	}
}

// FetchStatuses implements the Client interface
func (m *MockClient) FetchStatuses(ctx context.Context, accountID, cursor string) ([]status.Status, error) {
	m.FetchCount++
	m.LastAccountID = accountID
	m.LastCursor = cursor
	m.LastDirection = DirectionFor(cursor)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.failure(); err != nil {
		return nil, err
	}

	out := make([]status.Status, len(m.Statuses))
	copy(out, m.Statuses)
	return out, nil
}

// VerifyCredentials implements the Client interface
func (m *MockClient) VerifyCredentials(ctx context.Context) (string, error) {
	m.VerifyCount++

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if err := m.failure(); err != nil {
		return "", err
	}
	return m.AccountID, nil
}

func (m *MockClient) failure() error {
	if m.ShouldFailAuth {
		return &relaierrors.HTTPError{StatusCode: 401, Endpoint: EndpointStatuses, Err: relaierrors.ErrInvalidToken}
	}
	if m.ShouldFailTransport {
		return fmt.Errorf("connection refused: %w", relaierrors.ErrTransport)
	}
	return m.Error
}

// generateTestStatuses creates sample statuses for testing
func generateTestStatuses() []status.Status {
	raw := []struct{ id, createdAt string }{
		{"110000000000000003", "2024-01-03T09:00:00.000Z"},
		{"110000000000000002", "2024-01-02T09:00:00.000Z"},
		{"110000000000000001", "2024-01-01T09:00:00.000Z"},
	}

	out := make([]status.Status, 0, len(raw))
	for _, r := range raw {
		out = append(out, status.Status{
			ID:        r.id,
			CreatedAt: r.createdAt,
			Raw:       []byte(fmt.Sprintf(`{"id":%q,"created_at":%q}`, r.id, r.createdAt)),
		})
	}
	return out
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithStatuses sets specific statuses to return
func WithStatuses(statuses []status.Status) MockClientOption {
	return func(m *MockClient) {
		m.Statuses = statuses
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
