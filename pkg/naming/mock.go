package naming

import (
	"context"
	"sync"
)

// MockClient is a naming client for tests
type MockClient struct {
	mu    sync.Mutex
	teams []Team
	err   error
	calls []int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithTeams sets the teams to return, truncated to the requested count
func WithTeams(teams []Team) MockOption {
	return func(m *MockClient) {
		m.teams = teams
	}
}

// WithError sets an error to return from RequestNames
func WithError(err error) MockOption {
	return func(m *MockClient) {
		m.err = err
	}
}

// NewMockClient creates a mock with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockClient) RequestNames(ctx context.Context, count int) ([]Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, count)
	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.teams) > count {
		return append([]Team(nil), m.teams[:count]...), nil
	}
	return append([]Team(nil), m.teams...), nil
}

// Calls returns the counts passed to RequestNames
func (m *MockClient) Calls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.calls...)
}
