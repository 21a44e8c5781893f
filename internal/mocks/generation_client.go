package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/newsdesk/internal/generation"
)

// MockGenerationClient implements generation.Client for testing.
type MockGenerationClient struct {
	HealthFn       func(ctx context.Context) (*generation.Health, error)
	ListProfilesFn func(ctx context.Context) ([]generation.Profile, error)
	ChatFn         func(ctx context.Context, req generation.ChatRequest) (string, error)

	// Default chat response when ChatFn is nil
	Response string
	Err      error

	mu       sync.Mutex
	requests []generation.ChatRequest
}

var _ generation.Client = (*MockGenerationClient)(nil)

// NewMockGenerationClient creates a client that answers every chat with response.
func NewMockGenerationClient(response string) *MockGenerationClient {
	return &MockGenerationClient{Response: response}
}

// Health implements generation.Client.
func (m *MockGenerationClient) Health(ctx context.Context) (*generation.Health, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return &generation.Health{Ready: true}, nil
}

// ListProfiles implements generation.Client.
func (m *MockGenerationClient) ListProfiles(ctx context.Context) ([]generation.Profile, error) {
	if m.ListProfilesFn != nil {
		return m.ListProfilesFn(ctx)
	}
	return []generation.Profile{}, nil
}

// Chat implements generation.Client and records the request.
func (m *MockGenerationClient) Chat(ctx context.Context, req generation.ChatRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ChatFn != nil {
		return m.ChatFn(ctx, req)
	}
	return m.Response, m.Err
}

// ChatCalls returns the number of Chat calls made so far.
func (m *MockGenerationClient) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// ChatRequests returns a copy of every recorded chat request.
func (m *MockGenerationClient) ChatRequests() []generation.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.ChatRequest(nil), m.requests...)
}
