package api

import (
	"context"
	"sync"

	"github.com/samarth-qa/samarth/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	ChatVal     *models.ChatResponse
	ChatErr     error
	ExamplesVal []string
	ExamplesErr error
	URL         string

	// ChatFunc, when set, replaces ChatVal/ChatErr
	ChatFunc func(ctx context.Context, query string) (*models.ChatResponse, error)

	// Call recorders
	mu          sync.Mutex
	Queries     []string
	CloseCalled bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Chat(ctx context.Context, query string) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	return m.ChatVal, m.ChatErr
}

func (m *MockClient) Examples(ctx context.Context) ([]string, error) {
	return m.ExamplesVal, m.ExamplesErr
}

func (m *MockClient) ServerURL() string {
	if m.URL == "" {
		return "http://mock"
	}
	return m.URL
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// CallCount returns how many chat requests were made
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
