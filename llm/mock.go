package llm

import (
	"context"
	"sync"
)

// MockClient is a scriptable Client for tests. Responses are consumed in
// FIFO order; when the queue is empty the last response repeats. Safe for
// concurrent use.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  []CompletionRequest
}

// NewMockClient creates a mock that replies with the given responses in order.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{responses: responses}
}

// Fail makes every subsequent Complete call return err.
func (m *MockClient) Fail(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.err != nil {
		return nil, m.err
	}

	var content string
	switch len(m.responses) {
	case 0:
		content = ""
	case 1:
		content = m.responses[0]
	default:
		content = m.responses[0]
		m.responses = m.responses[1:]
	}

	return &CompletionResult{Content: content}, nil
}

// Calls returns the number of Complete invocations so far.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
