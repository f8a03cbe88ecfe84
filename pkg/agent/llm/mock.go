package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient provides a controllable Client implementation for testing.
type MockClient struct {
	mu            sync.Mutex
	responses     []Response
	responseIndex int
	errors        []error
	errorIndex    int
	queries       []string
	model         string
}

// NewMockClient creates a mock client with predefined responses and
// errors. Errors are consumed before responses.
func NewMockClient(responses []Response, errs []error) *MockClient {
	return &MockClient{
		responses: responses,
		errors:    errs,
		model:     "mock-model",
	}
}

// Query returns the next predefined error or response.
func (m *MockClient) Query(_ context.Context, prompt string) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, prompt)

	if m.errorIndex < len(m.errors) && m.errors[m.errorIndex] != nil {
		err := m.errors[m.errorIndex]
		m.errorIndex++
		return Response{}, err
	}

	if m.responseIndex >= len(m.responses) {
		return Response{}, fmt.Errorf("mock client: no more responses")
	}

	resp := m.responses[m.responseIndex]
	m.responseIndex++
	return resp, nil
}

// ModelName implements Client.
func (m *MockClient) ModelName() string {
	return m.model
}

// Queries returns the prompts seen so far.
func (m *MockClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
