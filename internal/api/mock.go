package api

import (
	"context"
	"errors"
	"sync"
)

// MockResponse is a canned response for the MockTransport.
type MockResponse struct {
	StatusCode int // 0 means 200
	Body       string
	Err        error
}

// MockTransport is a deterministic Transport for testing.
// It returns canned responses in FIFO order and records all requests.
type MockTransport struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockTransport creates a MockTransport with the given canned responses.
func NewMockTransport(responses ...MockResponse) *MockTransport {
	return &MockTransport{responses: responses}
}

// Do returns the next canned response or a NetworkError if the queue is
// empty.
func (m *MockTransport) Do(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &NetworkError{Err: errors.New("mock: no response queued")}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	code := resp.StatusCode
	if code == 0 {
		code = 200
	}
	if code < 200 || code > 299 {
		return nil, &ProtocolError{StatusCode: code, Message: serverMessage([]byte(resp.Body))}
	}

	return &Response{StatusCode: code, Body: []byte(resp.Body)}, nil
}

// AddResponse appends a canned response to the queue.
func (m *MockTransport) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Do calls made.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or the zero Request.
func (m *MockTransport) LastCall() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}
	}
	return m.Calls[len(m.Calls)-1]
}
