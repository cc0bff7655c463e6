package mqtt

import (
	"context"
	"errors"
	"sync"

	"github.com/kilianp07/agvfleet/core/sizing"
)

// MockPublisher records published results in memory.
type MockPublisher struct {
	mu       sync.Mutex
	Messages []ResultMessage
	Fail     bool
	closed   bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishResult stores the message or fails when Fail is set.
func (m *MockPublisher) PublishResult(_ context.Context, runID string, res sizing.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("publish failed")
	}
	m.Messages = append(m.Messages, ResultMessage{RunID: runID, Result: res})
	return nil
}

// Published returns a copy of the recorded messages.
func (m *MockPublisher) Published() []ResultMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ResultMessage, len(m.Messages))
	copy(out, m.Messages)
	return out
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
