package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/helmside/boatclub/core/notify"
)

// MockNotifier records notification batches in memory, for tests.
type MockNotifier struct {
	mu      sync.Mutex
	Batches [][]notify.Message
	Fail    bool
	Closed  bool
}

// NewMockNotifier creates an empty MockNotifier.
func NewMockNotifier() *MockNotifier { return &MockNotifier{} }

// Notify records the batch or fails when configured to.
func (m *MockNotifier) Notify(ctx context.Context, msgs []notify.Message) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("notify failed")
	}
	batch := make([]notify.Message, len(msgs))
	copy(batch, msgs)
	m.Batches = append(m.Batches, batch)
	return nil
}

// Messages returns all recorded messages in dispatch order.
func (m *MockNotifier) Messages() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []notify.Message
	for _, b := range m.Batches {
		all = append(all, b...)
	}
	return all
}

// Close marks the notifier closed.
func (m *MockNotifier) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return nil
}
