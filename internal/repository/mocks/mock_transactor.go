package mocks

import (
	"context"
	"sync"
)

// MockTransactor runs fn on the caller's context. Err, when set, is returned without running fn.
type MockTransactor struct {
	mu    sync.Mutex
	Err   error
	calls int
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// Calls reports how many transactions were opened.
func (m *MockTransactor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
