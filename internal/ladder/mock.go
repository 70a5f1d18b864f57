package ladder

import (
	"context"
	"sync"
)

// MockSessionStore is a mock implementation of SessionStore for testing.
// It is safe for concurrent use.
type MockSessionStore struct {
	mu sync.Mutex

	LoadFunc func(ctx context.Context) (SessionState, error)
	SaveFunc func(ctx context.Context, state SessionState) error

	SaveCalls []SessionState
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

func (m *MockSessionStore) Load(ctx context.Context) (SessionState, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SaveCalls) == 0 {
		return SessionState{}, nil
	}
	return m.SaveCalls[len(m.SaveCalls)-1], nil
}

func (m *MockSessionStore) Save(ctx context.Context, state SessionState) error {
	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, state)
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, state)
	}
	return nil
}
