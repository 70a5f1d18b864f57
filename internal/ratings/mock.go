package ratings

import (
	"context"
	"sync"
)

// MockPersister is a mock implementation of Persister for testing.
// It is safe for concurrent use.
type MockPersister struct {
	mu sync.Mutex

	LoadFunc func(ctx context.Context) (Snapshot, error)
	SaveFunc func(ctx context.Context, snap Snapshot) error

	SaveCalls []Snapshot
}

// NewMockPersister creates a new mock instance.
func NewMockPersister() *MockPersister {
	return &MockPersister{}
}

func (m *MockPersister) Load(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return Snapshot{}, nil
}

func (m *MockPersister) Save(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, snap)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, snap)
	}
	return nil
}
