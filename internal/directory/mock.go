package directory

import (
	"context"
	"sync"
)

// Mock is a mock implementation of Directory for testing. Without a
// ResolveFunc it knows exactly the ids in Names.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	Names       map[string]string
	ResolveFunc func(ctx context.Context, userID string) (string, bool, error)

	ResolveCalls []string
}

func NewMock(names map[string]string) *Mock {
	if names == nil {
		names = make(map[string]string)
	}
	return &Mock{Names: names}
}

func (m *Mock) Resolve(ctx context.Context, userID string) (string, bool, error) {
	m.mu.Lock()
	m.ResolveCalls = append(m.ResolveCalls, userID)
	fn := m.ResolveFunc
	name, ok := m.Names[userID]
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, userID)
	}
	return name, ok, nil
}

// Forget removes an id so later lookups report it unknown.
func (m *Mock) Forget(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Names, userID)
}

// Learn adds an id.
func (m *Mock) Learn(userID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Names[userID] = name
}

// RosterMock is a Mock that can also list every known id at once.
type RosterMock struct {
	*Mock

	ListFunc  func(ctx context.Context) (map[string]bool, error)
	ListCalls int
}

func NewRosterMock(names map[string]string) *RosterMock {
	return &RosterMock{Mock: NewMock(names)}
}

func (m *RosterMock) ActiveUserIDs(ctx context.Context) (map[string]bool, error) {
	m.mu.Lock()
	m.ListCalls++
	fn := m.ListFunc
	active := make(map[string]bool, len(m.Names))
	for id := range m.Names {
		active[id] = true
	}
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return active, nil
}
