package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/vmihailenco/msgpack/v5"
)

// store keeps the latest session snapshot in a single row.
type store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// New creates a SessionStore backed by the session_snapshots table.
func New(db *sql.DB) ladder.SessionStore {
	return &store{db: db, now: time.Now}
}

// Load returns an empty state when nothing was saved yet.
func (s *store) Load(ctx context.Context) (ladder.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM session_snapshots WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ladder.SessionState{}, nil
	}
	if err != nil {
		return ladder.SessionState{}, fmt.Errorf("failed to read session snapshot: %w", err)
	}

	var state ladder.SessionState
	if err := msgpack.Unmarshal(payload, &state); err != nil {
		return ladder.SessionState{}, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	return state, nil
}

func (s *store) Save(ctx context.Context, state ladder.SessionState) error {
	payload, err := msgpack.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_snapshots (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, payload, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write session snapshot: %w", err)
	}
	log.Debug("Saved session snapshot", "teams", len(state.Teams), "challenges", len(state.Challenges), "bytes", len(payload))
	return nil
}
