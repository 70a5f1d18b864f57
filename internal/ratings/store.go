package ratings

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// NewStore creates an empty Store. A nil persister keeps everything in memory.
func NewStore(persister Persister) *Store {
	s := &Store{
		tables:    make(map[Partition]*Table, len(Partitions)),
		persister: persister,
	}
	for _, p := range Partitions {
		s.tables[p] = newTable()
	}
	return s
}

// Load replaces the in-memory tables with the persisted snapshot.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	snap, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rating records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range Partitions {
		if ts, ok := snap[p]; ok {
			s.tables[p] = tableFromSnapshot(ts)
		} else {
			s.tables[p] = newTable()
		}
		log.Info("Loaded rating partition", "partition", p, "active", len(s.tables[p].active), "archived", len(s.tables[p].archived))
	}
	return nil
}

// Table returns the table for a partition. The returned table is not safe for
// concurrent use; the ladder service serializes access to it.
func (s *Store) Table(p Partition) *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[p]
	if !ok {
		return s.tables[General]
	}
	return t
}

// Snapshot returns a deep copy of every partition.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(Snapshot, len(s.tables))
	for p, t := range s.tables {
		snap[p] = t.snapshot()
	}
	return snap
}

// Persist writes the current state through the persister.
func (s *Store) Persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, s.Snapshot()); err != nil {
		log.Error("Failed to persist rating records", "error", err)
		return fmt.Errorf("failed to persist rating records: %w", err)
	}
	log.Debug("Persisted rating records")
	return nil
}
