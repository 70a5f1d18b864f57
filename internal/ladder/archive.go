package ladder

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/ratings"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 8

// SyncArchive archives records of players the directory no longer knows and
// restores archived records of players it knows again. Lookups run without
// holding the service lock; a failed lookup leaves that player untouched.
func (s *Service) SyncArchive(ctx context.Context) (ArchiveSync, error) {
	result := ArchiveSync{
		Archived: make(map[ratings.Partition][]string),
		Restored: make(map[ratings.Partition][]string),
	}
	if s.directory == nil {
		return result, nil
	}

	s.mu.Lock()
	ids := s.recordedPlayerIDs()
	s.mu.Unlock()

	known, failed, err := s.resolveAll(ctx, ids)
	if err != nil {
		return result, err
	}
	result.Failed = failed

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, p := range s.Partitions() {
		table := s.store.Table(p)
		for _, id := range table.ActiveIDs() {
			if isKnown, ok := known[id]; ok && !isKnown && table.Archive(id) {
				result.Archived[p] = append(result.Archived[p], id)
				changed = true
			}
		}
		for _, id := range table.ArchivedIDs() {
			if known[id] && table.Restore(id) {
				result.Restored[p] = append(result.Restored[p], id)
				changed = true
			}
		}
	}
	if !changed {
		return result, nil
	}
	log.Info("Archive synced", "archived", result.Archived, "restored", result.Restored, "failed", len(result.Failed))
	if err := s.store.Persist(ctx); err != nil {
		return result, &PersistenceWarning{Err: err}
	}
	return result, nil
}

func (s *Service) recordedPlayerIDs() []string {
	seen := make(map[string]bool)
	for _, p := range s.Partitions() {
		table := s.store.Table(p)
		for _, id := range table.ActiveIDs() {
			seen[id] = true
		}
		for _, id := range table.ArchivedIDs() {
			seen[id] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// resolveAll looks ids up, in one listing when the directory is a Roster and
// concurrently otherwise. Ids whose lookup failed are returned in failed and
// are absent from known.
func (s *Service) resolveAll(ctx context.Context, ids []string) (map[string]bool, []string, error) {
	if roster, ok := s.directory.(Roster); ok {
		return s.resolveFromRoster(ctx, roster, ids)
	}
	var (
		mu     sync.Mutex
		known  = make(map[string]bool, len(ids))
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for _, id := range ids {
		g.Go(func() error {
			_, ok, err := s.directory.Resolve(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("Directory lookup failed", "player", id, "error", err)
				failed = append(failed, id)
				return nil
			}
			known[id] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	sort.Strings(failed)
	return known, failed, nil
}

func (s *Service) resolveFromRoster(ctx context.Context, roster Roster, ids []string) (map[string]bool, []string, error) {
	active, err := roster.ActiveUserIDs(ctx)
	if err != nil {
		log.Warn("Directory listing failed", "players", len(ids), "error", err)
		return map[string]bool{}, ids, nil
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = active[id]
	}
	return known, nil, nil
}
