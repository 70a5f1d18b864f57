package ratings

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// repository persists rating snapshots in SQL.
type repository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRepository creates a Persister backed by the rating_records and
// head_to_head tables.
func NewRepository(db *sql.DB) Persister {
	return &repository{
		db: db,
	}
}

// Load reads every partition.
func (r *repository) Load(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(Snapshot, len(Partitions))
	for _, p := range Partitions {
		snap[p] = TableSnapshot{
			Active:   make(map[string]Record),
			Archived: make(map[string]Record),
		}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT partition, player_id, rating, wins, losses, archived
		FROM rating_records
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var partition, playerID string
		var archived bool
		rec := NewRecord(0)
		if err := rows.Scan(&partition, &playerID, &rec.Rating, &rec.Wins, &rec.Losses, &archived); err != nil {
			return nil, fmt.Errorf("failed to scan rating record: %w", err)
		}
		ts, ok := snap[Partition(partition)]
		if !ok {
			log.Warn("Skipping rating record with unknown partition", "partition", partition, "playerID", playerID)
			continue
		}
		if archived {
			ts.Archived[playerID] = rec
		} else {
			ts.Active[playerID] = rec
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rating records: %w", err)
	}

	h2hRows, err := r.db.QueryContext(ctx, `
		SELECT partition, player_id, opponent_id, wins, losses
		FROM head_to_head
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query head to head records: %w", err)
	}
	defer h2hRows.Close()

	for h2hRows.Next() {
		var partition, playerID, opponentID string
		var h HeadToHead
		if err := h2hRows.Scan(&partition, &playerID, &opponentID, &h.Wins, &h.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan head to head record: %w", err)
		}
		ts, ok := snap[Partition(partition)]
		if !ok {
			continue
		}
		target := ts.Active
		if _, found := target[playerID]; !found {
			target = ts.Archived
		}
		rec, found := target[playerID]
		if !found {
			log.Warn("Skipping head to head row without a rating record", "partition", partition, "playerID", playerID)
			continue
		}
		rec.Opponents[opponentID] = h
		target[playerID] = rec
	}
	if err := h2hRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate head to head records: %w", err)
	}

	return snap, nil
}

// Save replaces the stored state with snap inside a single transaction.
func (r *repository) Save(ctx context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM head_to_head"); err != nil {
		return fmt.Errorf("failed to clear head to head records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM rating_records"); err != nil {
		return fmt.Errorf("failed to clear rating records: %w", err)
	}

	recordStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rating_records (partition, player_id, rating, wins, losses, archived)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare rating record statement: %w", err)
	}
	defer recordStmt.Close()

	h2hStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO head_to_head (partition, player_id, opponent_id, wins, losses)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare head to head statement: %w", err)
	}
	defer h2hStmt.Close()

	write := func(p Partition, records map[string]Record, archived bool) error {
		for playerID, rec := range records {
			if _, err := recordStmt.ExecContext(ctx, string(p), playerID, rec.Rating, rec.Wins, rec.Losses, archived); err != nil {
				return fmt.Errorf("failed to insert rating record for %s: %w", playerID, err)
			}
			for opponentID, h := range rec.Opponents {
				if _, err := h2hStmt.ExecContext(ctx, string(p), playerID, opponentID, h.Wins, h.Losses); err != nil {
					return fmt.Errorf("failed to insert head to head record for %s: %w", playerID, err)
				}
			}
		}
		return nil
	}

	for p, ts := range snap {
		if err := write(p, ts.Active, false); err != nil {
			return err
		}
		if err := write(p, ts.Archived, true); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating records: %w", err)
	}
	return nil
}
