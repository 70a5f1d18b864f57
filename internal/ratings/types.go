package ratings

import (
	"context"
	"sync"
)

// Partition names an independent rating table.
type Partition string

const (
	General Partition = "general"
	OneVOne Partition = "1v1"
)

// Partitions lists every partition the store keeps, in display order.
var Partitions = []Partition{General, OneVOne}

// HeadToHead is a player's tally against one opponent.
type HeadToHead struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Record is a player's rating state within one partition.
type Record struct {
	Rating    int                   `json:"rating"`
	Wins      int                   `json:"wins"`
	Losses    int                   `json:"losses"`
	Opponents map[string]HeadToHead `json:"opponents"`
}

// Standing is an active record paired with its player id, used for leaderboards.
type Standing struct {
	PlayerID string `json:"player_id"`
	Record
}

// TableSnapshot is a deep copy of one partition.
type TableSnapshot struct {
	Active   map[string]Record
	Archived map[string]Record
}

// Snapshot is a deep copy of every partition, as written by a Persister.
type Snapshot map[Partition]TableSnapshot

// Persister durably stores and reloads snapshots. Save must be atomic: a
// concurrent Load never observes a partially written snapshot.
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Table holds the active and archived records of one partition.
type Table struct {
	active   map[string]Record
	archived map[string]Record
}

// Store owns all rating tables.
type Store struct {
	mu        sync.RWMutex
	tables    map[Partition]*Table
	persister Persister
}
