package ratings

import "sort"

func newTable() *Table {
	return &Table{
		active:   make(map[string]Record),
		archived: make(map[string]Record),
	}
}

// Get returns a copy of the active record for a player.
func (t *Table) Get(playerID string) (Record, bool) {
	r, ok := t.active[playerID]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

// GetArchived returns a copy of the archived record for a player.
func (t *Table) GetArchived(playerID string) (Record, bool) {
	r, ok := t.archived[playerID]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

// Put stores a record as active. Any archived copy is discarded.
func (t *Table) Put(playerID string, r Record) {
	delete(t.archived, playerID)
	t.active[playerID] = r.Clone()
}

// Archive moves an active record to the archive unchanged.
func (t *Table) Archive(playerID string) bool {
	r, ok := t.active[playerID]
	if !ok {
		return false
	}
	delete(t.active, playerID)
	t.archived[playerID] = r
	return true
}

// Restore moves an archived record back to the active map unchanged.
func (t *Table) Restore(playerID string) bool {
	r, ok := t.archived[playerID]
	if !ok {
		return false
	}
	delete(t.archived, playerID)
	t.active[playerID] = r
	return true
}

// ActiveIDs returns the ids of all active records in sorted order.
func (t *Table) ActiveIDs() []string {
	return sortedKeys(t.active)
}

// ArchivedIDs returns the ids of all archived records in sorted order.
func (t *Table) ArchivedIDs() []string {
	return sortedKeys(t.archived)
}

// Len is the number of active records.
func (t *Table) Len() int {
	return len(t.active)
}

// Standings returns active records ordered by rating, highest first. Ties
// are broken by player id so the order is stable.
func (t *Table) Standings() []Standing {
	standings := make([]Standing, 0, len(t.active))
	for id, r := range t.active {
		standings = append(standings, Standing{PlayerID: id, Record: r.Clone()})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Rating != standings[j].Rating {
			return standings[i].Rating > standings[j].Rating
		}
		return standings[i].PlayerID < standings[j].PlayerID
	})
	return standings
}

// Place is the 1-based leaderboard position of a player: one more than the
// number of active players rated strictly higher.
func (t *Table) Place(playerID string) (int, bool) {
	r, ok := t.active[playerID]
	if !ok {
		return 0, false
	}
	place := 1
	for _, other := range t.active {
		if other.Rating > r.Rating {
			place++
		}
	}
	return place, true
}

func (t *Table) snapshot() TableSnapshot {
	snap := TableSnapshot{
		Active:   make(map[string]Record, len(t.active)),
		Archived: make(map[string]Record, len(t.archived)),
	}
	for id, r := range t.active {
		snap.Active[id] = r.Clone()
	}
	for id, r := range t.archived {
		snap.Archived[id] = r.Clone()
	}
	return snap
}

func tableFromSnapshot(snap TableSnapshot) *Table {
	t := newTable()
	for id, r := range snap.Active {
		t.active[id] = r.Clone()
	}
	for id, r := range snap.Archived {
		t.archived[id] = r.Clone()
	}
	return t
}

func sortedKeys(m map[string]Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
