package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord(2000)
	assert.Equal(t, 2000, r.Rating)
	assert.Zero(t, r.Wins)
	assert.Zero(t, r.Losses)
	assert.Empty(t, r.Opponents)
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := NewRecord(2000)
	r.AddHeadToHead("p2", 1, 0)

	c := r.Clone()
	c.AddHeadToHead("p2", 2, 3)
	c.AddResult(10, 1, 1)

	assert.Equal(t, HeadToHead{Wins: 1}, r.Opponents["p2"])
	assert.Equal(t, HeadToHead{Wins: 3, Losses: 3}, c.Opponents["p2"])
	assert.Equal(t, 2000, r.Rating)
	assert.Equal(t, 2010, c.Rating)
}

func TestTable_ArchiveAndRestore(t *testing.T) {
	tbl := newTable()
	rec := NewRecord(2100)
	rec.AddResult(0, 3, 1)
	rec.AddHeadToHead("p2", 3, 1)
	tbl.Put("p1", rec)

	require.True(t, tbl.Archive("p1"))
	_, ok := tbl.Get("p1")
	assert.False(t, ok, "archived record should not be active")
	archived, ok := tbl.GetArchived("p1")
	require.True(t, ok)
	assert.Equal(t, rec, archived)

	assert.False(t, tbl.Archive("p1"), "archiving twice should be a no-op")

	require.True(t, tbl.Restore("p1"))
	restored, ok := tbl.Get("p1")
	require.True(t, ok)
	assert.Equal(t, rec, restored, "restored record should be unchanged")
	assert.Empty(t, tbl.ArchivedIDs())
}

func TestTable_PutDiscardsArchivedCopy(t *testing.T) {
	tbl := newTable()
	tbl.Put("p1", NewRecord(2000))
	tbl.Archive("p1")

	tbl.Put("p1", NewRecord(1900))
	assert.Empty(t, tbl.ArchivedIDs())
	r, ok := tbl.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 1900, r.Rating)
}

func TestTable_StandingsAndPlace(t *testing.T) {
	tbl := newTable()
	tbl.Put("c", NewRecord(1900))
	tbl.Put("a", NewRecord(2100))
	tbl.Put("b", NewRecord(2100))
	tbl.Put("d", NewRecord(2000))
	tbl.Put("gone", NewRecord(3000))
	tbl.Archive("gone")

	standings := tbl.Standings()
	require.Len(t, standings, 4)
	ids := []string{standings[0].PlayerID, standings[1].PlayerID, standings[2].PlayerID, standings[3].PlayerID}
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids)

	place, ok := tbl.Place("b")
	require.True(t, ok)
	assert.Equal(t, 1, place, "tied players share the higher place")
	place, ok = tbl.Place("c")
	require.True(t, ok)
	assert.Equal(t, 4, place)
	_, ok = tbl.Place("gone")
	assert.False(t, ok)
}

func TestTable_GetReturnsCopy(t *testing.T) {
	tbl := newTable()
	tbl.Put("p1", NewRecord(2000))

	r, _ := tbl.Get("p1")
	r.AddResult(50, 1, 0)
	r.AddHeadToHead("p2", 1, 0)

	stored, _ := tbl.Get("p1")
	assert.Equal(t, 2000, stored.Rating)
	assert.Empty(t, stored.Opponents)
}
