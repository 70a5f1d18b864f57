package ratings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/ladder-manager/internal/database"
	"github.com/mauv0809/ladder-manager/internal/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a rating store backed by an in-memory SQLite database.
func setupTestDB(t *testing.T) (*ratings.Store, ratings.Persister, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	repo := ratings.NewRepository(db)
	return ratings.NewStore(repo), repo, teardown
}

func TestStore_PersistAndReload(t *testing.T) {
	store, repo, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	general := store.Table(ratings.General)
	p1 := ratings.NewRecord(2026)
	p1.AddResult(0, 1, 0)
	p1.AddHeadToHead("p2", 1, 0)
	general.Put("p1", p1)

	p2 := ratings.NewRecord(1974)
	p2.AddResult(0, 0, 1)
	p2.AddHeadToHead("p1", 0, 1)
	general.Put("p2", p2)
	general.Archive("p2")

	store.Table(ratings.OneVOne).Put("p3", ratings.NewRecord(2000))

	require.NoError(t, store.Persist(ctx))

	reloaded := ratings.NewStore(repo)
	require.NoError(t, reloaded.Load(ctx))

	got, ok := reloaded.Table(ratings.General).Get("p1")
	require.True(t, ok)
	assert.Equal(t, p1, got)

	_, ok = reloaded.Table(ratings.General).Get("p2")
	assert.False(t, ok, "archived record must stay archived")
	archived, ok := reloaded.Table(ratings.General).GetArchived("p2")
	require.True(t, ok)
	assert.Equal(t, p2, archived)

	assert.Equal(t, []string{"p3"}, reloaded.Table(ratings.OneVOne).ActiveIDs())
}

func TestStore_PersistReplacesPreviousState(t *testing.T) {
	store, repo, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	store.Table(ratings.General).Put("p1", ratings.NewRecord(2000))
	require.NoError(t, store.Persist(ctx))

	store.Table(ratings.General).Archive("p1")
	store.Table(ratings.General).Put("p2", ratings.NewRecord(2100))
	require.NoError(t, store.Persist(ctx))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap[ratings.General].Active, 1)
	assert.Contains(t, snap[ratings.General].Active, "p2")
	assert.Contains(t, snap[ratings.General].Archived, "p1")
}

func TestStore_PersistFailureKeepsMemory(t *testing.T) {
	mock := ratings.NewMockPersister()
	mock.SaveFunc = func(ctx context.Context, snap ratings.Snapshot) error {
		return errors.New("disk full")
	}
	store := ratings.NewStore(mock)
	store.Table(ratings.General).Put("p1", ratings.NewRecord(2000))

	err := store.Persist(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, ok := store.Table(ratings.General).Get("p1")
	assert.True(t, ok)
	require.Len(t, mock.SaveCalls, 1)
}

func TestStore_NilPersister(t *testing.T) {
	store := ratings.NewStore(nil)
	require.NoError(t, store.Load(context.Background()))
	require.NoError(t, store.Persist(context.Background()))
	assert.Zero(t, store.Table(ratings.General).Len())
}
