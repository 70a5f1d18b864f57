package ladder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/directory"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArchiveService(t *testing.T) (*ladder.Service, *ratings.Store, *directory.Mock, *ratings.MockPersister) {
	t.Helper()
	dir := directory.NewMock(map[string]string{"A": "alice", "B": "bob"})
	persister := ratings.NewMockPersister()
	store := ratings.NewStore(persister)
	svc, err := ladder.NewService(config.DefaultLadder, store, dir, nil)
	require.NoError(t, err)

	playAccepted(t, svc, "A", "B")
	_, err = svc.Report(context.Background(), "A", win1)
	require.NoError(t, err)
	return svc, store, dir, persister
}

func TestSyncArchive_ArchivesAndRestores(t *testing.T) {
	svc, store, dir, persister := newArchiveService(t)
	ctx := context.Background()
	table := store.Table(ratings.General)

	dir.Forget("A")
	res, err := svc.SyncArchive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.Archived[ratings.General])
	assert.Empty(t, res.Restored[ratings.General])
	assert.Len(t, persister.SaveCalls, 2)

	board := svc.Leaderboard(ratings.General, 0)
	require.Len(t, board, 1)
	assert.Equal(t, "B", board[0].PlayerID)
	archived, ok := table.GetArchived("A")
	require.True(t, ok)
	assert.Equal(t, 2026, archived.Rating)

	dir.Learn("A", "alice")
	res, err = svc.SyncArchive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.Restored[ratings.General])
	assert.Len(t, svc.Leaderboard(ratings.General, 0), 2)

	res, err = svc.SyncArchive(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Archived)
	assert.Empty(t, res.Restored)
	assert.Len(t, persister.SaveCalls, 3, "no-op sync does not persist")
}

func TestSyncArchive_LookupFailureLeavesPlayer(t *testing.T) {
	svc, store, dir, _ := newArchiveService(t)
	dir.ResolveFunc = func(ctx context.Context, userID string) (string, bool, error) {
		if userID == "A" {
			return "", false, errors.New("slack unavailable")
		}
		return "", false, nil
	}

	res, err := svc.SyncArchive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.Failed)
	assert.Equal(t, []string{"B"}, res.Archived[ratings.General])

	_, ok := store.Table(ratings.General).Get("A")
	assert.True(t, ok)
}

func TestReport_RestoresArchivedRecord(t *testing.T) {
	svc, store, dir, _ := newArchiveService(t)
	ctx := context.Background()

	dir.Forget("A")
	_, err := svc.SyncArchive(ctx)
	require.NoError(t, err)

	playAccepted(t, svc, "A", "B")
	res, err := svc.Report(ctx, "A", win1)
	require.NoError(t, err)
	assert.Equal(t, 2026, res.Team1Rating)
	assert.Equal(t, 24, res.Team1Delta)

	table := store.Table(ratings.General)
	a, ok := table.Get("A")
	require.True(t, ok)
	assert.Equal(t, 2050, a.Rating)
	assert.Equal(t, 2, a.Wins)
	_, archived := table.GetArchived("A")
	assert.False(t, archived)
}

func TestSyncArchive_WithoutDirectory(t *testing.T) {
	svc, _ := newService(t, config.DefaultLadder)
	res, err := svc.SyncArchive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Archived)
}

func TestSyncArchive_UsesRosterListing(t *testing.T) {
	roster := directory.NewRosterMock(map[string]string{"A": "alice", "B": "bob"})
	store := ratings.NewStore(ratings.NewMockPersister())
	svc, err := ladder.NewService(config.DefaultLadder, store, roster, nil)
	require.NoError(t, err)
	ctx := context.Background()

	playAccepted(t, svc, "A", "B")
	_, err = svc.Report(ctx, "A", win1)
	require.NoError(t, err)

	roster.Forget("B")
	res, err := svc.SyncArchive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, res.Archived[ratings.General])
	assert.Equal(t, 1, roster.ListCalls)
	assert.Empty(t, roster.ResolveCalls, "no per-player lookups")

	roster.ListFunc = func(ctx context.Context) (map[string]bool, error) {
		return nil, errors.New("ratelimited")
	}
	roster.Learn("B", "bob")
	res, err = svc.SyncArchive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, res.Failed)
	assert.Empty(t, res.Restored)
	_, archived := store.Table(ratings.General).GetArchived("B")
	assert.True(t, archived, "failed listing leaves records untouched")
}
