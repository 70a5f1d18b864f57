package ladder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_SessionRoundTrip(t *testing.T) {
	sessions := ladder.NewMockSessionStore()
	ctx := context.Background()

	svc, err := ladder.NewService(config.DefaultLadder, ratings.NewStore(nil), nil, sessions)
	require.NoError(t, err)
	formTeam(t, svc, "A1", "A2")
	_, err = svc.CreateTeam(ctx, "C1", []string{"C2"})
	require.NoError(t, err)
	playAccepted(t, svc, "A1", "B")

	last := sessions.SaveCalls[len(sessions.SaveCalls)-1]
	assert.Len(t, last.Teams, 2)
	require.Len(t, last.Challenges, 1)
	assert.True(t, last.Challenges[0].Accepted)

	restored, err := ladder.NewService(config.DefaultLadder, ratings.NewStore(nil), nil, sessions)
	require.NoError(t, err)
	require.NoError(t, restored.Restore(ctx))

	team, ok := restored.TeamStatus("A2")
	require.True(t, ok)
	assert.True(t, team.Ready)
	pending, ok := restored.TeamStatus("C2")
	require.True(t, ok)
	assert.False(t, pending.Ready)

	assert.Equal(t, ladder.StatusAccepted, restored.ChallengeStatus("B"))
	_, err = restored.Report(ctx, "B", win1)
	require.NoError(t, err)
	assert.Equal(t, ladder.StatusNone, restored.ChallengeStatus("A1"))
}

func TestService_SessionFailuresAreNotFatal(t *testing.T) {
	sessions := ladder.NewMockSessionStore()
	sessions.SaveFunc = func(ctx context.Context, state ladder.SessionState) error {
		return errors.New("locked")
	}
	sessions.LoadFunc = func(ctx context.Context) (ladder.SessionState, error) {
		return ladder.SessionState{}, errors.New("corrupt")
	}
	ctx := context.Background()

	svc, err := ladder.NewService(config.DefaultLadder, ratings.NewStore(nil), nil, sessions)
	require.NoError(t, err)
	require.NoError(t, svc.Restore(ctx))

	_, err = svc.Challenge(ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, ladder.StatusPending, svc.ChallengeStatus("A"))
}
