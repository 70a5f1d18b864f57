package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/command"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/metrics"
	"github.com/mauv0809/ladder-manager/internal/notifier"
	"github.com/mauv0809/ladder-manager/internal/pubsub"
	"github.com/slack-go/slack"
)

// archiveSyncTimeout bounds the archive sync run before a leaderboard so the
// reply stays inside Slack's three second window.
const archiveSyncTimeout = 2 * time.Second

// Dispatcher runs parsed commands against the ladder and formats the reply.
type Dispatcher struct {
	Ladder   *ladder.Service
	Notifier notifier.Notifier
	Metrics  metrics.Metrics
	PubSub   pubsub.PubSubClient

	// SyncTimeout overrides archiveSyncTimeout when set.
	SyncTimeout time.Duration
}

// LadderCommandHandler serves the /ladder slash command.
func LadderCommandHandler(d *Dispatcher, usage metrics.UsageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		if cmd.UserID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}
		log.Info("Received ladder command", "user", cmd.UserID, "text", cmd.Text)

		var msg any
		intent, err := command.Parse(cmd.Text)
		if err != nil {
			msg, err = d.Notifier.FormatErrorResponse(err)
		} else {
			start := time.Now()
			usage.Increment(string(intent.Kind))
			msg, err = d.Dispatch(r.Context(), cmd.UserID, intent, IsDryRunFromContext(r))
			d.Metrics.ObserveCommandDuration(string(intent.Kind), time.Since(start).Seconds())
		}
		if err != nil {
			log.Error("Failed to handle ladder command", "error", err, "text", cmd.Text)
			http.Error(w, "Failed to handle command", http.StatusInternalServerError)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

// Dispatch executes intent for userID. Ladder rejections are rendered as
// friendly responses; only formatting failures are returned as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, intent command.Intent, dryRun bool) (any, error) {
	msg, err := d.dispatch(ctx, userID, intent, dryRun)
	if err != nil {
		log.Info("Ladder command rejected", "user", userID, "command", intent.Kind, "reason", err)
		return d.Notifier.FormatErrorResponse(err)
	}
	return msg, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, userID string, intent command.Intent, dryRun bool) (any, error) {
	svc := d.Ladder
	switch intent.Kind {
	case command.KindHelp:
		return d.Notifier.FormatHelpResponse()
	case command.KindRules:
		return d.Notifier.FormatRulesResponse(svc.Config())
	case command.KindLeaderboard:
		return d.leaderboard(ctx, svc.Config().LeaderboardSize)
	case command.KindFullLeaderboard:
		return d.leaderboard(ctx, 0)
	case command.KindStats:
		target := targetOrSelf(intent, userID)
		return d.Notifier.FormatStatsResponse(target, svc.Stats(target))
	case command.KindRecord:
		target := targetOrSelf(intent, userID)
		return d.Notifier.FormatRecordResponse(target, svc.Record(target))
	case command.KindOngoing:
		return d.Notifier.FormatOngoingResponse(svc.Ongoing())
	case command.KindTeamStatus:
		team, ok := svc.TeamStatus(userID)
		return d.Notifier.FormatTeamStatusResponse(userID, team, ok)

	case command.KindChallenge:
		if len(intent.Targets) == 0 {
			return nil, command.ErrMissingTarget
		}
		res, err := svc.Challenge(ctx, userID, intent.Targets[0])
		if err != nil {
			return nil, err
		}
		d.Metrics.IncChallengesCreated()
		return d.Notifier.FormatChallengeCreatedResponse(res)
	case command.KindAccept:
		res, err := svc.AcceptChallenge(ctx, userID)
		if err != nil {
			return nil, err
		}
		return d.Notifier.FormatChallengeAcceptedResponse(res)
	case command.KindDecline:
		res, err := svc.DeclineChallenge(ctx, userID)
		if err != nil {
			return nil, err
		}
		d.Metrics.IncChallengesClosed(string(res.Reason))
		return d.Notifier.FormatChallengeClosedResponse(res)
	case command.KindCancel:
		res, err := svc.CancelChallenge(ctx, userID)
		if err != nil {
			return nil, err
		}
		d.Metrics.IncChallengesClosed(string(res.Reason))
		return d.Notifier.FormatChallengeClosedResponse(res)
	case command.KindReport:
		return d.report(ctx, userID, intent, dryRun)

	case command.KindCreateTeam:
		res, err := svc.CreateTeam(ctx, userID, intent.Targets)
		if err != nil {
			return nil, err
		}
		return d.Notifier.FormatTeamCreatedResponse(res)
	case command.KindInvite:
		res, err := svc.InviteToTeam(ctx, userID, intent.Targets)
		if err != nil {
			return nil, err
		}
		return d.Notifier.FormatTeamInviteResponse(res)
	case command.KindAcceptTeam:
		res, err := svc.AcceptTeam(ctx, userID)
		if err != nil {
			return nil, err
		}
		return d.Notifier.FormatTeamAcceptedResponse(res)
	case command.KindLeaveTeam:
		res, err := svc.LeaveTeam(ctx, userID)
		if err != nil {
			return nil, err
		}
		return d.Notifier.FormatTeamLeftResponse(res)
	}
	return nil, command.ErrUnknownCommand
}

func (d *Dispatcher) report(ctx context.Context, userID string, intent command.Intent, dryRun bool) (any, error) {
	res, err := d.Ladder.Report(ctx, userID, intent.Sets)
	if err != nil && !ladder.IsWarning(err) {
		return nil, err
	}
	if err != nil {
		d.Metrics.IncPersistenceFailures()
		log.Warn("Match recorded but not saved", "challengeID", res.ChallengeID, "error", err)
	}
	d.Metrics.IncMatchesResolved()

	if pubErr := d.PubSub.SendMessage(pubsub.EventMatchResolved, res); pubErr != nil {
		if !errors.Is(pubErr, pubsub.ErrDisabled) {
			log.Warn("Failed to publish match result, posting directly", "error", pubErr)
		}
		if sendErr := d.Notifier.SendMatchResult(ctx, res, dryRun); sendErr != nil {
			log.Error("Failed to post match result", "challengeID", res.ChallengeID, "error", sendErr)
		}
	}
	return d.Notifier.FormatMatchResolvedResponse(res)
}

// leaderboard syncs the archive and renders every partition in use. limit <= 0
// shows everyone.
func (d *Dispatcher) leaderboard(ctx context.Context, limit int) (any, error) {
	timeout := archiveSyncTimeout
	if d.SyncTimeout > 0 {
		timeout = d.SyncTimeout
	}
	syncCtx, cancel := context.WithTimeout(ctx, timeout)
	if _, err := d.Ladder.SyncArchive(syncCtx); err != nil {
		log.Warn("Archive sync before leaderboard failed", "error", err)
	}
	cancel()
	var boards []notifier.Leaderboard
	for _, p := range d.Ladder.Partitions() {
		all := d.Ladder.Leaderboard(p, 0)
		shown := all
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		boards = append(boards, notifier.Leaderboard{Partition: p, Standings: shown, Total: len(all)})
	}
	return d.Notifier.FormatLeaderboardResponse(boards)
}

func targetOrSelf(intent command.Intent, userID string) string {
	if len(intent.Targets) > 0 {
		return intent.Targets[0]
	}
	return userID
}
