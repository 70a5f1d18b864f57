package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/command"
	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/metrics"
	"github.com/mauv0809/ladder-manager/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(message.Text, false),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchResult posts a reported match to the ladder channel.
func (s *Notifier) SendMatchResult(ctx context.Context, result ladder.MatchResolved, dryRun bool) error {
	msg := s.formatMatchResolved(result)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

func (s *Notifier) FormatHelpResponse() (any, error) {
	return s.formatHelp(), nil
}

func (s *Notifier) FormatRulesResponse(cfg config.LadderConfig) (any, error) {
	return s.formatRules(cfg), nil
}

func (s *Notifier) FormatErrorResponse(err error) (any, error) {
	return s.formatError(err), nil
}

func (s *Notifier) FormatTeamCreatedResponse(result ladder.TeamCreated) (any, error) {
	text := fmt.Sprintf("%s created a team.", mention(result.LeaderID))
	return s.formatInvites(text, result.Team, result.Invited, result.Skipped), nil
}

func (s *Notifier) FormatTeamInviteResponse(result ladder.TeamInviteApplied) (any, error) {
	text := fmt.Sprintf("%s sent team invitations.", mention(result.InviterID))
	return s.formatInvites(text, result.Team, result.Invited, result.Skipped), nil
}

func (s *Notifier) FormatTeamAcceptedResponse(result ladder.TeamAccepted) (any, error) {
	text := fmt.Sprintf("%s joined the team.", mention(result.PlayerID))
	if result.Team.Ready {
		text += " The team is ready to play!"
	} else {
		text += fmt.Sprintf(" Still waiting on %s.", joinMentions(pending(result.Team)))
	}
	return inChannel(section(text), teamContext(result.Team)), nil
}

func (s *Notifier) FormatTeamLeftResponse(result ladder.TeamLeft) (any, error) {
	return inChannel(section(fmt.Sprintf("%s left the team.", mention(result.PlayerID)))), nil
}

func (s *Notifier) FormatTeamStatusResponse(playerID string, team ladder.TeamView, onTeam bool) (any, error) {
	if !onTeam {
		return ephemeral(section("You are not on a team. Start one with `/ladder create team @teammate`.")), nil
	}
	var lines []string
	for _, m := range team.Members {
		state := "✅"
		if !m.Accepted {
			state = "⏳ invited"
		}
		lines = append(lines, fmt.Sprintf("• %s %s", mention(m.PlayerID), state))
	}
	status := "Not ready, waiting on invitations."
	if team.Ready {
		status = "Ready to play."
	}
	return ephemeral(
		header("👥 Your team"),
		section(strings.Join(lines, "\n")),
		contextText(status),
	), nil
}

func (s *Notifier) FormatChallengeCreatedResponse(result ladder.ChallengeCreated) (any, error) {
	text := fmt.Sprintf("⚔️ %s challenged %s!", joinTeam(result.Challenger), joinTeam(result.Challenged))
	return inChannel(
		section(text),
		contextText("Challenged team: `/ladder accept` or `/ladder decline`. Challenger: `/ladder cancel`."),
	), nil
}

func (s *Notifier) FormatChallengeAcceptedResponse(result ladder.ChallengeAccepted) (any, error) {
	text := fmt.Sprintf("✅ %s accepted the challenge from %s.", joinTeam(result.Challenged), joinTeam(result.Challenger))
	return inChannel(
		section(text),
		contextText("Report the result with e.g. `/ladder report win 2, loss 1`."),
	), nil
}

func (s *Notifier) FormatChallengeClosedResponse(result ladder.ChallengeClosed) (any, error) {
	text := fmt.Sprintf("The challenge between %s and %s was %s by %s.",
		joinTeam(result.Challenger), joinTeam(result.Challenged), result.Reason, mention(result.ClosedBy))
	return inChannel(section(text)), nil
}

func (s *Notifier) FormatMatchResolvedResponse(result ladder.MatchResolved) (any, error) {
	return inChannel(s.formatMatchResolved(result).Blocks.BlockSet...), nil
}

func (s *Notifier) FormatLeaderboardResponse(boards []notifier.Leaderboard) (any, error) {
	return s.formatLeaderboard(boards), nil
}

func (s *Notifier) FormatStatsResponse(playerID string, stats []ladder.PlayerStats) (any, error) {
	if len(stats) == 0 {
		return ephemeral(section(fmt.Sprintf("%s has not played any ladder matches yet.", mention(playerID)))), nil
	}
	blocks := []slack.Block{header("📊 Stats"), section(mention(playerID))}
	for _, st := range stats {
		text := fmt.Sprintf("*%s*\nRating: %d\nRecord: %d wins, %d losses\nPlace: %d of %d",
			partitionTitle(st.Partition), st.Rating, st.Wins, st.Losses, st.Place, st.Of)
		blocks = append(blocks, section(text))
	}
	return ephemeral(blocks...), nil
}

func (s *Notifier) FormatRecordResponse(playerID string, records []ladder.PlayerRecord) (any, error) {
	if len(records) == 0 {
		return ephemeral(section(fmt.Sprintf("%s has not played any ladder matches yet.", mention(playerID)))), nil
	}
	blocks := []slack.Block{header("📒 Head-to-head"), section(mention(playerID))}
	for _, rec := range records {
		opponents := make([]string, 0, len(rec.Opponents))
		for id := range rec.Opponents {
			opponents = append(opponents, id)
		}
		sort.Strings(opponents)
		lines := []string{fmt.Sprintf("*%s*", partitionTitle(rec.Partition))}
		for _, id := range opponents {
			h := rec.Opponents[id]
			lines = append(lines, fmt.Sprintf("• vs %s: %d-%d", mention(id), h.Wins, h.Losses))
		}
		if len(opponents) == 0 {
			lines = append(lines, "No opponents yet.")
		}
		blocks = append(blocks, section(strings.Join(lines, "\n")))
	}
	return ephemeral(blocks...), nil
}

func (s *Notifier) FormatOngoingResponse(challenges []ladder.ChallengeView) (any, error) {
	if len(challenges) == 0 {
		return ephemeral(header("⚔️ Ongoing challenges"), section("No ongoing challenges.")), nil
	}
	var lines []string
	for _, c := range challenges {
		state := "pending"
		if c.Accepted {
			state = "accepted"
		}
		lines = append(lines, fmt.Sprintf("• %s vs %s (%s)", joinTeam(c.Challenger), joinTeam(c.Challenged), state))
	}
	return ephemeral(header("⚔️ Ongoing challenges"), section(strings.Join(lines, "\n"))), nil
}

func (s *Notifier) formatHelp() slack.Message {
	commands := []struct{ usage, description string }{
		{"/ladder leaderboard", "Top of the ladder"},
		{"/ladder full", "The whole ladder"},
		{"/ladder stats [@player]", "Rating, wins, losses and place"},
		{"/ladder record [@player]", "Head-to-head record"},
		{"/ladder ongoing", "Challenges in progress"},
		{"/ladder rules", "How ratings work"},
		{"/ladder challenge @player", "Challenge a player or their team"},
		{"/ladder accept", "Accept a challenge against your team"},
		{"/ladder decline", "Decline a challenge against your team"},
		{"/ladder cancel", "Cancel your challenge"},
		{"/ladder report win 2, loss 1", "Report the sets of an accepted challenge"},
		{"/ladder create team @player", "Start a team"},
		{"/ladder invite @player", "Invite a player to your team"},
		{"/ladder accept team", "Accept a team invitation"},
		{"/ladder leave", "Leave your team"},
		{"/ladder status", "Show your team"},
	}
	var lines []string
	for _, c := range commands {
		lines = append(lines, fmt.Sprintf("`%s` %s", c.usage, c.description))
	}
	return ephemeral(header("🏆 Ladder commands"), section(strings.Join(lines, "\n")))
}

func (s *Notifier) formatRules(cfg config.LadderConfig) slack.Message {
	lines := []string{
		fmt.Sprintf("• Everyone starts at %d.", cfg.StartingRating),
		fmt.Sprintf("• Every set moves about %d points between the two sides. Beating a higher rated side is worth more, up to %d extra points.", cfg.BaseRatingChange+1, cfg.BaseRatingChange),
		"• A team's rating is the average of its members, and every member gains or loses the same amount.",
		"• All members of a team must accept before it can play.",
	}
	if cfg.EnforceEqualSizeTeams {
		lines = append(lines, "• Teams must be the same size to play each other.")
	}
	if cfg.Separate1v1MMR {
		lines = append(lines, "• 1v1 matches use a separate rating.")
	}
	return ephemeral(header("📜 Ladder rules"), section(strings.Join(lines, "\n")))
}

func (s *Notifier) formatError(err error) slack.Message {
	return ephemeral(section("⚠️ " + friendlyError(err)))
}

func (s *Notifier) formatInvites(text string, team ladder.TeamView, invited, skipped []string) slack.Message {
	blocks := []slack.Block{section(text)}
	if len(invited) > 0 {
		blocks = append(blocks, section(fmt.Sprintf("Invited: %s. Accept with `/ladder accept team`.", joinMentions(invited))))
	}
	if len(skipped) > 0 {
		blocks = append(blocks, section(fmt.Sprintf("Already on a team: %s.", joinMentions(skipped))))
	}
	blocks = append(blocks, teamContext(team))
	return inChannel(blocks...)
}

// formatMatchResolved creates the Slack message for a reported match using Block Kit.
func (s *Notifier) formatMatchResolved(result ladder.MatchResolved) slack.Message {
	winners, losers := result.Team1, result.Team2
	winnerDelta, loserDelta := result.Team1Delta, result.Team2Delta
	winnerSets, loserSets := result.Team1Wins, result.Team2Wins
	if result.Team2Wins > result.Team1Wins {
		winners, losers = losers, winners
		winnerDelta, loserDelta = loserDelta, winnerDelta
		winnerSets, loserSets = loserSets, winnerSets
	}

	summary := fmt.Sprintf("%s beat %s %d-%d", joinTeam(winners), joinTeam(losers), winnerSets, loserSets)
	if winnerSets == loserSets {
		summary = fmt.Sprintf("%s and %s split the sets %d-%d", joinTeam(winners), joinTeam(losers), winnerSets, loserSets)
	}
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("%s\n%s", joinTeam(winners), signed(winnerDelta)), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("%s\n%s", joinTeam(losers), signed(loserDelta)), false, false),
	}

	msg := slack.NewBlockMessage(
		header("🎾 Match reported!"),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", summary, false, false), fields, nil),
		contextText(partitionTitle(result.Partition)+" rating"),
	)
	msg.Text = summary
	return msg
}

// formatLeaderboard creates a Slack message to display the ladder standings.
func (s *Notifier) formatLeaderboard(boards []notifier.Leaderboard) slack.Message {
	blocks := make([]slack.Block, 0)
	for _, board := range boards {
		blocks = append(blocks, header(fmt.Sprintf("🏆 %s Leaderboard", partitionTitle(board.Partition))))
		if len(board.Standings) == 0 {
			blocks = append(blocks, section("No ranked players yet. Go play some matches!"))
			continue
		}
		var lines []string
		for i, st := range board.Standings {
			lines = append(lines, fmt.Sprintf("%d. %s%s %d (%d-%d)", i+1, medal(i+1), mention(st.PlayerID), st.Rating, st.Wins, st.Losses))
		}
		blocks = append(blocks, section(strings.Join(lines, "\n")))
		if board.Total > len(board.Standings) {
			blocks = append(blocks, contextText(fmt.Sprintf("Showing %d of %d players. `/ladder full` for everyone.", len(board.Standings), board.Total)))
		}
	}
	return ephemeral(blocks...)
}

// friendlyError turns a domain error into a message for the acting player.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, ladder.ErrInvalidChallengeTarget):
		return "You can't challenge your own team."
	case errors.Is(err, ladder.ErrParticipantAlreadyEngaged):
		return "Someone on one of the teams is already in a challenge."
	case errors.Is(err, ladder.ErrTeamsNotReady):
		return "Both teams need every member to accept their invitation first."
	case errors.Is(err, ladder.ErrTeamSizeMismatch):
		return "Teams must be the same size to play each other."
	case errors.Is(err, ladder.ErrNoActiveChallenge):
		return "You are not in a challenge."
	case errors.Is(err, ladder.ErrNotChallengedParty):
		return "Only the challenged team can accept."
	case errors.Is(err, ladder.ErrAlreadyAccepted):
		return "This challenge has already been accepted."
	case errors.Is(err, ladder.ErrChallengeNotYetAccepted):
		return "The challenged team has to accept before a result can be reported."
	case errors.Is(err, ladder.ErrMalformedReport):
		return "I couldn't read that result. Try `/ladder report win 2, loss 1`."
	case errors.Is(err, ladder.ErrNoActiveInvitation):
		return "You are not on a team and have no pending invitation."
	case errors.Is(err, ladder.ErrAlreadyOnTeam):
		return "That player is already on a team."
	case errors.Is(err, command.ErrMissingTarget):
		return "Mention a player, e.g. `/ladder challenge @player`."
	case errors.Is(err, command.ErrUnknownCommand):
		return "Unknown command. Try `/ladder help`."
	case ladder.IsWarning(err):
		return "The result was recorded but could not be saved yet."
	default:
		return "Something went wrong. Please try again."
	}
}
