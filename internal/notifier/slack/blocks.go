package slack

import (
	"fmt"
	"strings"

	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/ratings"
	"github.com/slack-go/slack"
)

func header(text string) slack.Block {
	return slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", text, true, false))
}

// section renders mrkdwn so that user mentions resolve.
func section(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil)
}

func contextText(text string) slack.Block {
	return slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", text, false, false))
}

func teamContext(team ladder.TeamView) slack.Block {
	ids := make([]string, 0, len(team.Members))
	for _, m := range team.Members {
		ids = append(ids, m.PlayerID)
	}
	state := "not ready"
	if team.Ready {
		state = "ready"
	}
	return contextText(fmt.Sprintf("Team: %s (%s)", joinMentions(ids), state))
}

func inChannel(blocks ...slack.Block) slack.Message {
	msg := slack.NewBlockMessage(blocks...)
	msg.ResponseType = slack.ResponseTypeInChannel
	return msg
}

func ephemeral(blocks ...slack.Block) slack.Message {
	msg := slack.NewBlockMessage(blocks...)
	msg.ResponseType = slack.ResponseTypeEphemeral
	return msg
}

func mention(id string) string {
	return "<@" + id + ">"
}

func joinMentions(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = mention(id)
	}
	return strings.Join(out, ", ")
}

func joinTeam(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = mention(id)
	}
	return strings.Join(out, " & ")
}

func pending(team ladder.TeamView) []string {
	var ids []string
	for _, m := range team.Members {
		if !m.Accepted {
			ids = append(ids, m.PlayerID)
		}
	}
	return ids
}

func signed(delta int) string {
	if delta >= 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}

func medal(place int) string {
	switch place {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}

func partitionTitle(p ratings.Partition) string {
	if p == ratings.OneVOne {
		return "1v1"
	}
	return "General"
}
