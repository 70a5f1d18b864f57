package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/rating"
)

const (
	minSetCount = 1
	maxSetCount = 9
)

var (
	mentionPattern = regexp.MustCompile(`<@([UW][A-Z0-9]+)(?:\|[^>]*)?>`)
	setPattern     = regexp.MustCompile(`\b(wins|wons|won|win|loss|lose|lost) ?(\d+)?`)
	teamSuffix     = regexp.MustCompile(`^[\s_-]*team\b`)
)

// Parse turns slash command text into an Intent.
func Parse(text string) (Intent, error) {
	text = strings.TrimSpace(text)
	lowered := strings.ToLower(text)
	verb, rest, _ := strings.Cut(lowered, " ")
	verb, suffix := splitVerb(verb)
	if suffix != "" {
		rest = suffix + " " + rest
	}
	targets := mentions(text)

	switch verb {
	case "", "help", "h", "commands":
		return Intent{Kind: KindHelp}, nil
	case "rules", "about":
		return Intent{Kind: KindRules}, nil
	case "leaderboard", "top":
		return Intent{Kind: KindLeaderboard}, nil
	case "full":
		return Intent{Kind: KindFullLeaderboard}, nil
	case "stats", "rank", "rating":
		return Intent{Kind: KindStats, Targets: targets}, nil
	case "record":
		return Intent{Kind: KindRecord, Targets: targets}, nil
	case "ongoing":
		return Intent{Kind: KindOngoing}, nil
	case "status":
		return Intent{Kind: KindTeamStatus}, nil
	case "team":
		if strings.HasPrefix(strings.TrimSpace(rest), "status") {
			return Intent{Kind: KindTeamStatus}, nil
		}
	case "challenge", "play":
		if len(targets) == 0 {
			return Intent{}, ErrMissingTarget
		}
		return Intent{Kind: KindChallenge, Targets: targets[:1]}, nil
	case "accept":
		if teamSuffix.MatchString(rest) {
			return Intent{Kind: KindAcceptTeam}, nil
		}
		return Intent{Kind: KindAccept}, nil
	case "decline":
		return Intent{Kind: KindDecline}, nil
	case "cancel":
		return Intent{Kind: KindCancel}, nil
	case "report":
		sets, err := ParseSets(rest)
		if err != nil {
			return Intent{}, err
		}
		return Intent{Kind: KindReport, Sets: sets}, nil
	case "create":
		if len(targets) == 0 {
			return Intent{}, ErrMissingTarget
		}
		return Intent{Kind: KindCreateTeam, Targets: targets}, nil
	case "invite":
		if len(targets) == 0 {
			return Intent{}, ErrMissingTarget
		}
		return Intent{Kind: KindInvite, Targets: targets}, nil
	case "leave":
		return Intent{Kind: KindLeaveTeam}, nil
	}
	return Intent{}, ErrUnknownCommand
}

// ParseSets extracts "win 2, loss 1" style results. A missing count means one
// set; a count outside 1-9 is rejected. Text without any result yields nil.
func ParseSets(text string) ([]rating.Set, error) {
	var sets []rating.Set
	for _, m := range setPattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		outcome := rating.Loss
		if strings.HasPrefix(m[1], "w") {
			outcome = rating.Win
		}
		count := 1
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil || n < minSetCount || n > maxSetCount {
				return nil, fmt.Errorf("set count %q out of range: %w", m[2], ladder.ErrMalformedReport)
			}
			count = n
		}
		sets = append(sets, rating.Set{Outcome: outcome, Count: count})
	}
	return sets, nil
}

// splitVerb separates joined forms such as "accept_team" or "create-team".
func splitVerb(verb string) (string, string) {
	for _, sep := range []string{"_", "-"} {
		if head, tail, ok := strings.Cut(verb, sep); ok {
			return head, tail
		}
	}
	return verb, ""
}

func mentions(text string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}
	return ids
}
