package command

import (
	"errors"

	"github.com/mauv0809/ladder-manager/internal/rating"
)

// Kind identifies a ladder command.
type Kind string

const (
	KindHelp            Kind = "help"
	KindRules           Kind = "rules"
	KindLeaderboard     Kind = "leaderboard"
	KindFullLeaderboard Kind = "full"
	KindStats           Kind = "stats"
	KindRecord          Kind = "record"
	KindOngoing         Kind = "ongoing"
	KindTeamStatus      Kind = "status"
	KindChallenge       Kind = "challenge"
	KindAccept          Kind = "accept"
	KindDecline         Kind = "decline"
	KindCancel          Kind = "cancel"
	KindReport          Kind = "report"
	KindCreateTeam      Kind = "create"
	KindInvite          Kind = "invite"
	KindAcceptTeam      Kind = "accept team"
	KindLeaveTeam       Kind = "leave"
)

// Intent is a parsed command. Targets holds mentioned user ids in order of
// appearance; Sets is only filled for reports.
type Intent struct {
	Kind    Kind
	Targets []string
	Sets    []rating.Set
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingTarget  = errors.New("command needs at least one @mention")
)
