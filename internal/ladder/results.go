package ladder

import (
	"time"

	"github.com/mauv0809/ladder-manager/internal/ratings"
)

// TeamView is a read-only team roster.
type TeamView struct {
	Members []Member `json:"members"`
	Ready   bool     `json:"ready"`
}

func viewOf(t *Team) TeamView {
	if t == nil {
		return TeamView{}
	}
	return TeamView{Members: t.Members(), Ready: t.IsReady()}
}

type TeamCreated struct {
	LeaderID string
	Team     TeamView
	Invited  []string
	Skipped  []string
}

type TeamInviteApplied struct {
	InviterID string
	Team      TeamView
	Invited   []string
	Skipped   []string
}

type TeamAccepted struct {
	PlayerID string
	Team     TeamView
}

type TeamLeft struct {
	PlayerID string
	Team     TeamView
}

type ChallengeCreated struct {
	ChallengeID string
	Challenger  []string
	Challenged  []string
}

type ChallengeAccepted struct {
	ChallengeID string
	Challenger  []string
	Challenged  []string
}

type CloseReason string

const (
	ReasonCanceled CloseReason = "canceled"
	ReasonDeclined CloseReason = "declined"
)

type ChallengeClosed struct {
	ChallengeID string
	Reason      CloseReason
	ClosedBy    string
	Challenger  []string
	Challenged  []string
}

// MatchResolved describes a recorded match from the reporting side's
// perspective. Team1 is the reporter's side.
type MatchResolved struct {
	ChallengeID string            `json:"challenge_id" msgpack:"challenge_id"`
	Partition   ratings.Partition `json:"partition" msgpack:"partition"`
	Team1       []string          `json:"team1" msgpack:"team1"`
	Team2       []string          `json:"team2" msgpack:"team2"`
	Team1Rating int               `json:"team1_rating" msgpack:"team1_rating"`
	Team2Rating int               `json:"team2_rating" msgpack:"team2_rating"`
	Team1Delta  int               `json:"team1_delta" msgpack:"team1_delta"`
	Team2Delta  int               `json:"team2_delta" msgpack:"team2_delta"`
	Team1Wins   int               `json:"team1_wins" msgpack:"team1_wins"`
	Team2Wins   int               `json:"team2_wins" msgpack:"team2_wins"`
}

// ChallengeView is a live challenge as listed by Ongoing.
type ChallengeView struct {
	ID         string    `json:"id"`
	Challenger []string  `json:"challenger"`
	Challenged []string  `json:"challenged"`
	Accepted   bool      `json:"accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlayerStats is a player's standing in one partition.
type PlayerStats struct {
	Partition ratings.Partition `json:"partition"`
	Rating    int               `json:"rating"`
	Wins      int               `json:"wins"`
	Losses    int               `json:"losses"`
	Place     int               `json:"place"`
	Of        int               `json:"of"`
}

// PlayerRecord is a player's head-to-head history in one partition.
type PlayerRecord struct {
	Partition ratings.Partition             `json:"partition"`
	Opponents map[string]ratings.HeadToHead `json:"opponents"`
}

// ArchiveSync summarizes an archive sync run.
type ArchiveSync struct {
	Archived map[ratings.Partition][]string
	Restored map[ratings.Partition][]string
	Failed   []string
}
