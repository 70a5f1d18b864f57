package ladder

import (
	"errors"
	"fmt"

	"github.com/mauv0809/ladder-manager/internal/rating"
)

// Every rejected operation returns exactly one of these and leaves all state
// unchanged.
var (
	ErrInvalidChallengeTarget    = errors.New("a team cannot challenge itself")
	ErrParticipantAlreadyEngaged = errors.New("a participant is already engaged in a challenge")
	ErrTeamsNotReady             = errors.New("one of the teams is not fully ready")
	ErrTeamSizeMismatch          = errors.New("teams must be the same size")
	ErrNoActiveChallenge         = errors.New("no active challenge")
	ErrNotChallengedParty        = errors.New("only the challenged team can accept")
	ErrAlreadyAccepted           = errors.New("challenge has already been accepted")
	ErrChallengeNotYetAccepted   = errors.New("challenge has not been accepted yet")
	ErrMalformedReport           = errors.New("report must contain at least one win or loss")
	ErrNoActiveInvitation        = errors.New("not on a team and no pending invitation")
	ErrAlreadyOnTeam             = errors.New("player is already on a team")
	ErrConfiguration             = rating.ErrConfiguration
)

// PersistenceWarning is returned alongside a valid result when the change was
// applied in memory but could not be written durably.
type PersistenceWarning struct {
	Err error
}

func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("change applied but not saved: %v", w.Err)
}

func (w *PersistenceWarning) Unwrap() error {
	return w.Err
}

// IsWarning reports whether err is a PersistenceWarning, in which case the
// accompanying result is valid.
func IsWarning(err error) bool {
	var w *PersistenceWarning
	return errors.As(err, &w)
}
