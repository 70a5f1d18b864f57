package ladder

import "sort"

// TeamRegistry maps each registered player to the team they belong to.
type TeamRegistry struct {
	byPlayer map[string]*Team
}

func NewTeamRegistry() *TeamRegistry {
	return &TeamRegistry{byPlayer: make(map[string]*Team)}
}

// GetOrCreate returns the player's team, or a fresh unregistered
// single-member team when they are not on one.
func (r *TeamRegistry) GetOrCreate(playerID string) *Team {
	if r.OnTeam(playerID) {
		return r.byPlayer[playerID]
	}
	return newTeam(playerID)
}

// OnTeam reports whether the player is registered on a team with at least one
// other member.
func (r *TeamRegistry) OnTeam(playerID string) bool {
	t, ok := r.byPlayer[playerID]
	return ok && t.Len() >= 2
}

// Invite adds playerID to team as a pending member and registers every member
// of the team against it.
func (r *TeamRegistry) Invite(team *Team, playerID string) error {
	if team.Contains(playerID) || r.OnTeam(playerID) {
		return ErrAlreadyOnTeam
	}
	team.invite(playerID)
	r.register(team)
	return nil
}

// InviteAll invites every id in playerIDs, skipping those already on a team.
func (r *TeamRegistry) InviteAll(team *Team, playerIDs []string) (invited, skipped []string) {
	for _, id := range dedupe(playerIDs) {
		if err := r.Invite(team, id); err != nil {
			skipped = append(skipped, id)
			continue
		}
		invited = append(invited, id)
	}
	return invited, skipped
}

// Create builds a new team led by leaderID. Invitees already on a team are
// skipped.
func (r *TeamRegistry) Create(leaderID string, invitees []string) (*Team, []string, []string, error) {
	if r.OnTeam(leaderID) {
		return nil, nil, nil, ErrAlreadyOnTeam
	}
	team := newTeam(leaderID)
	filtered := make([]string, 0, len(invitees))
	for _, id := range invitees {
		if id != leaderID {
			filtered = append(filtered, id)
		}
	}
	invited, skipped := r.InviteAll(team, filtered)
	r.register(team)
	return team, invited, skipped, nil
}

// Accept marks the player's pending invitation as accepted.
func (r *TeamRegistry) Accept(playerID string) (*Team, error) {
	if !r.OnTeam(playerID) {
		return nil, ErrNoActiveInvitation
	}
	t := r.byPlayer[playerID]
	t.accept(playerID)
	return t, nil
}

// Remove detaches the player from their team. The remaining team is returned.
// A team left with a single member is dissolved, freeing that member.
func (r *TeamRegistry) Remove(playerID string) (*Team, error) {
	if !r.OnTeam(playerID) {
		return nil, ErrNoActiveInvitation
	}
	t := r.byPlayer[playerID]
	t.remove(playerID)
	delete(r.byPlayer, playerID)
	if t.Len() < 2 {
		for id := range t.members {
			delete(r.byPlayer, id)
		}
	}
	return t, nil
}

// Status returns the player's team when they are on one.
func (r *TeamRegistry) Status(playerID string) (*Team, bool) {
	if !r.OnTeam(playerID) {
		return nil, false
	}
	return r.byPlayer[playerID], true
}

// Teams returns each distinct registered team once.
func (r *TeamRegistry) Teams() []*Team {
	seen := make(map[*Team]bool)
	var teams []*Team
	for _, id := range sortedPlayerIDs(r.byPlayer) {
		t := r.byPlayer[id]
		if seen[t] {
			continue
		}
		seen[t] = true
		teams = append(teams, t)
	}
	return teams
}

func (r *TeamRegistry) register(team *Team) {
	for id := range team.members {
		r.byPlayer[id] = team
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func sortedPlayerIDs(m map[string]*Team) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
