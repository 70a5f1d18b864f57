package ladder

import "sort"

// Member is one player of a team and whether they accepted the invitation.
type Member struct {
	PlayerID string `json:"player_id" msgpack:"player_id"`
	Accepted bool   `json:"accepted" msgpack:"accepted"`
}

// Team is a set of players with per-member acceptance flags.
type Team struct {
	members map[string]bool
}

// newTeam creates a team whose leader has implicitly accepted.
func newTeam(leaderID string) *Team {
	return &Team{members: map[string]bool{leaderID: true}}
}

func (t *Team) Contains(playerID string) bool {
	_, ok := t.members[playerID]
	return ok
}

func (t *Team) Len() int {
	return len(t.members)
}

func (t *Team) IsEmpty() bool {
	return len(t.members) == 0
}

// AllAccepted reports whether no member has a pending invitation. A solo team
// is always all-accepted.
func (t *Team) AllAccepted() bool {
	for _, accepted := range t.members {
		if !accepted {
			return false
		}
	}
	return true
}

// IsReady reports whether the team is a real, fully formed team: at least two
// members, all accepted.
func (t *Team) IsReady() bool {
	return len(t.members) >= 2 && t.AllAccepted()
}

// Equal compares member sets, ignoring acceptance.
func (t *Team) Equal(other *Team) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || len(t.members) != len(other.members) {
		return false
	}
	for id := range t.members {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Players returns member ids in sorted order.
func (t *Team) Players() []string {
	ids := make([]string, 0, len(t.members))
	for id := range t.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Members returns members with their acceptance, sorted by id.
func (t *Team) Members() []Member {
	members := make([]Member, 0, len(t.members))
	for _, id := range t.Players() {
		members = append(members, Member{PlayerID: id, Accepted: t.members[id]})
	}
	return members
}

func (t *Team) invite(playerID string) {
	t.members[playerID] = false
}

func (t *Team) accept(playerID string) {
	if _, ok := t.members[playerID]; ok {
		t.members[playerID] = true
	}
}

func (t *Team) remove(playerID string) {
	delete(t.members, playerID)
}

func (t *Team) clone() *Team {
	c := &Team{members: make(map[string]bool, len(t.members))}
	for id, accepted := range t.members {
		c.members[id] = accepted
	}
	return c
}

func teamFromMembers(members []Member) *Team {
	t := &Team{members: make(map[string]bool, len(members))}
	for _, m := range members {
		t.members[m.PlayerID] = m.Accepted
	}
	return t
}
