package ladder

import "context"

// Directory resolves player ids against the chat workspace.
type Directory interface {
	// Resolve returns the display name and whether the id is a known, active
	// user. err is set only when the lookup itself failed.
	Resolve(ctx context.Context, playerID string) (name string, known bool, err error)
}

// Roster is implemented by directories that can list every active user in one
// call. SyncArchive uses it instead of resolving players one by one.
type Roster interface {
	ActiveUserIDs(ctx context.Context) (map[string]bool, error)
}

// SessionStore keeps teams and live challenges across restarts on a best
// effort basis.
type SessionStore interface {
	Load(ctx context.Context) (SessionState, error)
	Save(ctx context.Context, state SessionState) error
}
