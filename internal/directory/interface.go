package directory

import "context"

// Directory resolves chat user ids.
type Directory interface {
	Resolve(ctx context.Context, userID string) (name string, known bool, err error)
}
