package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

const userNotFound = "user_not_found"

// SlackDirectory resolves user ids through the Slack users.info API.
type SlackDirectory struct {
	api *slack.Client
}

func NewSlack(token string) *SlackDirectory {
	return &SlackDirectory{api: slack.New(token)}
}

// NewSlackWithAPI creates a directory with a custom API client. Used for testing.
func NewSlackWithAPI(api *slack.Client) *SlackDirectory {
	return &SlackDirectory{api: api}
}

// Resolve reports deleted and missing users as unknown. Any other API
// failure is returned as an error.
func (d *SlackDirectory) Resolve(ctx context.Context, userID string) (string, bool, error) {
	user, err := d.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		var slackErr slack.SlackErrorResponse
		if errors.As(err, &slackErr) && slackErr.Err == userNotFound {
			log.Debug("User not found", "userID", userID)
			return "", false, nil
		}
		if err.Error() == userNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if user.Deleted {
		return "", false, nil
	}
	return displayName(user), true, nil
}

func displayName(user *slack.User) string {
	switch {
	case user.Profile.DisplayName != "":
		return user.Profile.DisplayName
	case user.RealName != "":
		return user.RealName
	default:
		return user.Name
	}
}

// ActiveUserIDs lists the workspace once through users.list and returns the
// ids of users that are not deleted. slack-go follows the pagination cursor
// and waits out rate limits between pages.
func (d *SlackDirectory) ActiveUserIDs(ctx context.Context) (map[string]bool, error) {
	users, err := d.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	active := make(map[string]bool, len(users))
	for _, u := range users {
		if !u.Deleted {
			active[u.ID] = true
		}
	}
	log.Debug("Listed workspace users", "total", len(users), "active", len(active))
	return active, nil
}
