package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service provides interface to the Slack API calls used for assignment notifications
type Service interface {
	// GetUserInfo retrieves user information for the given user ID.
	// Returns ErrUserNotFound when Slack does not know the ID.
	GetUserInfo(ctx context.Context, userID string) (*User, error)

	// ListUsers retrieves all non-deleted, non-bot users in the workspace
	ListUsers(ctx context.Context) ([]*User, error)

	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// A user ID as channel opens a direct message. The text parameter is used as a
	// fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)
}

// User represents a Slack user
type User struct {
	ID       string
	Name     string
	RealName string
	Email    string
	ImageURL string
}
