package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackAPI is the subset of the Slack client the messenger uses.
type SlackAPI interface {
	GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackMessenger DMs agents by resolving their directory email to a Slack
// user.
type SlackMessenger struct {
	api SlackAPI
}

func NewSlackMessenger(api SlackAPI) *SlackMessenger {
	return &SlackMessenger{api: api}
}

func (m *SlackMessenger) SendNotification(ctx context.Context, recipient, message string) error {
	user, err := m.api.GetUserByEmailContext(ctx, recipient)
	if err != nil {
		return fmt.Errorf("notify.SlackMessenger: lookup %s: %w", recipient, err)
	}

	_, _, err = m.api.PostMessageContext(ctx, user.ID, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("notify.SlackMessenger: post message: %w", err)
	}

	return nil
}
