package notifier

import (
	"context"
	"net/http"
)

// SlackNotifier posts a text message to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	Client     *http.Client
}

func (n *SlackNotifier) Notify(ctx context.Context, event RunEvent) error {
	if n.WebhookURL == "" {
		return nil
	}
	return postJSON(ctx, n.Client, "slack webhook", n.WebhookURL, nil,
		map[string]string{"text": formatMessage(event)})
}
