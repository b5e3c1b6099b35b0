package notifier

import (
	"context"
	"net/http"
)

// DiscordNotifier posts a chat message to a Discord webhook.
type DiscordNotifier struct {
	WebhookURL string
	Client     *http.Client
}

func (n *DiscordNotifier) Notify(ctx context.Context, event RunEvent) error {
	if n.WebhookURL == "" {
		return nil
	}
	return postJSON(ctx, n.Client, "discord webhook", n.WebhookURL, nil,
		map[string]string{"content": formatMessage(event)})
}
