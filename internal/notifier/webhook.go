package notifier

import (
	"context"
	"net/http"
)

// WebhookNotifier sends the whole event as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	URL     string
	Headers map[string]string
	Client  *http.Client
}

type webhookPayload struct {
	RunEvent
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, event RunEvent) error {
	if n.URL == "" {
		return nil
	}
	payload := webhookPayload{RunEvent: event, DurationMS: event.Duration.Milliseconds()}
	if event.Failed() {
		payload.Error = event.Error.Error()
	}
	return postJSON(ctx, n.Client, "webhook", n.URL, n.Headers, payload)
}
