package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config defines notifier settings.
type Config struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Type    string `mapstructure:"type" yaml:"type"`
	Discord struct {
		WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
	} `mapstructure:"discord" yaml:"discord"`
	Slack struct {
		WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
	} `mapstructure:"slack" yaml:"slack"`
	Webhook struct {
		URL     string            `mapstructure:"url" yaml:"url"`
		Headers map[string]string `mapstructure:"headers" yaml:"headers"`
	} `mapstructure:"webhook" yaml:"webhook"`
}

// NewNotifier picks the notifier named by cfg.Type. Disabled or incomplete
// configuration yields a NoopNotifier.
func NewNotifier(cfg Config) Notifier {
	if !cfg.Enabled {
		return &NoopNotifier{}
	}
	switch t := strings.ToLower(cfg.Type); {
	case t == "discord" && cfg.Discord.WebhookURL != "":
		return &DiscordNotifier{WebhookURL: cfg.Discord.WebhookURL}
	case t == "slack" && cfg.Slack.WebhookURL != "":
		return &SlackNotifier{WebhookURL: cfg.Slack.WebhookURL}
	case t == "webhook" && cfg.Webhook.URL != "":
		return &WebhookNotifier{URL: cfg.Webhook.URL, Headers: cfg.Webhook.Headers}
	}
	return &NoopNotifier{}
}

var defaultClient = &http.Client{Timeout: 10 * time.Second}

// postJSON sends payload to url and treats any 4xx/5xx as an error named
// after target.
func postJSON(ctx context.Context, c *http.Client, target, url string, headers map[string]string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c == nil {
		c = defaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s status %s", target, resp.Status)
	}
	return nil
}

// formatMessage renders the one-line chat summary of a run.
func formatMessage(e RunEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s replay: %d/%d day(s)", e.Status, e.DatesRun, e.Dates)
	if !e.Failed() {
		fmt.Fprintf(&b, ", %d working rows", e.WorkingRows)
	}
	if e.DB != "" {
		b.WriteString(" on " + e.DB)
	}
	if e.User != "" {
		b.WriteString(" by " + e.User)
	}
	if e.Duration > 0 {
		b.WriteString(" in " + e.Duration.Round(time.Millisecond).String())
	}
	if e.Failed() {
		b.WriteString(": " + e.Error.Error())
	}
	return b.String()
}
