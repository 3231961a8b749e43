package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"

	"github.com/lafin/http"

	"feed-notifier/config"
)

// Webhook posts messages to a Slack compatible incoming webhook
type Webhook struct {
	URL     string
	Payload string
}

type textObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type string      `json:"type"`
	Text *textObject `json:"text,omitempty"`
}

// NewWebhook makes a notifier from feed settings
func NewWebhook(cfg *config.Feed) *Webhook {
	return &Webhook{URL: cfg.SlackHookURL, Payload: cfg.Payload}
}

// Body renders the JSON payload for a message
func (w *Webhook) Body(message string) ([]byte, error) {
	if w.Payload == config.PayloadText {
		return json.Marshal(map[string]string{"text": message})
	}
	return json.Marshal(map[string][]block{"blocks": {
		{Type: "section", Text: &textObject{Type: "mrkdwn", Text: message}},
		{Type: "divider"},
	}})
}

// Deliver sends one request, any status outside 2xx is an error
func (w *Webhook) Deliver(ctx context.Context, message string) error {
	payload, err := w.Body(message)
	if err != nil {
		return err
	}
	body, resp, err := bounded(ctx, func() ([]byte, *nethttp.Response, error) {
		return http.Post(w.URL, bytes.NewReader(payload), map[string]string{"Content-Type": "application/json"})
	})
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	return nil
}
