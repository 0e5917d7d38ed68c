// Package discord posts plain messages to a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds one webhook delivery.
const DefaultTimeout = 5 * time.Second

// Webhook delivers messages to one webhook URL.
type Webhook struct {
	url  string
	http *http.Client
}

// New creates a webhook client. hc may be nil.
func New(url string, timeout time.Duration, hc *http.Client) *Webhook {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Webhook{url: url, http: hc}
}

type message struct {
	Content string `json:"content"`
}

// Send posts {"content": content}. Non-2xx answers are errors.
func (w *Webhook) Send(ctx context.Context, content string) error {
	body, err := json.Marshal(message{Content: content})
	if err != nil {
		return fmt.Errorf("encode webhook message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
