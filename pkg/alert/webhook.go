package alert

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// webhookEvent is the envelope delivered to generic webhook consumers.
type webhookEvent struct {
	Event   string        `json:"event"`
	EventID string        `json:"event_id"`
	SentAt  time.Time     `json:"sent_at"`
	Data    *Notification `json:"data"`
}

// Webhook sends notifications to a generic HTTP endpoint.
type Webhook struct {
	client *http.Client
	url    string
	secret string
}

// NewWebhook creates a new generic webhook notifier.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		secret: secret,
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, n *Notification) error {
	event := webhookEvent{
		Event:   "hype_alert",
		EventID: eventID(n),
		SentAt:  time.Now().UTC(),
		Data:    n,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "tickerpulse/1.0")

	// HMAC signature for verification.
	if w.secret != "" {
		mac := hmac.New(sha256.New, []byte(w.secret))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-Signature-256", "sha256="+sig)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	return nil
}

// eventID is stable per ticker and scan, so consumers can drop the duplicate
// a redelivery produces. A failed broadcast is retried on the next scheduler
// cycle with the same ticker and scan time.
func eventID(n *Notification) string {
	sum := sha256.Sum256([]byte(n.Ticker + "\x00" + n.ScanTime.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:8])
}
