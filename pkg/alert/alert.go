package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Notification is the data sent to alert destinations when a ticker's hype
// score crosses the configured threshold.
type Notification struct {
	Ticker       string    `json:"ticker"`
	HypeScore    float64   `json:"hype_score"`
	Rank         int       `json:"rank"`
	MentionCount int       `json:"mention_count"`
	Velocity     float64   `json:"velocity"`
	SpikeRatio   float64   `json:"spike_ratio"`
	Sentiment    float64   `json:"sentiment"`
	Trend        string    `json:"trend"`
	Platforms    []string  `json:"platforms"`
	ScanTime     time.Time `json:"scan_time"`
}

// summaryLine renders the shared breakdown line, wrapping field labels in the
// destination's bold marker.
func (n *Notification) summaryLine(bold string) string {
	b := func(s string) string { return bold + s + bold }
	return fmt.Sprintf("%s %.2f (rank %d) | %s %d\n%s %.1f/hr | %s %.1fx | %s %.2f (%s)",
		b("Hype:"), n.HypeScore, n.Rank,
		b("Mentions:"), n.MentionCount,
		b("Velocity:"), n.Velocity,
		b("Spike:"), n.SpikeRatio,
		b("Sentiment:"), n.Sentiment, n.Trend)
}

func (n *Notification) platformLine() string {
	if len(n.Platforms) == 0 {
		return ""
	}
	return "via " + strings.Join(n.Platforms, ", ")
}

// Notifier delivers alerts to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager broadcasts notifications to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a notification to all registered notifiers.
func (m *Manager) Broadcast(ctx context.Context, n *Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
