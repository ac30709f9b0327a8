package hype

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/elonfeng/tickerpulse/pkg/source"
)

// Mention is one observed reference to a ticker in one post.
type Mention struct {
	Ticker     string
	Platform   source.Platform
	Timestamp  time.Time
	Text       string
	Engagement int
}

// TimeWindow bounds one scan.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Hours returns the window duration in hours.
func (w TimeWindow) Hours() float64 {
	return w.End.Sub(w.Start).Hours()
}

// Window returns the trailing window of the given duration ending now.
func Window(d time.Duration) TimeWindow {
	end := time.Now().UTC()
	return TimeWindow{Start: end.Add(-d), End: end}
}

// Baseline is a read-only prior-window observation for one ticker, used
// for spike detection. The scoring pipeline never writes to it.
type Baseline struct {
	MentionCount int
	Window       TimeWindow
}

// Velocity returns the baseline's mentions per hour.
func (b Baseline) Velocity() float64 {
	hours := b.Window.Hours()
	if hours < epsilon {
		hours = epsilon
	}
	return float64(b.MentionCount) / hours
}

// TickerAggregate holds all mentions for one ticker within a scan window.
// It is built once per scan and treated as immutable afterward.
type TickerAggregate struct {
	Ticker    string
	Mentions  []Mention // chronological
	Platforms map[source.Platform]bool
	FirstSeen time.Time
	LastSeen  time.Time
}

// MentionCount returns the number of deduplicated mentions.
func (a *TickerAggregate) MentionCount() int { return len(a.Mentions) }

// PlatformCount returns the number of distinct platforms.
func (a *TickerAggregate) PlatformCount() int { return len(a.Platforms) }

// PlatformNames returns the platform set in sorted order.
func (a *TickerAggregate) PlatformNames() []source.Platform {
	names := make([]source.Platform, 0, len(a.Platforms))
	for p := range a.Platforms {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// TotalEngagement sums engagement across all mentions.
func (a *TickerAggregate) TotalEngagement() int {
	total := 0
	for _, m := range a.Mentions {
		total += m.Engagement
	}
	return total
}

// Aggregate groups a flat mention stream into per-ticker aggregates.
// Symbols are uppercased before grouping, mentions byte-identical in
// (platform, ticker, timestamp, text) collapse to one, and each ticker's
// mentions come out in chronological order. An empty input yields an
// empty map. A mention with an empty ticker or a timestamp after scanEnd
// fails with ErrData.
func Aggregate(mentions []Mention, scanEnd time.Time) (map[string]*TickerAggregate, error) {
	aggs := make(map[string]*TickerAggregate)
	seen := make(map[string]bool)

	for i, m := range mentions {
		ticker := strings.ToUpper(strings.TrimSpace(m.Ticker))
		if ticker == "" {
			return nil, fmt.Errorf("%w: empty ticker at index %d", ErrData, i)
		}
		if m.Timestamp.After(scanEnd) {
			return nil, fmt.Errorf("%w: %s mention at %s is after scan end %s",
				ErrData, ticker,
				m.Timestamp.UTC().Format(time.RFC3339),
				scanEnd.UTC().Format(time.RFC3339))
		}

		key := string(m.Platform) + "\x00" + ticker + "\x00" +
			m.Timestamp.UTC().Format(time.RFC3339Nano) + "\x00" + m.Text
		if seen[key] {
			continue
		}
		seen[key] = true

		m.Ticker = ticker
		if m.Engagement < 0 {
			m.Engagement = 0
		}

		agg, ok := aggs[ticker]
		if !ok {
			agg = &TickerAggregate{
				Ticker:    ticker,
				Platforms: make(map[source.Platform]bool),
			}
			aggs[ticker] = agg
		}
		agg.Mentions = append(agg.Mentions, m)
		agg.Platforms[m.Platform] = true
	}

	for _, agg := range aggs {
		sort.SliceStable(agg.Mentions, func(i, j int) bool {
			return agg.Mentions[i].Timestamp.Before(agg.Mentions[j].Timestamp)
		})
		agg.FirstSeen = agg.Mentions[0].Timestamp
		agg.LastSeen = agg.Mentions[len(agg.Mentions)-1].Timestamp
	}

	return aggs, nil
}
