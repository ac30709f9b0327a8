package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/elonfeng/tickerpulse/internal/metrics"
	"github.com/elonfeng/tickerpulse/internal/store"
	"github.com/elonfeng/tickerpulse/pkg/alert"
	"github.com/elonfeng/tickerpulse/pkg/hype"
	"github.com/elonfeng/tickerpulse/pkg/source"
	"github.com/elonfeng/tickerpulse/pkg/ticker"
)

// Scheduler runs periodic scans: collect posts, extract ticker mentions,
// score, persist, alert.
type Scheduler struct {
	store     store.Store
	sources   []source.Source
	extractor *ticker.Extractor
	engine    *hype.Engine
	alertMgr  *alert.Manager
	interval  time.Duration
	window    time.Duration
	minAlert  float64
}

// New creates a new scheduler. Notifiers are wrapped with delivery metrics.
func New(
	s store.Store,
	sources []source.Source,
	extractor *ticker.Extractor,
	engine *hype.Engine,
	notifiers []alert.Notifier,
	interval, window time.Duration,
	minAlert float64,
) *Scheduler {
	if interval == 0 {
		interval = 15 * time.Minute
	}
	if window == 0 {
		window = 24 * time.Hour
	}
	if minAlert == 0 {
		minAlert = 0.8
	}

	wrapped := make([]alert.Notifier, len(notifiers))
	for i, n := range notifiers {
		wrapped[i] = &countingNotifier{Notifier: n}
	}

	return &Scheduler{
		store:     s,
		sources:   sources,
		extractor: extractor,
		engine:    engine,
		alertMgr:  alert.NewManager(wrapped),
		interval:  interval,
		window:    window,
		minAlert:  minAlert,
	}
}

// countingNotifier records delivery outcomes per channel.
type countingNotifier struct {
	alert.Notifier
}

func (c *countingNotifier) Send(ctx context.Context, n *alert.Notification) error {
	err := c.Notifier.Send(ctx, n)
	if err != nil {
		metrics.AlertErrors.WithLabelValues(c.Name()).Inc()
		return err
	}
	metrics.AlertsSent.WithLabelValues(c.Name()).Inc()
	return nil
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	scanTicker := time.NewTicker(s.interval)
	defer scanTicker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial scan...")
	s.scanAndAlert(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (scan every %s, window %s)\n",
		s.interval, s.window)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-scanTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: scanning...")
			s.scanAndAlert(ctx)
		}
	}
}

func (s *Scheduler) scanAndAlert(ctx context.Context) {
	if _, _, err := s.Scan(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "  scan error: %v\n", err)
		return
	}
	s.alertHot(ctx)
}

// Scan runs one full cycle and returns the persisted scan with its scores.
func (s *Scheduler) Scan(ctx context.Context) (*store.Scan, []store.Score, error) {
	started := time.Now().UTC()

	posts := s.collect(ctx)

	end := time.Now().UTC()
	win := hype.TimeWindow{Start: end.Add(-s.window), End: end}

	mentions := filterWindow(s.extractor.Mentions(posts), win)
	metrics.MentionsExtracted.Add(float64(len(mentions)))

	baselines, err := s.store.Baselines(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  baseline load error: %v\n", err)
	}

	results, err := s.engine.Score(mentions, win, baselines)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("score scan: %w", err)
	}

	scan := &store.Scan{
		StartedAt:      started,
		FinishedAt:     time.Now().UTC(),
		WindowStart:    win.Start,
		WindowEnd:      win.End,
		PostsCollected: len(posts),
		TotalMentions:  len(mentions),
		TickersRanked:  len(results),
	}
	scores := toScores(results)
	if err := s.store.SaveScan(ctx, scan, scores); err != nil {
		metrics.ScansTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("persist scan: %w", err)
	}

	metrics.ScansTotal.WithLabelValues("ok").Inc()
	metrics.ScanDuration.Observe(time.Since(started).Seconds())
	metrics.TickersRanked.Set(float64(len(results)))

	fmt.Fprintf(os.Stderr, "  scan %d: %d posts, %d mentions, %d tickers ranked\n",
		scan.ID, len(posts), len(mentions), len(results))
	return scan, scores, nil
}

func (s *Scheduler) collect(ctx context.Context) []source.Post {
	var posts []source.Post
	for _, src := range s.sources {
		collected, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
			continue
		}
		metrics.PostsCollected.WithLabelValues(string(src.Name())).Add(float64(len(collected)))
		fmt.Fprintf(os.Stderr, "  %s: %d posts\n", src.Name(), len(collected))
		posts = append(posts, collected...)
	}
	return posts
}

func (s *Scheduler) alertHot(ctx context.Context) {
	if !s.alertMgr.HasNotifiers() {
		return
	}

	scores, err := s.store.UnalertedScores(ctx, s.minAlert)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  alert query error: %v\n", err)
		return
	}
	if len(scores) == 0 {
		return
	}

	scanTime := time.Now().UTC()
	if scan, err := s.store.LatestScan(ctx); err == nil && scan != nil {
		scanTime = scan.WindowEnd
	}

	for _, sc := range scores {
		if err := s.alertMgr.Broadcast(ctx, notificationFor(sc, scanTime)); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error for $%s: %v\n", sc.Ticker, err)
			continue
		}
		_ = s.store.MarkAlerted(ctx, sc.ID)
		fmt.Fprintf(os.Stderr, "  alerted: $%s (hype %.2f)\n", sc.Ticker, sc.HypeScore)
	}
}

// filterWindow drops mentions outside the scan window, including any a
// skewed upstream clock stamped in the future.
func filterWindow(mentions []hype.Mention, win hype.TimeWindow) []hype.Mention {
	kept := mentions[:0]
	for _, m := range mentions {
		if m.Timestamp.Before(win.Start) || m.Timestamp.After(win.End) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func toScores(results []hype.Result) []store.Score {
	scores := make([]store.Score, 0, len(results))
	for _, r := range results {
		platforms := make([]string, 0, len(r.Platforms))
		for _, p := range r.Platforms {
			platforms = append(platforms, string(p))
		}
		scores = append(scores, store.Score{
			Ticker:         r.Ticker,
			Rank:           r.Rank,
			HypeScore:      r.HypeScore,
			VolumeScore:    r.Volume.NormalizedScore,
			SentimentScore: r.Sentiment.NormalizedScore,
			MentionCount:   r.MentionCount,
			Velocity:       r.Volume.Velocity,
			SpikeRatio:     r.Volume.SpikeRatio,
			KeywordScore:   r.Sentiment.KeywordScore,
			LibraryScore:   r.Sentiment.LibraryScore,
			Confidence:     r.Sentiment.Confidence,
			Trend:          string(r.Sentiment.Trend),
			Platforms:      platforms,
		})
	}
	return scores
}

func notificationFor(sc store.Score, scanTime time.Time) *alert.Notification {
	return &alert.Notification{
		Ticker:       sc.Ticker,
		HypeScore:    sc.HypeScore,
		Rank:         sc.Rank,
		MentionCount: sc.MentionCount,
		Velocity:     sc.Velocity,
		SpikeRatio:   sc.SpikeRatio,
		Sentiment:    sc.SentimentScore,
		Trend:        sc.Trend,
		Platforms:    sc.Platforms,
		ScanTime:     scanTime,
	}
}
