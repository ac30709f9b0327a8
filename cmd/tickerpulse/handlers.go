package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/elonfeng/tickerpulse/internal/config"
	"github.com/elonfeng/tickerpulse/internal/scheduler"
	"github.com/elonfeng/tickerpulse/internal/store"
	"github.com/elonfeng/tickerpulse/pkg/alert"
	"github.com/elonfeng/tickerpulse/pkg/hype"
	"github.com/elonfeng/tickerpulse/pkg/server"
	"github.com/elonfeng/tickerpulse/pkg/source"
	"github.com/elonfeng/tickerpulse/pkg/ticker"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("TICKERPULSE_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildSources(cfg *config.Config) []source.Source {
	filter := source.NewFilter(cfg.Filter.ExtraKeywords, cfg.Filter.ExcludeKeywords)

	var sources []source.Source
	if cfg.Sources.Twitter.Enabled {
		sources = append(sources, source.NewTwitter(
			cfg.Sources.Twitter.NitterURL,
			cfg.Sources.Twitter.Accounts,
			cfg.Sources.Twitter.Queries,
			cfg.Sources.Twitter.ParseMaxAge(),
			filter,
		))
	}
	if cfg.Sources.Reddit.Enabled {
		sources = append(sources, source.NewReddit(
			cfg.Sources.Reddit.ClientID,
			cfg.Sources.Reddit.ClientSecret,
			cfg.Sources.Reddit.Subreddits,
			cfg.Sources.Reddit.Limit,
			filter,
		))
	}
	if cfg.Sources.StockTwits.Enabled {
		sources = append(sources, source.NewStockTwits(cfg.Sources.StockTwits.Symbols))
	}

	return sources
}

func buildNotifiers(cfg *config.Config) []alert.Notifier {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return notifiers
}

func buildScheduler(cfg *config.Config, db store.Store, sources []source.Source) (*scheduler.Scheduler, error) {
	engine, err := hype.NewEngine(cfg.Scoring.EngineConfig())
	if err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	extractor := ticker.NewExtractor(cfg.Tickers.Extra, cfg.Tickers.Exclude)

	return scheduler.New(db, sources, extractor, engine, buildNotifiers(cfg),
		cfg.Schedule.ParseScanInterval(),
		cfg.Schedule.ParseWindow(),
		cfg.Alerts.MinScore,
	), nil
}

func runScan(jsonOutput, explain bool, top, minMentions int, filterSources []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if top > 0 {
		cfg.Scoring.TopN = top
	}
	if minMentions >= 0 {
		cfg.Scoring.MinMentions = minMentions
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	allSources := buildSources(cfg)

	// Filter to requested sources only.
	sources := allSources
	if len(filterSources) > 0 {
		wanted := make(map[string]bool)
		for _, s := range filterSources {
			wanted[strings.ToLower(strings.TrimSpace(s))] = true
		}
		sources = nil
		for _, s := range allSources {
			if wanted[string(s.Name())] {
				sources = append(sources, s)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no matching sources for: %s", strings.Join(filterSources, ", "))
		}
	}

	sched, err := buildScheduler(cfg, db, sources)
	if err != nil {
		return err
	}

	_, scores, err := sched.Scan(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scores)
	}

	if len(scores) == 0 {
		fmt.Println("no tickers ranked (check enabled sources or lower --min-mentions)")
		return nil
	}

	if explain {
		printBreakdown(scores)
		return nil
	}
	return printLeaderboard(scores)
}

func printLeaderboard(scores []store.Score) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tHYPE\tTICKER\tMENTIONS\tVELOCITY\tSPIKE\tSENTIMENT\tTREND\tPLATFORMS")
	for _, sc := range scores {
		fmt.Fprintf(w, "%d\t%.3f\t$%s\t%d\t%.1f/hr\t%.1fx\t%.2f\t%s\t%s\n",
			sc.Rank, sc.HypeScore, sc.Ticker, sc.MentionCount,
			sc.Velocity, sc.SpikeRatio, sc.SentimentScore, sc.Trend,
			strings.Join(sc.Platforms, ","))
	}
	return w.Flush()
}

func printBreakdown(scores []store.Score) {
	for _, sc := range scores {
		fmt.Printf("#%d $%s  hype %.3f\n", sc.Rank, sc.Ticker, sc.HypeScore)
		fmt.Printf("   mentions  %d @ %.1f/hr, spike %.1fx, via %s\n",
			sc.MentionCount, sc.Velocity, sc.SpikeRatio, strings.Join(sc.Platforms, ", "))
		fmt.Printf("   volume    %.3f\n", sc.VolumeScore)
		fmt.Printf("   sentiment %.3f (keyword %.2f, library %.2f, confidence %.2f, %s)\n",
			sc.SentimentScore, sc.KeywordScore, sc.LibraryScore, sc.Confidence, sc.Trend)
	}
}

func runHistory(rawTicker string, limit int, jsonOutput bool) error {
	if rawTicker == "" {
		return fmt.Errorf("--ticker is required")
	}
	symbol := ticker.Normalize(rawTicker)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	points, err := db.TickerHistory(context.Background(), symbol, limit)
	if err != nil {
		return fmt.Errorf("ticker history: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	if len(points) == 0 {
		fmt.Printf("no history for $%s (run a scan first: tickerpulse scan)\n", symbol)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCANNED\tHYPE\tRANK\tMENTIONS\tVELOCITY\tSPIKE\tTREND")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.3f\t%d\t%d\t%.1f/hr\t%.1fx\t%s\n",
			p.ScanTime.Format(time.RFC3339), p.HypeScore, p.Rank,
			p.MentionCount, p.Velocity, p.SpikeRatio, p.Trend)
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	sched, err := buildScheduler(cfg, db, buildSources(cfg))
	if err != nil {
		return err
	}

	srv := server.New(db, sched, cfg, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	sched, err := buildScheduler(cfg, db, buildSources(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	srv := server.New(db, sched, cfg, port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}
