package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elonfeng/tickerpulse/pkg/hype"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Sources  SourcesConfig  `yaml:"sources"`
	Filter   FilterConfig   `yaml:"filter"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Tickers  TickersConfig  `yaml:"tickers"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures how often scans run and how far back each
// scan looks.
type ScheduleConfig struct {
	ScanInterval string `yaml:"scan_interval"`
	Window       string `yaml:"window"`
}

// ParseScanInterval returns the scan interval as time.Duration.
func (s ScheduleConfig) ParseScanInterval() time.Duration {
	d, err := time.ParseDuration(s.ScanInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// ParseWindow returns the scoring window as time.Duration.
func (s ScheduleConfig) ParseWindow() time.Duration {
	d, err := time.ParseDuration(s.Window)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// SourcesConfig holds configuration for all data sources.
type SourcesConfig struct {
	Twitter    TwitterConfig    `yaml:"twitter"`
	Reddit     RedditConfig     `yaml:"reddit"`
	StockTwits StockTwitsConfig `yaml:"stocktwits"`
}

// TwitterConfig for the Twitter/X collector (via a Nitter instance).
type TwitterConfig struct {
	Enabled   bool     `yaml:"enabled"`
	NitterURL string   `yaml:"nitter_url"`
	Accounts  []string `yaml:"accounts"`
	Queries   []string `yaml:"queries"`
	MaxAge    string   `yaml:"max_age"`
}

// ParseMaxAge returns the tweet age cutoff as time.Duration.
func (t TwitterConfig) ParseMaxAge() time.Duration {
	d, err := time.ParseDuration(t.MaxAge)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// RedditConfig for the Reddit collector.
type RedditConfig struct {
	Enabled      bool     `yaml:"enabled"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Subreddits   []string `yaml:"subreddits"`
	Limit        int      `yaml:"limit"`
}

// StockTwitsConfig for the StockTwits collector.
type StockTwitsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Symbols []string `yaml:"symbols"`
}

// FilterConfig tunes the finance-content pre-filter applied at collection.
type FilterConfig struct {
	ExtraKeywords   []string `yaml:"extra_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// ScoringConfig tunes the hype scoring pipeline.
type ScoringConfig struct {
	VolumeWeight           float64 `yaml:"volume_weight"`
	SentimentWeight        float64 `yaml:"sentiment_weight"`
	MinMentions            int     `yaml:"min_mentions"`
	TopN                   int     `yaml:"top_n"`
	RecencyBoost           bool    `yaml:"recency_boost"`
	CrossPlatformBonus     bool    `yaml:"cross_platform_bonus"`
	MinSentimentConfidence float64 `yaml:"min_sentiment_confidence"`
}

// EngineConfig converts the YAML scoring block into an engine configuration.
func (s ScoringConfig) EngineConfig() hype.Config {
	return hype.Config{
		VolumeWeight:           s.VolumeWeight,
		SentimentWeight:        s.SentimentWeight,
		MinMentions:            s.MinMentions,
		TopN:                   s.TopN,
		RecencyBoost:           s.RecencyBoost,
		CrossPlatformBonus:     s.CrossPlatformBonus,
		MinSentimentConfidence: s.MinSentimentConfidence,
	}
}

// TickersConfig adjusts symbol extraction.
type TickersConfig struct {
	Extra   []string `yaml:"extra"`
	Exclude []string `yaml:"exclude"`
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	MinScore float64       `yaml:"min_score"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
	Webhook  WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./tickerpulse.db"},
		Schedule: ScheduleConfig{
			ScanInterval: "15m",
			Window:       "24h",
		},
		Sources: SourcesConfig{
			Twitter: TwitterConfig{
				Enabled:   false,
				NitterURL: "https://nitter.net",
				Accounts:  []string{"DeItaone", "unusual_whales", "Stocktwits"},
				MaxAge:    "24h",
			},
			Reddit: RedditConfig{
				Enabled: false,
				Subreddits: []string{
					"wallstreetbets", "stocks", "cryptocurrency", "stockmarket",
					"investing", "pennystocks", "options", "SatoshiStreetBets",
				},
				Limit: 100,
			},
			StockTwits: StockTwitsConfig{
				Enabled: true,
				Symbols: []string{"AAPL", "TSLA", "NVDA", "GME", "AMC", "SPY"},
			},
		},
		Scoring: ScoringConfig{
			VolumeWeight:           0.7,
			SentimentWeight:        0.3,
			MinMentions:            5,
			TopN:                   20,
			RecencyBoost:           true,
			CrossPlatformBonus:     true,
			MinSentimentConfidence: 0.1,
		},
		Alerts: AlertsConfig{MinScore: 0.8},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TICKERPULSE_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("NITTER_BASE_URL"); v != "" {
		cfg.Sources.Twitter.NitterURL = v
	}
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		cfg.Sources.Reddit.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		cfg.Sources.Reddit.ClientSecret = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
