package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/tickerpulse/pkg/hype"
)

func TestDefaultScoringMatchesEngineDefaults(t *testing.T) {
	cfg := Default()
	engineCfg := cfg.Scoring.EngineConfig()
	require.NoError(t, engineCfg.Validate())
	assert.Equal(t, hype.DefaultConfig(), engineCfg)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	t.Setenv("TICKERPULSE_DB", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
database:
  path: /var/lib/tickerpulse/pulse.db
schedule:
  scan_interval: 5m
scoring:
  recency_boost: false
  top_n: 10
sources:
  reddit:
    enabled: true
    subreddits: [wallstreetbets]
filter:
  exclude_keywords: [giveaway]
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tickerpulse/pulse.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Minute, cfg.Schedule.ParseScanInterval())
	assert.Equal(t, 24*time.Hour, cfg.Schedule.ParseWindow(), "untouched keys keep defaults")
	assert.False(t, cfg.Scoring.RecencyBoost)
	assert.Equal(t, 10, cfg.Scoring.TopN)
	assert.InDelta(t, 0.7, cfg.Scoring.VolumeWeight, 1e-9)
	assert.True(t, cfg.Sources.Reddit.Enabled)
	assert.Equal(t, []string{"wallstreetbets"}, cfg.Sources.Reddit.Subreddits)
	assert.True(t, cfg.Sources.StockTwits.Enabled)
	assert.Equal(t, []string{"giveaway"}, cfg.Filter.ExcludeKeywords)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scoring: ["), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TICKERPULSE_DB", "/tmp/env.db")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T000/B000/XXX")
	t.Setenv("REDDIT_CLIENT_ID", "env-client")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.True(t, cfg.Alerts.Slack.Enabled)
	assert.Equal(t, "https://hooks.slack.com/services/T000/B000/XXX", cfg.Alerts.Slack.WebhookURL)
	assert.Equal(t, "env-client", cfg.Sources.Reddit.ClientID)
}

func TestDurationFallbacks(t *testing.T) {
	s := ScheduleConfig{ScanInterval: "junk", Window: ""}
	assert.Equal(t, 15*time.Minute, s.ParseScanInterval())
	assert.Equal(t, 24*time.Hour, s.ParseWindow())

	tw := TwitterConfig{}
	assert.Equal(t, 24*time.Hour, tw.ParseMaxAge())
}
