package source

import (
	"context"
	"strings"
	"time"
)

// Platform identifies which social platform a post came from.
type Platform string

const (
	PlatformTwitter    Platform = "twitter"
	PlatformReddit     Platform = "reddit"
	PlatformStockTwits Platform = "stocktwits"
)

// Post is the standardized data model for all platforms.
type Post struct {
	ID          string
	Platform    Platform
	Author      string
	Title       string
	Text        string
	URL         string
	Engagement  int
	CreatedAt   time.Time
	CollectedAt time.Time
}

// Body returns the full searchable text of a post.
func (p Post) Body() string {
	if p.Title == "" {
		return p.Text
	}
	if p.Text == "" {
		return p.Title
	}
	return p.Title + " " + p.Text
}

// Source is the interface every platform collector must implement.
type Source interface {
	Name() Platform
	Collect(ctx context.Context) ([]Post, error)
}

// AllPlatforms returns all known platforms.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformTwitter,
		PlatformReddit,
		PlatformStockTwits,
	}
}

// ParsePlatform maps a config/API string to a Platform.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformTwitter:
		return PlatformTwitter, true
	case PlatformReddit:
		return PlatformReddit, true
	case PlatformStockTwits:
		return PlatformStockTwits, true
	}
	return "", false
}
