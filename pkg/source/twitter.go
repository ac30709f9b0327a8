package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Twitter collects tweets via Nitter RSS feeds: account timelines plus
// cashtag search feeds.
type Twitter struct {
	client    *http.Client
	parser    *gofeed.Parser
	nitterURL string
	accounts  []string
	queries   []string
	maxAge    time.Duration
	filter    *Filter
}

// NewTwitter creates a new Twitter/X collector using Nitter RSS.
// Queries are raw search terms, typically cashtags like "$TSLA".
func NewTwitter(nitterURL string, accounts, queries []string, maxAge time.Duration, filter *Filter) *Twitter {
	if nitterURL == "" {
		nitterURL = "https://nitter.net"
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Twitter{
		client:    &http.Client{Timeout: 30 * time.Second},
		parser:    gofeed.NewParser(),
		nitterURL: strings.TrimRight(nitterURL, "/"),
		accounts:  accounts,
		queries:   queries,
		maxAge:    maxAge,
		filter:    filter,
	}
}

func (t *Twitter) Name() Platform { return PlatformTwitter }

func (t *Twitter) Collect(ctx context.Context) ([]Post, error) {
	var allPosts []Post

	for _, account := range t.accounts {
		feedURL := fmt.Sprintf("%s/%s/rss", t.nitterURL, account)
		posts, err := t.collectFeed(ctx, feedURL, account, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  twitter @%s error: %v\n", account, err)
			continue
		}
		allPosts = append(allPosts, posts...)
	}

	for _, query := range t.queries {
		feedURL := fmt.Sprintf("%s/search/rss?f=tweets&q=%s", t.nitterURL, url.QueryEscape(query))
		posts, err := t.collectFeed(ctx, feedURL, "", false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  twitter search %q error: %v\n", query, err)
			continue
		}
		allPosts = append(allPosts, posts...)
	}

	return allPosts, nil
}

// collectFeed fetches one Nitter RSS feed. Account timelines run through the
// relevance filter; search feeds are already scoped by their query.
func (t *Twitter) collectFeed(ctx context.Context, feedURL, account string, filtered bool) ([]Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create twitter request: %w", err)
	}
	req.Header.Set("User-Agent", "tickerpulse/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch twitter feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter feed status %d", resp.StatusCode)
	}

	feed, err := t.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse twitter feed: %w", err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(-t.maxAge)
	var posts []Post

	for _, entry := range feed.Items {
		published := now
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		}

		if published.Before(cutoff) {
			continue
		}

		text := entry.Title
		if filtered && t.filter != nil && !t.filter.Relevant(text) {
			continue
		}

		author := account
		if author == "" && entry.Author != nil {
			author = strings.TrimPrefix(entry.Author.Name, "@")
		}

		link := entry.Link
		// Convert nitter link back to twitter.
		link = strings.Replace(link, t.nitterURL, "https://x.com", 1)

		posts = append(posts, Post{
			ID:          fmt.Sprintf("twitter:%s", entry.GUID),
			Platform:    PlatformTwitter,
			Author:      author,
			Text:        truncate(text, 500),
			URL:         link,
			Engagement:  0,
			CreatedAt:   published,
			CollectedAt: now,
		})
	}

	return posts, nil
}
