package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// Reddit collects finance posts from Reddit subreddits.
type Reddit struct {
	client       *http.Client
	authURL      string
	apiURL       string
	clientID     string
	clientSecret string
	subreddits   []string
	limit        int
	filter       *Filter
	mu           sync.Mutex
	token        string
	tokenExpiry  time.Time
}

// NewReddit creates a new Reddit collector. A nil filter keeps every post.
func NewReddit(clientID, clientSecret string, subreddits []string, limit int, filter *Filter) *Reddit {
	if len(subreddits) == 0 {
		subreddits = []string{
			"wallstreetbets", "stocks", "cryptocurrency",
			"stockmarket", "investing", "pennystocks",
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return &Reddit{
		client:       &http.Client{Timeout: 30 * time.Second},
		authURL:      "https://www.reddit.com",
		apiURL:       "https://oauth.reddit.com",
		clientID:     clientID,
		clientSecret: clientSecret,
		subreddits:   subreddits,
		limit:        limit,
		filter:       filter,
	}
}

func (r *Reddit) Name() Platform { return PlatformReddit }

func (r *Reddit) Collect(ctx context.Context) ([]Post, error) {
	if err := r.authenticate(ctx); err != nil {
		return nil, fmt.Errorf("reddit auth: %w", err)
	}

	var allPosts []Post
	for _, sub := range r.subreddits {
		posts, err := r.fetchSubreddit(ctx, sub)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  reddit r/%s error: %v\n", sub, err)
			continue
		}
		allPosts = append(allPosts, posts...)
	}

	return allPosts, nil
}

func (r *Reddit) authenticate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && time.Now().Before(r.tokenExpiry) {
		return nil
	}

	data := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.authURL+"/api/v1/access_token",
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}

	req.SetBasicAuth(r.clientID, r.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "tickerpulse/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("reddit token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit auth status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode reddit token: %w", err)
	}

	r.token = tokenResp.AccessToken
	r.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return nil
}

func (r *Reddit) fetchSubreddit(ctx context.Context, subreddit string) ([]Post, error) {
	reqURL := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.apiURL, subreddit, r.limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("User-Agent", "tickerpulse/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit r/%s status %d", subreddit, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode r/%s: %w", subreddit, err)
	}

	now := time.Now().UTC()
	var posts []Post
	for _, child := range listing.Data.Children {
		rp := child.Data
		if rp.Stickied {
			continue
		}
		if r.filter != nil && !r.filter.Relevant(rp.Title+" "+rp.Selftext) {
			continue
		}

		postURL := rp.URL
		if postURL == "" || strings.HasPrefix(postURL, "/r/") {
			postURL = "https://reddit.com" + rp.Permalink
		}

		posts = append(posts, Post{
			ID:          fmt.Sprintf("reddit:%s", rp.ID),
			Platform:    PlatformReddit,
			Author:      rp.Author,
			Title:       rp.Title,
			Text:        truncate(rp.Selftext, 2000),
			URL:         postURL,
			Engagement:  rp.Score + rp.NumComments,
			CreatedAt:   time.Unix(int64(rp.CreatedUTC), 0).UTC(),
			CollectedAt: now,
		})
	}

	return posts, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
