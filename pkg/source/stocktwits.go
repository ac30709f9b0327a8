package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const stocktwitsBaseURL = "https://api.stocktwits.com/api/2"

// StockTwits collects messages from public per-symbol streams.
type StockTwits struct {
	client  *http.Client
	baseURL string
	symbols []string
}

// NewStockTwits creates a collector watching the given symbols.
func NewStockTwits(symbols []string) *StockTwits {
	return &StockTwits{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: stocktwitsBaseURL,
		symbols: symbols,
	}
}

func (s *StockTwits) Name() Platform { return PlatformStockTwits }

func (s *StockTwits) Collect(ctx context.Context) ([]Post, error) {
	var (
		mu    sync.Mutex
		posts []Post
		wg    sync.WaitGroup
		sem   = make(chan struct{}, 5) // concurrency limit
	)

	for _, symbol := range s.symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			msgs, err := s.fetchSymbol(ctx, symbol)
			if err != nil {
				return
			}

			mu.Lock()
			posts = append(posts, msgs...)
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return posts, nil
}

func (s *StockTwits) fetchSymbol(ctx context.Context, symbol string) ([]Post, error) {
	url := fmt.Sprintf("%s/streams/symbol/%s.json", s.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create stocktwits request %s: %w", symbol, err)
	}
	req.Header.Set("User-Agent", "tickerpulse/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stocktwits %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stocktwits %s status %d", symbol, resp.StatusCode)
	}

	var stream stocktwitsStream
	if err := json.NewDecoder(resp.Body).Decode(&stream); err != nil {
		return nil, fmt.Errorf("decode stocktwits %s: %w", symbol, err)
	}

	now := time.Now().UTC()
	var posts []Post
	for _, msg := range stream.Messages {
		created, err := time.Parse(time.RFC3339, msg.CreatedAt)
		if err != nil {
			created = now
		}

		posts = append(posts, Post{
			ID:          fmt.Sprintf("stocktwits:%d", msg.ID),
			Platform:    PlatformStockTwits,
			Author:      msg.User.Username,
			Text:        msg.Body,
			URL:         fmt.Sprintf("https://stocktwits.com/%s/message/%d", msg.User.Username, msg.ID),
			Engagement:  msg.Likes.Total,
			CreatedAt:   created.UTC(),
			CollectedAt: now,
		})
	}

	return posts, nil
}

type stocktwitsStream struct {
	Messages []struct {
		ID        int    `json:"id"`
		Body      string `json:"body"`
		CreatedAt string `json:"created_at"`
		User      struct {
			Username string `json:"username"`
		} `json:"user"`
		Likes struct {
			Total int `json:"total"`
		} `json:"likes"`
	} `json:"messages"`
}
