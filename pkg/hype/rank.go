package hype

import (
	"sort"

	"github.com/elonfeng/tickerpulse/pkg/source"
)

// Result is one ranked ticker. It carries the full volume and sentiment
// breakdowns so explanation output never needs recomputation.
type Result struct {
	Ticker       string            `json:"ticker"`
	HypeScore    float64           `json:"hype_score"`
	Volume       VolumeScore       `json:"volume"`
	Sentiment    SentimentScore    `json:"sentiment"`
	MentionCount int               `json:"mentions"`
	Platforms    []source.Platform `json:"platforms"`
	Rank         int               `json:"rank"`
}

// Rank filters, orders, truncates, and numbers scored tickers. Output order
// is total: descending hype score, then descending mention count, then
// descending volume score, then ascending symbol. topN of zero or less
// yields an empty sequence.
func Rank(results []Result, minMentions, topN int) []Result {
	if topN <= 0 {
		return nil
	}

	ranked := make([]Result, 0, len(results))
	for _, r := range results {
		if r.MentionCount < minMentions {
			continue
		}
		ranked = append(ranked, r)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.HypeScore != b.HypeScore {
			return a.HypeScore > b.HypeScore
		}
		if a.MentionCount != b.MentionCount {
			return a.MentionCount > b.MentionCount
		}
		if a.Volume.NormalizedScore != b.Volume.NormalizedScore {
			return a.Volume.NormalizedScore > b.Volume.NormalizedScore
		}
		return a.Ticker < b.Ticker
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Summary aggregates one scan's ranked output.
type Summary struct {
	TickersAnalyzed  int     `json:"tickers_analyzed"`
	TotalMentions    int     `json:"total_mentions"`
	AverageHypeScore float64 `json:"average_hype_score"`
	TopTicker        string  `json:"top_ticker"`
}

// Summarize derives headline stats from a ranked result sequence.
func Summarize(results []Result) Summary {
	s := Summary{TickersAnalyzed: len(results)}
	if len(results) == 0 {
		return s
	}

	var total float64
	for _, r := range results {
		s.TotalMentions += r.MentionCount
		total += r.HypeScore
	}
	s.AverageHypeScore = total / float64(len(results))
	s.TopTicker = results[0].Ticker
	return s
}
