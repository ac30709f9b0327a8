package hype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedResult(ticker string, hype float64, mentions int) Result {
	return Result{
		Ticker:       ticker,
		HypeScore:    hype,
		MentionCount: mentions,
		Volume:       VolumeScore{RawCount: mentions, NormalizedScore: hype},
	}
}

func TestRankOrdersByHypeScore(t *testing.T) {
	in := []Result{
		rankedResult("AAPL", 0.42, 10),
		rankedResult("GME", 0.91, 30),
		rankedResult("TSLA", 0.77, 20),
	}

	got := Rank(in, 1, 10)
	require.Len(t, got, 3)
	assert.Equal(t, "GME", got[0].Ticker)
	assert.Equal(t, "TSLA", got[1].Ticker)
	assert.Equal(t, "AAPL", got[2].Ticker)
	for i, r := range got {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRankFiltersBelowMinMentions(t *testing.T) {
	in := []Result{
		rankedResult("GME", 0.9, 12),
		rankedResult("TSLA", 0.8, 5),
		rankedResult("AMC", 0.95, 4), // loudest score, too few mentions
	}

	got := Rank(in, 5, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "GME", got[0].Ticker)
	assert.Equal(t, "TSLA", got[1].Ticker) // boundary count survives
}

func TestRankDropsZeroMentionTickers(t *testing.T) {
	in := []Result{
		rankedResult("GME", 0.9, 3),
		rankedResult("GHOST", 0.99, 0),
	}

	got := Rank(in, 1, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "GME", got[0].Ticker)
}

func TestRankTruncatesToTopN(t *testing.T) {
	in := make([]Result, 0, 8)
	tickers := []string{"GME", "TSLA", "NVDA", "AAPL", "AMC", "BTC", "ETH", "DOGE"}
	for i, tk := range tickers {
		in = append(in, rankedResult(tk, 0.9-0.1*float64(i), 10))
	}

	got := Rank(in, 1, 5)
	require.Len(t, got, 5)
	for i, r := range got {
		assert.Equal(t, tickers[i], r.Ticker)
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRankFiltersBeforeTruncating(t *testing.T) {
	in := []Result{
		rankedResult("THIN", 0.99, 2),
		rankedResult("GME", 0.8, 10),
		rankedResult("TSLA", 0.7, 10),
	}

	got := Rank(in, 5, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "GME", got[0].Ticker)
	assert.Equal(t, "TSLA", got[1].Ticker)
}

func TestRankNonPositiveTopN(t *testing.T) {
	in := []Result{rankedResult("GME", 0.9, 10)}
	assert.Empty(t, Rank(in, 1, 0))
	assert.Empty(t, Rank(in, 1, -3))
}

func TestRankTieBreaking(t *testing.T) {
	a := rankedResult("NVDA", 0.5, 10)
	a.Volume.NormalizedScore = 0.9
	b := rankedResult("AAPL", 0.5, 10)
	b.Volume.NormalizedScore = 0.9
	c := rankedResult("MSFT", 0.5, 12) // more mentions wins the tie
	c.Volume.NormalizedScore = 0.1
	d := rankedResult("TSLA", 0.5, 10)
	d.Volume.NormalizedScore = 0.8
	e := rankedResult("GME", 0.6, 1) // raw score still dominates

	got := Rank([]Result{a, b, c, d, e}, 1, 10)
	require.Len(t, got, 5)
	want := []string{"GME", "MSFT", "AAPL", "NVDA", "TSLA"}
	for i, tk := range want {
		assert.Equal(t, tk, got[i].Ticker, "position %d", i)
	}
}

func TestRankLeavesInputUntouched(t *testing.T) {
	in := []Result{
		rankedResult("AAPL", 0.1, 10),
		rankedResult("GME", 0.9, 10),
	}
	snapshot := append([]Result(nil), in...)

	_ = Rank(in, 1, 10)
	assert.Equal(t, snapshot, in)
}

func TestSummarize(t *testing.T) {
	got := Summarize(nil)
	assert.Equal(t, Summary{}, got)

	ranked := Rank([]Result{
		rankedResult("GME", 0.9, 30),
		rankedResult("TSLA", 0.7, 10),
		rankedResult("AAPL", 0.5, 20),
	}, 1, 10)

	sum := Summarize(ranked)
	assert.Equal(t, 3, sum.TickersAnalyzed)
	assert.Equal(t, 60, sum.TotalMentions)
	assert.InDelta(t, 0.7, sum.AverageHypeScore, 1e-9)
	assert.Equal(t, "GME", sum.TopTicker)
}
