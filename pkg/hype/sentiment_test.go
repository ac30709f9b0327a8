package hype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/tickerpulse/pkg/source"
)

func TestConfidenceFor(t *testing.T) {
	cases := []struct {
		name    string
		posts   int
		kw, lib float64
		want    float64
	}{
		// Single post with fully conflicting signals: exactly zero.
		{"max disagreement", 1, 1.0, -1.0, 0},
		{"full agreement at saturation", 10, 0.5, 0.5, 1.0},
		{"half sample mild disagreement", 5, 0.6, 0.2, 0.5 * 0.8},
		{"single post perfect agreement", 1, 0.3, 0.3, 0.1},
		{"beyond saturation caps at one", 50, -0.2, -0.2, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, confidenceFor(tc.posts, tc.kw, tc.lib), 1e-9)
		})
	}
}

func TestNormalizeSentiment(t *testing.T) {
	// Neutral blend at full confidence sits at the middle of [0,1].
	assert.InDelta(t, 0.5, normalizeSentiment(0, 1), 1e-9)
	// Fully negative blend maps to 0 regardless of confidence.
	assert.InDelta(t, 0, normalizeSentiment(-1, 1), 1e-9)
	assert.InDelta(t, 0, normalizeSentiment(-1, 0.2), 1e-9)
	// Zero confidence mutes any blend entirely.
	assert.InDelta(t, 0, normalizeSentiment(1, 0), 1e-9)
	// Reference values from the blend/confidence pipeline.
	assert.InDelta(t, 0.5896, blendSentiment(0.742, 0.234), 1e-9)
	assert.InDelta(t, 0.6541, normalizeSentiment(blendSentiment(0.742, 0.234), 0.823), 0.0001)
}

func TestSentimentTrend(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   Trend
	}{
		{"improving", []float64{-0.5, -0.5, 0.5, 0.5}, TrendImproving},
		{"declining", []float64{0.5, 0.5, -0.5, -0.5}, TrendDeclining},
		{"within threshold", []float64{0.2, 0.25}, TrendStable},
		{"single value", []float64{0.9}, TrendStable},
		{"empty", nil, TrendStable},
		// Odd counts put the extra value in the recent half.
		{"odd improving", []float64{0, 0, 1}, TrendImproving},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sentimentTrend(tc.values))
		})
	}
}

func sentimentAgg(texts ...string) *TickerAggregate {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	agg := &TickerAggregate{
		Ticker:    "TSLA",
		Platforms: map[source.Platform]bool{source.PlatformTwitter: true},
	}
	for i, text := range texts {
		agg.Mentions = append(agg.Mentions, Mention{
			Ticker:    "TSLA",
			Platform:  source.PlatformTwitter,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Text:      text,
		})
	}
	if n := len(agg.Mentions); n > 0 {
		agg.FirstSeen = agg.Mentions[0].Timestamp
		agg.LastSeen = agg.Mentions[n-1].Timestamp
	}
	return agg
}

func TestSentimentScorerBullishPosts(t *testing.T) {
	s := NewSentimentScorer(DefaultLexicon())
	agg := sentimentAgg(
		"TSLA to the moon",
		"very bullish on TSLA",
		"buy TSLA now",
	)

	got := s.Score(agg)

	// The keyword side is fully deterministic: (1.0 + 1.0 + 2/3) / 3.
	assert.InDelta(t, 8.0/9.0, got.KeywordScore, 1e-9)
	assert.GreaterOrEqual(t, got.LibraryScore, -1.0)
	assert.LessOrEqual(t, got.LibraryScore, 1.0)
	// Three posts cap the sample-size factor at 0.3.
	assert.LessOrEqual(t, got.Confidence, 0.3)
	assert.Greater(t, got.Confidence, 0.0)
	assert.GreaterOrEqual(t, got.NormalizedScore, 0.0)
	assert.LessOrEqual(t, got.NormalizedScore, 1.0)
}

func TestSentimentScorerTrendThroughPipeline(t *testing.T) {
	s := NewSentimentScorer(DefaultLexicon())

	// Early posts deeply bearish, late posts maxed bullish: the blended
	// gap stays above the trend threshold for any library reading.
	improving := sentimentAgg(
		"TSLA crash disaster dump",
		"TSLA rug scam fraud",
		"TSLA to the moon",
		"TSLA mooning, extremely bullish",
	)
	assert.Equal(t, TrendImproving, s.Score(improving).Trend)

	declining := sentimentAgg(
		"TSLA to the moon",
		"TSLA mooning, extremely bullish",
		"TSLA crash disaster dump",
		"TSLA rug scam fraud",
	)
	assert.Equal(t, TrendDeclining, s.Score(declining).Trend)
}

func TestSentimentScorerSinglePost(t *testing.T) {
	s := NewSentimentScorer(DefaultLexicon())
	got := s.Score(sentimentAgg("TSLA looking strong"))

	assert.Equal(t, TrendStable, got.Trend)
	// One post caps the sample-size factor at 1/10.
	assert.LessOrEqual(t, got.Confidence, 0.1)
}

func TestSentimentScorerEmptyAggregate(t *testing.T) {
	s := NewSentimentScorer(DefaultLexicon())
	got := s.Score(sentimentAgg())

	require.Equal(t, TrendStable, got.Trend)
	assert.Zero(t, got.KeywordScore)
	assert.Zero(t, got.LibraryScore)
	assert.Zero(t, got.Confidence)
	assert.Zero(t, got.NormalizedScore)
}

func TestSentimentScorerNeutralTextIsNeutral(t *testing.T) {
	s := NewSentimentScorer(DefaultLexicon())
	got := s.Score(sentimentAgg("the quarterly report arrived", "filing published today"))

	assert.Zero(t, got.KeywordScore)
	// With no lexicon hits the normalized score hangs on the library
	// signal alone, still inside [0,1].
	assert.GreaterOrEqual(t, got.NormalizedScore, 0.0)
	assert.LessOrEqual(t, got.NormalizedScore, 1.0)
}
