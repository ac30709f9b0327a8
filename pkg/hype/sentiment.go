package hype

import (
	"math"

	"github.com/jonreiter/govader"
)

const (
	// keywordBlendWeight is the share of the lexicon signal in the per-post
	// blend; the general-purpose model fills the rest. The lexicon leads
	// because it understands finance slang the model reads as neutral.
	keywordBlendWeight = 0.7
	// confidenceSaturation is the post count at which the sample-size part
	// of confidence reaches 1.
	confidenceSaturation = 10.0
	// trendThreshold is the minimum gap between early and late mean
	// sentiment before a trend counts as moving.
	trendThreshold = 0.1
)

// Trend labels the direction of sentiment across the scan window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// SentimentScore describes the tone of one ticker's mentions.
type SentimentScore struct {
	KeywordScore    float64 `json:"keyword_score"`
	LibraryScore    float64 `json:"library_score"`
	Confidence      float64 `json:"confidence"`
	Trend           Trend   `json:"trend"`
	NormalizedScore float64 `json:"normalized_score"`
}

// SentimentScorer fuses lexicon matching with a general-purpose polarity
// model. Both signals live in [-1,1]; confidence reflects sample size and
// how much the two agree.
type SentimentScorer struct {
	lex      Lexicon
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentScorer builds a scorer around the given lexicon.
func NewSentimentScorer(lex Lexicon) *SentimentScorer {
	return &SentimentScorer{
		lex:      lex,
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score computes the sentiment result for one ticker's aggregate.
// Low confidence attenuates the normalized score toward zero contribution
// so a single outlier post cannot carry a ranking.
func (s *SentimentScorer) Score(agg *TickerAggregate) SentimentScore {
	n := agg.MentionCount()
	if n == 0 {
		return SentimentScore{Trend: TrendStable}
	}

	var kwSum, libSum float64
	blended := make([]float64, 0, n)
	for _, m := range agg.Mentions {
		text := cleanText(m.Text)
		kw := s.lex.ScoreText(text)
		lib := s.analyzer.PolarityScores(text).Compound
		kwSum += kw
		libSum += lib
		blended = append(blended, blendSentiment(kw, lib))
	}

	kwMean := kwSum / float64(n)
	libMean := libSum / float64(n)
	confidence := confidenceFor(n, kwMean, libMean)

	return SentimentScore{
		KeywordScore:    kwMean,
		LibraryScore:    libMean,
		Confidence:      confidence,
		Trend:           sentimentTrend(blended),
		NormalizedScore: normalizeSentiment(blendSentiment(kwMean, libMean), confidence),
	}
}

func blendSentiment(keyword, library float64) float64 {
	return keywordBlendWeight*keyword + (1-keywordBlendWeight)*library
}

// confidenceFor rises with sample size and falls as the two signals
// disagree. A single post with fully conflicting signals scores 0, which
// is a valid result, not an error.
func confidenceFor(posts int, kwMean, libMean float64) float64 {
	return math.Min(1, float64(posts)/confidenceSaturation) *
		(1 - math.Abs(kwMean-libMean)/2)
}

// normalizeSentiment remaps a blended sentiment from [-1,1] to [0,1] and
// scales it by confidence.
func normalizeSentiment(blend, confidence float64) float64 {
	return clamp01((blend + 1) / 2 * confidence)
}

// sentimentTrend compares the most recent half of the chronological per-post
// sentiment against the earlier half. Fewer than 2 posts is stable by
// definition.
func sentimentTrend(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	mid := len(values) / 2
	early := mean(values[:mid])
	late := mean(values[mid:])
	switch {
	case late-early > trendThreshold:
		return TrendImproving
	case early-late > trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
