package hype

import "fmt"

// Config is the immutable scoring configuration. Zero values are legal
// where documented; use DefaultConfig for the stock tuning.
type Config struct {
	VolumeWeight           float64
	SentimentWeight        float64
	MinMentions            int
	TopN                   int
	RecencyBoost           bool
	CrossPlatformBonus     bool
	MinSentimentConfidence float64
}

// DefaultConfig returns the stock scoring configuration.
func DefaultConfig() Config {
	return Config{
		VolumeWeight:           0.7,
		SentimentWeight:        0.3,
		MinMentions:            5,
		TopN:                   20,
		RecencyBoost:           true,
		CrossPlatformBonus:     true,
		MinSentimentConfidence: 0.1,
	}
}

// Validate rejects configurations the pipeline cannot score with.
func (c Config) Validate() error {
	if c.VolumeWeight <= 0 && c.SentimentWeight <= 0 {
		return fmt.Errorf("%w: volume and sentiment weights are both non-positive", ErrConfig)
	}
	if c.VolumeWeight < 0 || c.SentimentWeight < 0 {
		return fmt.Errorf("%w: scoring weights must be non-negative", ErrConfig)
	}
	if c.MinMentions < 0 {
		return fmt.Errorf("%w: min mentions must be non-negative", ErrConfig)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: top n must be non-negative", ErrConfig)
	}
	if c.MinSentimentConfidence < 0 || c.MinSentimentConfidence > 1 {
		return fmt.Errorf("%w: min sentiment confidence outside [0,1]", ErrConfig)
	}
	return nil
}

// Engine runs the full scoring pipeline for one scan snapshot: aggregate,
// score volume and sentiment per ticker, combine, rank. It performs no I/O
// and holds no cross-scan state.
type Engine struct {
	cfg       Config
	sentiment *SentimentScorer
}

// NewEngine builds an engine around a validated configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		sentiment: NewSentimentScorer(DefaultLexicon()),
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Score runs one scan's mentions through the pipeline and returns the
// ranked results. Baselines are read-only prior-window observations keyed
// by ticker; a missing baseline disables spike detection for that ticker.
// Tickers whose sentiment confidence falls below the configured floor are
// dropped before ranking.
func (e *Engine) Score(mentions []Mention, window TimeWindow, baselines map[string]Baseline) ([]Result, error) {
	aggs, err := Aggregate(mentions, window.End)
	if err != nil {
		return nil, err
	}

	weights := Weights{Volume: e.cfg.VolumeWeight, Sentiment: e.cfg.SentimentWeight}
	mods := Modifiers{
		RecencyBoost:       e.cfg.RecencyBoost,
		CrossPlatformBonus: e.cfg.CrossPlatformBonus,
	}

	results := make([]Result, 0, len(aggs))
	for _, agg := range aggs {
		var baseline *Baseline
		if b, ok := baselines[agg.Ticker]; ok {
			baseline = &b
		}

		vol := ScoreVolume(agg, window, baseline)
		sent := e.sentiment.Score(agg)
		if sent.Confidence < e.cfg.MinSentimentConfidence {
			continue
		}

		hoursSince := window.End.Sub(agg.LastSeen).Hours()
		score, err := Combine(vol, sent, hoursSince, weights, mods)
		if err != nil {
			return nil, err
		}

		results = append(results, Result{
			Ticker:       agg.Ticker,
			HypeScore:    score,
			Volume:       vol,
			Sentiment:    sent,
			MentionCount: agg.MentionCount(),
			Platforms:    agg.PlatformNames(),
		})
	}

	return Rank(results, e.cfg.MinMentions, e.cfg.TopN), nil
}
