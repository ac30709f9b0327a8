package hype

import (
	"fmt"
	"math"
)

const (
	// recencyGain caps the recency boost at +25% for activity ending right
	// at scan end.
	recencyGain = 0.25
	// recencyDecayHours is the e-folding time of the boost.
	recencyDecayHours = 12.0
)

// Weights balance the volume and sentiment signals. They need not sum to 1;
// the combiner normalizes by their sum.
type Weights struct {
	Volume    float64
	Sentiment float64
}

// Modifiers are the post-blend score adjustments.
type Modifiers struct {
	RecencyBoost       bool
	CrossPlatformBonus bool
}

// Combine fuses volume and sentiment into the final hype score in [0,1].
// hoursSinceLastSeen is scan end minus the ticker's latest mention and
// drives the recency boost. The cross-platform bonus applies the multiplier
// the volume scorer computed; this is the multiplier's only application
// point. Both weights non-positive is a configuration error; a single
// negative weight is treated as zero. Same inputs always produce the same
// score.
func Combine(vol VolumeScore, sent SentimentScore, hoursSinceLastSeen float64, w Weights, mods Modifiers) (float64, error) {
	if w.Volume <= 0 && w.Sentiment <= 0 {
		return 0, fmt.Errorf("%w: volume and sentiment weights are both non-positive", ErrConfig)
	}

	wv := math.Max(w.Volume, 0)
	ws := math.Max(w.Sentiment, 0)
	score := (vol.NormalizedScore*wv + sent.NormalizedScore*ws) / (wv + ws)

	if mods.RecencyBoost {
		score *= recencyFactor(hoursSinceLastSeen)
	}
	if mods.CrossPlatformBonus {
		score *= vol.CrossPlatformMultiplier
	}

	return clamp01(score), nil
}

// recencyFactor returns a multiplier in (1, 1+recencyGain] that decays
// toward 1 as activity ages. Stale tickers are never pushed below their
// base score.
func recencyFactor(hoursSince float64) float64 {
	if hoursSince < 0 {
		hoursSince = 0
	}
	return 1 + recencyGain*math.Exp(-hoursSince/recencyDecayHours)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
