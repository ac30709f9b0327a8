package hype

import "math"

// epsilon floors window durations (hours) and baseline velocities so the
// velocity and spike ratios never divide by zero. One sixtieth keeps
// sub-minute windows and near-silent baselines finite.
const epsilon = 1.0 / 60

// Volume tuning constants. The raw activity value is
//
//	log2(1+count) + velocity*velocityGain + (spike-1)*spikeGain
//
// floored at zero and squashed through 1-exp(-activity/activityScale).
// Each term is monotonically non-decreasing in its input, so more mentions,
// faster mentions, or a sharper spike can never lower the score.
const (
	velocityGain    = 0.25
	spikeGain       = 1.0
	activityScale   = 4.0
	platformBonus   = 0.15
	platformCeiling = 1.5
)

// VolumeScore describes mention activity for one ticker.
type VolumeScore struct {
	RawCount                int     `json:"raw_count"`
	Velocity                float64 `json:"velocity"`
	SpikeRatio              float64 `json:"spike_ratio"`
	CrossPlatformMultiplier float64 `json:"cross_platform_multiplier"`
	NormalizedScore         float64 `json:"normalized_score"`
}

// ScoreVolume turns one ticker's aggregate into a VolumeScore. Normalization
// is stateless: the score depends only on this ticker's counts, the window,
// and the optional baseline, never on other tickers in the same scan. A nil
// baseline yields a neutral spike ratio of 1. The cross-platform multiplier
// is computed here but applied by the combiner, so it does not influence
// NormalizedScore.
func ScoreVolume(agg *TickerAggregate, window TimeWindow, baseline *Baseline) VolumeScore {
	count := agg.MentionCount()

	hours := window.Hours()
	if hours < epsilon {
		hours = epsilon
	}
	velocity := float64(count) / hours

	spike := 1.0
	if baseline != nil {
		base := baseline.Velocity()
		if base < epsilon {
			base = epsilon
		}
		spike = velocity / base
	}

	extra := agg.PlatformCount() - 1
	if extra < 0 {
		extra = 0
	}
	multiplier := 1 + platformBonus*float64(extra)
	if multiplier > platformCeiling {
		multiplier = platformCeiling
	}

	activity := math.Log2(1+float64(count)) + velocity*velocityGain + (spike-1)*spikeGain
	if activity < 0 {
		activity = 0
	}

	return VolumeScore{
		RawCount:                count,
		Velocity:                velocity,
		SpikeRatio:              spike,
		CrossPlatformMultiplier: multiplier,
		NormalizedScore:         clamp01(1 - math.Exp(-activity/activityScale)),
	}
}
