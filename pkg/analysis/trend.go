package analysis

import "math"

// GrowthSentinel stands in for the growth ratio when the baseline year has
// zero births but the current year does not, signaling new or breakout growth
// without dividing by zero.
const GrowthSentinel = 10.0

// TrendDirection classifies the sign of a year-over-year change.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// GrowthRatio returns current/baseline. A zero baseline yields the sentinel
// ratio when current is positive, and 0 when both are zero.
func GrowthRatio(current, baseline int) float64 {
	if baseline > 0 {
		return float64(current) / float64(baseline)
	}
	if current > 0 {
		return GrowthSentinel
	}
	return 0
}

// PercentageChange mirrors GrowthRatio in percent terms, with +Inf as the
// zero-baseline sentinel.
func PercentageChange(current, baseline int) float64 {
	if baseline > 0 {
		return float64(current-baseline) / float64(baseline) * 100
	}
	if current > 0 {
		return math.Inf(1)
	}
	return 0
}

// Direction classifies the trend by sign comparison only, independent of
// magnitude.
func Direction(current, baseline int) TrendDirection {
	switch {
	case current > baseline:
		return TrendRising
	case current < baseline:
		return TrendFalling
	default:
		return TrendStable
	}
}
