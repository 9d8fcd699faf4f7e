package schedule

import (
	"math"
	"sort"

	"github.com/roadpulse/roadpulse/pkg/road"
)

// Trend thresholds: the second-half decay rate relative to the first half.
const (
	acceleratingRatio = 1.3
	improvingRatio    = 0.7
)

// AnalyzeDecay derives the decay rate (score points lost per day) and a
// trend classification from a segment's inspection history. With fewer
// than two records the rate is zero and the trend stable. Improving
// segments (rising scores) clamp to a zero rate rather than going
// negative.
func AnalyzeDecay(history road.History) DecayStats {
	if len(history) < 2 {
		return DecayStats{RatePerDay: 0, Trend: TrendStable}
	}

	sorted := make(road.History, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	rate := decayRate(sorted[0].ConditionScore, sorted[len(sorted)-1].ConditionScore,
		daysBetween(sorted[0], sorted[len(sorted)-1]))

	trend := TrendStable
	if len(sorted) >= 3 {
		mid := len(sorted) / 2
		firstHalf := decayRate(sorted[0].ConditionScore, sorted[mid].ConditionScore,
			daysBetween(sorted[0], sorted[mid]))
		secondHalf := decayRate(sorted[mid].ConditionScore, sorted[len(sorted)-1].ConditionScore,
			daysBetween(sorted[mid], sorted[len(sorted)-1]))

		switch {
		case firstHalf == 0 && secondHalf == 0:
			// Flat history in both halves carries no trend signal.
		case secondHalf >= firstHalf*acceleratingRatio && secondHalf > 0:
			trend = TrendAccelerating
		case secondHalf <= firstHalf*improvingRatio:
			trend = TrendImproving
		}
	}

	return DecayStats{RatePerDay: rate, Trend: trend}
}

func decayRate(earliest, latest, days float64) float64 {
	if days <= 0 {
		return 0
	}
	return math.Max(0, (earliest-latest)/days)
}

func daysBetween(a, b road.Inspection) float64 {
	return b.Date.Sub(a.Date).Hours() / 24
}
