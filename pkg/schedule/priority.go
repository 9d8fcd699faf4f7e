package schedule

import (
	"fmt"
	"math"
)

// Trend-alert thresholds on the gap between the deterministic formula
// score and the remote model's prediction. A divergence past the soft
// threshold is informational context; past the hard threshold it signals
// the model and the ground survey disagree badly.
const (
	trendAlertSoft = 15.0
	trendAlertHard = 25.0
)

// TrendAlert returns a human-readable divergence note when the formula
// and model component scores disagree by more than the soft threshold,
// or "" when they agree. Either alert level earns the fixed priority
// bonus.
func TrendAlert(formulaScore, modelScore float64) string {
	gap := formulaScore - modelScore
	switch {
	case math.Abs(gap) > trendAlertHard:
		return fmt.Sprintf("model diverges sharply from survey (%+.1f points)", -gap)
	case math.Abs(gap) > trendAlertSoft:
		return fmt.Sprintf("model diverges from survey (%+.1f points)", -gap)
	default:
		return ""
	}
}

// PriorityInputs carries every signal the priority scorer weighs.
type PriorityInputs struct {
	FinalScore       float64
	OverdueDays      int
	RiskFactorCount  int
	AvgDailyTraffic  float64
	DecayRate        float64
	DistressSeverity float64
	DistressIndex    float64
	TrendAlert       bool
}

// PriorityScore combines condition, overdue time, risk, traffic, decay,
// distress, and trend signals into a single 0-100 ranking scalar, rounded
// to one decimal. Each term is individually capped so no single signal
// can dominate the ranking.
func PriorityScore(in PriorityInputs) float64 {
	score := 0.40 * (100 - in.FinalScore)
	score += math.Min(20, math.Max(0, float64(in.OverdueDays))*0.4)
	score += math.Min(10, float64(in.RiskFactorCount)*2.5)
	score += math.Min(6, in.AvgDailyTraffic/50000*6)
	score += math.Min(10, in.DecayRate*150)
	score += math.Min(10, in.DistressSeverity*0.10)
	score += math.Min(6, math.Max(0, 50-in.DistressIndex)*0.12)
	if in.TrendAlert {
		score += 8
	}

	return math.Round(math.Min(100, score)*10) / 10
}

// TierFor derives the priority tier from the final score and overdue
// state.
func TierFor(finalScore float64, overdue bool, overdueDays int) Tier {
	switch {
	case finalScore < 25 || overdueDays > 30:
		return TierCritical
	case finalScore < 45 || overdueDays > 7:
		return TierHigh
	case finalScore < 65 || overdue:
		return TierMedium
	default:
		return TierLow
	}
}
