package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// minIntervalDays is the hard floor on an adjusted inspection interval.
const minIntervalDays = 3

// monsoonFloor is the lowest the compounded monsoon multiplier can go.
const monsoonFloor = 0.3

// Generator produces a prioritized inspection schedule from scored
// segments and their histories. The computation is pure: given the same
// inputs and reference date it always produces the same schedule.
type Generator struct {
	// MonsoonMode shortens intervals for rain, flood, landslide, ghat,
	// and coastal exposed segments while the monsoon policy is active.
	MonsoonMode bool
}

// BaseIntervalDays returns the nominal inspection interval for a final
// condition score.
func BaseIntervalDays(score float64) int {
	switch {
	case score <= 20:
		return 7
	case score <= 30:
		return 14
	case score <= 40:
		return 21
	case score <= 50:
		return 30
	case score <= 60:
		return 45
	case score <= 70:
		return 60
	case score <= 80:
		return 90
	case score <= 90:
		return 180
	default:
		return 365
	}
}

// Generate builds one schedule entry per segment and returns the
// collection sorted descending by priority score (stable: ties keep input
// order). scores must be index-aligned with segs; histories is keyed by
// segment ID. today is the injectable reference date for all due-date
// arithmetic.
func (g *Generator) Generate(segs []road.Segment, scores []scoring.HealthScore, histories map[string]road.History, today time.Time) []Entry {
	entries := make([]Entry, 0, len(segs))
	for i := range segs {
		entries = append(entries, g.buildEntry(&segs[i], scores[i], histories[segs[i].ID], today))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PriorityScore > entries[j].PriorityScore
	})
	return entries
}

func (g *Generator) buildEntry(seg *road.Segment, hs scoring.HealthScore, history road.History, today time.Time) Entry {
	tags, riskMult := RiskFactors(seg, hs.FinalScore, today)
	decay := AnalyzeDecay(history)
	severity := scoring.DistressSeverity(seg.Distress)

	base := BaseIntervalDays(hs.FinalScore)
	monsoonMult := g.monsoonMultiplier(seg)
	adjusted := int(math.Round(float64(base) * riskMult * monsoonMult * decayMultiplier(decay.RatePerDay)))
	if adjusted < minIntervalDays {
		adjusted = minIntervalDays
	}

	last := history.Latest()
	var nextDue time.Time
	if last != nil {
		nextDue = last.Date.AddDate(0, 0, adjusted)
	} else {
		// Never-inspected segments are fast-tracked: half the nominal
		// interval, at least one day out.
		lead := int(math.Round(float64(base) * 0.5 * riskMult * monsoonMult))
		if lead < 1 {
			lead = 1
		}
		nextDue = today.AddDate(0, 0, lead)
	}

	daysUntilDue := int(math.Round(nextDue.Sub(today).Hours() / 24))
	overdue := daysUntilDue < 0
	overdueDays := 0
	if overdue {
		overdueDays = -daysUntilDue
	}

	highRisk := seg.FloodProne || seg.LandslideProne || seg.GhatSection
	action := ClassifyAction(hs.FinalScore, hs.DistressIndex, highRisk)
	alert := TrendAlert(hs.FormulaScore, hs.ModelScore)

	priority := PriorityScore(PriorityInputs{
		FinalScore:       hs.FinalScore,
		OverdueDays:      overdueDays,
		RiskFactorCount:  len(tags),
		AvgDailyTraffic:  seg.AvgDailyTraffic,
		DecayRate:        decay.RatePerDay,
		DistressSeverity: severity,
		DistressIndex:    hs.DistressIndex,
		TrendAlert:       alert != "",
	})

	return Entry{
		SegmentID: seg.ID,
		Name:      seg.Name,
		District:  seg.District,
		Score:     hs,

		LastInspection: last,

		BaseIntervalDays:     base,
		AdjustedIntervalDays: adjusted,
		NextDue:              nextDue,
		DaysUntilDue:         daysUntilDue,
		Overdue:              overdue,
		OverdueDays:          overdueDays,

		Tier:          TierFor(hs.FinalScore, overdue, overdueDays),
		PriorityScore: priority,

		Action: action,
		Agency: AssignAgency(action, seg.Jurisdiction),

		RiskFactors:    tags,
		RiskMultiplier: riskMult,

		DecayRate:        decay.RatePerDay,
		Trend:            decay.Trend,
		TrendAlert:       alert,
		DistressSeverity: severity,

		EstimatedCost: EstimateCost(action, seg.LengthKm),
		Quarter:       QuarterLabel(nextDue),
	}
}

// monsoonMultiplier compounds the exposure deratings while monsoon mode
// is active. Outside monsoon mode it is always 1.
func (g *Generator) monsoonMultiplier(seg *road.Segment) float64 {
	if !g.MonsoonMode {
		return 1
	}

	mult := 1.0
	if normalized(seg.RainfallClass) == "high" {
		mult *= 0.65
	}
	if seg.FloodProne {
		mult *= 0.75
	}
	if seg.LandslideProne {
		mult *= 0.7
	}
	if seg.GhatSection {
		mult *= 0.75
	}
	if seg.CoastalArea {
		mult *= 0.85
	}
	if mult < monsoonFloor {
		mult = monsoonFloor
	}
	return mult
}

func decayMultiplier(ratePerDay float64) float64 {
	switch {
	case ratePerDay > 0.08:
		return 0.7
	case ratePerDay > 0.04:
		return 0.85
	default:
		return 1
	}
}

// QuarterLabel formats a date as a calendar-quarter label like "Q3-2026".
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("Q%d-%d", (int(t.Month())-1)/3+1, t.Year())
}
