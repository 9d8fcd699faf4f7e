package schedule

import "math"

// Summarize aggregates a generated schedule in a single linear pass.
// An empty schedule yields all-zero finite values, never NaN.
func Summarize(entries []Entry) Summary {
	s := Summary{
		ByTier:     make(map[Tier]int),
		ByAction:   make(map[Action]int),
		ByCategory: make(map[string]int),
		ByQuarter:  make(map[string]int),
		ByAgency:   make(map[string]int),
	}

	var decaySum, scoreSum float64
	for i := range entries {
		e := &entries[i]
		s.Total++

		switch {
		case e.Overdue:
			s.Overdue++
		case e.DaysUntilDue <= 7:
			s.DueThisWeek++
			s.DueSoon++
		case e.DaysUntilDue <= 30:
			s.DueSoon++
		}

		s.ByTier[e.Tier]++
		s.ByAction[e.Action]++
		s.ByCategory[e.Score.Category]++
		s.ByQuarter[e.Quarter]++
		s.ByAgency[e.Agency]++

		s.TotalEstimatedCost += e.EstimatedCost
		decaySum += e.DecayRate
		scoreSum += e.Score.FinalScore
	}

	if s.Total > 0 {
		n := float64(s.Total)
		s.AvgDecayRate = math.Round(decaySum/n*1000) / 1000
		s.AvgScore = math.Round(scoreSum/n*10) / 10
	}

	return s
}
