package schedule_test

import (
	"testing"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

func TestClassifyAction(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		distress float64
		highRisk bool
		want     schedule.Action
	}{
		{"failed pavement", 10, 90, false, schedule.ActionEmergencyReconstruction},
		{"very poor", 20, 80, false, schedule.ActionEmergencyOverlay},
		{"poor with heavy distress", 30, 45, false, schedule.ActionEmergencyOverlay},
		{"poor with light distress", 30, 30, false, schedule.ActionPriorityStructural},
		{"weak with heavy distress", 40, 30, false, schedule.ActionPriorityStructural},
		{"weak with light distress", 40, 20, false, schedule.ActionStructuralOverlay},
		{"marginal exposed", 50, 50, true, schedule.ActionStructuralOverlay},
		{"marginal sheltered", 50, 50, false, schedule.ActionMajorRepair},
		{"fair exposed", 60, 40, true, schedule.ActionPreventiveRisk},
		{"fair sheltered", 60, 40, false, schedule.ActionPreventive},
		{"good but distressed", 70, 75, false, schedule.ActionPreventive},
		{"good", 70, 30, false, schedule.ActionRoutinePatching},
		{"very good", 80, 20, false, schedule.ActionRoutinePatching},
		{"excellent", 92, 8, false, schedule.ActionMonitoringOnly},
		{"boundary 88", 88, 12, false, schedule.ActionMonitoringOnly},
		{"boundary 15", 15, 85, false, schedule.ActionEmergencyOverlay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.ClassifyAction(tt.score, tt.distress, tt.highRisk)
			if got != tt.want {
				t.Errorf("ClassifyAction(%v, %v, %v) = %q, want %q",
					tt.score, tt.distress, tt.highRisk, got, tt.want)
			}
		})
	}
}

func TestClassifyActionMonotonic(t *testing.T) {
	// A better score never yields a more severe action when the distress
	// index tracks the score.
	for _, highRisk := range []bool{false, true} {
		prev := -1
		for score := 0.0; score <= 100; score += 0.5 {
			action := schedule.ClassifyAction(score, 100-score, highRisk)
			rank := schedule.SeverityRank(action)
			if rank < prev {
				t.Fatalf("severity regressed at score %v (highRisk=%v): rank %d < %d (%q)",
					score, highRisk, rank, prev, action)
			}
			prev = rank
		}
	}
}

func TestSeverityRankCoversAllActions(t *testing.T) {
	actions := []schedule.Action{
		schedule.ActionEmergencyReconstruction,
		schedule.ActionEmergencyOverlay,
		schedule.ActionPriorityStructural,
		schedule.ActionStructuralOverlay,
		schedule.ActionMajorRepair,
		schedule.ActionPreventiveRisk,
		schedule.ActionPreventive,
		schedule.ActionRoutinePatching,
		schedule.ActionMonitoringOnly,
	}
	for i, a := range actions {
		if got := schedule.SeverityRank(a); got != i {
			t.Errorf("SeverityRank(%q) = %d, want %d", a, got, i)
		}
	}
}
