package schedule_test

import (
	"strings"
	"testing"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name string
		in   schedule.PriorityInputs
		want float64
	}{
		{
			name: "all signals zero on a perfect road",
			in:   schedule.PriorityInputs{FinalScore: 100, DistressIndex: 50},
			want: 0,
		},
		{
			// 24 + 4 + 5 + 3 + 3 + 3 + 0 + 8
			name: "mixed signals",
			in: schedule.PriorityInputs{
				FinalScore:       40,
				OverdueDays:      10,
				RiskFactorCount:  2,
				AvgDailyTraffic:  25000,
				DecayRate:        0.02,
				DistressSeverity: 30,
				DistressIndex:    60,
				TrendAlert:       true,
			},
			want: 50,
		},
		{
			name: "every term capped",
			in: schedule.PriorityInputs{
				FinalScore:       0,
				OverdueDays:      365,
				RiskFactorCount:  15,
				AvgDailyTraffic:  90000,
				DecayRate:        1,
				DistressSeverity: 100,
				DistressIndex:    0,
				TrendAlert:       true,
			},
			want: 100, // 40+20+10+6+10+10+6+8 exceeds the cap
		},
		{
			// 0.40*60 = 24, plus the distress-index term:
			// min(6, (50-20)*0.12) = 3.6
			name: "low distress index earns the masked damage bump",
			in: schedule.PriorityInputs{
				FinalScore:    40,
				DistressIndex: 20,
			},
			want: 27.6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.PriorityScore(tt.in); got != tt.want {
				t.Errorf("PriorityScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrendAlert(t *testing.T) {
	tests := []struct {
		formula, model float64
		wantEmpty      bool
		wantSharp      bool
	}{
		{70, 60, true, false},  // within tolerance
		{80, 60, false, false}, // gap 20
		{90, 60, false, true},  // gap 30
		{60, 80, false, false}, // model above survey
		{60, 95, false, true},
		{70, 55, true, false}, // exactly at the soft threshold
	}
	for _, tt := range tests {
		got := schedule.TrendAlert(tt.formula, tt.model)
		if (got == "") != tt.wantEmpty {
			t.Errorf("TrendAlert(%v, %v) = %q, wantEmpty %v", tt.formula, tt.model, got, tt.wantEmpty)
			continue
		}
		if got != "" && strings.Contains(got, "sharply") != tt.wantSharp {
			t.Errorf("TrendAlert(%v, %v) = %q, wantSharp %v", tt.formula, tt.model, got, tt.wantSharp)
		}
	}
}

func TestTrendAlertSign(t *testing.T) {
	// The note reports the model's offset relative to the survey.
	if got := schedule.TrendAlert(80, 60); !strings.Contains(got, "-20.0") {
		t.Errorf("TrendAlert(80, 60) = %q, want a -20.0 offset", got)
	}
	if got := schedule.TrendAlert(60, 80); !strings.Contains(got, "+20.0") {
		t.Errorf("TrendAlert(60, 80) = %q, want a +20.0 offset", got)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score       float64
		overdue     bool
		overdueDays int
		want        schedule.Tier
	}{
		{20, false, 0, schedule.TierCritical},
		{70, true, 31, schedule.TierCritical},
		{30, false, 0, schedule.TierHigh},
		{70, true, 8, schedule.TierHigh},
		{50, false, 0, schedule.TierMedium},
		{70, true, 3, schedule.TierMedium},
		{70, false, 0, schedule.TierLow},
		{90, false, 0, schedule.TierLow},
	}
	for _, tt := range tests {
		got := schedule.TierFor(tt.score, tt.overdue, tt.overdueDays)
		if got != tt.want {
			t.Errorf("TierFor(%v, %v, %d) = %q, want %q",
				tt.score, tt.overdue, tt.overdueDays, got, tt.want)
		}
	}
}
