package schedule_test

import (
	"testing"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

func TestAssignAgency(t *testing.T) {
	tests := []struct {
		action       schedule.Action
		jurisdiction string
		want         string
	}{
		{schedule.ActionEmergencyReconstruction, "NHAI", "NHAI Emergency Cell"},
		{schedule.ActionEmergencyOverlay, "NHAI", "NHAI Emergency Cell"},
		{schedule.ActionEmergencyOverlay, "MSRDC", "State Emergency Response Unit"},
		{schedule.ActionPriorityStructural, "NHAI", "NHAI"},
		{schedule.ActionPriorityStructural, "ZP", "State PWD"},
		{schedule.ActionMajorRepair, "NHAI", "NHAI"},
		{schedule.ActionMajorRepair, "MSRDC", "MSRDC"},
		{schedule.ActionRoutinePatching, "ZP", "Zilla Parishad"},
		{schedule.ActionMonitoringOnly, "State PWD", "State PWD"},
		{schedule.ActionPreventive, "", "State PWD"}, // unknown jurisdiction
	}
	for _, tt := range tests {
		got := schedule.AssignAgency(tt.action, tt.jurisdiction)
		if got != tt.want {
			t.Errorf("AssignAgency(%q, %q) = %q, want %q", tt.action, tt.jurisdiction, got, tt.want)
		}
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		action   schedule.Action
		lengthKm float64
		want     float64
	}{
		{schedule.ActionEmergencyReconstruction, 2, 50000},
		{schedule.ActionMajorRepair, 5, 35000},
		{schedule.ActionMonitoringOnly, 10, 2000},
		{schedule.ActionRoutinePatching, 0, 1500}, // zero length costed as one km
		{schedule.ActionStructuralOverlay, 1.5, 14250},
	}
	for _, tt := range tests {
		got := schedule.EstimateCost(tt.action, tt.lengthKm)
		if got != tt.want {
			t.Errorf("EstimateCost(%q, %v) = %v, want %v", tt.action, tt.lengthKm, got, tt.want)
		}
	}
}
