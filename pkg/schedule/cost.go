package schedule

import "math"

// costPerKm is the indicative remediation cost per kilometre for each
// action, in thousands of rupees, following departmental work-order
// costing norms.
var costPerKm = map[Action]float64{
	ActionEmergencyReconstruction: 25000,
	ActionEmergencyOverlay:        18000,
	ActionPriorityStructural:      12000,
	ActionStructuralOverlay:       9500,
	ActionMajorRepair:             7000,
	ActionPreventiveRisk:          4500,
	ActionPreventive:              3000,
	ActionRoutinePatching:         1500,
	ActionMonitoringOnly:          200,
}

// EstimateCost returns the indicative cost of the given action over the
// segment length. Zero-length segments are costed as one kilometre so that
// incomplete survey data still produces a usable planning figure.
func EstimateCost(action Action, lengthKm float64) float64 {
	if lengthKm <= 0 {
		lengthKm = 1
	}
	return math.Round(costPerKm[action] * lengthKm)
}
