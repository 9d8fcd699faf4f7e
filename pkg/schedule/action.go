package schedule

// severityRank orders actions worst (0) to best for monotonicity checks
// and display sorting.
var severityRank = map[Action]int{
	ActionEmergencyReconstruction: 0,
	ActionEmergencyOverlay:        1,
	ActionPriorityStructural:      2,
	ActionStructuralOverlay:       3,
	ActionMajorRepair:             4,
	ActionPreventiveRisk:          5,
	ActionPreventive:              6,
	ActionRoutinePatching:         7,
	ActionMonitoringOnly:          8,
}

// SeverityRank returns the action's position in the worst-to-best
// ordering; lower is more severe.
func SeverityRank(a Action) int {
	return severityRank[a]
}

// ClassifyAction maps a final condition score, its distress index, and the
// segment's high-risk exposure (flood, landslide, or ghat section) to a
// discrete maintenance action. Bands are ordered and non-overlapping;
// within a band the distress index or risk exposure picks between the two
// candidate remediations.
func ClassifyAction(finalScore, distressIndex float64, highRisk bool) Action {
	switch {
	case finalScore < 15:
		return ActionEmergencyReconstruction
	case finalScore < 25:
		return ActionEmergencyOverlay
	case finalScore < 35:
		if distressIndex > 40 {
			return ActionEmergencyOverlay
		}
		return ActionPriorityStructural
	case finalScore < 45:
		if distressIndex > 25 {
			return ActionPriorityStructural
		}
		return ActionStructuralOverlay
	case finalScore < 55:
		if highRisk {
			return ActionStructuralOverlay
		}
		return ActionMajorRepair
	case finalScore < 65:
		if highRisk {
			return ActionPreventiveRisk
		}
		return ActionPreventive
	case finalScore < 75:
		if distressIndex > 70 {
			return ActionPreventive
		}
		return ActionRoutinePatching
	case finalScore < 88:
		return ActionRoutinePatching
	default:
		return ActionMonitoringOnly
	}
}
