package schedule

// Jurisdiction values as they appear in ingested segment records.
const (
	JurisdictionNHAI  = "NHAI"
	JurisdictionMSRDC = "MSRDC"
	JurisdictionPWD   = "State PWD"
	JurisdictionZP    = "ZP"
)

// stateAuthority is the fallback owner for anything not under a national
// or special-purpose authority.
const stateAuthority = "State PWD"

// AssignAgency maps a classified action and the segment's jurisdiction to
// the responsible agency. Emergency work routes to the jurisdiction's
// emergency unit; priority structural repair stays with the standard
// authority; everything else routes by jurisdiction with a state fallback.
func AssignAgency(action Action, jurisdiction string) string {
	switch action {
	case ActionEmergencyReconstruction, ActionEmergencyOverlay:
		if jurisdiction == JurisdictionNHAI {
			return "NHAI Emergency Cell"
		}
		return "State Emergency Response Unit"
	case ActionPriorityStructural:
		if jurisdiction == JurisdictionNHAI {
			return "NHAI"
		}
		return stateAuthority
	}

	switch jurisdiction {
	case JurisdictionNHAI:
		return "NHAI"
	case JurisdictionMSRDC:
		return "MSRDC"
	case JurisdictionPWD:
		return "State PWD"
	case JurisdictionZP:
		return "Zilla Parishad"
	default:
		return stateAuthority
	}
}
