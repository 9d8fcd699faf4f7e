package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/roadpulse/roadpulse/pkg/road"
)

// DesignLifeYears returns the expected pavement design life for a surface
// type. The input must already be normalized (see NormalizeSurface).
func DesignLifeYears(surface string) float64 {
	switch surface {
	case "concrete":
		return 30
	case "bitumen":
		return 20
	case "gravel":
		return 12
	case "earthen":
		return 8
	default:
		return 20
	}
}

// NormalizeSurface collapses arbitrary surface-type synonyms into the
// closed vocabulary used by the scoring model: concrete, bitumen, gravel,
// earthen. Unknown values default to bitumen.
func NormalizeSurface(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concrete", "cement", "cement concrete", "cc", "rigid", "paved concrete":
		return "concrete"
	case "bitumen", "bituminous", "asphalt", "blacktop", "bt", "flexible":
		return "bitumen"
	case "gravel", "wbm", "metalled", "murram":
		return "gravel"
	case "earthen", "earth", "dirt", "mud", "kutcha", "unpaved":
		return "earthen"
	default:
		return "bitumen"
	}
}

// distressWeight pairs a metric's saturation ceiling, the raw value at
// which it counts as fully degraded, with its share of the 100-point
// severity scale.
type distressWeight struct {
	ceiling float64
	weight  float64
}

var distressWeights = struct {
	potholes, alligator, rutting, longitudinal, transverse, depth, raveling, edge, patches distressWeight
}{
	potholes:     distressWeight{30, 20},
	alligator:    distressWeight{50, 18},
	rutting:      distressWeight{40, 15},
	longitudinal: distressWeight{50, 12},
	transverse:   distressWeight{30, 10},
	depth:        distressWeight{20, 8},
	raveling:     distressWeight{50, 7},
	edge:         distressWeight{50, 5},
	patches:      distressWeight{25, 5},
}

// DistressScore returns the distress sub-score in [0,100], higher is
// better: 100 means no measured distress, 0 means every metric saturated.
func DistressScore(d road.Distress) float64 {
	return clamp(100-DistressSeverity(d), 0, 100)
}

// DistressSeverity is the composite severity index over the nine raw
// distress measurements: each metric is normalized by its saturation
// ceiling, weighted, and summed. Clamped to [0,100], one decimal.
func DistressSeverity(d road.Distress) float64 {
	w := distressWeights
	sum := severityTerm(d.PotholesPerKm, w.potholes) +
		severityTerm(d.AlligatorPct, w.alligator) +
		severityTerm(d.RuttingMm, w.rutting) +
		severityTerm(d.LongitudinalPct, w.longitudinal) +
		severityTerm(d.TransversePerKm, w.transverse) +
		severityTerm(d.PotholeDepthCm, w.depth) +
		severityTerm(d.RavelingPct, w.raveling) +
		severityTerm(d.EdgeBreakPct, w.edge) +
		severityTerm(d.PatchesPerKm, w.patches)
	return round1(clamp(sum, 0, 100))
}

func severityTerm(raw float64, dw distressWeight) float64 {
	if raw < 0 {
		raw = 0
	}
	return math.Min(1, raw/dw.ceiling) * dw.weight
}

// FormulaScore computes the deterministic fallback condition score:
//
//	0.30*PCI + 0.25*IRI_norm + 0.25*DISTRESS + 0.20*AGE
//
// where IRI_norm penalizes roughness at 8 points per m/km and AGE decays
// linearly over the surface type's design life. The result is rounded to
// the nearest whole point and always lies in [0,100].
func FormulaScore(seg *road.Segment, asOf time.Time) float64 {
	pci := clamp(seg.PCI, 0, 100)

	iriNorm := math.Max(0, 100-seg.IRI*8)

	distress := DistressScore(seg.Distress)

	life := DesignLifeYears(NormalizeSurface(seg.SurfaceType))
	age := float64(seg.AgeYears(asOf))
	ageScore := math.Max(0, 100-(age/life)*100)

	score := 0.30*pci + 0.25*iriNorm + 0.25*distress + 0.20*ageScore
	return clamp(math.Round(score), 0, 100)
}

// Fallback produces a complete HealthScore from the local formula alone.
// Used when the remote scoring service is unavailable; both components
// collapse to the deterministic score.
func Fallback(seg *road.Segment, asOf time.Time) HealthScore {
	formula := FormulaScore(seg, asOf)
	return Compose(formula, formula, ModelVersionFallback)
}
