// Package scoring implements the RoadPulse health scoring engine.
// It converts raw field-survey measurements into a normalized 0-100
// condition score with an auditable sub-score breakdown.
package scoring

import "math"

// HealthScore is a versioned condition snapshot for a road segment.
// Immutable once computed: rescoring replaces the whole value.
type HealthScore struct {
	FinalScore    float64 `json:"final_score"`    // blended 0-100, higher is better
	Category      string  `json:"category"`       // Good, Fair, Poor, Critical
	DistressIndex float64 `json:"distress_index"` // 0-100, inverse of final score
	FormulaScore  float64 `json:"formula_score"`  // deterministic component
	ModelScore    float64 `json:"model_score"`    // remote-model component
	ModelVersion  string  `json:"model_version"`
	Band          Band    `json:"band"`
}

// Band is the six-tier display classification derived from the final score.
type Band struct {
	Code  string `json:"code"`  // A+ ... E
	Label string `json:"label"` // human-readable
	Color string `json:"color"` // display hex color
}

// Blend weights for the formula and model components of the final score.
const (
	formulaWeight = 0.70
	modelWeight   = 0.30
)

// ModelVersionFallback tags scores produced entirely by the local formula.
const ModelVersionFallback = "local-formula-v1"

// Compose blends the deterministic and model component scores into a
// complete HealthScore. Both inputs are clamped to [0,100] first.
func Compose(formula, model float64, modelVersion string) HealthScore {
	formula = clamp(formula, 0, 100)
	model = clamp(model, 0, 100)
	final := round1(formulaWeight*formula + modelWeight*model)

	return HealthScore{
		FinalScore:    final,
		Category:      CategoryFor(final),
		DistressIndex: round1(100 - final),
		FormulaScore:  formula,
		ModelScore:    model,
		ModelVersion:  modelVersion,
		Band:          BandFor(final),
	}
}

// CategoryFor maps a final score to its discrete condition category.
func CategoryFor(score float64) string {
	switch {
	case score >= 80:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 40:
		return "Poor"
	default:
		return "Critical"
	}
}

// BandFor maps a final score to its six-tier display band. The tiers form
// a strict non-overlapping partition of [0,100].
func BandFor(score float64) Band {
	switch {
	case score >= 90:
		return Band{Code: "A+", Label: "Excellent", Color: "#15803d"}
	case score >= 75:
		return Band{Code: "A", Label: "Very Good", Color: "#22c55e"}
	case score >= 60:
		return Band{Code: "B", Label: "Good", Color: "#84cc16"}
	case score >= 45:
		return Band{Code: "C", Label: "Moderate", Color: "#eab308"}
	case score >= 30:
		return Band{Code: "D", Label: "Poor", Color: "#f97316"}
	default:
		return Band{Code: "E", Label: "Very Poor", Color: "#dc2626"}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
