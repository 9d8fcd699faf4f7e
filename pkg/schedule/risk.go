package schedule

import (
	"strings"
	"time"

	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

func normalized(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// riskFloor is the minimum risk multiplier: heavily derated segments still
// keep a nonzero inspection interval.
const riskFloor = 0.15

// riskRule is one condition in the fixed evaluation order. Tag ordering in
// the output follows rule ordering exactly.
type riskRule struct {
	tag    string
	factor float64
	match  func(seg *road.Segment, score float64, asOf time.Time) bool
}

var riskRules = []riskRule{
	{"Flood-prone zone", 0.7, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.FloodProne
	}},
	{"Landslide-prone zone", 0.7, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.LandslideProne
	}},
	{"Ghat section", 0.8, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.GhatSection
	}},
	{"High monsoon rainfall", 0.8, func(s *road.Segment, _ float64, _ time.Time) bool {
		return normalized(s.RainfallClass) == "high"
	}},
	{"Heavy traffic (ADT > 30,000)", 0.8, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.AvgDailyTraffic > 30000
	}},
	{"High truck share (> 30%)", 0.85, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.TruckPct > 30
	}},
	{"Steep terrain", 0.85, func(s *road.Segment, _ float64, _ time.Time) bool {
		return normalized(s.TerrainType) == "steep" || normalized(s.SlopeCategory) == "steep"
	}},
	{"Unpaved surface", 0.75, func(s *road.Segment, _ float64, _ time.Time) bool {
		surf := scoring.NormalizeSurface(s.SurfaceType)
		return surf == "gravel" || surf == "earthen"
	}},
	{"Tourism route", 0.9, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.TourismRoute
	}},
	{"Severe potholing (> 15/km)", 0.7, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.Distress.PotholesPerKm > 15
	}},
	{"Extensive alligator cracking (> 20%)", 0.75, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.Distress.AlligatorPct > 20
	}},
	{"Deep rutting (> 20 mm)", 0.8, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.Distress.RuttingMm > 20
	}},
	{"Very rough ride (IRI > 8)", 0.8, func(s *road.Segment, _ float64, _ time.Time) bool {
		return s.IRI > 8
	}},
	{"Nearing end of design life", 0.75, func(s *road.Segment, _ float64, asOf time.Time) bool {
		life := scoring.DesignLifeYears(scoring.NormalizeSurface(s.SurfaceType))
		return float64(s.AgeYears(asOf)) > 0.8*life
	}},
	{"Critical condition score", 0.6, func(_ *road.Segment, score float64, _ time.Time) bool {
		return score < 25
	}},
	{"Low condition score", 0.8, func(_ *road.Segment, score float64, _ time.Time) bool {
		return score >= 25 && score <= 40
	}},
}

// RiskFactors derives the ordered list of human-readable risk tags and the
// composite interval-derating multiplier for a scored segment. Each
// matching condition appends exactly one tag and multiplies the running
// factor by its coefficient. The multiplier never drops below 0.15.
func RiskFactors(seg *road.Segment, score float64, asOf time.Time) ([]string, float64) {
	var tags []string
	factor := 1.0

	for _, rule := range riskRules {
		if rule.match(seg, score, asOf) {
			tags = append(tags, rule.tag)
			factor *= rule.factor
		}
	}

	if factor < riskFloor {
		factor = riskFloor
	}
	return tags, factor
}
