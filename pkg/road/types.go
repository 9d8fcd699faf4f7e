// Package road defines the core domain data model for RoadPulse.
// These types are the shared vocabulary across all modules.
package road

import "time"

// Segment represents a single physical road segment as captured by the
// field-survey ingestion pipeline. Segments are immutable once loaded;
// the scoring and scheduling engines never write to them.
type Segment struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HighwayRef string `json:"highway_ref,omitempty"` // e.g. "NH-48", "SH-72"

	StartKm  float64 `json:"start_km"`
	EndKm    float64 `json:"end_km"`
	LengthKm float64 `json:"length_km"`
	Lanes    int     `json:"lanes"`

	Jurisdiction string `json:"jurisdiction"` // "NHAI", "MSRDC", "State PWD", "ZP"
	District     string `json:"district"`
	Status       string `json:"status,omitempty"` // ACTIVE, CLOSED, UNDER_CONSTRUCTION

	SurfaceType     string `json:"surface_type"` // free text, normalized on scoring
	YearConstructed int    `json:"year_constructed"`
	LastRehabYear   int    `json:"last_rehab_year,omitempty"`

	AvgDailyTraffic float64 `json:"avg_daily_traffic"`
	TruckPct        float64 `json:"truck_pct"`
	PeakHourTraffic float64 `json:"peak_hour_traffic,omitempty"`

	FloodProne     bool    `json:"flood_prone"`
	LandslideProne bool    `json:"landslide_prone"`
	GhatSection    bool    `json:"ghat_section"`
	TourismRoute   bool    `json:"tourism_route"`
	CoastalArea    bool    `json:"coastal_area"`
	TerrainType    string  `json:"terrain_type"`   // plain, hilly, steep
	SlopeCategory  string  `json:"slope_category"` // flat, moderate, steep
	RainfallClass  string  `json:"rainfall_class"` // low, medium, high
	RegionType     string  `json:"region_type"`    // rural, semi-urban, urban
	ElevationM     float64 `json:"elevation_m,omitempty"`

	Distress Distress `json:"distress"`

	IRI float64 `json:"iri"` // International Roughness Index, m/km (lower is better)
	PCI float64 `json:"pci"` // measured Pavement Condition Index, 0-100
}

// Distress holds the nine raw surface distress measurements for a segment.
type Distress struct {
	PotholesPerKm   float64 `json:"potholes_per_km"`
	PotholeDepthCm  float64 `json:"pothole_depth_cm"` // average depth
	AlligatorPct    float64 `json:"alligator_pct"`    // fatigue cracking, % of area
	LongitudinalPct float64 `json:"longitudinal_pct"` // longitudinal cracks, % of area
	TransversePerKm float64 `json:"transverse_per_km"`
	RuttingMm       float64 `json:"rutting_mm"` // max rutting depth
	RavelingPct     float64 `json:"raveling_pct"`
	EdgeBreakPct    float64 `json:"edge_break_pct"`
	PatchesPerKm    float64 `json:"patches_per_km"`
}

// Inspection is a single historical field observation of a segment.
// Records are append-only: new inspections are added, never edited.
type Inspection struct {
	ID               string    `json:"id"`
	SegmentID        string    `json:"segment_id"`
	Date             time.Time `json:"date"`
	Agency           string    `json:"agency"`
	ConditionScore   float64   `json:"condition_score"` // raw 0-100 surveyed score
	SurfaceDamagePct float64   `json:"surface_damage_pct"`
	Waterlogging     bool      `json:"waterlogging"`
	DrainageStatus   string    `json:"drainage_status,omitempty"`
	Remarks          string    `json:"remarks,omitempty"`
}

// History is a segment's inspection records ordered by date ascending.
type History []Inspection

// Latest returns the most recent inspection, or nil if there is none.
// The receiver is not assumed to be sorted.
func (h History) Latest() *Inspection {
	var latest *Inspection
	for i := range h {
		if latest == nil || h[i].Date.After(latest.Date) {
			latest = &h[i]
		}
	}
	return latest
}

// EffectiveYear returns the year the current pavement surface dates from:
// the last major rehabilitation if one is recorded, otherwise construction.
func (s *Segment) EffectiveYear() int {
	if s.LastRehabYear > s.YearConstructed {
		return s.LastRehabYear
	}
	return s.YearConstructed
}

// AgeYears returns the pavement age in whole years as of the given date.
// Never negative, even for future-dated construction years.
func (s *Segment) AgeYears(asOf time.Time) int {
	age := asOf.Year() - s.EffectiveYear()
	if age < 0 {
		return 0
	}
	return age
}
