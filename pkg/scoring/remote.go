package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roadpulse/roadpulse/pkg/road"
)

// RemoteClient calls the remote CIBIL scoring service.
type RemoteClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewRemoteClient creates a client for the scoring service at baseURL.
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// RemoteScore is the scoring service's response for a single segment.
type RemoteScore struct {
	FinalCibilScore   float64 `json:"final_cibil_score"`
	ConditionCategory string  `json:"condition_category"`
	PDI               float64 `json:"pdi"`
	PseudoCibil       float64 `json:"pseudo_cibil"`
	MLPredictedCibil  float64 `json:"ml_predicted_cibil"`
	ModelVersion      string  `json:"model_version"`
	LatencyMs         float64 `json:"latency_ms"`
}

// scorePayload is the flat feature vector the service expects. Every field
// always carries a value: missing numerics are substituted with the
// service's documented defaults and categoricals are collapsed into its
// closed vocabularies before submission.
type scorePayload struct {
	IRIValue              float64 `json:"iri_value"`
	AlligatorCrackingPct  float64 `json:"alligator_cracking_pct"`
	PotholesPerKm         float64 `json:"potholes_per_km"`
	RuttingDepthMm        float64 `json:"rutting_depth_mm"`
	CracksLongitudinalPct float64 `json:"cracks_longitudinal_pct"`
	CracksTransversePerKm float64 `json:"cracks_transverse_per_km"`
	RavelingPct           float64 `json:"raveling_pct"`
	EdgeBreakingPct       float64 `json:"edge_breaking_pct"`
	PatchesPerKm          float64 `json:"patches_per_km"`
	PotholeAvgDepthCm     float64 `json:"pothole_avg_depth_cm"`

	PCIScore  float64 `json:"pci_score"`
	LaneCount float64 `json:"lane_count"`
	LengthKm  float64 `json:"length_km"`

	YearConstructed    float64 `json:"year_constructed"`
	LastMajorRehabYear float64 `json:"last_major_rehab_year"`

	AvgDailyTraffic float64 `json:"avg_daily_traffic"`
	TruckPercentage float64 `json:"truck_percentage"`
	PeakHourTraffic float64 `json:"peak_hour_traffic"`

	ElevationM              float64 `json:"elevation_m"`
	SurfaceType             string  `json:"surface_type"`
	SlopeCategory           string  `json:"slope_category"`
	MonsoonRainfallCategory string  `json:"monsoon_rainfall_category"`
	TerrainType             string  `json:"terrain_type"`
	RegionType              string  `json:"region_type"`

	LandslideProne   int `json:"landslide_prone"`
	FloodProne       int `json:"flood_prone"`
	GhatSectionFlag  int `json:"ghat_section_flag"`
	TourismRouteFlag int `json:"tourism_route_flag"`
}

// buildPayload normalizes a segment into the service's feature vector.
func buildPayload(seg *road.Segment) scorePayload {
	d := seg.Distress
	return scorePayload{
		IRIValue:              defaultIfZero(seg.IRI, 2.5),
		AlligatorCrackingPct:  d.AlligatorPct,
		PotholesPerKm:         d.PotholesPerKm,
		RuttingDepthMm:        d.RuttingMm,
		CracksLongitudinalPct: d.LongitudinalPct,
		CracksTransversePerKm: d.TransversePerKm,
		RavelingPct:           d.RavelingPct,
		EdgeBreakingPct:       d.EdgeBreakPct,
		PatchesPerKm:          d.PatchesPerKm,
		PotholeAvgDepthCm:     d.PotholeDepthCm,

		PCIScore:  defaultIfZero(seg.PCI, 70),
		LaneCount: defaultIfZero(float64(seg.Lanes), 2),
		LengthKm:  defaultIfZero(seg.LengthKm, 1),

		YearConstructed:    defaultIfZero(float64(seg.YearConstructed), 2010),
		LastMajorRehabYear: defaultIfZero(float64(seg.LastRehabYear), defaultIfZero(float64(seg.YearConstructed), 2010)),

		AvgDailyTraffic: defaultIfZero(seg.AvgDailyTraffic, 5000),
		TruckPercentage: defaultIfZero(seg.TruckPct, 15),
		PeakHourTraffic: defaultIfZero(seg.PeakHourTraffic, 500),

		ElevationM:              defaultIfZero(seg.ElevationM, 200),
		SurfaceType:             NormalizeSurface(seg.SurfaceType),
		SlopeCategory:           normalizeEnum(seg.SlopeCategory, "flat", "flat", "moderate", "steep"),
		MonsoonRainfallCategory: normalizeEnum(seg.RainfallClass, "medium", "low", "medium", "high"),
		TerrainType:             normalizeEnum(seg.TerrainType, "plain", "plain", "hilly", "steep"),
		RegionType:              normalizeEnum(seg.RegionType, "rural", "rural", "semi-urban", "urban"),

		LandslideProne:   boolFlag(seg.LandslideProne),
		FloodProne:       boolFlag(seg.FloodProne),
		GhatSectionFlag:  boolFlag(seg.GhatSection),
		TourismRouteFlag: boolFlag(seg.TourismRoute),
	}
}

// Score submits a segment's features and returns the service's prediction.
// Any transport error, non-2xx status, or malformed body is returned as an
// error; callers are expected to fall back to the local formula.
func (c *RemoteClient) Score(ctx context.Context, seg *road.Segment) (*RemoteScore, error) {
	body, err := json.Marshal(buildPayload(seg))
	if err != nil {
		return nil, fmt.Errorf("marshal score payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("score request: unexpected status %d", resp.StatusCode)
	}

	var rs RemoteScore
	if err := json.NewDecoder(resp.Body).Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode score response: %w", err)
	}
	if rs.FinalCibilScore < 0 || rs.FinalCibilScore > 100 {
		return nil, fmt.Errorf("score response out of range: %.2f", rs.FinalCibilScore)
	}

	return &rs, nil
}

func defaultIfZero(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func normalizeEnum(v, def string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return a
		}
	}
	return def
}
