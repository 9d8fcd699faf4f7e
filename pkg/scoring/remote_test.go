package scoring_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

func sampleSegment() road.Segment {
	return road.Segment{
		ID:              "MH-SEG-0001",
		Name:            "Mumbai-Pune Expressway km 42-48",
		LengthKm:        6,
		Lanes:           4,
		Jurisdiction:    "MSRDC",
		District:        "Pune",
		SurfaceType:     "bitumen",
		YearConstructed: 2002,
		LastRehabYear:   2019,
		AvgDailyTraffic: 42000,
		TruckPct:        28,
		PeakHourTraffic: 3800,
		RainfallClass:   "high",
		TerrainType:     "hilly",
		SlopeCategory:   "moderate",
		RegionType:      "semi-urban",
		ElevationM:      560,
		GhatSection:     true,
		IRI:             4.2,
		PCI:             68,
		Distress: road.Distress{
			PotholesPerKm: 6,
			AlligatorPct:  12,
			RuttingMm:     9,
		},
	}
}

func TestRemoteClientScore(t *testing.T) {
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/score" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"final_cibil_score":  64.2,
			"condition_category": "Fair",
			"pdi":                35.8,
			"pseudo_cibil":       66.0,
			"ml_predicted_cibil": 60.0,
			"model_version":      "xgb-2024.3",
			"latency_ms":         12.5,
		})
	}))
	defer srv.Close()

	client := scoring.NewRemoteClient(srv.URL, 5*time.Second)
	seg := sampleSegment()

	rs, err := client.Score(context.Background(), &seg)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	if rs.FinalCibilScore != 64.2 {
		t.Errorf("FinalCibilScore = %v, want 64.2", rs.FinalCibilScore)
	}
	if rs.PseudoCibil != 66.0 || rs.MLPredictedCibil != 60.0 {
		t.Errorf("components = (%v, %v), want (66, 60)", rs.PseudoCibil, rs.MLPredictedCibil)
	}
	if rs.ModelVersion != "xgb-2024.3" {
		t.Errorf("ModelVersion = %q, want xgb-2024.3", rs.ModelVersion)
	}

	// Spot-check the submitted feature vector.
	checks := map[string]any{
		"iri_value":                 4.2,
		"pci_score":                 68.0,
		"lane_count":                4.0,
		"surface_type":              "bitumen",
		"monsoon_rainfall_category": "high",
		"ghat_section_flag":         1.0,
		"flood_prone":               0.0,
		"last_major_rehab_year":     2019.0,
	}
	for key, want := range checks {
		if got := gotPayload[key]; got != want {
			t.Errorf("payload[%q] = %v, want %v", key, got, want)
		}
	}
}

func TestRemoteClientPayloadDefaults(t *testing.T) {
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"final_cibil_score": 50.0})
	}))
	defer srv.Close()

	client := scoring.NewRemoteClient(srv.URL, 0)
	seg := road.Segment{ID: "bare", SurfaceType: "Asphalt", SlopeCategory: "vertical"}

	if _, err := client.Score(context.Background(), &seg); err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	// Unset numerics pick up the service's documented defaults; unknown
	// categoricals collapse into the closed vocabulary.
	defaults := map[string]any{
		"iri_value":             2.5,
		"pci_score":             70.0,
		"lane_count":            2.0,
		"length_km":             1.0,
		"year_constructed":      2010.0,
		"last_major_rehab_year": 2010.0,
		"avg_daily_traffic":     5000.0,
		"truck_percentage":      15.0,
		"peak_hour_traffic":     500.0,
		"elevation_m":           200.0,
		"surface_type":          "bitumen",
		"slope_category":        "flat",
		"terrain_type":          "plain",
		"region_type":           "rural",
	}
	for key, want := range defaults {
		if got := gotPayload[key]; got != want {
			t.Errorf("payload[%q] = %v, want %v", key, got, want)
		}
	}
}

func TestRemoteClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model unavailable", http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			name: "score out of range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"final_cibil_score": 164.0})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := scoring.NewRemoteClient(srv.URL, time.Second)
			seg := sampleSegment()
			if _, err := client.Score(context.Background(), &seg); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestRemoteClientUnreachable(t *testing.T) {
	client := scoring.NewRemoteClient("http://127.0.0.1:1", 200*time.Millisecond)
	seg := sampleSegment()
	if _, err := client.Score(context.Background(), &seg); err == nil {
		t.Error("expected a transport error, got nil")
	}
}
