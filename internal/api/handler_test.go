package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/roadpulse/roadpulse/pkg/recalc"
	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/schedule"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// fakeStore is an in-memory Store for exercising handlers without Postgres.
type fakeStore struct {
	segments  map[string]road.Segment
	histories map[string]road.History
	scores    map[string]scoring.HealthScore

	// scoreErr, when set, is returned by GetHealthScore to simulate a
	// store failure that is not an empty result.
	scoreErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		segments:  make(map[string]road.Segment),
		histories: make(map[string]road.History),
		scores:    make(map[string]scoring.HealthScore),
	}
}

func (f *fakeStore) UpsertSegment(ctx context.Context, seg *road.Segment) error {
	f.segments[seg.ID] = *seg
	return nil
}

func (f *fakeStore) GetSegment(ctx context.Context, id string) (*road.Segment, error) {
	seg, ok := f.segments[id]
	if !ok {
		return nil, fmt.Errorf("get segment %s: %w", id, sql.ErrNoRows)
	}
	return &seg, nil
}

func (f *fakeStore) ListSegments(ctx context.Context) ([]road.Segment, error) {
	segs := make([]road.Segment, 0, len(f.segments))
	for _, seg := range f.segments {
		segs = append(segs, seg)
	}
	return segs, nil
}

func (f *fakeStore) AppendInspection(ctx context.Context, rec *road.Inspection) error {
	f.histories[rec.SegmentID] = append(f.histories[rec.SegmentID], *rec)
	return nil
}

func (f *fakeStore) ListHistories(ctx context.Context) (map[string]road.History, error) {
	return f.histories, nil
}

func (f *fakeStore) SegmentHistory(ctx context.Context, segmentID string) (road.History, error) {
	return f.histories[segmentID], nil
}

func (f *fakeStore) SaveHealthScore(ctx context.Context, segmentID string, hs scoring.HealthScore, scoredAt time.Time) error {
	f.scores[segmentID] = hs
	return nil
}

func (f *fakeStore) GetHealthScore(ctx context.Context, segmentID string) (*scoring.HealthScore, error) {
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	hs, ok := f.scores[segmentID]
	if !ok {
		return nil, fmt.Errorf("get health score %s: %w", segmentID, sql.ErrNoRows)
	}
	return &hs, nil
}

func (f *fakeStore) ListHealthScores(ctx context.Context) (map[string]scoring.HealthScore, error) {
	return f.scores, nil
}

// fakeExporter collects export artifacts in memory.
type fakeExporter struct {
	objects map[string][]byte
}

func (f *fakeExporter) PutExport(ctx context.Context, name string, data []byte) error {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[name] = data
	return nil
}

func (f *fakeExporter) GetExport(ctx context.Context, name string) ([]byte, error) {
	data, ok := f.objects[name]
	if !ok {
		return nil, fmt.Errorf("export %s not found", name)
	}
	return data, nil
}

var testClock = func() time.Time {
	return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
}

func newTestHandler(st Store, exporter *fakeExporter) *Handler {
	// A typed nil must not reach the exporter field: the handlers gate the
	// export endpoint on an interface nil check.
	if exporter == nil {
		return NewHandler(st, scoring.NewProvider(nil, 1), nil, NewScheduleCache(4), testClock)
	}
	return NewHandler(st, scoring.NewProvider(nil, 1), exporter, NewScheduleCache(4), testClock)
}

// serve routes one request through the full ServeMux so path patterns and
// method matching are exercised, not just the handler funcs.
func serve(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func seededSegment(id string) road.Segment {
	return road.Segment{
		ID:              id,
		Name:            "Katraj Ghat Road",
		District:        "Pune",
		Jurisdiction:    "State PWD",
		LengthKm:        4,
		SurfaceType:     "bitumen",
		YearConstructed: 2015,
		AvgDailyTraffic: 8000,
	}
}

func TestRecordInspection(t *testing.T) {
	st := newFakeStore()
	st.segments["SEG-1"] = seededSegment("SEG-1")
	st.scores["SEG-1"] = scoring.Compose(40, 40, scoring.ModelVersionFallback)
	h := newTestHandler(st, nil)

	body := `{"score": 62, "agency": "State PWD", "remarks": "post-monsoon survey"}`
	w := serve(t, h, "POST", "/api/v1/segments/SEG-1/inspections", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var result recalc.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.OldScore != 40 || result.NewScore != 62 {
		t.Errorf("delta = %v -> %v, want 40 -> 62", result.OldScore, result.NewScore)
	}
	if result.OldBand != "D" || result.NewBand != "B" {
		t.Errorf("bands = %q -> %q, want D -> B", result.OldBand, result.NewBand)
	}

	hist := st.histories["SEG-1"]
	if len(hist) != 1 || hist[0].ConditionScore != 62 {
		t.Fatalf("history = %+v, want one record with score 62", hist)
	}
	if got := st.scores["SEG-1"]; got.ModelVersion != recalc.ModelVersionManual {
		t.Errorf("saved model version = %q, want %q", got.ModelVersion, recalc.ModelVersionManual)
	}
}

func TestRecordInspectionNeverScored(t *testing.T) {
	st := newFakeStore()
	st.segments["SEG-1"] = seededSegment("SEG-1")
	h := newTestHandler(st, nil)

	w := serve(t, h, "POST", "/api/v1/segments/SEG-1/inspections", `{"score": 55}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var result recalc.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.OldScore != 0 || result.OldBand != "" {
		t.Errorf("prior delta = (%v, %q), want zero-valued", result.OldScore, result.OldBand)
	}
	if result.NewScore != 55 {
		t.Errorf("NewScore = %v, want 55", result.NewScore)
	}
}

func TestRecordInspectionStoreFailure(t *testing.T) {
	st := newFakeStore()
	st.segments["SEG-1"] = seededSegment("SEG-1")
	st.scoreErr = errors.New("driver: bad connection")
	h := newTestHandler(st, nil)

	w := serve(t, h, "POST", "/api/v1/segments/SEG-1/inspections", `{"score": 55}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body %s", w.Code, w.Body.String())
	}
	// A failed read must not leave a half-applied inspection behind.
	if len(st.histories["SEG-1"]) != 0 {
		t.Errorf("history = %+v, want no records appended", st.histories["SEG-1"])
	}
}

func TestRecordInspectionRejects(t *testing.T) {
	st := newFakeStore()
	st.segments["SEG-1"] = seededSegment("SEG-1")
	h := newTestHandler(st, nil)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
	}{
		{"malformed body", "/api/v1/segments/SEG-1/inspections", `{"score":`, http.StatusBadRequest},
		{"unknown field", "/api/v1/segments/SEG-1/inspections", `{"points": 50}`, http.StatusBadRequest},
		{"score above range", "/api/v1/segments/SEG-1/inspections", `{"score": 150}`, http.StatusBadRequest},
		{"score below range", "/api/v1/segments/SEG-1/inspections", `{"score": -3}`, http.StatusBadRequest},
		{"unknown segment", "/api/v1/segments/SEG-404/inspections", `{"score": 50}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, h, "POST", tt.target, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestUpsertSegments(t *testing.T) {
	st := newFakeStore()
	h := newTestHandler(st, nil)

	segs, err := json.Marshal([]road.Segment{seededSegment("SEG-1"), seededSegment("SEG-2")})
	if err != nil {
		t.Fatal(err)
	}
	w := serve(t, h, "POST", "/api/v1/segments", string(segs))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp upsertSegmentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Upserted != 2 || resp.Scored != 2 {
		t.Errorf("response = %+v, want 2 upserted, 2 scored", resp)
	}
	if _, ok := st.scores["SEG-2"]; !ok {
		t.Error("SEG-2 was not scored on ingest")
	}
}

func TestUpsertSegmentsRejects(t *testing.T) {
	h := newTestHandler(newFakeStore(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty batch", `[]`},
		{"missing id", `[{"name": "Unnamed Road"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, h, "POST", "/api/v1/segments", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestScheduleEndpoint(t *testing.T) {
	st := newFakeStore()
	st.segments["SEG-A"] = seededSegment("SEG-A")
	st.segments["SEG-B"] = seededSegment("SEG-B")
	st.scores["SEG-A"] = scoring.Compose(20, 20, scoring.ModelVersionFallback)
	st.scores["SEG-B"] = scoring.Compose(90, 90, scoring.ModelVersionFallback)
	h := newTestHandler(st, nil)

	w := serve(t, h, "GET", "/api/v1/schedule?as_of=2026-07-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		AsOf    string           `json:"as_of"`
		Entries []schedule.Entry `json:"entries"`
		Summary schedule.Summary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AsOf != "2026-07-01" {
		t.Errorf("as_of = %q, want 2026-07-01", resp.AsOf)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(resp.Entries))
	}
	// Highest priority first.
	if resp.Entries[0].SegmentID != "SEG-A" {
		t.Errorf("entries[0] = %s, want SEG-A", resp.Entries[0].SegmentID)
	}
	if resp.Entries[0].Tier != schedule.TierCritical {
		t.Errorf("tier = %q, want critical", resp.Entries[0].Tier)
	}
	if resp.Summary.Total != 2 {
		t.Errorf("summary total = %d, want 2", resp.Summary.Total)
	}
}

func TestScheduleBadAsOf(t *testing.T) {
	h := newTestHandler(newFakeStore(), nil)

	for _, target := range []string{
		"/api/v1/schedule?as_of=01-07-2026",
		"/api/v1/schedule/summary?as_of=yesterday",
	} {
		w := serve(t, h, "GET", target, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
		if !bytes.Contains(w.Body.Bytes(), []byte("as_of")) {
			t.Errorf("%s: error body %s does not name the bad parameter", target, w.Body.String())
		}
	}
}

func TestExportSchedule(t *testing.T) {
	st := newFakeStore()
	st.segments["SEG-A"] = seededSegment("SEG-A")
	st.scores["SEG-A"] = scoring.Compose(45, 45, scoring.ModelVersionFallback)
	exp := &fakeExporter{}
	h := newTestHandler(st, exp)

	w := serve(t, h, "POST", "/api/v1/schedule/export", `{"as_of": "2026-07-01", "name": "monthly.csv"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp exportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "monthly.csv" || resp.Entries != 1 {
		t.Errorf("response = %+v, want monthly.csv with 1 entry", resp)
	}
	data, ok := exp.objects["monthly.csv"]
	if !ok {
		t.Fatal("artifact was not stored")
	}
	if !bytes.HasPrefix(data, []byte("segment_id,")) {
		t.Errorf("artifact does not start with the CSV header: %q", data[:min(len(data), 40)])
	}
}

func TestExportScheduleNotConfigured(t *testing.T) {
	h := newTestHandler(newFakeStore(), nil)

	w := serve(t, h, "POST", "/api/v1/schedule/export", "")
	if w.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501; body %s", w.Code, w.Body.String())
	}
}
