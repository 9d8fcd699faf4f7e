// Package api implements the hosted RoadPulse REST API.
// It provides segment ingest, scoring, scheduling, and export endpoints
// backed by Postgres and blob storage.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/roadpulse/roadpulse/internal/export"
	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// Store is the persistence surface the API depends on. Satisfied by
// store.Service in production.
type Store interface {
	UpsertSegment(ctx context.Context, seg *road.Segment) error
	GetSegment(ctx context.Context, id string) (*road.Segment, error)
	ListSegments(ctx context.Context) ([]road.Segment, error)
	AppendInspection(ctx context.Context, rec *road.Inspection) error
	ListHistories(ctx context.Context) (map[string]road.History, error)
	SegmentHistory(ctx context.Context, segmentID string) (road.History, error)
	SaveHealthScore(ctx context.Context, segmentID string, hs scoring.HealthScore, scoredAt time.Time) error
	GetHealthScore(ctx context.Context, segmentID string) (*scoring.HealthScore, error)
	ListHealthScores(ctx context.Context) (map[string]scoring.HealthScore, error)
}

// Handler is the top-level API handler for the RoadPulse service.
type Handler struct {
	store    Store
	provider *scoring.Provider
	exporter export.StorageClient
	cache    *ScheduleCache

	// now is the injectable clock for all "today"-relative computation.
	now func() time.Time
}

// NewHandler creates a new API handler. A nil clock defaults to the wall
// clock; a nil cache gets a default-sized one.
func NewHandler(st Store, provider *scoring.Provider, exporter export.StorageClient, cache *ScheduleCache, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	if cache == nil {
		cache = NewScheduleCacheFromEnv()
	}
	return &Handler{
		store:    st,
		provider: provider,
		exporter: exporter,
		cache:    cache,
		now:      now,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/segments", h.handleUpsertSegments)
	mux.HandleFunc("POST /api/v1/segments/{segmentID}/inspections", h.handleRecordInspection)
	mux.HandleFunc("POST /api/v1/rescore", h.handleRescore)
	mux.HandleFunc("POST /api/v1/schedule/export", h.handleExportSchedule)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/segments", h.handleListSegments)
	mux.HandleFunc("GET /api/v1/segments/{segmentID}", h.handleGetSegment)
	mux.HandleFunc("GET /api/v1/segments/{segmentID}/history", h.handleSegmentHistory)
	mux.HandleFunc("GET /api/v1/schedule", h.handleSchedule)
	mux.HandleFunc("GET /api/v1/schedule/summary", h.handleScheduleSummary)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
