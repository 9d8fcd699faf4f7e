package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/roadpulse/roadpulse/internal/export"
	"github.com/roadpulse/roadpulse/pkg/schedule"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// scheduleParams are the query knobs shared by the schedule endpoints.
type scheduleParams struct {
	asOf    time.Time
	monsoon bool
}

func (h *Handler) scheduleParamsFrom(r *http.Request) (scheduleParams, error) {
	p := scheduleParams{asOf: h.now()}

	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return p, fmt.Errorf("invalid as_of %q (want YYYY-MM-DD)", v)
		}
		p.asOf = t
	}
	if v := r.URL.Query().Get("monsoon"); v == "true" || v == "1" {
		p.monsoon = true
	}
	return p, nil
}

func (p scheduleParams) cacheKey() string {
	return fmt.Sprintf("%s|%t", p.asOf.Format("2006-01-02"), p.monsoon)
}

// generateSchedule loads segments, scores, and histories from the store
// and runs the scheduling engine, consulting the cache first.
func (h *Handler) generateSchedule(r *http.Request, p scheduleParams) ([]schedule.Entry, error) {
	if cached := h.cache.Get(p.cacheKey()); cached != nil {
		return cached, nil
	}

	ctx := r.Context()
	segs, err := h.store.ListSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	stored, err := h.store.ListHealthScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list health scores: %w", err)
	}
	histories, err := h.store.ListHistories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}

	// Segments that were never scored get a formula score on the fly so a
	// schedule run never silently skips a road.
	scores := make([]scoring.HealthScore, len(segs))
	for i := range segs {
		if hs, ok := stored[segs[i].ID]; ok {
			scores[i] = hs
		} else {
			scores[i] = scoring.Fallback(&segs[i], p.asOf)
		}
	}

	gen := schedule.Generator{MonsoonMode: p.monsoon}
	entries := gen.Generate(segs, scores, histories, p.asOf)

	h.cache.Put(p.cacheKey(), entries)
	return entries, nil
}

// handleSchedule generates and returns the prioritized schedule.
func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	p, err := h.scheduleParamsFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.generateSchedule(r, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":   p.asOf.Format("2006-01-02"),
		"monsoon": p.monsoon,
		"entries": entries,
		"summary": schedule.Summarize(entries),
	})
}

// handleScheduleSummary returns only the fleet-wide aggregate.
func (h *Handler) handleScheduleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := h.scheduleParamsFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.generateSchedule(r, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, schedule.Summarize(entries))
}

type exportRequest struct {
	AsOf    string `json:"as_of,omitempty"`
	Monsoon bool   `json:"monsoon,omitempty"`
	Name    string `json:"name,omitempty"`
}

type exportResponse struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

// handleExportSchedule renders the schedule as a flat CSV artifact and
// ships it to the configured storage backend.
func (h *Handler) handleExportSchedule(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusNotImplemented, "export storage not configured")
		return
	}

	var req exportRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	p := scheduleParams{asOf: h.now(), monsoon: req.Monsoon}
	if req.AsOf != "" {
		t, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of (want YYYY-MM-DD)")
			return
		}
		p.asOf = t
	}

	entries, err := h.generateSchedule(r, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := export.Marshal(entries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "marshal schedule: "+err.Error())
		return
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("schedule-%s.csv", p.asOf.Format("2006-01-02"))
	}
	if err := h.exporter.PutExport(r.Context(), name, data); err != nil {
		writeError(w, http.StatusInternalServerError, "store export: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{Name: name, Entries: len(entries)})
}
