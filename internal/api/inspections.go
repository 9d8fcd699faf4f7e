package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/roadpulse/roadpulse/pkg/recalc"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// handleRecordInspection applies one new field observation to a segment:
// the inspection is appended to history, the health score is recomputed
// from the raw surveyed score, and the before/after delta is returned for
// audit and notification.
func (h *Handler) handleRecordInspection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	segmentID := r.PathValue("segmentID")

	var obs recalc.Observation
	if err := decodeJSON(r, &obs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if obs.Score < 0 || obs.Score > 100 {
		writeError(w, http.StatusBadRequest, "score must be in [0,100]")
		return
	}

	if _, err := h.store.GetSegment(ctx, segmentID); err != nil {
		writeError(w, http.StatusNotFound, "segment not found: "+segmentID)
		return
	}

	// Never-scored segments still accept inspections; the delta's "old"
	// side is simply zero-valued. Any other store failure must not be
	// mistaken for an empty history.
	var priorScore scoring.HealthScore
	prior, err := h.store.GetHealthScore(ctx, segmentID)
	switch {
	case err == nil:
		priorScore = *prior
	case errors.Is(err, sql.ErrNoRows):
	default:
		writeError(w, http.StatusInternalServerError, "get health score: "+err.Error())
		return
	}

	asOf := h.now()

	result := recalc.Apply(segmentID, priorScore, obs, asOf, nil)

	if err := h.store.AppendInspection(ctx, &result.Record); err != nil {
		writeError(w, http.StatusInternalServerError, "append inspection: "+err.Error())
		return
	}
	if err := h.store.SaveHealthScore(ctx, segmentID, result.Score, asOf); err != nil {
		writeError(w, http.StatusInternalServerError, "save health score: "+err.Error())
		return
	}

	h.cache.Clear()
	writeJSON(w, http.StatusOK, result)
}
