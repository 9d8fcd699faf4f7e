package api

import (
	"log"
	"net/http"

	"github.com/roadpulse/roadpulse/pkg/road"
)

type upsertSegmentsResponse struct {
	Upserted int `json:"upserted"`
	Scored   int `json:"scored"`
}

// handleUpsertSegments ingests a batch of segments, persists them, and
// refreshes their health scores.
func (h *Handler) handleUpsertSegments(w http.ResponseWriter, r *http.Request) {
	var segs []road.Segment
	if err := decodeJSON(r, &segs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(segs) == 0 {
		writeError(w, http.StatusBadRequest, "no segments in request")
		return
	}
	for i := range segs {
		if segs[i].ID == "" {
			writeError(w, http.StatusBadRequest, "segment missing id")
			return
		}
	}

	ctx := r.Context()
	resp := upsertSegmentsResponse{}

	for i := range segs {
		if err := h.store.UpsertSegment(ctx, &segs[i]); err != nil {
			writeError(w, http.StatusInternalServerError, "upsert segment: "+err.Error())
			return
		}
		resp.Upserted++
	}

	asOf := h.now()
	scores := h.provider.BulkScore(ctx, segs, asOf)
	for i := range segs {
		if err := h.store.SaveHealthScore(ctx, segs[i].ID, scores[i], asOf); err != nil {
			log.Printf("ingest %s: save health score: %v", segs[i].ID, err)
			continue
		}
		resp.Scored++
	}

	h.cache.Clear()
	writeJSON(w, http.StatusOK, resp)
}

// handleListSegments returns every stored segment with its latest score.
func (h *Handler) handleListSegments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	segs, err := h.store.ListSegments(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list segments: "+err.Error())
		return
	}
	scores, err := h.store.ListHealthScores(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list health scores: "+err.Error())
		return
	}

	type segmentView struct {
		road.Segment
		Score any `json:"score,omitempty"`
	}
	views := make([]segmentView, 0, len(segs))
	for _, seg := range segs {
		v := segmentView{Segment: seg}
		if hs, ok := scores[seg.ID]; ok {
			v.Score = hs
		}
		views = append(views, v)
	}

	writeJSON(w, http.StatusOK, map[string]any{"segments": views})
}

// handleGetSegment returns one segment, its latest score, and history.
func (h *Handler) handleGetSegment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	segmentID := r.PathValue("segmentID")

	seg, err := h.store.GetSegment(ctx, segmentID)
	if err != nil {
		writeError(w, http.StatusNotFound, "segment not found: "+segmentID)
		return
	}

	resp := map[string]any{"segment": seg}
	if hs, err := h.store.GetHealthScore(ctx, segmentID); err == nil {
		resp["score"] = hs
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSegmentHistory returns a segment's inspection records, oldest first.
func (h *Handler) handleSegmentHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	segmentID := r.PathValue("segmentID")

	history, err := h.store.SegmentHistory(ctx, segmentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "segment history: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"segment_id": segmentID,
		"history":    history,
	})
}
