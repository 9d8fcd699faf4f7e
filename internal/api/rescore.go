package api

import (
	"log"
	"net/http"
)

type rescoreResponse struct {
	Rescored int `json:"rescored"`
	Errors   int `json:"errors"`
}

// handleRescore re-runs health scoring on all stored segments. The remote
// service is preferred per segment with the local formula as fallback, so
// a partial outage degrades accuracy, never availability.
func (h *Handler) handleRescore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	segs, err := h.store.ListSegments(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list segments: "+err.Error())
		return
	}

	asOf := h.now()
	scores := h.provider.BulkScore(ctx, segs, asOf)

	resp := rescoreResponse{}
	for i := range segs {
		if err := h.store.SaveHealthScore(ctx, segs[i].ID, scores[i], asOf); err != nil {
			log.Printf("rescore %s: save: %v", segs[i].ID, err)
			resp.Errors++
			continue
		}
		resp.Rescored++
	}

	h.cache.Clear()
	writeJSON(w, http.StatusOK, resp)
}
