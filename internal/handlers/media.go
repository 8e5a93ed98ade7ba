package handlers

import (
	"net/http"

	"studyquest-backend/internal/services"
)

type MediaHandler struct {
	media *services.MediaSearchService
}

func NewMediaHandler(media *services.MediaSearchService) *MediaHandler {
	return &MediaHandler{media: media}
}

func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Query parameter q is required", r))
		return
	}

	results, err := h.media.Search(r.Context(), query)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Media search failed", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
