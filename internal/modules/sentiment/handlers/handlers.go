// Package handlers provides HTTP handlers for asset news and sentiment.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/modules/sentiment"
)

// Handler handles news HTTP requests
type Handler struct {
	service *sentiment.Service
	log     zerolog.Logger
}

// NewHandler creates a new news handler
func NewHandler(service *sentiment.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "sentiment").Logger(),
	}
}

type newsRequest struct {
	Assets []sentiment.AssetRef `json:"assets"`
}

// HandleNews handles POST /portfolio/news
func (h *Handler) HandleNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.Report(r.Context(), req.Assets))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
