// Package handlers provides HTTP handlers for portfolio value charts.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/modules/charts"
)

// Handler handles chart HTTP requests
type Handler struct {
	service *charts.Service
	log     zerolog.Logger
}

// NewHandler creates a new chart handler
func NewHandler(service *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

type historyChartRequest struct {
	PortfolioID string `json:"portfolio_id"`
	Period      string `json:"period"`
}

// HandleHistoryChart handles POST /portfolio/history_chart.
// Unreadable requests get an empty chart, like any other failure.
func (h *Handler) HandleHistoryChart(w http.ResponseWriter, r *http.Request) {
	var req historyChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("Invalid chart request")
		h.writeJSON(w, http.StatusOK, charts.EmptyChart())
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.History(r.Context(), req.PortfolioID, req.Period))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
