// Package handlers provides HTTP handlers for rebalance history.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/ledger"
	"github.com/aristath/fandance/internal/modules/rebalancing"
)

// Handler handles rebalance history HTTP requests
type Handler struct {
	service *ledger.Service
	log     zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(service *ledger.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "ledger").Logger(),
	}
}

type applyRequest struct {
	PortfolioID  string              `json:"portfolio_id"`
	Contribution float64             `json:"contribution"`
	Orders       []rebalancing.Order `json:"orders"`
}

type undoRequest struct {
	HistoryID string `json:"history_id"`
}

// HandleApply handles POST /portfolio/apply_rebalance
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.service.Apply(r.Context(), req.PortfolioID, req.Contribution, req.Orders)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "Applied", "history_id": entry.ID})
}

// HandleUndo handles POST /portfolio/history/undo
func (h *Handler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	var req undoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.HistoryID == "" {
		h.writeError(w, http.StatusBadRequest, "Missing history_id")
		return
	}

	if err := h.service.Undo(r.Context(), req.HistoryID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "Undone successfully"})
}

// HandleDelete handles DELETE /portfolio/history/delete/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "Deleted"})
}

// HandleList handles GET /portfolio/history/{portfolio_id}.
// Entries come newest first, each carrying its items; store failures degrade to an empty list.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), chi.URLParam(r, "portfolio_id"))
	if err != nil {
		h.log.Warn().Err(err).Msg("History lookup failed")
		entries = nil
	}

	if entries == nil {
		entries = []ledger.Entry{}
	}
	for i := range entries {
		if entries[i].Items == nil {
			entries[i].Items = []ledger.EntryItem{}
		}
	}

	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Err(err).Msg("Ledger operation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
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
