// Package handlers provides HTTP handlers for portfolio management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

type createRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type renameRequest struct {
	PortfolioID string `json:"portfolio_id"`
	Name        string `json:"name"`
}

type duplicateRequest struct {
	PortfolioID string `json:"portfolio_id"`
	UserID      string `json:"user_id"`
	NewName     string `json:"new_name"`
}

type addAssetRequest struct {
	PortfolioID string `json:"portfolio_id"`
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
}

type updateItemRequest struct {
	ItemID       string  `json:"item_id"`
	UnitsHeld    float64 `json:"units_held"`
	TargetWeight float64 `json:"target_weight"`
}

// HandleCreatePortfolio handles POST /portfolios/create
func (h *Handler) HandleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.service.CreatePortfolio(r.Context(), req.UserID, req.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// HandleListPortfolios handles GET /portfolios/list?user_id=
func (h *Handler) HandleListPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.service.ListPortfolios(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, portfolios)
}

// HandleRenamePortfolio handles PUT /portfolios/rename
func (h *Handler) HandleRenamePortfolio(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.RenamePortfolio(r.Context(), req.PortfolioID, req.Name); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "OK"})
}

// HandleDuplicatePortfolio handles POST /portfolios/duplicate
func (h *Handler) HandleDuplicatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.service.DuplicatePortfolio(r.Context(), req.PortfolioID, req.UserID, req.NewName)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "Duplicated", "id": p.ID})
}

// HandleDeletePortfolio handles DELETE /portfolios/delete/{id}
func (h *Handler) HandleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePortfolio(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "OK"})
}

// HandleUpdateContribution handles PUT /portfolios/update_contribution?portfolio_id=&amount=
func (h *Handler) HandleUpdateContribution(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "amount must be a number")
		return
	}

	if err := h.service.UpdateContribution(r.Context(), r.URL.Query().Get("portfolio_id"), amount); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "Updated"})
}

// HandleAddAsset handles POST /portfolio/add
func (h *Handler) HandleAddAsset(w http.ResponseWriter, r *http.Request) {
	var req addAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := h.service.AddAsset(r.Context(), req.PortfolioID, req.Ticker)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "asset_name": name})
}

// HandleGetPortfolio handles GET /portfolio/{id}.
// Store failures degrade to an empty list.
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	valued, err := h.service.Valuate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.Warn().Err(err).Msg("Valuation failed")
		valued = []portfolio.ValuedItem{}
	}

	h.writeJSON(w, http.StatusOK, valued)
}

// HandleUpdateItem handles PUT /portfolio/update
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateItem(r.Context(), req.ItemID, req.UnitsHeld, req.TargetWeight); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "OK"})
}

// HandleDeleteItem handles DELETE /portfolio/delete/{item_id}
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "item_id")); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "OK"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Err(err).Msg("Portfolio operation failed")
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
