package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers rebalance apply and history routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/apply_rebalance", h.HandleApply)
	r.Post("/portfolio/history/undo", h.HandleUndo)
	r.Delete("/portfolio/history/delete/{id}", h.HandleDelete)
	r.Get("/portfolio/history/{portfolio_id}", h.HandleList)
}
