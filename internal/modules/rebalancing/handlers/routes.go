package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers rebalance planning routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/rebalance", h.HandleRebalance)
}
