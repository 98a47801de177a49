package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers asset catalog routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assets/search", h.HandleSearch)
}
