package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers news and sentiment routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/news", h.HandleNews)
}
