package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers portfolio management and holding routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolios", func(r chi.Router) {
		r.Post("/create", h.HandleCreatePortfolio)
		r.Get("/list", h.HandleListPortfolios)
		r.Put("/rename", h.HandleRenamePortfolio)
		r.Post("/duplicate", h.HandleDuplicatePortfolio)
		r.Delete("/delete/{id}", h.HandleDeletePortfolio)
		r.Put("/update_contribution", h.HandleUpdateContribution)
	})

	// /portfolio is shared with the rebalancing, ledger and chart handlers,
	// so these are registered as flat paths instead of a sub-router
	r.Post("/portfolio/add", h.HandleAddAsset)
	r.Get("/portfolio/{id}", h.HandleGetPortfolio)
	r.Put("/portfolio/update", h.HandleUpdateItem)
	r.Delete("/portfolio/delete/{item_id}", h.HandleDeleteItem)
}
