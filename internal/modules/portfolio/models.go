// Package portfolio manages portfolios, their holdings and their valuation.
package portfolio

import (
	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/universe"
)

// Portfolio is a named collection of holdings owned by a user
type Portfolio struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	LastContribution float64 `json:"last_contribution"`
	CreatedAt        string  `json:"created_at"`
}

// Item is a holding of one asset inside a portfolio.
// Asset is nil when the referenced asset row cannot be resolved.
type Item struct {
	ID           string          `json:"id"`
	PortfolioID  string          `json:"portfolio_id"`
	AssetID      string          `json:"asset_id"`
	UnitsHeld    float64         `json:"units_held"`
	TargetWeight float64         `json:"target_weight"`
	CreatedAt    string          `json:"created_at"`
	Asset        *universe.Asset `json:"asset,omitempty"`
}

// AssetSummary is the asset projection embedded in a valuation row
type AssetSummary struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Ticker string           `json:"ticker"`
	Type   domain.AssetType `json:"type"`
	Sector string           `json:"sector"`
}

// ValuedItem is a holding priced at current market value
type ValuedItem struct {
	ID           string       `json:"id"`
	UnitsHeld    float64      `json:"units_held"`
	TargetWeight float64      `json:"target_weight"`
	Asset        AssetSummary `json:"asset"`
	CurrentPrice float64      `json:"current_price"`
	Value        float64      `json:"value"`
	RealWeight   float64      `json:"real_weight"`
}

// TotalValue sums the value of every item
func TotalValue(items []ValuedItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Value
	}
	return total
}
