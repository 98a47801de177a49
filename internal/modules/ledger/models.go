// Package ledger records applied rebalances so they can be audited and reversed.
package ledger

import "github.com/aristath/fandance/internal/domain"

// UnitsThreshold is the smallest order size that is recorded and applied
const UnitsThreshold = 1e-5

// UnknownAssetName labels history items whose order carried no asset name
const UnknownAssetName = "Desconocido"

// Entry is one applied rebalance
type Entry struct {
	ID               string      `json:"id"`
	PortfolioID      string      `json:"portfolio_id"`
	Contribution     float64     `json:"contribution"`
	TotalValueBefore float64     `json:"total_value_before"`
	TotalValueAfter  float64     `json:"total_value_after"`
	CreatedAt        string      `json:"created_at"`
	Items            []EntryItem `json:"items"`
}

// EntryItem is one executed order of an Entry.
// Units and Amount are magnitudes; Action carries the direction.
type EntryItem struct {
	ID        string             `json:"id"`
	HistoryID string             `json:"history_id"`
	AssetName string             `json:"asset_name"`
	Ticker    string             `json:"ticker"`
	Action    domain.TradeAction `json:"action"`
	Units     float64            `json:"units"`
	Amount    float64            `json:"amount"`
	Price     float64            `json:"price"`
}

// SignedUnits returns the holding delta that applying this item produced
func (i EntryItem) SignedUnits() float64 {
	if i.Action == domain.ActionBuy {
		return i.Units
	}
	return -i.Units
}
