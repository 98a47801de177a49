// Package domain provides core domain models and types shared across modules.
package domain

import "time"

// AssetType classifies a tradable instrument
type AssetType string

const (
	AssetTypeStock  AssetType = "Stock"
	AssetTypeETF    AssetType = "ETF"
	AssetTypeFund   AssetType = "Fund"
	AssetTypeCrypto AssetType = "Crypto"
)

// Defaults applied when upstream metadata is missing
const (
	DefaultSector   = "General"
	DefaultCountry  = "Global"
	DefaultCurrency = "USD"
)

// TradeAction is the direction of a rebalance order
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// ActionForUnits derives the trade direction from a signed unit delta.
// Zero counts as a sale so that a no-op order never reads as a purchase.
func ActionForUnits(units float64) TradeAction {
	if units > 0 {
		return ActionBuy
	}
	return ActionSell
}

// AssetMetadata is what the market data provider knows about a ticker
type AssetMetadata struct {
	Name     string    `json:"name"`
	Type     AssetType `json:"type"`
	Sector   string    `json:"sector"`
	Country  string    `json:"country"`
	Currency string    `json:"currency"`
}

// SymbolMatch is a single result of an upstream symbol search
type SymbolMatch struct {
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	QuoteType string `json:"quote_type"`
	Exchange  string `json:"exchange"`
}

// PricePoint is one close in a historical price series.
// Samples without a close are never emitted, so consumers see gaps instead of zeros.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// NewsItem is a single headline returned by a news provider
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Publisher string `json:"publisher"`
	Time      string `json:"time"`
}
