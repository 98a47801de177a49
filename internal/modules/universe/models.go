// Package universe manages the asset catalog and symbol search.
package universe

import "github.com/aristath/fandance/internal/domain"

// Asset is a tradable instrument known to the catalog.
// Ticker is unique and always stored normalized.
type Asset struct {
	ID        string           `json:"id"`
	Ticker    string           `json:"ticker"`
	Name      string           `json:"name"`
	Type      domain.AssetType `json:"type"`
	Sector    string           `json:"sector"`
	Country   string           `json:"country"`
	Currency  string           `json:"currency"`
	CreatedAt string           `json:"created_at"`
}

// SearchResult is one row of the asset search endpoint
type SearchResult struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	TypeDisplay string `json:"type_display"`
	Exchange    string `json:"exchange"`
}
