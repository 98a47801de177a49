package domain

import "context"

// MarketDataProvider defines the market data operations the backend depends on.
// Implementations must honour ctx cancellation and never return NaN prices.
type MarketDataProvider interface {
	// GetCurrentPrice returns the latest known price for ticker.
	// A missing quote is an error, never a silent zero.
	GetCurrentPrice(ctx context.Context, ticker string) (float64, error)

	// GetAssetMetadata returns descriptive data for ticker
	GetAssetMetadata(ctx context.Context, ticker string) (*AssetMetadata, error)

	// GetHistoricalPrices returns closes for ticker over period sampled at interval,
	// ordered by time ascending
	GetHistoricalPrices(ctx context.Context, ticker, period, interval string) ([]PricePoint, error)

	// SearchSymbols returns up to limit matches for a free-text query
	SearchSymbols(ctx context.Context, query string, limit int) ([]SymbolMatch, error)
}

// NewsProvider searches headlines for a free-text term
type NewsProvider interface {
	SearchNews(ctx context.Context, term string, limit int) ([]NewsItem, error)
}
