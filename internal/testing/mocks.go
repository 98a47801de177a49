package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/aristath/fandance/internal/domain"
)

// MockMarketDataProvider is a mock implementation of domain.MarketDataProvider for testing
type MockMarketDataProvider struct {
	mu         sync.RWMutex
	prices     map[string]float64
	metadata   map[string]*domain.AssetMetadata
	history    map[string][]domain.PricePoint
	matches    []domain.SymbolMatch
	err        error
	priceCalls int
}

// NewMockMarketDataProvider creates a new mock market data provider
func NewMockMarketDataProvider() *MockMarketDataProvider {
	return &MockMarketDataProvider{
		prices:   make(map[string]float64),
		metadata: make(map[string]*domain.AssetMetadata),
		history:  make(map[string][]domain.PricePoint),
	}
}

// SetPrice sets the price returned for ticker
func (m *MockMarketDataProvider) SetPrice(ticker string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[ticker] = price
}

// SetMetadata sets the metadata returned for ticker
func (m *MockMarketDataProvider) SetMetadata(ticker string, meta *domain.AssetMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[ticker] = meta
}

// SetHistory sets the historical series returned for ticker
func (m *MockMarketDataProvider) SetHistory(ticker string, points []domain.PricePoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[ticker] = points
}

// SetMatches sets the search results
func (m *MockMarketDataProvider) SetMatches(matches []domain.SymbolMatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = matches
}

// SetError makes every call fail with err
func (m *MockMarketDataProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// PriceCalls returns how many times GetCurrentPrice was called
func (m *MockMarketDataProvider) PriceCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.priceCalls
}

// GetCurrentPrice returns the configured price or an error for unknown tickers
func (m *MockMarketDataProvider) GetCurrentPrice(ctx context.Context, ticker string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceCalls++
	if m.err != nil {
		return 0, m.err
	}
	price, ok := m.prices[ticker]
	if !ok {
		return 0, fmt.Errorf("no price for %s: %w", ticker, domain.ErrUpstreamUnavailable)
	}
	return price, nil
}

// GetAssetMetadata returns the configured metadata
func (m *MockMarketDataProvider) GetAssetMetadata(ctx context.Context, ticker string) (*domain.AssetMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	meta, ok := m.metadata[ticker]
	if !ok {
		return nil, fmt.Errorf("no metadata for %s: %w", ticker, domain.ErrUpstreamUnavailable)
	}
	copied := *meta
	return &copied, nil
}

// GetHistoricalPrices returns the configured series regardless of period and interval
func (m *MockMarketDataProvider) GetHistoricalPrices(ctx context.Context, ticker, period, interval string) ([]domain.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	points, ok := m.history[ticker]
	if !ok {
		return nil, fmt.Errorf("no history for %s: %w", ticker, domain.ErrUpstreamUnavailable)
	}
	return append([]domain.PricePoint(nil), points...), nil
}

// SearchSymbols returns the configured matches truncated to limit
func (m *MockMarketDataProvider) SearchSymbols(ctx context.Context, query string, limit int) ([]domain.SymbolMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && len(m.matches) > limit {
		return append([]domain.SymbolMatch(nil), m.matches[:limit]...), nil
	}
	return append([]domain.SymbolMatch(nil), m.matches...), nil
}

// MockNewsProvider is a mock implementation of domain.NewsProvider for testing
type MockNewsProvider struct {
	mu    sync.RWMutex
	items map[string][]domain.NewsItem
	terms []string
	err   error
}

// NewMockNewsProvider creates a new mock news provider
func NewMockNewsProvider() *MockNewsProvider {
	return &MockNewsProvider{items: make(map[string][]domain.NewsItem)}
}

// SetNews sets the headlines returned for term
func (m *MockNewsProvider) SetNews(term string, items []domain.NewsItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[term] = items
}

// SetError makes every search fail with err
func (m *MockNewsProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Terms returns every term searched so far
func (m *MockNewsProvider) Terms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.terms...)
}

// SearchNews returns the configured headlines for term truncated to limit
func (m *MockNewsProvider) SearchNews(ctx context.Context, term string, limit int) ([]domain.NewsItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms = append(m.terms, term)
	if m.err != nil {
		return nil, m.err
	}
	items := m.items[term]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]domain.NewsItem(nil), items...), nil
}
