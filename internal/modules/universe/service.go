package universe

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/domain"
)

const (
	// MinSearchQueryLength is the shortest query forwarded upstream
	MinSearchQueryLength = 2
	// MaxSearchResults caps the number of search rows returned
	MaxSearchResults = 8
)

// Service resolves tickers into catalogued assets and searches symbols
type Service struct {
	repo   *AssetRepository
	market domain.MarketDataProvider
	log    zerolog.Logger
}

// NewService creates a new universe service
func NewService(repo *AssetRepository, market domain.MarketDataProvider, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		market: market,
		log:    log.With().Str("service", "universe").Logger(),
	}
}

// Repository exposes the asset repository for callers that need transactional access
func (s *Service) Repository() *AssetRepository {
	return s.repo
}

// ResolveMetadata fetches metadata for a normalized ticker, degrading to
// catalog defaults when the market data provider fails
func (s *Service) ResolveMetadata(ctx context.Context, ticker string) domain.AssetMetadata {
	defaults := domain.AssetMetadata{
		Name:     ticker,
		Type:     domain.AssetTypeStock,
		Sector:   domain.DefaultSector,
		Country:  domain.DefaultCountry,
		Currency: domain.DefaultCurrency,
	}

	meta, err := s.market.GetAssetMetadata(ctx, ticker)
	if err != nil || meta == nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Metadata lookup failed, using defaults")
		return defaults
	}

	return domain.AssetMetadata{
		Name:     valueOr(strings.TrimSpace(meta.Name), defaults.Name),
		Type:     valueOr(meta.Type, defaults.Type),
		Sector:   valueOr(meta.Sector, defaults.Sector),
		Country:  valueOr(meta.Country, defaults.Country),
		Currency: valueOr(meta.Currency, defaults.Currency),
	}
}

// EnsureAsset returns the catalogued asset for ticker, creating it from upstream
// metadata on first sight
func (s *Service) EnsureAsset(ctx context.Context, ticker string) (*Asset, error) {
	normalized := NormalizeTicker(ticker)
	if normalized == "" {
		return nil, fmt.Errorf("ticker is required: %w", domain.ErrValidation)
	}

	existing, err := s.repo.GetByTicker(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up asset %s: %w", normalized, err)
	}
	if existing != nil {
		return existing, nil
	}

	meta := s.ResolveMetadata(ctx, normalized)

	asset, err := s.repo.FindOrCreate(ctx, normalized, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset %s: %w", normalized, err)
	}

	s.log.Info().Str("ticker", asset.Ticker).Str("name", asset.Name).Msg("Asset catalogued")
	return asset, nil
}

// Search returns up to MaxSearchResults symbols matching q.
// Short queries and upstream failures yield an empty list.
func (s *Service) Search(ctx context.Context, q string) []SearchResult {
	q = strings.TrimSpace(q)
	results := make([]SearchResult, 0)
	if len([]rune(q)) < MinSearchQueryLength {
		return results
	}

	matches, err := s.market.SearchSymbols(ctx, q, MaxSearchResults)
	if err != nil {
		s.log.Warn().Err(err).Str("query", q).Msg("Symbol search failed")
		return results
	}

	for _, m := range matches {
		if m.Ticker == "" {
			continue
		}
		results = append(results, SearchResult{
			Ticker:      m.Ticker,
			Name:        valueOr(m.Name, m.Ticker),
			TypeDisplay: TypeDisplay(m.QuoteType),
			Exchange:    m.Exchange,
		})
		if len(results) == MaxSearchResults {
			break
		}
	}

	return results
}
