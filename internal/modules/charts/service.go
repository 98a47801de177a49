package charts

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
)

// ItemLister returns the stored holdings of a portfolio
type ItemLister interface {
	Items(ctx context.Context, portfolioID string) ([]portfolio.Item, error)
}

// Service builds portfolio value charts
type Service struct {
	items       ItemLister
	market      domain.MarketDataProvider
	concurrency int
	log         zerolog.Logger
}

// NewService creates a new chart service. concurrency bounds parallel history fetches.
func NewService(items ItemLister, market domain.MarketDataProvider, concurrency int, log zerolog.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		items:       items,
		market:      market,
		concurrency: concurrency,
		log:         log.With().Str("service", "charts").Logger(),
	}
}

// History returns the value series of a portfolio over period.
// It never fails: any problem yields an empty chart.
func (s *Service) History(ctx context.Context, portfolioID, period string) Chart {
	if period == "" {
		period = DefaultPeriod
	}

	items, err := s.items.Items(ctx, portfolioID)
	if err != nil {
		s.log.Warn().Err(err).Str("portfolio_id", portfolioID).Msg("Chart holdings lookup failed")
		return EmptyChart()
	}

	holdings := holdingsOf(items)
	if len(holdings) == 0 {
		return EmptyChart()
	}

	interval := IntervalForPeriod(period)
	series := make(map[string][]domain.PricePoint, len(holdings))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, holding := range holdings {
		ticker := holding.Ticker
		g.Go(func() error {
			points, err := s.market.GetHistoricalPrices(gctx, ticker, period, interval)
			if err != nil {
				// the ticker is zero-filled rather than failing the chart
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("Price history unavailable")
				return nil
			}
			mu.Lock()
			series[ticker] = points
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	chart := Aggregate(holdings, series)

	s.log.Debug().
		Str("portfolio_id", portfolioID).
		Str("period", period).
		Str("interval", interval).
		Int("points", len(chart.History)).
		Msg("Chart built")

	return chart
}

// holdingsOf keeps items with a resolved ticker and positive units
func holdingsOf(items []portfolio.Item) []Holding {
	holdings := make([]Holding, 0, len(items))
	for _, item := range items {
		if item.Asset == nil || strings.TrimSpace(item.Asset.Ticker) == "" || item.UnitsHeld <= 0 {
			continue
		}
		holdings = append(holdings, Holding{Ticker: item.Asset.Ticker, Units: item.UnitsHeld})
	}
	return holdings
}
