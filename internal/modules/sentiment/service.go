package sentiment

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/pkg/formulas"
)

// Service builds news and sentiment reports
type Service struct {
	market      domain.MarketDataProvider
	news        domain.NewsProvider
	concurrency int
	log         zerolog.Logger
}

// NewService creates a new sentiment service. concurrency bounds parallel asset lookups.
func NewService(market domain.MarketDataProvider, news domain.NewsProvider, concurrency int, log zerolog.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		market:      market,
		news:        news,
		concurrency: concurrency,
		log:         log.With().Str("service", "sentiment").Logger(),
	}
}

// Report fetches headlines and an RSI score for every asset with a ticker.
// Upstream failures degrade to no headlines and a neutral score.
func (s *Service) Report(ctx context.Context, assets []AssetRef) Report {
	report := Report{
		News:       make(map[string][]domain.NewsItem),
		Sentiments: make(map[string]Score),
	}

	scores := make([]int, len(assets))
	analysed := make([]bool, len(assets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, asset := range assets {
		i, asset := i, asset
		ticker := strings.TrimSpace(asset.Ticker)
		if ticker == "" {
			continue
		}

		g.Go(func() error {
			headlines := s.headlines(gctx, asset.Name, ticker)
			score := s.rsi(gctx, ticker)

			mu.Lock()
			report.News[ticker] = headlines
			report.Sentiments[ticker] = NewScore(score)
			mu.Unlock()

			scores[i], analysed[i] = score, true
			return nil
		})
	}
	_ = g.Wait()

	total, count := 0, 0
	for i, ok := range analysed {
		if ok {
			total += scores[i]
			count++
		}
	}

	aggregate := formulas.NeutralRSI
	if count > 0 {
		aggregate = int(formulas.RoundInt(float64(total) / float64(count)))
	}
	report.Aggregate = NewScore(aggregate)

	return report
}

func (s *Service) headlines(ctx context.Context, name, ticker string) []domain.NewsItem {
	items, err := s.news.SearchNews(ctx, QueryTerm(name, ticker), MaxNewsPerAsset)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("News unavailable")
		return []domain.NewsItem{}
	}
	if len(items) > MaxNewsPerAsset {
		items = items[:MaxNewsPerAsset]
	}
	if items == nil {
		items = []domain.NewsItem{}
	}
	return items
}

func (s *Service) rsi(ctx context.Context, ticker string) int {
	points, err := s.market.GetHistoricalPrices(ctx, ticker, HistoryPeriod, HistoryInterval)
	if err != nil {
		s.log.Debug().Err(err).Str("ticker", ticker).Msg("RSI history unavailable")
		return formulas.NeutralRSI
	}

	closes := make([]float64, 0, len(points))
	for _, p := range points {
		closes = append(closes, p.Close)
	}
	return formulas.RSIScore(closes, RSIPeriod)
}
