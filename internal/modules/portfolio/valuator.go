package portfolio

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/pkg/formulas"
)

// DefaultValuationConcurrency bounds concurrent price lookups when none is configured
const DefaultValuationConcurrency = 8

// Valuator prices portfolio holdings at current market value
type Valuator struct {
	market      domain.MarketDataProvider
	concurrency int
	log         zerolog.Logger
}

// NewValuator creates a new valuator. concurrency bounds the in-flight price lookups.
func NewValuator(market domain.MarketDataProvider, concurrency int, log zerolog.Logger) *Valuator {
	if concurrency <= 0 {
		concurrency = DefaultValuationConcurrency
	}
	return &Valuator{
		market:      market,
		concurrency: concurrency,
		log:         log.With().Str("service", "valuator").Logger(),
	}
}

// Value prices every item that has a resolved asset.
//
// A failed price lookup counts as a zero price. Weights are percentages of the
// total and are all zero when the total is not positive. Output keeps input order.
func (v *Valuator) Value(ctx context.Context, items []Item) []ValuedItem {
	resolved := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Asset == nil {
			v.log.Debug().Str("item_id", item.ID).Msg("Skipping item without asset")
			continue
		}
		resolved = append(resolved, item)
	}

	prices := make([]float64, len(resolved))

	var g errgroup.Group
	g.SetLimit(v.concurrency)
	for i, item := range resolved {
		i, ticker := i, item.Asset.Ticker
		g.Go(func() error {
			price, err := v.market.GetCurrentPrice(ctx, ticker)
			if err != nil {
				v.log.Warn().Err(err).Str("ticker", ticker).Msg("Price lookup failed, valuing at zero")
				return nil
			}
			prices[i] = formulas.SafeFloat(price)
			return nil
		})
	}
	_ = g.Wait()

	valued := make([]ValuedItem, len(resolved))
	for i, item := range resolved {
		valued[i] = ValuedItem{
			ID:           item.ID,
			UnitsHeld:    item.UnitsHeld,
			TargetWeight: item.TargetWeight,
			Asset: AssetSummary{
				ID:     item.Asset.ID,
				Name:   item.Asset.Name,
				Ticker: item.Asset.Ticker,
				Type:   item.Asset.Type,
				Sector: item.Asset.Sector,
			},
			CurrentPrice: prices[i],
			Value:        formulas.Round(formulas.SafeFloat(item.UnitsHeld*prices[i]), 2),
		}
	}

	total := TotalValue(valued)
	for i := range valued {
		if total > 0 {
			valued[i].RealWeight = formulas.Round(valued[i].Value/total*100, 2)
		}
	}

	return valued
}
