package rebalancing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
)

// Valuer prices a portfolio's holdings
type Valuer interface {
	Valuate(ctx context.Context, portfolioID string) ([]portfolio.ValuedItem, error)
}

// Service computes rebalance plans from fresh valuations
type Service struct {
	valuer Valuer
	log    zerolog.Logger
}

// NewService creates a new rebalancing service
func NewService(valuer Valuer, log zerolog.Logger) *Service {
	return &Service{
		valuer: valuer,
		log:    log.With().Str("service", "rebalancing").Logger(),
	}
}

// Plan values the portfolio now and computes the orders for contribution
func (s *Service) Plan(ctx context.Context, portfolioID string, contribution float64) (*Plan, error) {
	if portfolioID == "" {
		return nil, fmt.Errorf("portfolio_id is required: %w", domain.ErrValidation)
	}

	items, err := s.valuer.Valuate(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	plan := ComputeRebalance(items, contribution)

	s.log.Debug().
		Str("portfolio_id", portfolioID).
		Float64("current_total", plan.CurrentTotal).
		Float64("future_total", plan.FutureTotal).
		Int("orders", len(plan.Orders)).
		Msg("Rebalance computed")

	return &plan, nil
}
