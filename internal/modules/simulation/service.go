package simulation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
)

// PortfolioSource provides current valuations and stored names
type PortfolioSource interface {
	Valuate(ctx context.Context, portfolioID string) ([]portfolio.ValuedItem, error)
	GetPortfolio(ctx context.Context, id string) (*portfolio.Portfolio, error)
}

// Service runs growth simulations for portfolios
type Service struct {
	portfolios PortfolioSource
	log        zerolog.Logger
}

// NewService creates a new simulation service
func NewService(portfolios PortfolioSource, log zerolog.Logger) *Service {
	return &Service{
		portfolios: portfolios,
		log:        log.With().Str("service", "simulation").Logger(),
	}
}

// Run projects every portfolio in req concurrently.
// Results follow the order of req.PortfolioIDs.
func (s *Service) Run(ctx context.Context, req Request) ([]Result, error) {
	if req.Years < 0 || req.Years > MaxYears {
		return nil, fmt.Errorf("years must be between 0 and %d: %w", MaxYears, domain.ErrValidation)
	}

	scenario := ScenarioFor(req.SimType)
	results := make([]Result, len(req.PortfolioIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, portfolioID := range req.PortfolioIDs {
		i, portfolioID := i, portfolioID
		g.Go(func() error {
			start, name := s.startingPoint(gctx, portfolioID, req.InitialCapital)

			proj := Project(Params{
				StartValue:          start,
				Years:               req.Years,
				MonthlyContribution: req.MonthlyContribution,
				Growing:             req.ContributionMode == ContributionGrowing,
				GrowthRate:          req.GrowthRate,
				TaxEnabled:          req.TaxRate,
				Scenario:            scenario,
			})

			results[i] = toResult(portfolioID, name, proj)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("sim_type", req.SimType).
		Int("years", req.Years).
		Int("portfolios", len(results)).
		Msg("Simulation completed")

	return results, nil
}

// startingPoint returns the current valuation, or initialCapital when it is zero,
// along with the portfolio's name
func (s *Service) startingPoint(ctx context.Context, portfolioID string, initialCapital float64) (float64, string) {
	name := DefaultPortfolioName
	if p, err := s.portfolios.GetPortfolio(ctx, portfolioID); err == nil && p != nil {
		name = p.Name
	}

	current := 0.0
	valued, err := s.portfolios.Valuate(ctx, portfolioID)
	if err != nil {
		s.log.Warn().Err(err).Str("portfolio_id", portfolioID).Msg("Valuation failed, starting from initial capital")
	} else {
		current = portfolio.TotalValue(valued)
	}

	if current == 0 {
		current = initialCapital
	}
	return current, name
}
