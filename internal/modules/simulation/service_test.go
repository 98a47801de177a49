package simulation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
)

type stubPortfolios struct {
	values map[string]float64
	names  map[string]string
}

func (s stubPortfolios) Valuate(ctx context.Context, portfolioID string) ([]portfolio.ValuedItem, error) {
	v, ok := s.values[portfolioID]
	if !ok {
		return nil, errors.New("valuation unavailable")
	}
	return []portfolio.ValuedItem{{ID: "i1", Value: v}}, nil
}

func (s stubPortfolios) GetPortfolio(ctx context.Context, id string) (*portfolio.Portfolio, error) {
	name, ok := s.names[id]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	return &portfolio.Portfolio{ID: id, Name: name}, nil
}

func TestService_Run(t *testing.T) {
	source := stubPortfolios{
		values: map[string]float64{"p1": 1000, "p2": 0},
		names:  map[string]string{"p1": "Retirement", "p2": "Empty"},
	}
	service := NewService(source, zerolog.Nop())

	results, err := service.Run(context.Background(), Request{
		PortfolioIDs:   []string{"p1", "p2", "ghost"},
		Years:          1,
		InitialCapital: 2000,
		SimType:        ScenarioBaseline,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "p1", results[0].PortfolioID)
	assert.Equal(t, "Retirement", results[0].PortfolioName)
	assert.Equal(t, int64(1000), results[0].Data[0].Value)
	assert.Equal(t, int64(1072), results[0].FinalGross)

	// zero valuation starts from the initial capital
	assert.Equal(t, "Empty", results[1].PortfolioName)
	assert.Equal(t, int64(2000), results[1].Data[0].Value)
	assert.Equal(t, int64(2000), results[1].TotalInvested)

	assert.Equal(t, "ghost", results[2].PortfolioID)
	assert.Equal(t, DefaultPortfolioName, results[2].PortfolioName)
	assert.Equal(t, int64(2000), results[2].Data[0].Value)
}

func TestService_RunValidatesYears(t *testing.T) {
	service := NewService(stubPortfolios{}, zerolog.Nop())

	_, err := service.Run(context.Background(), Request{Years: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Run(context.Background(), Request{Years: MaxYears + 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	results, err := service.Run(context.Background(), Request{Years: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}
