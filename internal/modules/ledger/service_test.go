package ledger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
	"github.com/aristath/fandance/internal/modules/rebalancing"
	"github.com/aristath/fandance/internal/modules/universe"
	testingpkg "github.com/aristath/fandance/internal/testing"
)

type fixture struct {
	db          *database.DB
	market      *testingpkg.MockMarketDataProvider
	portfolios  *portfolio.Service
	service     *Service
	portfolioID string
	itemID      string
}

// newFixture seeds one portfolio holding 10 AAPL at a price of 100 with a 100% target
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	market := testingpkg.NewMockMarketDataProvider()
	market.SetPrice("AAPL", 100)

	portfolioRepo := portfolio.NewPortfolioRepository(db.Conn(), log)
	itemRepo := portfolio.NewItemRepository(db.Conn(), log)
	assets := universe.NewService(universe.NewAssetRepository(db.Conn(), log), market, log)
	portfolios := portfolio.NewService(db.Conn(), portfolioRepo, itemRepo, assets, portfolio.NewValuator(market, 4, log), log)

	service := NewService(db.Conn(), NewHistoryRepository(db.Conn(), log), portfolioRepo, itemRepo, portfolios, log)

	portfolioID := testingpkg.SeedPortfolio(t, db.Conn(), "user-1", "Main")
	assetID := testingpkg.SeedAsset(t, db.Conn(), "AAPL", "Apple Inc.", "Stock")
	itemID := testingpkg.SeedPortfolioItem(t, db.Conn(), portfolioID, assetID, 10, 100)

	return &fixture{
		db:          db,
		market:      market,
		portfolios:  portfolios,
		service:     service,
		portfolioID: portfolioID,
		itemID:      itemID,
	}
}

func (f *fixture) plan(t *testing.T, contribution float64) rebalancing.Plan {
	t.Helper()

	valued, err := f.portfolios.Valuate(context.Background(), f.portfolioID)
	require.NoError(t, err)
	return rebalancing.ComputeRebalance(valued, contribution)
}

func TestService_ApplyAndUndoRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plan := f.plan(t, 500)
	require.Len(t, plan.Orders, 1)
	assert.Equal(t, 5.0, plan.Orders[0].UnitsToTrade)

	entry, err := f.service.Apply(ctx, f.portfolioID, 500, plan.Orders)
	require.NoError(t, err)
	assert.Equal(t, 15.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))
	assert.Equal(t, 1000.0, entry.TotalValueBefore)
	assert.Equal(t, 1500.0, entry.TotalValueAfter)

	require.Len(t, entry.Items, 1)
	assert.Equal(t, domain.ActionBuy, entry.Items[0].Action)
	assert.Equal(t, 5.0, entry.Items[0].Units)
	assert.Equal(t, 500.0, entry.Items[0].Amount)

	p, err := f.portfolios.GetPortfolio(ctx, f.portfolioID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.LastContribution)

	require.NoError(t, f.service.Undo(ctx, entry.ID))
	assert.Equal(t, 10.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))

	history, err := f.service.List(ctx, f.portfolioID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_ApplySellAndUndo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orders := []rebalancing.Order{{ID: f.itemID, Ticker: "AAPL", UnitsToTrade: -4, DiffVal: -400, Price: 100}}
	entry, err := f.service.Apply(ctx, f.portfolioID, 0, orders)
	require.NoError(t, err)

	assert.Equal(t, 6.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))
	require.Len(t, entry.Items, 1)
	assert.Equal(t, domain.ActionSell, entry.Items[0].Action)
	assert.Equal(t, 4.0, entry.Items[0].Units)
	assert.Equal(t, 400.0, entry.Items[0].Amount)
	assert.Equal(t, "Apple Inc.", entry.Items[0].AssetName)

	require.NoError(t, f.service.Undo(ctx, entry.ID))
	assert.Equal(t, 10.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))
}

func TestService_ApplyIgnoresSubThresholdOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orders := []rebalancing.Order{{ID: f.itemID, Ticker: "AAPL", UnitsToTrade: 0.000001, Price: 100}}
	entry, err := f.service.Apply(ctx, f.portfolioID, 0, orders)
	require.NoError(t, err)

	assert.Empty(t, entry.Items)
	assert.Equal(t, 10.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))

	history, err := f.service.List(ctx, f.portfolioID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Empty(t, history[0].Items)
}

func TestService_ApplyResolvesByTickerAndSkipsUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orders := []rebalancing.Order{
		{ID: "stale-id", Ticker: "aapl", UnitsToTrade: 2, DiffVal: 200, Price: 100},
		{ID: "missing", Ticker: "TSLA", UnitsToTrade: 1, DiffVal: 250, Price: 250},
	}
	entry, err := f.service.Apply(ctx, f.portfolioID, 200, orders)
	require.NoError(t, err)

	assert.Equal(t, 12.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))
	require.Len(t, entry.Items, 1)
	assert.Equal(t, "AAPL", entry.Items[0].Ticker)
}

func TestService_SellClampsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orders := []rebalancing.Order{{ID: f.itemID, Ticker: "AAPL", UnitsToTrade: -25, DiffVal: -2500, Price: 100}}
	_, err := f.service.Apply(ctx, f.portfolioID, 0, orders)
	require.NoError(t, err)

	assert.Equal(t, 0.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))
}

func TestService_ClampedSellUndoRestoresHolding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orders := []rebalancing.Order{{ID: f.itemID, Ticker: "AAPL", UnitsToTrade: -25, DiffVal: -2500, Price: 100}}
	entry, err := f.service.Apply(ctx, f.portfolioID, 0, orders)
	require.NoError(t, err)

	require.Len(t, entry.Items, 1)
	assert.Equal(t, domain.ActionSell, entry.Items[0].Action)
	assert.Equal(t, 10.0, entry.Items[0].Units)
	assert.InDelta(t, 1000.0, entry.Items[0].Amount, 1e-9)
	assert.Equal(t, 0.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))

	require.NoError(t, f.service.Undo(ctx, entry.ID))
	assert.Equal(t, 10.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))
}

func TestService_SellFromEmptyHoldingRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orders := []rebalancing.Order{{ID: f.itemID, Ticker: "AAPL", UnitsToTrade: -10, DiffVal: -1000, Price: 100}}
	_, err := f.service.Apply(ctx, f.portfolioID, 0, orders)
	require.NoError(t, err)

	entry, err := f.service.Apply(ctx, f.portfolioID, 0, orders)
	require.NoError(t, err)
	assert.Empty(t, entry.Items)
	assert.Equal(t, 0.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))
}

func TestExecutableUnits(t *testing.T) {
	assert.Equal(t, 5.0, executableUnits(5, 0))
	assert.Equal(t, -4.0, executableUnits(-4, 10))
	assert.Equal(t, -10.0, executableUnits(-25, 10))
	assert.Equal(t, 0.0, executableUnits(-3, -1))
}

func TestService_ApplyUnknownPortfolio(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Apply(context.Background(), "nope", 100, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.service.Apply(context.Background(), "", 100, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_UndoAndDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.service.Undo(ctx, "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, f.service.Undo(ctx, ""), domain.ErrValidation)
	assert.ErrorIs(t, f.service.Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestService_DeleteKeepsHoldings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.service.Apply(ctx, f.portfolioID, 500, f.plan(t, 500).Orders)
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, entry.ID))
	assert.Equal(t, 15.0, testingpkg.UnitsHeld(t, f.db.Conn(), f.itemID))

	history, err := f.service.List(ctx, f.portfolioID)
	require.NoError(t, err)
	assert.Empty(t, history)

	var items int
	require.NoError(t, f.db.Conn().QueryRow("SELECT COUNT(*) FROM rebalance_history_items").Scan(&items))
	assert.Zero(t, items)
}

func TestService_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Apply(ctx, f.portfolioID, 100, nil)
	require.NoError(t, err)
	second, err := f.service.Apply(ctx, f.portfolioID, 200, nil)
	require.NoError(t, err)

	history, err := f.service.List(ctx, f.portfolioID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.NotNil(t, history[0].Items)
}
