package portfolio

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/universe"
	testingpkg "github.com/aristath/fandance/internal/testing"
)

type fixture struct {
	db      *database.DB
	market  *testingpkg.MockMarketDataProvider
	service *Service
	items   *ItemRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	market := testingpkg.NewMockMarketDataProvider()
	assets := universe.NewService(universe.NewAssetRepository(db.Conn(), log), market, log)
	items := NewItemRepository(db.Conn(), log)

	service := NewService(
		db.Conn(),
		NewPortfolioRepository(db.Conn(), log),
		items,
		assets,
		NewValuator(market, 4, log),
		log,
	)

	return &fixture{db: db, market: market, service: service, items: items}
}

func TestService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.CreatePortfolio(ctx, "user-1", "Retirement")
	require.NoError(t, err)
	second, err := f.service.CreatePortfolio(ctx, "user-1", "Growth")
	require.NoError(t, err)
	_, err = f.service.CreatePortfolio(ctx, "user-2", "Other")
	require.NoError(t, err)

	list, err := f.service.ListPortfolios(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, 0.0, list[0].LastContribution)
}

func TestService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreatePortfolio(context.Background(), "", "Name")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.CreatePortfolio(context.Background(), "user", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.ListPortfolios(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_RenameAndContribution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.service.CreatePortfolio(ctx, "user-1", "Old")
	require.NoError(t, err)

	require.NoError(t, f.service.RenamePortfolio(ctx, p.ID, "New"))
	require.NoError(t, f.service.UpdateContribution(ctx, p.ID, 250))

	stored, err := f.service.GetPortfolio(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Name)
	assert.Equal(t, 250.0, stored.LastContribution)

	assert.ErrorIs(t, f.service.RenamePortfolio(ctx, "missing", "X"), domain.ErrNotFound)
	assert.ErrorIs(t, f.service.UpdateContribution(ctx, "missing", 1), domain.ErrNotFound)
	_, err = f.service.GetPortfolio(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_AddAssetIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.market.SetMetadata("AAPL", &domain.AssetMetadata{Name: "Apple Inc.", Type: domain.AssetTypeStock})

	p, err := f.service.CreatePortfolio(ctx, "user-1", "Main")
	require.NoError(t, err)

	name, err := f.service.AddAsset(ctx, p.ID, " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", name)

	_, err = f.service.AddAsset(ctx, p.ID, "AAPL")
	require.NoError(t, err)

	items, err := f.service.Items(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0.0, items[0].UnitsHeld)
	assert.Equal(t, 0.0, items[0].TargetWeight)
	require.NotNil(t, items[0].Asset)
	assert.Equal(t, "AAPL", items[0].Asset.Ticker)

	_, err = f.service.AddAsset(ctx, "missing", "AAPL")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_UpdateAndDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conn := f.db.Conn()

	portfolioID := testingpkg.SeedPortfolio(t, conn, "user-1", "Main")
	assetID := testingpkg.SeedAsset(t, conn, "AAA", "Alpha", "Stock")
	itemID := testingpkg.SeedPortfolioItem(t, conn, portfolioID, assetID, 1, 10)

	require.NoError(t, f.service.UpdateItem(ctx, itemID, 12.5, 70))
	assert.Equal(t, 12.5, testingpkg.UnitsHeld(t, conn, itemID))

	assert.ErrorIs(t, f.service.UpdateItem(ctx, itemID, -1, 70), domain.ErrValidation)
	assert.ErrorIs(t, f.service.UpdateItem(ctx, "missing", 1, 1), domain.ErrNotFound)

	require.NoError(t, f.service.DeleteItem(ctx, itemID))
	assert.ErrorIs(t, f.service.DeleteItem(ctx, itemID), domain.ErrNotFound)
}

func TestService_DuplicateCopiesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conn := f.db.Conn()

	sourceID := testingpkg.SeedPortfolio(t, conn, "user-1", "Source")
	a := testingpkg.SeedAsset(t, conn, "AAA", "Alpha", "Stock")
	b := testingpkg.SeedAsset(t, conn, "BBB", "Beta", "ETF")
	itemA := testingpkg.SeedPortfolioItem(t, conn, sourceID, a, 10, 60)
	testingpkg.SeedPortfolioItem(t, conn, sourceID, b, 4, 40)

	copied, err := f.service.DuplicatePortfolio(ctx, sourceID, "user-2", "Copy")
	require.NoError(t, err)
	assert.Equal(t, "user-2", copied.UserID)
	assert.Equal(t, "Copy", copied.Name)

	items, err := f.service.Items(ctx, copied.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a, items[0].AssetID)
	assert.Equal(t, 10.0, items[0].UnitsHeld)
	assert.Equal(t, 60.0, items[0].TargetWeight)
	assert.NotEqual(t, itemA, items[0].ID)
	assert.Equal(t, b, items[1].AssetID)

	_, err = f.service.DuplicatePortfolio(ctx, "missing", "user-2", "Copy")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_DeletePortfolioCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conn := f.db.Conn()

	portfolioID := testingpkg.SeedPortfolio(t, conn, "user-1", "Main")
	assetID := testingpkg.SeedAsset(t, conn, "AAA", "Alpha", "Stock")
	testingpkg.SeedPortfolioItem(t, conn, portfolioID, assetID, 1, 100)

	require.NoError(t, f.service.DeletePortfolio(ctx, portfolioID))

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM portfolio_items WHERE portfolio_id = ?", portfolioID).Scan(&count))
	assert.Equal(t, 0, count)

	assert.ErrorIs(t, f.service.DeletePortfolio(ctx, portfolioID), domain.ErrNotFound)
}

func TestService_Valuate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conn := f.db.Conn()
	f.market.SetPrice("AAA", 100)
	f.market.SetPrice("BBB", 25)

	portfolioID := testingpkg.SeedPortfolio(t, conn, "user-1", "Main")
	testingpkg.SeedPortfolioItem(t, conn, portfolioID, testingpkg.SeedAsset(t, conn, "AAA", "Alpha", "Stock"), 3, 50)
	testingpkg.SeedPortfolioItem(t, conn, portfolioID, testingpkg.SeedAsset(t, conn, "BBB", "Beta", "ETF"), 4, 50)

	valued, err := f.service.Valuate(ctx, portfolioID)
	require.NoError(t, err)
	require.Len(t, valued, 2)
	assert.Equal(t, 300.0, valued[0].Value)
	assert.Equal(t, 75.0, valued[0].RealWeight)
	assert.Equal(t, 100.0, valued[1].Value)
	assert.Equal(t, 25.0, valued[1].RealWeight)
	assert.Equal(t, 400.0, TotalValue(valued))

	empty, err := f.service.Valuate(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestItemRepository_AdjustUnitsClampsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conn := f.db.Conn()

	portfolioID := testingpkg.SeedPortfolio(t, conn, "user-1", "Main")
	itemID := testingpkg.SeedPortfolioItem(t, conn, portfolioID, testingpkg.SeedAsset(t, conn, "AAA", "Alpha", "Stock"), 2, 100)

	found, err := f.items.AdjustUnits(ctx, portfolioID, itemID, 3.5)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 5.5, testingpkg.UnitsHeld(t, conn, itemID))

	_, err = f.items.AdjustUnits(ctx, portfolioID, itemID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, testingpkg.UnitsHeld(t, conn, itemID))

	found, err = f.items.AdjustUnits(ctx, "other-portfolio", itemID, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestItemRepository_FindByTicker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conn := f.db.Conn()

	portfolioID := testingpkg.SeedPortfolio(t, conn, "user-1", "Main")
	itemID := testingpkg.SeedPortfolioItem(t, conn, portfolioID, testingpkg.SeedAsset(t, conn, "AAA", "Alpha", "Stock"), 2, 100)

	found, err := f.items.FindByTicker(ctx, portfolioID, "aaa")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, itemID, found.ID)

	missing, err := f.items.FindByTicker(ctx, portfolioID, "ZZZ")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
