package di

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fandance/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DataDir:  t.TempDir(),
		Port:     8000,
		LogLevel: "info",
		MarketData: config.MarketDataConfig{
			BaseURL:     config.DefaultYahooBaseURL,
			SearchURL:   config.DefaultYahooSearchURL,
			Timeout:     time.Second,
			RateLimit:   5,
			Concurrency: 2,
		},
		NewsFeedURL:         config.DefaultNewsFeedURL,
		MaintenanceSchedule: "@every 1h",
	}
}

func TestWire(t *testing.T) {
	container, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, container)
	t.Cleanup(func() { _ = container.Close() })

	// Verify container is fully populated
	assert.NotNil(t, container.PortfolioDB)
	assert.NotNil(t, container.YahooClient)
	assert.NotNil(t, container.NewsClient)
	assert.NotNil(t, container.AssetRepo)
	assert.NotNil(t, container.HistoryRepo)
	assert.NotNil(t, container.UniverseService)
	assert.NotNil(t, container.PortfolioService)
	assert.NotNil(t, container.RebalancingService)
	assert.NotNil(t, container.LedgerService)
	assert.NotNil(t, container.ChartService)
	assert.NotNil(t, container.SimulationService)
	assert.NotNil(t, container.SentimentService)
	require.NotNil(t, container.Scheduler)
	assert.Equal(t, 1, container.Scheduler.Entries())

	// Schema is applied
	var tables int
	require.NoError(t, container.PortfolioDB.Conn().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name LIKE 'rebalance_history%'",
	).Scan(&tables))
	assert.Equal(t, 2, tables)
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaintenanceSchedule = "whenever"

	_, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestInitializeRepositories_RequiresDatabase(t *testing.T) {
	assert.Error(t, InitializeRepositories(&Container{}, zerolog.Nop()))
	assert.Error(t, InitializeServices(&Container{}, testConfig(t), zerolog.Nop()))
}
