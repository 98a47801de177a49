// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/fandance/internal/clients/newsfeed"
	"github.com/aristath/fandance/internal/clients/yahoo"
	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/modules/charts"
	"github.com/aristath/fandance/internal/modules/ledger"
	"github.com/aristath/fandance/internal/modules/portfolio"
	"github.com/aristath/fandance/internal/modules/rebalancing"
	"github.com/aristath/fandance/internal/modules/sentiment"
	"github.com/aristath/fandance/internal/modules/simulation"
	"github.com/aristath/fandance/internal/modules/universe"
	"github.com/aristath/fandance/internal/scheduler"
)

// Container holds all dependencies for the application.
//
// It is created by Wire() and handed to the HTTP server, which builds its
// handlers from the services here. The container owns the database and the
// scheduler; Close releases both.
type Container struct {
	// Database
	PortfolioDB *database.DB // Asset catalog, portfolios, holdings and rebalance history

	// Clients - external integrations
	YahooClient *yahoo.Client    // Market data provider
	NewsClient  *newsfeed.Client // RSS news provider

	// Repositories - data access layer
	AssetRepo     *universe.AssetRepository
	PortfolioRepo *portfolio.PortfolioRepository
	ItemRepo      *portfolio.ItemRepository
	HistoryRepo   *ledger.HistoryRepository

	// Services - business logic layer
	UniverseService    *universe.Service
	PortfolioService   *portfolio.Service
	RebalancingService *rebalancing.Service
	LedgerService      *ledger.Service
	ChartService       *charts.Service
	SimulationService  *simulation.Service
	SentimentService   *sentiment.Service

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// Close stops background jobs and closes the database
func (c *Container) Close() error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.PortfolioDB != nil {
		return c.PortfolioDB.Close()
	}
	return nil
}
