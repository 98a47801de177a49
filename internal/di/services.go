package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/clients/newsfeed"
	"github.com/aristath/fandance/internal/clients/yahoo"
	"github.com/aristath/fandance/internal/config"
	"github.com/aristath/fandance/internal/modules/charts"
	"github.com/aristath/fandance/internal/modules/ledger"
	"github.com/aristath/fandance/internal/modules/portfolio"
	"github.com/aristath/fandance/internal/modules/rebalancing"
	"github.com/aristath/fandance/internal/modules/sentiment"
	"github.com/aristath/fandance/internal/modules/simulation"
	"github.com/aristath/fandance/internal/modules/universe"
)

// InitializeRepositories creates every repository on the portfolio database
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container.PortfolioDB == nil {
		return fmt.Errorf("portfolio database not initialized")
	}

	conn := container.PortfolioDB.Conn()

	container.AssetRepo = universe.NewAssetRepository(conn, log)
	container.PortfolioRepo = portfolio.NewPortfolioRepository(conn, log)
	container.ItemRepo = portfolio.NewItemRepository(conn, log)
	container.HistoryRepo = ledger.NewHistoryRepository(conn, log)

	log.Info().Msg("Repositories initialized")
	return nil
}

// InitializeServices creates the upstream clients and every service
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container.AssetRepo == nil {
		return fmt.Errorf("repositories not initialized")
	}

	container.YahooClient = yahoo.NewClient(log,
		yahoo.WithBaseURL(cfg.MarketData.BaseURL),
		yahoo.WithSearchURL(cfg.MarketData.SearchURL),
		yahoo.WithTimeout(cfg.MarketData.Timeout),
		yahoo.WithRateLimit(cfg.MarketData.RateLimit),
	)
	container.NewsClient = newsfeed.NewClient(log,
		newsfeed.WithBaseURL(cfg.NewsFeedURL),
		newsfeed.WithTimeout(cfg.MarketData.Timeout),
		newsfeed.WithRateLimit(cfg.MarketData.RateLimit),
	)

	conn := container.PortfolioDB.Conn()
	concurrency := cfg.MarketData.Concurrency

	container.UniverseService = universe.NewService(container.AssetRepo, container.YahooClient, log)
	container.PortfolioService = portfolio.NewService(
		conn,
		container.PortfolioRepo,
		container.ItemRepo,
		container.UniverseService,
		portfolio.NewValuator(container.YahooClient, concurrency, log),
		log,
	)
	container.RebalancingService = rebalancing.NewService(container.PortfolioService, log)
	container.LedgerService = ledger.NewService(
		conn,
		container.HistoryRepo,
		container.PortfolioRepo,
		container.ItemRepo,
		container.PortfolioService,
		log,
	)
	container.ChartService = charts.NewService(container.PortfolioService, container.YahooClient, concurrency, log)
	container.SimulationService = simulation.NewService(container.PortfolioService, log)
	container.SentimentService = sentiment.NewService(container.YahooClient, container.NewsClient, concurrency, log)

	log.Info().Msg("Services initialized")
	return nil
}
