package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/config"
	"github.com/aristath/fandance/internal/database"
)

// InitializeDatabases opens the portfolio database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// Ledger profile: rebalance history is the audit trail, so durability wins over speed
	portfolioDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileLedger,
		Name:    "portfolio",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize portfolio database: %w", err)
	}

	if err := portfolioDB.Migrate(); err != nil {
		portfolioDB.Close()
		return nil, fmt.Errorf("failed to apply portfolio schema: %w", err)
	}
	container.PortfolioDB = portfolioDB

	log.Info().Str("path", portfolioDB.Path()).Msg("Portfolio database initialized")

	return container, nil
}
