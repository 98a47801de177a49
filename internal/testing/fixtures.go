package testing

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/aristath/fandance/internal/database"
)

// SeedAsset inserts an asset row and returns its id
func SeedAsset(t *testing.T, db *sql.DB, ticker, name, assetType string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO assets (id, ticker, name, type, sector, country, currency, created_at)
		VALUES (?, ?, ?, ?, 'General', 'Global', 'USD', ?)
	`, id, ticker, name, assetType, database.Now())
	if err != nil {
		t.Fatalf("Failed to seed asset %s: %v", ticker, err)
	}
	return id
}

// SeedPortfolio inserts a portfolio row and returns its id
func SeedPortfolio(t *testing.T, db *sql.DB, userID, name string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO portfolios (id, user_id, name, last_contribution, created_at)
		VALUES (?, ?, ?, 0, ?)
	`, id, userID, name, database.Now())
	if err != nil {
		t.Fatalf("Failed to seed portfolio %s: %v", name, err)
	}
	return id
}

// SeedPortfolioItem links an asset to a portfolio and returns the item id
func SeedPortfolioItem(t *testing.T, db *sql.DB, portfolioID, assetID string, units, weight float64) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO portfolio_items (id, portfolio_id, asset_id, units_held, target_weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, portfolioID, assetID, units, weight, database.Now())
	if err != nil {
		t.Fatalf("Failed to seed portfolio item: %v", err)
	}
	return id
}

// UnitsHeld reads the current holding of a portfolio item
func UnitsHeld(t *testing.T, db *sql.DB, itemID string) float64 {
	t.Helper()

	var units float64
	if err := db.QueryRow("SELECT units_held FROM portfolio_items WHERE id = ?", itemID).Scan(&units); err != nil {
		t.Fatalf("Failed to read units for item %s: %v", itemID, err)
	}
	return units
}
