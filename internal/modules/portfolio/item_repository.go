package portfolio

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/universe"
)

// itemSelect joins each holding with its asset; asset columns are NULL when unresolved
const itemSelect = `
	SELECT pi.id, pi.portfolio_id, pi.asset_id, pi.units_held, pi.target_weight, pi.created_at,
	       a.id, a.ticker, a.name, a.type, a.sector, a.country, a.currency, a.created_at
	FROM portfolio_items pi
	LEFT JOIN assets a ON a.id = pi.asset_id`

// ItemRepository handles portfolio item database operations
type ItemRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewItemRepository creates a new portfolio item repository
func NewItemRepository(db database.Executor, log zerolog.Logger) *ItemRepository {
	return &ItemRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio_item").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *ItemRepository) WithTx(tx *sql.Tx) *ItemRepository {
	return &ItemRepository{db: tx, log: r.log}
}

// ListByPortfolio returns a portfolio's holdings in insertion order
func (r *ItemRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, itemSelect+`
		WHERE pi.portfolio_id = ?
		ORDER BY pi.created_at, pi.rowid
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio items: %w", err)
	}

	return items, nil
}

// GetByID returns a holding by id, or nil if it does not exist
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	return r.queryOne(ctx, itemSelect+" WHERE pi.id = ?", id)
}

// GetInPortfolio returns a holding by id only if it belongs to portfolioID
func (r *ItemRepository) GetInPortfolio(ctx context.Context, portfolioID, id string) (*Item, error) {
	return r.queryOne(ctx, itemSelect+" WHERE pi.id = ? AND pi.portfolio_id = ?", id, portfolioID)
}

// FindByTicker returns the holding of ticker inside portfolioID, or nil
func (r *ItemRepository) FindByTicker(ctx context.Context, portfolioID, ticker string) (*Item, error) {
	return r.queryOne(ctx, itemSelect+" WHERE pi.portfolio_id = ? AND a.ticker = ?", portfolioID, universe.NormalizeTicker(ticker))
}

// Link adds assetID to portfolioID with zero units and zero weight.
// Linking an asset that is already held is a no-op.
func (r *ItemRepository) Link(ctx context.Context, portfolioID, assetID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolio_items (id, portfolio_id, asset_id, units_held, target_weight, created_at)
		VALUES (?, ?, ?, 0, 0, ?)
		ON CONFLICT(portfolio_id, asset_id) DO NOTHING
	`, uuid.New().String(), portfolioID, assetID, database.Now())
	if err != nil {
		return fmt.Errorf("failed to link asset to portfolio: %w", err)
	}
	return nil
}

// Insert stores a copy of item under portfolioID with a fresh id
func (r *ItemRepository) Insert(ctx context.Context, portfolioID string, item Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolio_items (id, portfolio_id, asset_id, units_held, target_weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), portfolioID, item.AssetID, item.UnitsHeld, item.TargetWeight, database.Now())
	if err != nil {
		return fmt.Errorf("failed to insert portfolio item: %w", err)
	}
	return nil
}

// Update overwrites units and target weight. Returns false if no item matched.
func (r *ItemRepository) Update(ctx context.Context, id string, unitsHeld, targetWeight float64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE portfolio_items SET units_held = ?, target_weight = ? WHERE id = ?",
		unitsHeld, targetWeight, id)
	return affected(result, err)
}

// AdjustUnits adds delta to an item's holding in a single statement, clamping at zero.
// Returns false if no item matched inside portfolioID.
func (r *ItemRepository) AdjustUnits(ctx context.Context, portfolioID, id string, delta float64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE portfolio_items SET units_held = MAX(0, units_held + ?) WHERE id = ? AND portfolio_id = ?",
		delta, id, portfolioID)
	return affected(result, err)
}

// Delete removes a holding. Returns false if no item matched.
func (r *ItemRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM portfolio_items WHERE id = ?", id)
	return affected(result, err)
}

func (r *ItemRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*Item, error) {
	rows, err := r.db.QueryContext(ctx, query+" LIMIT 1", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio item: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating portfolio items: %w", err)
		}
		return nil, nil
	}

	item, err := scanItem(rows)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItem(rows *sql.Rows) (Item, error) {
	var item Item
	var assetID, ticker, name, assetType, sector, country, currency, createdAt sql.NullString

	err := rows.Scan(
		&item.ID, &item.PortfolioID, &item.AssetID, &item.UnitsHeld, &item.TargetWeight, &item.CreatedAt,
		&assetID, &ticker, &name, &assetType, &sector, &country, &currency, &createdAt,
	)
	if err != nil {
		return Item{}, fmt.Errorf("failed to scan portfolio item: %w", err)
	}

	if assetID.Valid {
		item.Asset = &universe.Asset{
			ID:        assetID.String,
			Ticker:    ticker.String,
			Name:      name.String,
			Type:      domain.AssetType(assetType.String),
			Sector:    sector.String,
			Country:   country.String,
			Currency:  currency.String,
			CreatedAt: createdAt.String,
		}
	}

	return item, nil
}

func affected(result sql.Result, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("failed to update portfolio item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
