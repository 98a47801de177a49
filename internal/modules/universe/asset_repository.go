package universe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/domain"
)

// assetColumns is the column list for the assets table, in scan order
const assetColumns = `id, ticker, name, type, sector, country, currency, created_at`

// AssetRepository handles asset database operations
type AssetRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db database.Executor, log zerolog.Logger) *AssetRepository {
	return &AssetRepository{
		db:  db,
		log: log.With().Str("repo", "asset").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{db: tx, log: r.log}
}

// GetByID returns an asset by id, or nil if it does not exist
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+assetColumns+" FROM assets WHERE id = ?", id)
	return r.scanOne(row)
}

// GetByTicker returns an asset by ticker, or nil if it does not exist.
// The ticker is normalized before lookup.
func (r *AssetRepository) GetByTicker(ctx context.Context, ticker string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+assetColumns+" FROM assets WHERE ticker = ?", NormalizeTicker(ticker))
	return r.scanOne(row)
}

// FindOrCreate inserts the asset unless its ticker is already catalogued and
// returns the stored row. Concurrent callers racing on the same ticker all
// receive the single surviving row.
func (r *AssetRepository) FindOrCreate(ctx context.Context, ticker string, meta domain.AssetMetadata) (*Asset, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker: %w", domain.ErrValidation)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, ticker, name, type, sector, country, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO NOTHING
	`,
		uuid.New().String(),
		ticker,
		valueOr(meta.Name, ticker),
		string(valueOr(meta.Type, domain.AssetTypeStock)),
		valueOr(meta.Sector, domain.DefaultSector),
		valueOr(meta.Country, domain.DefaultCountry),
		valueOr(meta.Currency, domain.DefaultCurrency),
		database.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert asset %s: %w", ticker, err)
	}

	asset, err := r.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("asset %s vanished after insert: %w", ticker, domain.ErrPersistence)
	}

	return asset, nil
}

func (r *AssetRepository) scanOne(row *sql.Row) (*Asset, error) {
	var a Asset
	var assetType string

	err := row.Scan(&a.ID, &a.Ticker, &a.Name, &assetType, &a.Sector, &a.Country, &a.Currency, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan asset: %w", err)
	}

	a.Type = domain.AssetType(assetType)
	return &a, nil
}

func valueOr[T ~string](value, fallback T) T {
	if value == "" {
		return fallback
	}
	return value
}
