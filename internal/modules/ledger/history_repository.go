package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/domain"
)

// HistoryRepository handles rebalance history database operations
type HistoryRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db database.Executor, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("repo", "rebalance_history").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *HistoryRepository) WithTx(tx *sql.Tx) *HistoryRepository {
	return &HistoryRepository{db: tx, log: r.log}
}

// CreateEntry inserts a history header and returns it without items
func (r *HistoryRepository) CreateEntry(ctx context.Context, portfolioID string, contribution, before, after float64) (*Entry, error) {
	entry := &Entry{
		ID:               uuid.New().String(),
		PortfolioID:      portfolioID,
		Contribution:     contribution,
		TotalValueBefore: before,
		TotalValueAfter:  after,
		CreatedAt:        database.Now(),
		Items:            []EntryItem{},
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rebalance_history (id, portfolio_id, contribution, total_value_before, total_value_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.PortfolioID, entry.Contribution, entry.TotalValueBefore, entry.TotalValueAfter, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	return entry, nil
}

// AddItem inserts an executed order under historyID and fills in its id
func (r *HistoryRepository) AddItem(ctx context.Context, item *EntryItem) error {
	item.ID = uuid.New().String()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rebalance_history_items (id, history_id, asset_name, ticker, action, units, amount, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.HistoryID, item.AssetName, item.Ticker, string(item.Action), item.Units, item.Amount, item.Price)
	if err != nil {
		return fmt.Errorf("failed to insert history item: %w", err)
	}

	return nil
}

// GetEntry returns a history entry with its items, or nil if it does not exist
func (r *HistoryRepository) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	err := r.db.QueryRowContext(ctx, `
		SELECT id, portfolio_id, contribution, total_value_before, total_value_after, created_at
		FROM rebalance_history
		WHERE id = ?
	`, id).Scan(&entry.ID, &entry.PortfolioID, &entry.Contribution, &entry.TotalValueBefore, &entry.TotalValueAfter, &entry.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}

	items, err := r.itemsFor(ctx, []string{entry.ID})
	if err != nil {
		return nil, err
	}
	entry.Items = items[entry.ID]

	return &entry, nil
}

// ListByPortfolio returns a portfolio's history newest first, each entry with its items
func (r *HistoryRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, portfolio_id, contribution, total_value_before, total_value_after, created_at
		FROM rebalance_history
		WHERE portfolio_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.PortfolioID, &entry.Contribution, &entry.TotalValueBefore, &entry.TotalValueAfter, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	rows.Close()

	if len(entries) == 0 {
		return entries, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Items = items[entries[i].ID]
	}

	return entries, nil
}

// DeleteEntry removes a history entry and, through the cascade, its items.
// Returns false if no entry matched.
func (r *HistoryRepository) DeleteEntry(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM rebalance_history WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete history entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// itemsFor loads the items of every history id, keyed by history id.
// Every requested id gets a non-nil slice.
func (r *HistoryRepository) itemsFor(ctx context.Context, historyIDs []string) (map[string][]EntryItem, error) {
	result := make(map[string][]EntryItem, len(historyIDs))
	for _, id := range historyIDs {
		result[id] = []EntryItem{}
	}

	for _, id := range historyIDs {
		rows, err := r.db.QueryContext(ctx, `
			SELECT id, history_id, asset_name, ticker, action, units, amount, price
			FROM rebalance_history_items
			WHERE history_id = ?
			ORDER BY rowid
		`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to query history items: %w", err)
		}

		for rows.Next() {
			var item EntryItem
			var action string
			if err := rows.Scan(&item.ID, &item.HistoryID, &item.AssetName, &item.Ticker, &action, &item.Units, &item.Amount, &item.Price); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan history item: %w", err)
			}
			item.Action = domain.TradeAction(action)
			result[id] = append(result[id], item)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("error iterating history items: %w", err)
		}
	}

	return result, nil
}
