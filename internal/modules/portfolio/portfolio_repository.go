package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/database"
)

// PortfolioRepository handles portfolio database operations
type PortfolioRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db database.Executor, log zerolog.Logger) *PortfolioRepository {
	return &PortfolioRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{db: tx, log: r.log}
}

// Create inserts a new portfolio with a zero last contribution
func (r *PortfolioRepository) Create(ctx context.Context, userID, name string) (*Portfolio, error) {
	p := &Portfolio{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: database.Now(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolios (id, user_id, name, last_contribution, created_at)
		VALUES (?, ?, ?, 0, ?)
	`, p.ID, p.UserID, p.Name, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return p, nil
}

// GetByID returns a portfolio, or nil if it does not exist
func (r *PortfolioRepository) GetByID(ctx context.Context, id string) (*Portfolio, error) {
	var p Portfolio
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, last_contribution, created_at
		FROM portfolios WHERE id = ?
	`, id).Scan(&p.ID, &p.UserID, &p.Name, &p.LastContribution, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio: %w", err)
	}
	return &p, nil
}

// ListByUser returns a user's portfolios in creation order
func (r *PortfolioRepository) ListByUser(ctx context.Context, userID string) ([]Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, last_contribution, created_at
		FROM portfolios WHERE user_id = ?
		ORDER BY created_at, rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]Portfolio, 0)
	for rows.Next() {
		var p Portfolio
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.LastContribution, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return portfolios, nil
}

// Rename changes a portfolio's name. Returns false if no portfolio matched.
func (r *PortfolioRepository) Rename(ctx context.Context, id, name string) (bool, error) {
	return r.execAffecting(ctx, "UPDATE portfolios SET name = ? WHERE id = ?", name, id)
}

// UpdateLastContribution records the most recent contribution amount.
// Returns false if no portfolio matched.
func (r *PortfolioRepository) UpdateLastContribution(ctx context.Context, id string, amount float64) (bool, error) {
	return r.execAffecting(ctx, "UPDATE portfolios SET last_contribution = ? WHERE id = ?", amount, id)
}

// Delete removes a portfolio; items and history cascade.
// Returns false if no portfolio matched.
func (r *PortfolioRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.execAffecting(ctx, "DELETE FROM portfolios WHERE id = ?", id)
}

func (r *PortfolioRepository) execAffecting(ctx context.Context, query string, args ...interface{}) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
