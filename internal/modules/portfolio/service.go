package portfolio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/universe"
)

// Service handles portfolio management and valuation
type Service struct {
	db         *sql.DB
	portfolios *PortfolioRepository
	items      *ItemRepository
	assets     *universe.Service
	valuator   *Valuator
	log        zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(
	db *sql.DB,
	portfolios *PortfolioRepository,
	items *ItemRepository,
	assets *universe.Service,
	valuator *Valuator,
	log zerolog.Logger,
) *Service {
	return &Service{
		db:         db,
		portfolios: portfolios,
		items:      items,
		assets:     assets,
		valuator:   valuator,
		log:        log.With().Str("service", "portfolio").Logger(),
	}
}

// CreatePortfolio creates an empty portfolio for userID
func (s *Service) CreatePortfolio(ctx context.Context, userID, name string) (*Portfolio, error) {
	userID, name = strings.TrimSpace(userID), strings.TrimSpace(name)
	if userID == "" || name == "" {
		return nil, fmt.Errorf("user_id and name are required: %w", domain.ErrValidation)
	}

	p, err := s.portfolios.Create(ctx, userID, name)
	if err != nil {
		return nil, domain.WrapPersistence("create portfolio", err)
	}

	s.log.Info().Str("portfolio_id", p.ID).Str("user_id", userID).Msg("Portfolio created")
	return p, nil
}

// ListPortfolios returns a user's portfolios in creation order
func (s *Service) ListPortfolios(ctx context.Context, userID string) ([]Portfolio, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}

	portfolios, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.WrapPersistence("list portfolios", err)
	}
	return portfolios, nil
}

// GetPortfolio returns a portfolio or ErrNotFound
func (s *Service) GetPortfolio(ctx context.Context, id string) (*Portfolio, error) {
	p, err := s.portfolios.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapPersistence("get portfolio", err)
	}
	if p == nil {
		return nil, fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// RenamePortfolio changes a portfolio's name
func (s *Service) RenamePortfolio(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return fmt.Errorf("portfolio_id and name are required: %w", domain.ErrValidation)
	}

	found, err := s.portfolios.Rename(ctx, id, name)
	if err != nil {
		return domain.WrapPersistence("rename portfolio", err)
	}
	if !found {
		return fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DuplicatePortfolio copies a portfolio and all of its holdings under a new
// name for userID. The copy is written in one transaction.
func (s *Service) DuplicatePortfolio(ctx context.Context, sourceID, userID, newName string) (*Portfolio, error) {
	userID, newName = strings.TrimSpace(userID), strings.TrimSpace(newName)
	if sourceID == "" || userID == "" || newName == "" {
		return nil, fmt.Errorf("portfolio_id, user_id and new_name are required: %w", domain.ErrValidation)
	}

	if _, err := s.GetPortfolio(ctx, sourceID); err != nil {
		return nil, err
	}

	var created *Portfolio
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		items, err := s.items.WithTx(tx).ListByPortfolio(ctx, sourceID)
		if err != nil {
			return err
		}

		created, err = s.portfolios.WithTx(tx).Create(ctx, userID, newName)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := s.items.WithTx(tx).Insert(ctx, created.ID, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.WrapPersistence("duplicate portfolio", err)
	}

	s.log.Info().Str("source_id", sourceID).Str("portfolio_id", created.ID).Msg("Portfolio duplicated")
	return created, nil
}

// DeletePortfolio removes a portfolio together with its holdings and history
func (s *Service) DeletePortfolio(ctx context.Context, id string) error {
	found, err := s.portfolios.Delete(ctx, id)
	if err != nil {
		return domain.WrapPersistence("delete portfolio", err)
	}
	if !found {
		return fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateContribution stores the last contribution amount
func (s *Service) UpdateContribution(ctx context.Context, id string, amount float64) error {
	if id == "" {
		return fmt.Errorf("portfolio_id is required: %w", domain.ErrValidation)
	}

	found, err := s.portfolios.UpdateLastContribution(ctx, id, amount)
	if err != nil {
		return domain.WrapPersistence("update contribution", err)
	}
	if !found {
		return fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AddAsset resolves ticker into a catalogued asset and links it to the portfolio
// with zero units and zero weight. Adding an asset that is already held is a no-op.
// Returns the asset's display name.
func (s *Service) AddAsset(ctx context.Context, portfolioID, ticker string) (string, error) {
	if portfolioID == "" || strings.TrimSpace(ticker) == "" {
		return "", fmt.Errorf("portfolio_id and ticker are required: %w", domain.ErrValidation)
	}

	if _, err := s.GetPortfolio(ctx, portfolioID); err != nil {
		return "", err
	}

	asset, err := s.assets.EnsureAsset(ctx, ticker)
	if err != nil {
		return "", err
	}

	if err := s.items.Link(ctx, portfolioID, asset.ID); err != nil {
		return "", domain.WrapPersistence("link asset", err)
	}

	s.log.Info().Str("portfolio_id", portfolioID).Str("ticker", asset.Ticker).Msg("Asset added to portfolio")
	return asset.Name, nil
}

// UpdateItem overwrites a holding's units and target weight.
// Target weights are stored as given; they are not required to sum to 100.
func (s *Service) UpdateItem(ctx context.Context, itemID string, unitsHeld, targetWeight float64) error {
	if itemID == "" {
		return fmt.Errorf("item_id is required: %w", domain.ErrValidation)
	}
	if unitsHeld < 0 {
		return fmt.Errorf("units_held must not be negative: %w", domain.ErrValidation)
	}

	found, err := s.items.Update(ctx, itemID, unitsHeld, targetWeight)
	if err != nil {
		return domain.WrapPersistence("update item", err)
	}
	if !found {
		return fmt.Errorf("portfolio item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

// DeleteItem removes a holding
func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	found, err := s.items.Delete(ctx, itemID)
	if err != nil {
		return domain.WrapPersistence("delete item", err)
	}
	if !found {
		return fmt.Errorf("portfolio item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

// Items returns a portfolio's raw holdings
func (s *Service) Items(ctx context.Context, portfolioID string) ([]Item, error) {
	items, err := s.items.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, domain.WrapPersistence("list items", err)
	}
	return items, nil
}

// Valuate prices a portfolio's holdings with fresh market data.
// An unknown portfolio values as an empty list.
func (s *Service) Valuate(ctx context.Context, portfolioID string) ([]ValuedItem, error) {
	items, err := s.Items(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return s.valuator.Value(ctx, items), nil
}
