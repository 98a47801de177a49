package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/fandance/internal/database"
	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
	"github.com/aristath/fandance/internal/modules/rebalancing"
	"github.com/aristath/fandance/pkg/formulas"
)

// Valuer prices a portfolio's holdings
type Valuer interface {
	Valuate(ctx context.Context, portfolioID string) ([]portfolio.ValuedItem, error)
}

// Service applies, lists, reverses and deletes rebalance history
type Service struct {
	db         *sql.DB
	history    *HistoryRepository
	portfolios *portfolio.PortfolioRepository
	items      *portfolio.ItemRepository
	valuer     Valuer
	log        zerolog.Logger
}

// NewService creates a new ledger service
func NewService(
	db *sql.DB,
	history *HistoryRepository,
	portfolios *portfolio.PortfolioRepository,
	items *portfolio.ItemRepository,
	valuer Valuer,
	log zerolog.Logger,
) *Service {
	return &Service{
		db:         db,
		history:    history,
		portfolios: portfolios,
		items:      items,
		valuer:     valuer,
		log:        log.With().Str("service", "ledger").Logger(),
	}
}

// Apply executes orders against the portfolio's holdings and records them.
//
// Totals come from a fresh valuation, not from the client. Orders of at most
// UnitsThreshold units, and orders whose holding cannot be found in the
// portfolio, are neither applied nor recorded. Everything else happens in one
// transaction together with the new last contribution.
func (s *Service) Apply(ctx context.Context, portfolioID string, contribution float64, orders []rebalancing.Order) (*Entry, error) {
	if portfolioID == "" {
		return nil, fmt.Errorf("portfolio_id is required: %w", domain.ErrValidation)
	}
	contribution = formulas.SafeFloat(contribution)

	valued, err := s.valuer.Valuate(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	valueBefore := portfolio.TotalValue(valued)
	valueAfter := valueBefore + contribution

	var entry *Entry
	err = database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		portfolios := s.portfolios.WithTx(tx)
		items := s.items.WithTx(tx)
		history := s.history.WithTx(tx)

		p, err := portfolios.GetByID(ctx, portfolioID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("portfolio %s: %w", portfolioID, domain.ErrNotFound)
		}

		entry, err = history.CreateEntry(ctx, portfolioID, contribution, valueBefore, valueAfter)
		if err != nil {
			return err
		}

		for _, order := range orders {
			units := formulas.SafeFloat(order.UnitsToTrade)
			if math.Abs(units) <= UnitsThreshold {
				continue
			}

			item, err := s.resolveItem(ctx, items, portfolioID, order)
			if err != nil {
				return err
			}
			if item == nil {
				s.log.Warn().
					Str("portfolio_id", portfolioID).
					Str("item_id", order.ID).
					Str("ticker", order.Ticker).
					Msg("Skipping order for unknown holding")
				continue
			}

			amount := math.Abs(formulas.SafeFloat(order.DiffVal))
			if effective := executableUnits(units, item.UnitsHeld); effective != units {
				amount *= math.Abs(effective / units)
				units = effective
			}
			if math.Abs(units) <= UnitsThreshold {
				s.log.Debug().Str("item_id", item.ID).Msg("Nothing left to sell")
				continue
			}

			recorded := EntryItem{
				HistoryID: entry.ID,
				AssetName: order.AssetName,
				Ticker:    order.Ticker,
				Action:    domain.ActionForUnits(units),
				Units:     math.Abs(units),
				Amount:    amount,
				Price:     formulas.SafeFloat(order.Price),
			}
			if item.Asset != nil {
				recorded.Ticker = item.Asset.Ticker
				if strings.TrimSpace(recorded.AssetName) == "" {
					recorded.AssetName = item.Asset.Name
				}
			}
			if strings.TrimSpace(recorded.AssetName) == "" {
				recorded.AssetName = UnknownAssetName
			}

			if err := history.AddItem(ctx, &recorded); err != nil {
				return err
			}
			if _, err := items.AdjustUnits(ctx, portfolioID, item.ID, units); err != nil {
				return fmt.Errorf("failed to adjust holding %s: %w", item.ID, err)
			}

			entry.Items = append(entry.Items, recorded)
		}

		if _, err := portfolios.UpdateLastContribution(ctx, portfolioID, contribution); err != nil {
			return fmt.Errorf("failed to update last contribution: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, persistenceUnlessKnown("apply rebalance", err)
	}

	s.log.Info().
		Str("portfolio_id", portfolioID).
		Str("history_id", entry.ID).
		Float64("contribution", contribution).
		Int("executed", len(entry.Items)).
		Int("requested", len(orders)).
		Msg("Rebalance applied")

	return entry, nil
}

// Undo reverses every item of a history entry and deletes the entry.
// Items whose holding no longer exists are skipped.
func (s *Service) Undo(ctx context.Context, historyID string) error {
	if historyID == "" {
		return fmt.Errorf("history_id is required: %w", domain.ErrValidation)
	}

	reverted := 0
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		items := s.items.WithTx(tx)
		history := s.history.WithTx(tx)

		entry, err := history.GetEntry(ctx, historyID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("history entry %s: %w", historyID, domain.ErrNotFound)
		}

		for _, recorded := range entry.Items {
			item, err := items.FindByTicker(ctx, entry.PortfolioID, recorded.Ticker)
			if err != nil {
				return err
			}
			if item == nil {
				s.log.Debug().Str("ticker", recorded.Ticker).Msg("Holding gone, nothing to revert")
				continue
			}

			if _, err := items.AdjustUnits(ctx, entry.PortfolioID, item.ID, -recorded.SignedUnits()); err != nil {
				return fmt.Errorf("failed to revert holding %s: %w", item.ID, err)
			}
			reverted++
		}

		_, err = history.DeleteEntry(ctx, historyID)
		return err
	})
	if err != nil {
		return persistenceUnlessKnown("undo rebalance", err)
	}

	s.log.Info().Str("history_id", historyID).Int("reverted", reverted).Msg("Rebalance undone")
	return nil
}

// Delete removes a history entry without touching holdings
func (s *Service) Delete(ctx context.Context, historyID string) error {
	found, err := s.history.DeleteEntry(ctx, historyID)
	if err != nil {
		return domain.WrapPersistence("delete history", err)
	}
	if !found {
		return fmt.Errorf("history entry %s: %w", historyID, domain.ErrNotFound)
	}
	return nil
}

// List returns a portfolio's history newest first
func (s *Service) List(ctx context.Context, portfolioID string) ([]Entry, error) {
	entries, err := s.history.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, domain.WrapPersistence("list history", err)
	}
	return entries, nil
}

// resolveItem finds the holding an order refers to, by item id first and ticker second
func (s *Service) resolveItem(ctx context.Context, items *portfolio.ItemRepository, portfolioID string, order rebalancing.Order) (*portfolio.Item, error) {
	if order.ID != "" {
		item, err := items.GetInPortfolio(ctx, portfolioID, order.ID)
		if err != nil || item != nil {
			return item, err
		}
	}
	if strings.TrimSpace(order.Ticker) == "" {
		return nil, nil
	}
	return items.FindByTicker(ctx, portfolioID, order.Ticker)
}

// executableUnits caps a sell at the units held.
// Recorded units must equal the change applied to the holding.
func executableUnits(units, held float64) float64 {
	held = math.Max(0, held)
	if units < 0 && -units > held {
		return -held
	}
	return units
}

func persistenceUnlessKnown(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return domain.WrapPersistence(op, err)
}
