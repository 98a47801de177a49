package rebalancing

import (
	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/portfolio"
	"github.com/aristath/fandance/pkg/formulas"
)

// ComputeRebalance turns a valuation and a contribution into trade orders.
//
// For every item with a positive price, the target value is
// futureTotal * target_weight / 100 and the order covers the difference to the
// current value. A zero difference is reported as SELL. Items without a price
// produce no order. Orders follow the input order. The function is pure.
func ComputeRebalance(items []portfolio.ValuedItem, contribution float64) Plan {
	contribution = formulas.SafeFloat(contribution)
	currentTotal := formulas.SafeFloat(portfolio.TotalValue(items))
	futureTotal := currentTotal + contribution

	orders := make([]Order, 0, len(items))
	for _, item := range items {
		price := formulas.SafeFloat(item.CurrentPrice)
		if price <= 0 {
			continue
		}

		targetValue := futureTotal * formulas.SafeFloat(item.TargetWeight) / 100
		diff := targetValue - formulas.SafeFloat(item.Value)

		action := domain.ActionSell
		if diff > 0 {
			action = domain.ActionBuy
		}

		orders = append(orders, Order{
			ID:           item.ID,
			AssetName:    item.Asset.Name,
			Ticker:       item.Asset.Ticker,
			Action:       action,
			UnitsToTrade: formulas.Round(diff/price, 4),
			DiffVal:      formulas.Round(diff, 2),
			Price:        price,
		})
	}

	return Plan{
		CurrentTotal: currentTotal,
		Contribution: contribution,
		FutureTotal:  futureTotal,
		Orders:       orders,
	}
}
