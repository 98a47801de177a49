// Package rebalancing computes the orders that bring a portfolio back to its
// target allocation after a cash contribution.
package rebalancing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/pkg/formulas"
)

// Order is a single proposed trade. Direction is carried by the sign of
// UnitsToTrade and DiffVal; Action mirrors it for display.
type Order struct {
	ID           string             `json:"id"`
	AssetName    string             `json:"asset_name"`
	Ticker       string             `json:"ticker"`
	Action       domain.TradeAction `json:"action"`
	UnitsToTrade float64            `json:"units_to_trade"`
	DiffVal      float64            `json:"diff_val"`
	Price        float64            `json:"price"`
}

// Plan is the output of a rebalance computation
type Plan struct {
	CurrentTotal float64 `json:"current_total"`
	Contribution float64 `json:"contribution"`
	FutureTotal  float64 `json:"future_total"`
	Orders       []Order `json:"orders"`
}

// UnmarshalJSON accepts the order shapes clients send back when applying a plan:
// snake_case or camelCase keys, "item_id" as an alias of "id", and numbers
// given as JSON numbers, numeric strings or null.
func (o *Order) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("order must be a JSON object: %w", err)
	}

	*o = Order{
		ID:           firstString(raw, "id", "item_id", "itemId"),
		AssetName:    firstString(raw, "asset_name", "assetName"),
		Ticker:       firstString(raw, "ticker"),
		Action:       domain.TradeAction(firstString(raw, "action")),
		UnitsToTrade: firstNonZero(raw, "units_to_trade", "unitsToTrade"),
		DiffVal:      firstNonZero(raw, "diff_val", "diffVal"),
		Price:        firstNonZero(raw, "price"),
	}
	return nil
}

// firstNonZero returns the first key whose value coerces to a non-zero float
func firstNonZero(raw map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		if v := formulas.SafeFloat(raw[key]); v != 0 {
			return v
		}
	}
	return 0
}

// firstString returns the first key holding a non-empty string or number
func firstString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}
