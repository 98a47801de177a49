// Package formulas holds the numeric primitives shared by valuation, rebalancing,
// charting and simulation code.
package formulas

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SafeFloat coerces an arbitrary value into a finite float64.
//
// nil, non-numeric values, unparsable strings, NaN and ±Inf all become 0.
// Numeric strings such as "3.5" are parsed. It never panics, so it is safe to
// call on anything that came from market data or a loosely-typed request body.
func SafeFloat(value interface{}) float64 {
	var f float64

	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case *float64:
		if v == nil {
			return 0
		}
		f = *v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Round rounds value to the given number of decimal places, half away from zero.
// Non-finite input rounds to 0.
func Round(value float64, places int32) float64 {
	return decimal.NewFromFloat(SafeFloat(value)).Round(places).InexactFloat64()
}

// RoundInt rounds value to the nearest whole unit.
func RoundInt(value float64) int64 {
	return decimal.NewFromFloat(SafeFloat(value)).Round(0).IntPart()
}
