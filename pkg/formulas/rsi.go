package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// NeutralRSI is returned whenever there is not enough data to compute an RSI.
const NeutralRSI = 50

// CalculateRSI calculates the Relative Strength Index
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// Returns the latest RSI value (0-100) or nil if there is insufficient data.
func CalculateRSI(closes []float64, length int) *float64 {
	if length <= 0 || len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)

	if len(rsi) > 0 {
		result := rsi[len(rsi)-1]
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return nil
		}
		return &result
	}

	return nil
}

// RSIScore returns the rounded RSI of closes, or NeutralRSI when it cannot be computed.
func RSIScore(closes []float64, length int) int {
	rsi := CalculateRSI(closes, length)
	if rsi == nil {
		return NeutralRSI
	}
	return int(RoundInt(*rsi))
}
