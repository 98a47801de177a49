package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRSI_InsufficientData(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	assert.Nil(t, CalculateRSI(closes, 14))
	assert.Nil(t, CalculateRSI(closes, 0))
	assert.Equal(t, NeutralRSI, RSIScore(closes, 14))
	assert.Equal(t, NeutralRSI, RSIScore(nil, 14))
}

func TestCalculateRSI_OnlyGains(t *testing.T) {
	closes := make([]float64, 22)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	rsi := CalculateRSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 100.0, *rsi, 0.0001)
	assert.Equal(t, 100, RSIScore(closes, 14))
}

func TestCalculateRSI_OnlyLosses(t *testing.T) {
	closes := make([]float64, 22)
	for i := range closes {
		closes[i] = float64(200 - i)
	}

	rsi := CalculateRSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 0.0, *rsi, 0.0001)
}

func TestCalculateRSI_MixedMovesStayInRange(t *testing.T) {
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00,
		46.03, 46.41, 46.22, 45.64,
	}

	rsi := CalculateRSI(closes, 14)
	require.NotNil(t, rsi)
	assert.Greater(t, *rsi, 0.0)
	assert.Less(t, *rsi, 100.0)
}

func TestCalculateRSI_KnownValues(t *testing.T) {
	// 10 one-point gains then 4 one-point losses: the first value is 10/14 of the moves
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 109, 108, 107, 106}

	rsi := CalculateRSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 71.4286, *rsi, 0.0001)
	assert.Equal(t, 71, RSIScore(closes, 14))

	// Later values use Wilder smoothing, not a simple rolling mean
	wilder := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00,
		46.03, 46.41, 46.22, 45.64,
	}

	rsi = CalculateRSI(wilder, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 57.9150, *rsi, 0.0001)
	assert.Equal(t, 58, RSIScore(wilder, 14))
}
