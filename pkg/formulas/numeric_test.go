package formulas

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFloat(t *testing.T) {
	price := 12.5
	var nilPtr *float64

	testCases := []struct {
		name     string
		input    interface{}
		expected float64
	}{
		{"nil", nil, 0},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
		{"numeric string", "3.5", 3.5},
		{"padded numeric string", " 42 ", 42},
		{"NaN string", "NaN", 0},
		{"Inf string", "+Inf", 0},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"finite float", 101.25, 101.25},
		{"negative float", -7.75, -7.75},
		{"float32", float32(2.5), 2.5},
		{"int", 10, 10},
		{"int64", int64(-3), -3},
		{"uint", uint(4), 4},
		{"json number", json.Number("1.75"), 1.75},
		{"bad json number", json.Number("x"), 0},
		{"pointer", &price, 12.5},
		{"nil pointer", nilPtr, 0},
		{"bool", true, 0},
		{"map", map[string]interface{}{"raw": 1.0}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SafeFloat(tc.input))
		})
	}
}

func TestSafeFloat_FiniteValuesPassThrough(t *testing.T) {
	for _, x := range []float64{0, 1e-9, 0.1, 1, 1234.5678, -99.99, math.MaxFloat64} {
		assert.Equal(t, x, SafeFloat(x))
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.234, 2))
	assert.Equal(t, 1.24, Round(1.235, 2))
	assert.Equal(t, -1.24, Round(-1.235, 2))
	assert.Equal(t, 5.0, Round(5, 4))
	assert.Equal(t, 0.3333, Round(1.0/3.0, 4))
	assert.Equal(t, 0.0, Round(math.NaN(), 2))
	assert.Equal(t, 0.0, Round(math.Inf(1), 2))
}

func TestRoundInt(t *testing.T) {
	assert.Equal(t, int64(1000), RoundInt(999.6))
	assert.Equal(t, int64(-3), RoundInt(-2.5))
	assert.Equal(t, int64(0), RoundInt(math.NaN()))
}
