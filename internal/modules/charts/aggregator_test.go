package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fandance/internal/domain"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func at(hours int, close float64) domain.PricePoint {
	return domain.PricePoint{Time: base.Add(time.Duration(hours) * time.Hour), Close: close}
}

func TestIntervalForPeriod(t *testing.T) {
	tests := map[string]string{
		"1d":  "15m",
		"5d":  "15m",
		"1mo": "1h",
		"3mo": "1h",
		"6mo": "1d",
		"1y":  "1d",
		"max": "1d",
		"":    "1d",
	}
	for period, expected := range tests {
		assert.Equal(t, expected, IntervalForPeriod(period), period)
	}
}

func TestAggregate_ForwardFillsMissingSample(t *testing.T) {
	holdings := []Holding{{Ticker: "A", Units: 2}, {Ticker: "B", Units: 3}}
	series := map[string][]domain.PricePoint{
		"A": {at(0, 10), at(1, 11)},
		"B": {at(0, 20)},
	}

	chart := Aggregate(holdings, series)

	require.Len(t, chart.History, 2)
	assert.Equal(t, 80.0, chart.History[0].Value)
	assert.Equal(t, 82.0, chart.History[1].Value)
	assert.Equal(t, "2024-03-01T10:00:00", chart.History[0].Date)
	assert.Equal(t, "2024-03-01T11:00:00", chart.History[1].Date)
	assert.Equal(t, 2.0, chart.ChangeVal)
	assert.Equal(t, 2.5, chart.ChangePct)
}

func TestAggregate_BackFillsLeadingGap(t *testing.T) {
	holdings := []Holding{{Ticker: "A", Units: 1}, {Ticker: "B", Units: 1}}
	series := map[string][]domain.PricePoint{
		"A": {at(0, 10), at(1, 10), at(2, 10)},
		"B": {at(2, 5)},
	}

	chart := Aggregate(holdings, series)

	require.Len(t, chart.History, 3)
	for _, p := range chart.History {
		assert.Equal(t, 15.0, p.Value)
	}
	assert.Equal(t, 0.0, chart.ChangeVal)
	assert.Equal(t, 0.0, chart.ChangePct)
}

func TestAggregate_MissingTickerIsZeroFilled(t *testing.T) {
	holdings := []Holding{{Ticker: "A", Units: 1}, {Ticker: "GONE", Units: 100}}
	series := map[string][]domain.PricePoint{
		"A": {at(0, 10), at(1, 12)},
	}

	chart := Aggregate(holdings, series)

	require.Len(t, chart.History, 2)
	assert.Equal(t, 10.0, chart.History[0].Value)
	assert.Equal(t, 12.0, chart.History[1].Value)
	assert.Equal(t, 20.0, chart.ChangePct)
}

func TestAggregate_DropsNonPositiveTotals(t *testing.T) {
	holdings := []Holding{{Ticker: "A", Units: 1}}
	series := map[string][]domain.PricePoint{
		"A": {at(0, 0), at(1, 4), at(2, 5)},
	}

	chart := Aggregate(holdings, series)

	require.Len(t, chart.History, 2)
	assert.Equal(t, 4.0, chart.History[0].Value)
	assert.Equal(t, 1.0, chart.ChangeVal)
	assert.Equal(t, 25.0, chart.ChangePct)
}

func TestAggregate_Empty(t *testing.T) {
	chart := Aggregate([]Holding{{Ticker: "A", Units: 1}}, nil)
	assert.NotNil(t, chart.History)
	assert.Empty(t, chart.History)
	assert.Zero(t, chart.ChangeVal)

	chart = Aggregate(nil, map[string][]domain.PricePoint{"A": {at(0, 10)}})
	assert.Empty(t, chart.History)
}
