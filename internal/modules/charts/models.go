// Package charts reconstructs the historical value of a portfolio from the
// price history of its holdings.
package charts

// DefaultPeriod is used when a request names no period
const DefaultPeriod = "1mo"

// DateLayout formats chart timestamps without a timezone
const DateLayout = "2006-01-02T15:04:05"

// Holding is a ticker and the units held of it
type Holding struct {
	Ticker string
	Units  float64
}

// Point is one sample of the aggregated series
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Chart is the aggregated value series of a portfolio
type Chart struct {
	History   []Point `json:"history"`
	ChangeVal float64 `json:"change_val"`
	ChangePct float64 `json:"change_pct"`
}

// EmptyChart is returned whenever there is nothing to plot
func EmptyChart() Chart {
	return Chart{History: []Point{}}
}

// IntervalForPeriod picks the sampling interval for a history period.
// Short ranges get finer samples.
func IntervalForPeriod(period string) string {
	switch period {
	case "1d", "5d":
		return "15m"
	case "1mo", "3mo":
		return "1h"
	default:
		return "1d"
	}
}
