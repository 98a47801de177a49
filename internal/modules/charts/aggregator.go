package charts

import (
	"sort"
	"time"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/pkg/formulas"
)

// Aggregate combines per-ticker price series into one portfolio value series.
//
// The series are aligned on the union of their timestamps. A ticker without a
// sample at some timestamp takes its previous close, or its first close when
// nothing precedes it, or zero when it has no closes at all. Timestamps whose
// total is not positive are dropped.
func Aggregate(holdings []Holding, series map[string][]domain.PricePoint) Chart {
	timestamps := unionTimestamps(series)
	if len(timestamps) == 0 {
		return EmptyChart()
	}

	totals := make([]float64, len(timestamps))
	for _, holding := range holdings {
		prices := alignSeries(timestamps, series[holding.Ticker])
		for i, price := range prices {
			totals[i] += price * holding.Units
		}
	}

	history := make([]Point, 0, len(timestamps))
	for i, ts := range timestamps {
		total := formulas.SafeFloat(totals[i])
		if total <= 0 {
			continue
		}
		history = append(history, Point{
			Date:  time.Unix(ts, 0).UTC().Format(DateLayout),
			Value: formulas.Round(total, 2),
		})
	}

	if len(history) == 0 {
		return EmptyChart()
	}

	first := history[0].Value
	last := history[len(history)-1].Value
	diff := last - first

	pct := 0.0
	if first > 0 {
		pct = diff / first * 100
	}

	return Chart{
		History:   history,
		ChangeVal: formulas.Round(diff, 2),
		ChangePct: formulas.Round(pct, 2),
	}
}

func unionTimestamps(series map[string][]domain.PricePoint) []int64 {
	seen := make(map[int64]struct{})
	for _, points := range series {
		for _, p := range points {
			seen[p.Time.Unix()] = struct{}{}
		}
	}

	timestamps := make([]int64, 0, len(seen))
	for ts := range seen {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	return timestamps
}

// alignSeries maps points onto timestamps, forward-filling, then back-filling, then zero-filling
func alignSeries(timestamps []int64, points []domain.PricePoint) []float64 {
	byTime := make(map[int64]float64, len(points))
	for _, p := range points {
		byTime[p.Time.Unix()] = formulas.SafeFloat(p.Close)
	}

	aligned := make([]float64, len(timestamps))
	known := make([]bool, len(timestamps))
	firstKnown := -1

	for i, ts := range timestamps {
		if v, ok := byTime[ts]; ok {
			aligned[i], known[i] = v, true
		} else if i > 0 && known[i-1] {
			aligned[i], known[i] = aligned[i-1], true
		}
		if known[i] && firstKnown < 0 {
			firstKnown = i
		}
	}

	if firstKnown < 0 {
		return aligned
	}
	for i := 0; i < firstKnown; i++ {
		aligned[i] = aligned[firstKnown]
	}
	return aligned
}
