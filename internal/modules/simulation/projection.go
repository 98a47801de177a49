package simulation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/fandance/pkg/formulas"
)

// Params are the inputs of a single-portfolio projection
type Params struct {
	StartValue          float64
	Years               int
	MonthlyContribution float64
	Growing             bool
	GrowthRate          float64
	TaxEnabled          bool
	Scenario            Scenario
}

// Projection is the unrounded outcome of a projection
type Projection struct {
	Yearly   []float64
	Final    float64
	Invested float64
	TaxPaid  float64
	Gain     float64
}

// Project compounds StartValue monthly for Years years.
//
// Each month the value earns the scenario's monthly rate, plus a normal shock
// when the scenario has volatility, and then receives the contribution. In
// growing mode the contribution is raised by GrowthRate percent at the start of
// every 12th month. Shocks are drawn from an unseeded source, so volatile
// projections differ between calls.
func Project(p Params) Projection {
	monthlyRate := p.Scenario.AnnualReturn / 12
	monthlyVol := p.Scenario.AnnualVolatility / math.Sqrt(12)

	var shock *distuv.Normal
	if monthlyVol > 0 {
		shock = &distuv.Normal{Mu: 0, Sigma: monthlyVol}
	}

	value := formulas.SafeFloat(p.StartValue)
	invested := value
	contribution := formulas.SafeFloat(p.MonthlyContribution)

	yearly := make([]float64, 0, p.Years+1)
	yearly = append(yearly, value)

	for month := 1; month <= p.Years*12; month++ {
		if p.Growing && month%12 == 0 {
			contribution *= 1 + p.GrowthRate/100
		}

		ret := monthlyRate
		if shock != nil {
			ret += shock.Rand()
		}

		value = value*(1+ret) + contribution
		invested += contribution

		if month%12 == 0 {
			yearly = append(yearly, value)
		}
	}

	gain := value - invested
	tax := 0.0
	if p.TaxEnabled && gain > 0 {
		tax = gain * CapitalGainsTax
	}

	return Projection{
		Yearly:   yearly,
		Final:    value,
		Invested: invested,
		TaxPaid:  tax,
		Gain:     gain,
	}
}

// toResult rounds a projection to whole units
func toResult(portfolioID, name string, proj Projection) Result {
	data := make([]YearValue, len(proj.Yearly))
	for i, v := range proj.Yearly {
		data[i] = YearValue{Year: i, Value: roundWhole(v)}
	}

	return Result{
		PortfolioID:   portfolioID,
		PortfolioName: name,
		Data:          data,
		FinalGross:    roundWhole(proj.Final),
		FinalNet:      roundWhole(proj.Final - proj.TaxPaid),
		TotalInvested: roundWhole(proj.Invested),
		TaxPaid:       roundWhole(proj.TaxPaid),
		Gain:          roundWhole(proj.Gain),
	}
}

func roundWhole(v float64) int64 {
	return formulas.RoundInt(v)
}
