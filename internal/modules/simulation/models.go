// Package simulation projects the long-term growth of portfolios under fixed
// and randomized return scenarios.
package simulation

// Scenario names accepted in Request.SimType
const (
	ScenarioBaseline    = "baseline"
	ScenarioPessimistic = "pessimistic"
	ScenarioMonteCarlo  = "montecarlo"
)

// ContributionGrowing raises the monthly contribution once a year
const ContributionGrowing = "growing"

// CapitalGainsTax is applied to positive gains when Request.TaxRate is set
const CapitalGainsTax = 0.19

// MaxYears bounds the simulated horizon
const MaxYears = 100

// DefaultPortfolioName labels results for portfolios that cannot be found
const DefaultPortfolioName = "Cartera"

// Request describes one simulation run over several portfolios
type Request struct {
	PortfolioIDs        []string `json:"portfolio_ids"`
	Years               int      `json:"years"`
	InitialCapital      float64  `json:"initial_capital"`
	MonthlyContribution float64  `json:"monthly_contribution"`
	ContributionMode    string   `json:"contribution_mode"`
	GrowthRate          float64  `json:"growth_rate"`
	TaxRate             bool     `json:"tax_rate"`
	SimType             string   `json:"sim_type"`
}

// YearValue is the projected value at the end of a year; year 0 is the start
type YearValue struct {
	Year  int   `json:"year"`
	Value int64 `json:"value"`
}

// Result is the projection of one portfolio. Amounts are rounded to whole units.
type Result struct {
	PortfolioID   string      `json:"portfolio_id"`
	PortfolioName string      `json:"portfolio_name"`
	Data          []YearValue `json:"data"`
	FinalGross    int64       `json:"final_gross"`
	FinalNet      int64       `json:"final_net"`
	TotalInvested int64       `json:"total_invested"`
	TaxPaid       int64       `json:"tax_paid"`
	Gain          int64       `json:"gain"`
}

// Scenario holds annual return parameters
type Scenario struct {
	AnnualReturn     float64
	AnnualVolatility float64
}

// ScenarioFor returns the parameters of simType; unknown names get the baseline
func ScenarioFor(simType string) Scenario {
	switch simType {
	case ScenarioPessimistic:
		return Scenario{AnnualReturn: 0.04}
	case ScenarioMonteCarlo:
		return Scenario{AnnualReturn: 0.07, AnnualVolatility: 0.15}
	default:
		return Scenario{AnnualReturn: 0.07}
	}
}
