package output

import (
	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	Strategy         domain.StrategyType
	Risk             domain.RiskLevel
	LongevityAge     int
	FinalNetWorth    decimal.Decimal
	NetWorthChange   decimal.Decimal
	PercentageChange decimal.Decimal
}

// AnalyzeScenarios picks the best result of the report, preferring the strategy
// comparison when one is present. The change figures are measured against the first
// result, which is the file's first scenario or the four_percent run.
func AnalyzeScenarios(report *domain.Report) Recommendation {
	if report == nil {
		return Recommendation{}
	}
	results := report.Results
	if report.Compare != nil && len(report.Compare.Results) > 0 {
		results = report.Compare.Results
	}
	i := calculation.BestResultIndex(results)
	if i < 0 {
		return Recommendation{}
	}
	best := results[i].Summary
	baseline := results[0].Summary.FinalNetWorth
	delta := best.FinalNetWorth.Sub(baseline)
	pct := decimal.Zero
	if !baseline.IsZero() {
		pct = delta.Div(baseline.Abs()).Mul(decimalHundred)
	}
	name := best.Name
	if name == "" {
		name = results[i].Scenario.Name
	}
	return Recommendation{
		ScenarioName:     name,
		Strategy:         best.Strategy,
		Risk:             best.Risk,
		LongevityAge:     best.LongevityAge,
		FinalNetWorth:    best.FinalNetWorth,
		NetWorthChange:   delta,
		PercentageChange: pct,
	}
}
