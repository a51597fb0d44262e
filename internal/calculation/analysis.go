package calculation

import (
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize condenses a projection into the figures used for scoring and comparison.
func Summarize(projection []domain.ProjectionDetail, settings domain.CalculatorSettings) domain.ScenarioSummary {
	summary := domain.ScenarioSummary{
		Strategy: settings.Strategy,
		Years:    len(projection),
	}
	if len(projection) == 0 {
		summary.Risk = domain.RiskHigh
		return summary
	}

	first, last := projection[0], projection[len(projection)-1]
	summary.FirstYear = first.Year
	summary.FinalYear = last.Year
	summary.InitialAssets = openingTotal(first)
	summary.FinalNetWorth = last.NetWorth

	totalIncome := decimal.Zero
	for _, pd := range projection {
		if pd.IsRetired && summary.FirstRetiredYear == 0 {
			summary.FirstRetiredYear = pd.Year
			summary.RetirementAssets = openingTotal(pd)
			summary.FirstWithdrawal = pd.TotalDistributions()
		}
		if !pd.IsDepleted() {
			summary.LongevityAge = pd.Age
		} else if summary.DepletionYear == 0 && summary.InitialAssets.IsPositive() {
			summary.DepletionYear = pd.Year
		}
		if pd.DebtBalance.GreaterThan(summary.PeakDebt) {
			summary.PeakDebt = pd.DebtBalance
		}
		summary.TotalDistributions = summary.TotalDistributions.Add(pd.TotalDistributions())
		summary.TotalTaxes = summary.TotalTaxes.Add(pd.TaxPaid)
		summary.TotalCharitable = summary.TotalCharitable.Add(pd.CharitableDistribution)
		summary.TotalRothConversion = summary.TotalRothConversion.Add(pd.RothConversion)
		summary.TotalUnmetNeed = summary.TotalUnmetNeed.Add(pd.UnmetNeed)
		totalIncome = totalIncome.Add(pd.TotalIncome).Add(pd.RothConversion)
	}
	if totalIncome.IsPositive() {
		summary.EffectiveTaxRate = summary.TotalTaxes.Div(totalIncome).Round(4)
	}
	summary.Risk = riskLevel(summary)
	return summary
}

func openingTotal(pd domain.ProjectionDetail) decimal.Decimal {
	total := decimal.Zero
	for _, a := range pd.Accounts {
		total = total.Add(a.Opening)
	}
	return total
}

// riskLevel labels a run high when the money runs out or the household ends in debt,
// medium when any need went unmet or the portfolio fell below a quarter of its
// retirement value, and low otherwise.
func riskLevel(s domain.ScenarioSummary) domain.RiskLevel {
	switch {
	case s.DepletionYear != 0, s.FinalNetWorth.IsNegative():
		return domain.RiskHigh
	case s.TotalUnmetNeed.IsPositive(), s.PeakDebt.IsPositive():
		return domain.RiskMedium
	case s.RetirementAssets.IsPositive() &&
		s.FinalNetWorth.LessThan(s.RetirementAssets.Mul(decimal.NewFromFloat(0.25))):
		return domain.RiskMedium
	}
	return domain.RiskLow
}

var riskRank = map[domain.RiskLevel]int{domain.RiskLow: 0, domain.RiskMedium: 1, domain.RiskHigh: 2}

// BestResultIndex returns the index of the result with the lowest risk, then the
// longest longevity, then the highest final net worth. Ties keep the earlier result.
// It returns -1 for an empty slice.
func BestResultIndex(results []domain.ScenarioResult) int {
	best := -1
	for i, r := range results {
		if best < 0 || better(r.Summary, results[best].Summary) {
			best = i
		}
	}
	return best
}

func bestResult(results []domain.ScenarioResult) domain.StrategyType {
	i := BestResultIndex(results)
	if i < 0 {
		return ""
	}
	return results[i].Summary.Strategy
}

func better(a, b domain.ScenarioSummary) bool {
	if riskRank[a.Risk] != riskRank[b.Risk] {
		return riskRank[a.Risk] < riskRank[b.Risk]
	}
	if a.LongevityAge != b.LongevityAge {
		return a.LongevityAge > b.LongevityAge
	}
	return a.FinalNetWorth.GreaterThan(b.FinalNetWorth)
}
