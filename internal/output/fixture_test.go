package output

import (
	"testing"

	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fixtureInput() domain.ProjectionInput {
	return domain.ProjectionInput{
		Household: domain.Household{
			PrimaryBirthYear:  1960,
			LifeExpectancy:    88,
			PrimarySSABenefit: decimal.NewFromInt(2200),
		},
		Accounts: []domain.Account{
			{ID: "ira", Name: "Rollover IRA", Type: domain.AccountIRA, Balance: decimal.NewFromInt(650000)},
			{ID: "roth", Name: "Roth", Type: domain.AccountRoth, Balance: decimal.NewFromInt(90000)},
			{ID: "brokerage", Name: "Brokerage", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(120000)},
		},
		Expenses: []domain.Expense{
			{Name: "Mortgage", MonthlyBefore65: decimal.NewFromInt(2400), MonthlyAfter65: decimal.NewFromInt(2400)},
			{Name: "Travel", MonthlyBefore65: decimal.NewFromInt(900), MonthlyAfter65: decimal.NewFromInt(500)},
		},
		Settings: domain.CalculatorSettings{
			CurrentYear:                2024,
			RetirementAge:              65,
			RetirementStartYear:        2025,
			GrowthRatePreRetirement:    decimal.NewFromFloat(0.06),
			GrowthRateDuringRetirement: decimal.NewFromFloat(0.05),
			InflationRate:              decimal.NewFromFloat(0.03),
			SSAStartAge:                67,
			IncludePrimarySSA:          true,
			Strategy:                   domain.StrategyFourPercent,
		},
	}
}

// buildTestReport runs the fixture through the engine so formatters see real ledgers.
func buildTestReport(t *testing.T) *domain.Report {
	t.Helper()
	in := fixtureInput()
	engine := calculation.NewProjectionEngine()

	projection, err := engine.Project(t.Context(), in)
	require.NoError(t, err)
	summary := calculation.Summarize(projection, in.Settings)
	summary.Name = "Baseline"

	cmp, err := engine.CompareSelected(t.Context(), "Baseline", in,
		[]domain.StrategyType{domain.StrategyFourPercent, domain.StrategyBucket, domain.StrategyGuardrails})
	require.NoError(t, err)

	sim := calculation.NewMonteCarloSimulator(engine, calculation.MonteCarloConfig{Seed: 42, Workers: 2})
	mc, err := sim.Run(t.Context(), in, 20)
	require.NoError(t, err)

	return &domain.Report{
		Title: "Fixture household",
		Results: []domain.ScenarioResult{{
			Scenario:   domain.Scenario{Name: "Baseline", Settings: in.Settings},
			Summary:    summary,
			Projection: projection,
		}},
		Compare:   cmp,
		Simulated: mc,
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// staticReport is a hand-built two-year report whose rendered output is pinned in
// testdata goldens.
func staticReport() *domain.Report {
	settings := domain.CalculatorSettings{
		CurrentYear:                2024,
		RetirementAge:              65,
		RetirementStartYear:        2025,
		GrowthRatePreRetirement:    d("0.06"),
		GrowthRateDuringRetirement: d("0.05"),
		InflationRate:              d("0.03"),
		Strategy:                   domain.StrategyFourPercent,
		EnableBorrowing:            true,
		DebtInterestRate:           d("0.07"),
	}
	projection := []domain.ProjectionDetail{
		{
			Year: 2024, Age: 64,
			LivingExpenses: d("39600"), TotalExpenses: d("39600"),
			GapExcess: d("-39600"), UnmetNeed: d("39600"),
			DebtBalance: d("39600"), CumulativeLiability: d("39600"),
			AssetsRemaining: d("911600"), NetWorth: d("872000"),
		},
		{
			Year: 2025, Age: 65, Event: domain.EventRetirement, IsRetired: true,
			DistributionIRA: d("36400"), DistributionTaxable: d("4800.25"), TotalIncome: d("41200.25"),
			LivingExpenses: d("40788"), TotalExpenses: d("40788"),
			TaxableIncome: d("21800"), CapitalGainsIncome: d("4800.25"),
			OrdinaryTax: d("2286"), TaxPaid: d("2286"), AfterTaxIncome: d("38914.25"),
			GapExcess: d("-1873.75"), UnmetNeed: d("1873.75"),
			DebtBalance: d("44245.75"), DebtInterest: d("2772"), CumulativeLiability: d("44245.75"),
			AssetsRemaining: d("870000"), NetWorth: d("825754.25"),
		},
	}
	baseline := domain.ScenarioSummary{
		Name: "Baseline", Strategy: domain.StrategyFourPercent, Years: 2,
		FirstYear: 2024, FinalYear: 2025, FirstRetiredYear: 2025, LongevityAge: 65,
		InitialAssets: d("860000"), RetirementAssets: d("911600"),
		FirstWithdrawal: d("41200.25"), TotalDistributions: d("41200.25"),
		TotalTaxes: d("2286"), EffectiveTaxRate: d("0.0555"),
		TotalUnmetNeed: d("41473.75"), PeakDebt: d("44245.75"),
		FinalNetWorth: d("825754.25"), Risk: domain.RiskMedium,
	}
	bucket := domain.ScenarioSummary{
		Name: "Baseline", Strategy: domain.StrategyBucket, LongevityAge: 65,
		TotalTaxes: d("1950"), FinalNetWorth: d("830100"), Risk: domain.RiskLow,
	}
	guardrails := domain.ScenarioSummary{
		Name: "Baseline", Strategy: domain.StrategyGuardrails, LongevityAge: 65,
		TotalTaxes: d("2410.6"), FinalNetWorth: d("818000.4"), Risk: domain.RiskMedium,
	}
	scenario := domain.Scenario{Name: "Baseline", Settings: settings}
	return &domain.Report{
		Title:   "Static household",
		Results: []domain.ScenarioResult{{Scenario: scenario, Summary: baseline, Projection: projection}},
		Compare: &domain.StrategyComparison{
			ScenarioName: "Baseline",
			Best:         domain.StrategyBucket,
			Results: []domain.ScenarioResult{
				{Scenario: scenario, Summary: baseline},
				{Scenario: scenario, Summary: bucket},
				{Scenario: scenario, Summary: guardrails},
			},
		},
		Simulated: &domain.MonteCarloResult{
			Simulations:     20,
			Seed:            42,
			SuccessRate:     d("0.85"),
			MedianLongevity: 88,
			EndingNetWorth: domain.PercentileRanges{
				P10: d("120000.4"), P25: d("300000"), P50: d("512345.67"), P75: d("700000"), P90: d("901234.4"),
			},
			DepletedRuns:     3,
			MeanReturn:       d("0.0512"),
			ReturnVolatility: d("0.1498"),
		},
	}
}
