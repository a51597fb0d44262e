package domain

import "github.com/shopspring/decimal"

// RiskLevel is a coarse label derived from a projection.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ScenarioSummary condenses a projection into the figures used for comparison.
type ScenarioSummary struct {
	ScenarioID string       `json:"scenario_id,omitempty"`
	Name       string       `json:"name"`
	Strategy   StrategyType `json:"strategy"`
	Years      int          `json:"years"`
	FirstYear  int          `json:"first_year"`
	FinalYear  int          `json:"final_year"`

	// LongevityAge is the last age at which assets were still positive.
	LongevityAge     int `json:"longevity_age"`
	DepletionYear    int `json:"depletion_year,omitempty"`
	FirstRetiredYear int `json:"first_retired_year,omitempty"`

	InitialAssets       decimal.Decimal `json:"initial_assets"`
	RetirementAssets    decimal.Decimal `json:"retirement_assets"`
	FinalNetWorth       decimal.Decimal `json:"final_net_worth"`
	TotalDistributions  decimal.Decimal `json:"total_distributions"`
	TotalTaxes          decimal.Decimal `json:"total_taxes"`
	TotalCharitable     decimal.Decimal `json:"total_charitable"`
	TotalRothConversion decimal.Decimal `json:"total_roth_conversion"`
	TotalUnmetNeed      decimal.Decimal `json:"total_unmet_need"`
	PeakDebt            decimal.Decimal `json:"peak_debt"`
	FirstWithdrawal     decimal.Decimal `json:"first_withdrawal"`
	EffectiveTaxRate    decimal.Decimal `json:"effective_tax_rate"`
	Risk                RiskLevel       `json:"risk"`
}

// ScenarioResult pairs a projection with its summary.
type ScenarioResult struct {
	Scenario   Scenario           `json:"scenario"`
	Summary    ScenarioSummary    `json:"summary"`
	Projection []ProjectionDetail `json:"projection"`
}

// StrategyComparison holds one result per strategy, in AllStrategyTypes order.
type StrategyComparison struct {
	ScenarioName string           `json:"scenario_name"`
	Results      []ScenarioResult `json:"results"`
	Best         StrategyType     `json:"best"`
}

// Report is what formatters render: one or more scenario runs.
type Report struct {
	Title     string              `json:"title"`
	Results   []ScenarioResult    `json:"results"`
	Compare   *StrategyComparison `json:"comparison,omitempty"`
	Simulated *MonteCarloResult   `json:"monte_carlo,omitempty"`
}

// PercentileRanges represents percentile ranges for simulated ending net worth.
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// MonteCarloResult aggregates stochastic runs of a single scenario.
type MonteCarloResult struct {
	Simulations      int              `json:"simulations"`
	Seed             int64            `json:"seed"`
	SuccessRate      decimal.Decimal  `json:"success_rate"`
	MedianLongevity  int              `json:"median_longevity_age"`
	EndingNetWorth   PercentileRanges `json:"ending_net_worth"`
	DepletedRuns     int              `json:"depleted_runs"`
	MeanReturn       decimal.Decimal  `json:"mean_return"`
	ReturnVolatility decimal.Decimal  `json:"return_volatility"`
}
