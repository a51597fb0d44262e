package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StrategyType names one of the withdrawal policies.
type StrategyType string

const (
	StrategyFourPercent     StrategyType = "four_percent"
	StrategyFixedPercentage StrategyType = "fixed_percentage"
	StrategyFixedDollar     StrategyType = "fixed_dollar"
	StrategySWP             StrategyType = "swp"
	StrategyProportional    StrategyType = "proportional"
	StrategyBracketTopping  StrategyType = "bracket_topping"
	StrategyBucket          StrategyType = "bucket"
	StrategyGuardrails      StrategyType = "guardrails"
	StrategyFloorUpside     StrategyType = "floor_upside"
	StrategyRothBridge      StrategyType = "roth_bridge"
	StrategyQCD             StrategyType = "qcd"
)

// AllStrategyTypes lists the strategies in presentation order.
var AllStrategyTypes = []StrategyType{
	StrategyFourPercent,
	StrategyFixedPercentage,
	StrategyFixedDollar,
	StrategySWP,
	StrategyProportional,
	StrategyBracketTopping,
	StrategyBucket,
	StrategyGuardrails,
	StrategyFloorUpside,
	StrategyRothBridge,
	StrategyQCD,
}

var strategyAliases = map[string]StrategyType{
	"4_percent_rule":         StrategyFourPercent,
	"4%":                     StrategyFourPercent,
	"four_percent_rule":      StrategyFourPercent,
	"percentage":             StrategyFixedPercentage,
	"fixed_amount":           StrategyFixedDollar,
	"earnings_only":          StrategySWP,
	"systematic":             StrategySWP,
	"pro_rata":               StrategyProportional,
	"tax_bracket":            StrategyBracketTopping,
	"buckets":                StrategyBucket,
	"guyton_klinger":         StrategyGuardrails,
	"floor_and_upside":       StrategyFloorUpside,
	"roth_conversion":        StrategyRothBridge,
	"roth_conversion_bridge": StrategyRothBridge,
	"charitable":             StrategyQCD,
}

// ParseStrategyType resolves canonical names and aliases.
func ParseStrategyType(s string) (StrategyType, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(strings.ReplaceAll(n, "-", "_"), " ", "_")
	for _, st := range AllStrategyTypes {
		if string(st) == n {
			return st, true
		}
	}
	st, ok := strategyAliases[n]
	return st, ok
}

// StrategyParams holds the knobs used by individual strategies. Rates are decimals (0.05 = 5%).
type StrategyParams struct {
	FixedPercentage  decimal.Decimal `yaml:"fixed_percentage,omitempty" json:"fixed_percentage,omitempty"`
	FixedAmount      decimal.Decimal `yaml:"fixed_amount,omitempty" json:"fixed_amount,omitempty"`
	GuardrailCeiling decimal.Decimal `yaml:"guardrail_ceiling,omitempty" json:"guardrail_ceiling,omitempty"`
	GuardrailFloor   decimal.Decimal `yaml:"guardrail_floor,omitempty" json:"guardrail_floor,omitempty"`
	// BracketThreshold is a taxable-income level (after the standard deduction).
	BracketThreshold decimal.Decimal `yaml:"bracket_threshold,omitempty" json:"bracket_threshold,omitempty"`
}

// CalculatorSettings are the per-scenario assumptions.
type CalculatorSettings struct {
	CurrentYear              int             `yaml:"current_year" json:"current_year" validate:"required,gte=1900"`
	RetirementAge            int             `yaml:"retirement_age" json:"retirement_age" validate:"required,gt=0,lte=120"`
	RetirementStartYear      int             `yaml:"retirement_start_year,omitempty" json:"retirement_start_year,omitempty"`
	YearsToRetirement        int             `yaml:"years_to_retirement,omitempty" json:"years_to_retirement,omitempty"`
	AnnualRetirementExpenses decimal.Decimal `yaml:"annual_retirement_expenses,omitempty" json:"annual_retirement_expenses,omitempty" validate:"gte=0"`

	GrowthRatePreRetirement    decimal.Decimal `yaml:"growth_rate_pre_retirement" json:"growth_rate_pre_retirement"`
	GrowthRateDuringRetirement decimal.Decimal `yaml:"growth_rate_during_retirement" json:"growth_rate_during_retirement"`
	InflationRate              decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	CapitalGainsTaxRate        decimal.Decimal `yaml:"capital_gains_tax_rate,omitempty" json:"capital_gains_tax_rate,omitempty"`
	RetirementIncomeTaxRate    decimal.Decimal `yaml:"retirement_income_tax_rate,omitempty" json:"retirement_income_tax_rate,omitempty"`

	EnableBorrowing  bool            `yaml:"enable_borrowing" json:"enable_borrowing"`
	DebtInterestRate decimal.Decimal `yaml:"debt_interest_rate,omitempty" json:"debt_interest_rate,omitempty" validate:"gte=0"`

	SSAStartAge       int  `yaml:"ssa_start_age,omitempty" json:"ssa_start_age,omitempty" validate:"omitempty,gte=62,lte=70"`
	IncludePrimarySSA bool `yaml:"include_primary_ssa" json:"include_primary_ssa"`
	IncludeSpouseSSA  bool `yaml:"include_spouse_ssa" json:"include_spouse_ssa"`

	Strategy           StrategyType   `yaml:"strategy" json:"strategy"`
	StrategyParams     StrategyParams `yaml:"strategy_params,omitempty" json:"strategy_params,omitempty"`
	WithdrawalPriority AccountType    `yaml:"withdrawal_priority,omitempty" json:"withdrawal_priority,omitempty"`
	SecondaryPriority  AccountType    `yaml:"secondary_priority,omitempty" json:"secondary_priority,omitempty"`

	StackCapitalGains bool `yaml:"stack_capital_gains,omitempty" json:"stack_capital_gains,omitempty"`
	IndexTaxBrackets  bool `yaml:"index_tax_brackets,omitempty" json:"index_tax_brackets,omitempty"`
}

// Plan is the household-level data shared by every scenario.
type Plan struct {
	Household    Household     `yaml:"household" json:"household"`
	Accounts     []Account     `yaml:"accounts" json:"accounts" validate:"dive"`
	Expenses     []Expense     `yaml:"expenses" json:"expenses" validate:"dive"`
	OtherIncomes []OtherIncome `yaml:"other_income,omitempty" json:"other_income,omitempty" validate:"dive"`
}

// Scenario is one named set of settings evaluated against a Plan.
type Scenario struct {
	ID       string             `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string             `yaml:"name" json:"name" validate:"required"`
	Settings CalculatorSettings `yaml:"settings" json:"settings"`
}

// Configuration is the top-level document loaded from a scenario file.
type Configuration struct {
	Plan      Plan       `yaml:"plan" json:"plan"`
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios" validate:"min=1,dive"`
}

// ProjectionInput is everything a single engine run needs.
type ProjectionInput struct {
	Household    Household
	Accounts     []Account
	Expenses     []Expense
	OtherIncomes []OtherIncome
	Settings     CalculatorSettings
}

// Input builds the engine input for one scenario of the configuration.
func (c *Configuration) Input(s Scenario) ProjectionInput {
	return ProjectionInput{
		Household:    c.Plan.Household,
		Accounts:     c.Plan.Accounts,
		Expenses:     c.Plan.Expenses,
		OtherIncomes: c.Plan.OtherIncomes,
		Settings:     s.Settings,
	}
}

// WithStrategy returns a copy of the input using a different strategy.
func (in ProjectionInput) WithStrategy(st StrategyType) ProjectionInput {
	out := in
	out.Settings.Strategy = st
	return out
}
