package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfiguration wraps every validation failure reported by the parser.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// scenarioNamespace seeds the name-based ids of scenarios that do not declare one.
var scenarioNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rpgo/withdrawal-planner/scenario"))

// ScenarioID returns the id used for a scenario without an explicit id. It depends only
// on the name, so reloading a file keeps replacing the same stored run.
func ScenarioID(name string) string {
	return uuid.NewSHA1(scenarioNamespace, []byte(strings.TrimSpace(name))).String()
}

// InputParser handles parsing of input configuration files
type InputParser struct {
	Defaults Defaults
	validate *validator.Validate
}

// NewInputParser creates a new input parser using the built-in defaults.
func NewInputParser() *InputParser {
	return NewInputParserWithDefaults(BuiltinDefaults())
}

// NewInputParserWithDefaults creates a parser that fills missing settings from d.
func NewInputParserWithDefaults(d Defaults) *InputParser {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &InputParser{Defaults: d, validate: v}
}

// decimalValue lets numeric validator tags (gte, lte) apply to decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// rawSettings records which keys each scenario's settings block spelled out.
type rawSettings struct {
	Scenarios []struct {
		Settings map[string]interface{} `yaml:"settings"`
	} `yaml:"scenarios"`
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, normalizes, fills defaults and validates a scenario document.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	var raw rawSettings
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.Normalize(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	for i := range config.Scenarios {
		present := map[string]bool{}
		if i < len(raw.Scenarios) {
			for key := range raw.Scenarios[i].Settings {
				present[key] = true
			}
		}
		ip.applyScenarioDefaults(&config, i, present)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Normalize resolves the friendly spellings accepted for filing status, account types
// and strategies, and assigns ids where the file leaves them out.
func (ip *InputParser) Normalize(config *domain.Configuration) error {
	h := &config.Plan.Household
	fs, ok := domain.ParseFilingStatus(string(h.FilingStatus))
	if !ok {
		return fmt.Errorf("%w: unknown filing status %q", ErrInvalidConfiguration, h.FilingStatus)
	}
	h.FilingStatus = fs

	for i := range config.Plan.Accounts {
		a := &config.Plan.Accounts[i]
		t, ok := domain.ParseAccountType(string(a.Type))
		if !ok {
			return fmt.Errorf("%w: account %q: unknown type %q", ErrInvalidConfiguration, a.Name, a.Type)
		}
		a.Type = t
		if a.ID == "" {
			a.ID = fmt.Sprintf("%s-%d", t, i+1)
		}
	}

	for i := range config.Scenarios {
		sc := &config.Scenarios[i]
		if sc.ID == "" {
			sc.ID = ScenarioID(sc.Name)
		}
		s := &sc.Settings
		if s.Strategy != "" {
			st, ok := domain.ParseStrategyType(string(s.Strategy))
			if !ok {
				return fmt.Errorf("%w: scenario %q: unknown strategy %q", ErrInvalidConfiguration, sc.Name, s.Strategy)
			}
			s.Strategy = st
		}
		for _, p := range []*domain.AccountType{&s.WithdrawalPriority, &s.SecondaryPriority} {
			if *p == "" {
				continue
			}
			t, ok := domain.ParseAccountType(string(*p))
			if !ok {
				return fmt.Errorf("%w: scenario %q: unknown withdrawal priority %q", ErrInvalidConfiguration, sc.Name, *p)
			}
			*p = t
		}
	}
	return nil
}

// ApplyDefaults fills every scenario's missing settings, treating zero values as missing.
// LoadFromFile does this itself with key-presence information from the file.
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	for i := range config.Scenarios {
		ip.applyScenarioDefaults(config, i, nil)
	}
}

func (ip *InputParser) applyScenarioDefaults(config *domain.Configuration, i int, present map[string]bool) {
	s := &config.Scenarios[i].Settings
	ip.Defaults.Apply(s, present)
	if s.CurrentYear == 0 {
		s.CurrentYear = calculation.CurrentYear()
	}
	if s.RetirementAge > 0 && s.RetirementStartYear == 0 {
		s.RetirementStartYear = config.Plan.Household.PrimaryBirthYear + s.RetirementAge
	}
	if s.YearsToRetirement == 0 && s.RetirementStartYear > s.CurrentYear {
		s.YearsToRetirement = s.RetirementStartYear - s.CurrentYear
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidConfiguration, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	if err := ip.validatePlan(&config.Plan); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	names := map[string]bool{}
	for i, scenario := range config.Scenarios {
		if names[scenario.Name] {
			return fmt.Errorf("%w: duplicate scenario name %q", ErrInvalidConfiguration, scenario.Name)
		}
		names[scenario.Name] = true
		if err := ip.validateScenario(&config.Plan, &scenario); err != nil {
			return fmt.Errorf("%w: scenario %d (%s): %v", ErrInvalidConfiguration, i, scenario.Name, err)
		}
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Configuration.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// validatePlan runs the cross-field checks struct tags cannot express.
func (ip *InputParser) validatePlan(plan *domain.Plan) error {
	h := plan.Household
	if h.IncludeSpouse && h.SpouseBirthYear == 0 {
		return fmt.Errorf("spouse birth year is required when include_spouse is set")
	}
	if h.FilingStatus == domain.FilingStatusMarriedFilingJointly && !h.HasSpouse() {
		return fmt.Errorf("married_filing_jointly requires an included spouse")
	}

	ids := map[string]bool{}
	for _, a := range plan.Accounts {
		if !a.Type.Valid() {
			return fmt.Errorf("account %q: unknown type %q", a.Name, a.Type)
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate account id %q", a.ID)
		}
		ids[a.ID] = true
	}
	for _, e := range plan.Expenses {
		if e.StartYear > 0 && e.EndYear > 0 && e.EndYear < e.StartYear {
			return fmt.Errorf("expense %q ends before it starts", e.Name)
		}
	}
	for _, o := range plan.OtherIncomes {
		if o.StartYear > 0 && o.EndYear > 0 && o.EndYear < o.StartYear {
			return fmt.Errorf("other income %q ends before it starts", o.Name)
		}
	}
	return nil
}

// validateScenario validates a single scenario against the plan it runs on.
func (ip *InputParser) validateScenario(plan *domain.Plan, scenario *domain.Scenario) error {
	s := scenario.Settings
	if age := plan.Household.PrimaryAge(s.CurrentYear); s.RetirementAge < age {
		return fmt.Errorf("retirement age %d is before current age %d", s.RetirementAge, age)
	}
	if plan.Household.FinalYear() < s.CurrentYear {
		return fmt.Errorf("life expectancy ends in %d, before current year %d", plan.Household.FinalYear(), s.CurrentYear)
	}

	minusOne := decimal.NewFromInt(-1)
	if s.GrowthRatePreRetirement.LessThanOrEqual(minusOne) || s.GrowthRateDuringRetirement.LessThanOrEqual(minusOne) {
		return fmt.Errorf("growth rates must be greater than -100%%")
	}
	if s.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("inflation rate cannot be less than -10%% (extreme deflation)")
	}

	p := s.StrategyParams
	switch s.Strategy {
	case domain.StrategyFixedPercentage:
		if !p.FixedPercentage.IsPositive() || p.FixedPercentage.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("fixed_percentage strategy needs strategy_params.fixed_percentage between 0 and 1")
		}
	case domain.StrategyFixedDollar:
		if !p.FixedAmount.IsPositive() {
			return fmt.Errorf("fixed_dollar strategy needs a positive strategy_params.fixed_amount")
		}
	case domain.StrategyGuardrails:
		if p.GuardrailCeiling.IsPositive() && p.GuardrailFloor.GreaterThan(p.GuardrailCeiling) {
			return fmt.Errorf("guardrail floor %s is above the ceiling %s", p.GuardrailFloor, p.GuardrailCeiling)
		}
	}
	if p.FixedPercentage.IsNegative() || p.FixedAmount.IsNegative() || p.BracketThreshold.IsNegative() ||
		p.GuardrailCeiling.IsNegative() || p.GuardrailFloor.IsNegative() {
		return fmt.Errorf("strategy parameters cannot be negative")
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	settings := domain.CalculatorSettings{
		RetirementAge:              65,
		GrowthRatePreRetirement:    decimal.NewFromFloat(0.07),
		GrowthRateDuringRetirement: decimal.NewFromFloat(0.05),
		InflationRate:              decimal.NewFromFloat(0.03),
		SSAStartAge:                67,
		IncludePrimarySSA:          true,
		IncludeSpouseSSA:           true,
		Strategy:                   domain.StrategyFourPercent,
	}
	bracket := settings
	bracket.Strategy = domain.StrategyBracketTopping
	bracket.EnableBorrowing = true
	bracket.DebtInterestRate = decimal.NewFromFloat(0.06)
	guardrails := settings
	guardrails.Strategy = domain.StrategyGuardrails
	guardrails.StrategyParams = domain.StrategyParams{
		GuardrailCeiling: decimal.NewFromFloat(0.06),
		GuardrailFloor:   decimal.NewFromFloat(0.03),
	}

	return &domain.Configuration{
		Plan: domain.Plan{
			Household: domain.Household{
				PrimaryBirthYear:     1965,
				SpouseBirthYear:      1967,
				IncludeSpouse:        true,
				FilingStatus:         domain.FilingStatusMarriedFilingJointly,
				LifeExpectancy:       90,
				SpouseLifeExpectancy: 93,
				PrimarySSABenefit:    decimal.NewFromInt(2800),
				SpouseSSABenefit:     decimal.NewFromInt(1900),
			},
			Accounts: []domain.Account{
				{ID: "401k-1", Name: "Employer 401k", Type: domain.Account401k, Balance: decimal.NewFromInt(620000), AnnualContribution: decimal.NewFromInt(23000)},
				{ID: "ira-1", Name: "Rollover IRA", Type: domain.AccountIRA, Balance: decimal.NewFromInt(150000)},
				{ID: "roth-1", Name: "Roth IRA", Type: domain.AccountRoth, Balance: decimal.NewFromInt(85000), AnnualContribution: decimal.NewFromInt(7000)},
				{ID: "hsa-1", Name: "HSA", Type: domain.AccountHSA, Balance: decimal.NewFromInt(30000), AnnualContribution: decimal.NewFromInt(4150)},
				{ID: "brokerage-1", Name: "Brokerage", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(210000)},
			},
			Expenses: []domain.Expense{
				{Name: "Mortgage", MonthlyBefore65: decimal.NewFromInt(2100), MonthlyAfter65: decimal.NewFromInt(2100), EndYear: 2034},
				{Name: "Groceries", MonthlyBefore65: decimal.NewFromInt(950), MonthlyAfter65: decimal.NewFromInt(850)},
				{Name: "Utilities", MonthlyBefore65: decimal.NewFromInt(400), MonthlyAfter65: decimal.NewFromInt(400)},
				{Name: "Medical insurance", MonthlyBefore65: decimal.NewFromInt(1200), MonthlyAfter65: decimal.NewFromInt(650)},
				{Name: "Travel", MonthlyBefore65: decimal.NewFromInt(500), MonthlyAfter65: decimal.NewFromInt(900)},
				{Name: "Replace car", MonthlyBefore65: decimal.NewFromInt(3000), MonthlyAfter65: decimal.NewFromInt(3000), Special: true, StartYear: 2032, EndYear: 2032},
			},
			OtherIncomes: []domain.OtherIncome{
				{Name: "Part-time consulting", AnnualAmount: decimal.NewFromInt(24000), StartYear: 2030, EndYear: 2033},
			},
		},
		Scenarios: []domain.Scenario{
			{ID: "baseline", Name: "Four percent at 65", Settings: settings},
			{ID: "bracket", Name: "Fill the 12% bracket", Settings: bracket},
			{ID: "guardrails", Name: "Guardrails", Settings: guardrails},
		},
	}
}
