package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks a projection input the engine refuses to run.
var ErrInvalidInput = errors.New("invalid projection input")

// ProjectionEngine runs the year-by-year withdrawal and tax projection. It holds no
// per-run state, so one engine can serve concurrent projections.
type ProjectionEngine struct {
	Debug  bool // Log a line per simulated year
	Logger Logger
}

// NewProjectionEngine creates a projection engine with a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

func (pe *ProjectionEngine) logger() Logger {
	if pe.Logger == nil {
		return NopLogger{}
	}
	return pe.Logger
}

// Project simulates every year from the current year through the household's last
// life-expectancy year using the scenario's fixed growth assumptions.
func (pe *ProjectionEngine) Project(ctx context.Context, in domain.ProjectionInput) ([]domain.ProjectionDetail, error) {
	return pe.ProjectWithGrowth(ctx, in, nil)
}

// ProjectWithGrowth is Project with a caller-supplied growth model; nil means fixed growth.
func (pe *ProjectionEngine) ProjectWithGrowth(ctx context.Context, in domain.ProjectionInput, growth GrowthModel) ([]domain.ProjectionDetail, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	strategy, err := NewWithdrawalStrategy(in.Settings.Strategy)
	if err != nil {
		return nil, err
	}
	if growth == nil {
		growth = NewFixedGrowth(in.Settings)
	}
	return pe.run(ctx, in, strategy, growth)
}

// ValidateInput rejects inputs the projection cannot represent faithfully.
func ValidateInput(in domain.ProjectionInput) error {
	h, s := in.Household, in.Settings
	switch {
	case h.PrimaryBirthYear <= 0:
		return fmt.Errorf("%w: primary birth year is required", ErrInvalidInput)
	case h.LifeExpectancy <= 0:
		return fmt.Errorf("%w: life expectancy is required", ErrInvalidInput)
	case s.CurrentYear <= 0:
		return fmt.Errorf("%w: current year is required", ErrInvalidInput)
	case s.RetirementAge <= 0:
		return fmt.Errorf("%w: retirement age is required", ErrInvalidInput)
	case h.FilingStatus != "" && !h.FilingStatus.Valid():
		return fmt.Errorf("%w: unknown filing status %q", ErrInvalidInput, h.FilingStatus)
	}
	if age := h.PrimaryAge(s.CurrentYear); s.RetirementAge < age {
		return fmt.Errorf("%w: retirement age %d is before current age %d", ErrInvalidInput, s.RetirementAge, age)
	}
	if h.FinalYear() < s.CurrentYear {
		return fmt.Errorf("%w: life expectancy year %d is before current year %d", ErrInvalidInput, h.FinalYear(), s.CurrentYear)
	}
	if h.HasSpouse() && h.SpouseBirthYear > s.CurrentYear {
		return fmt.Errorf("%w: spouse birth year %d is in the future", ErrInvalidInput, h.SpouseBirthYear)
	}

	minusOne := decimal.NewFromInt(-1)
	rates := []struct {
		name string
		rate decimal.Decimal
	}{
		{"pre-retirement growth rate", s.GrowthRatePreRetirement},
		{"during-retirement growth rate", s.GrowthRateDuringRetirement},
		{"inflation rate", s.InflationRate},
	}
	for _, r := range rates {
		if r.rate.LessThanOrEqual(minusOne) {
			return fmt.Errorf("%w: %s %s must be greater than -100%%", ErrInvalidInput, r.name, r.rate)
		}
	}
	if s.DebtInterestRate.IsNegative() {
		return fmt.Errorf("%w: debt interest rate cannot be negative", ErrInvalidInput)
	}
	if h.PrimarySSABenefit.IsNegative() || h.SpouseSSABenefit.IsNegative() {
		return fmt.Errorf("%w: social security benefits cannot be negative", ErrInvalidInput)
	}

	for i, a := range in.Accounts {
		if !a.Type.Valid() {
			return fmt.Errorf("%w: account %d (%s): unknown type %q", ErrInvalidInput, i, a.Name, a.Type)
		}
		if a.Balance.IsNegative() {
			return fmt.Errorf("%w: account %d (%s): negative balance %s", ErrInvalidInput, i, a.Name, a.Balance)
		}
		if a.AnnualContribution.IsNegative() {
			return fmt.Errorf("%w: account %d (%s): negative contribution", ErrInvalidInput, i, a.Name)
		}
	}
	for i, e := range in.Expenses {
		if e.MonthlyBefore65.IsNegative() || e.MonthlyAfter65.IsNegative() {
			return fmt.Errorf("%w: expense %d (%s): negative amount", ErrInvalidInput, i, e.Name)
		}
	}
	for i, o := range in.OtherIncomes {
		if o.AnnualAmount.IsNegative() {
			return fmt.Errorf("%w: other income %d (%s): negative amount", ErrInvalidInput, i, o.Name)
		}
	}
	return nil
}

// RunScenario projects one scenario of a configuration and summarizes it.
func (pe *ProjectionEngine) RunScenario(ctx context.Context, config *domain.Configuration, scenario domain.Scenario) (*domain.ScenarioResult, error) {
	projection, err := pe.Project(ctx, config.Input(scenario))
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	summary := Summarize(projection, scenario.Settings)
	summary.ScenarioID = scenario.ID
	summary.Name = scenario.Name
	return &domain.ScenarioResult{Scenario: scenario, Summary: summary, Projection: projection}, nil
}

// RunScenarios runs all scenarios in file order.
func (pe *ProjectionEngine) RunScenarios(ctx context.Context, config *domain.Configuration) ([]domain.ScenarioResult, error) {
	results := make([]domain.ScenarioResult, 0, len(config.Scenarios))
	for _, scenario := range config.Scenarios {
		result, err := pe.RunScenario(ctx, config, scenario)
		if err != nil {
			return nil, fmt.Errorf("RunScenario failed: %w", err)
		}
		results = append(results, *result)
	}
	return results, nil
}
