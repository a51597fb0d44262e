package domain

import (
	"strings"

	"github.com/rpgo/withdrawal-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ExpenseCategory splits spending into must-pay and optional.
type ExpenseCategory string

const (
	ExpenseEssential     ExpenseCategory = "essential"
	ExpenseDiscretionary ExpenseCategory = "discretionary"
)

var essentialKeywords = []string{"rent", "mortgage", "tax", "maintenance", "groceries", "grocery", "utilities", "utility", "medical", "health", "insurance"}

// Expense is a recurring monthly cost that may change at age 65.
type Expense struct {
	Name            string          `yaml:"name" json:"name" validate:"required"`
	MonthlyBefore65 decimal.Decimal `yaml:"monthly_before_65" json:"monthly_before_65" validate:"gte=0"`
	MonthlyAfter65  decimal.Decimal `yaml:"monthly_after_65" json:"monthly_after_65" validate:"gte=0"`
	// Special expenses are reported separately from living expenses.
	Special   bool `yaml:"special,omitempty" json:"special,omitempty"`
	StartYear int  `yaml:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear   int  `yaml:"end_year,omitempty" json:"end_year,omitempty"`
}

// Classify applies the keyword heuristic on the expense name.
func (e Expense) Classify() ExpenseCategory {
	name := strings.ToLower(e.Name)
	for _, kw := range essentialKeywords {
		if strings.Contains(name, kw) {
			return ExpenseEssential
		}
	}
	return ExpenseDiscretionary
}

// ActiveIn reports whether the expense applies in year.
func (e Expense) ActiveIn(year int) bool {
	return withinBounds(year, e.StartYear, e.EndYear)
}

// Annual returns the un-inflated yearly amount for someone of the given age.
func (e Expense) Annual(age int) decimal.Decimal {
	monthly := e.MonthlyBefore65
	if dateutil.IsMedicareEligible(age) {
		monthly = e.MonthlyAfter65
	}
	return monthly.Mul(decimal.NewFromInt(12))
}

// OtherIncome is a recurring non-portfolio income source (pension, rent, part-time work).
type OtherIncome struct {
	Name              string          `yaml:"name" json:"name" validate:"required"`
	AnnualAmount      decimal.Decimal `yaml:"annual_amount" json:"annual_amount" validate:"gte=0"`
	StartYear         int             `yaml:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear           int             `yaml:"end_year,omitempty" json:"end_year,omitempty"`
	InflationAdjusted bool            `yaml:"inflation_adjusted" json:"inflation_adjusted"`
}

// ActiveIn reports whether the income is received in year. Bounds are inclusive; zero means open.
func (o OtherIncome) ActiveIn(year int) bool {
	return withinBounds(year, o.StartYear, o.EndYear)
}

func withinBounds(year, start, end int) bool {
	if start > 0 && year < start {
		return false
	}
	if end > 0 && year > end {
		return false
	}
	return true
}
