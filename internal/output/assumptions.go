package output

import (
	"fmt"

	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// GenerateAssumptions lists the modeling assumptions of one scenario's settings.
func GenerateAssumptions(s domain.CalculatorSettings) []string {
	brackets := "Tax brackets: 2024 levels held constant (no inflation indexing)"
	if s.IndexTaxBrackets {
		brackets = "Tax brackets: 2024 levels indexed by inflation"
	}
	gains := "Capital gains taxed on their own 0/15/20% tiers"
	if s.StackCapitalGains {
		gains = "Capital gains stacked on top of ordinary taxable income"
	}
	out := []string{
		fmt.Sprintf("Retirement age: %d (starting %d)", s.RetirementAge, s.RetirementStartYear),
		fmt.Sprintf("Portfolio growth pre-retirement: %.1f%% annually", s.GrowthRatePreRetirement.Mul(decimalHundred).InexactFloat64()),
		fmt.Sprintf("Portfolio growth during retirement: %.1f%% annually", s.GrowthRateDuringRetirement.Mul(decimalHundred).InexactFloat64()),
		fmt.Sprintf("Inflation and Social Security COLA: %.1f%% annually", s.InflationRate.Mul(decimalHundred).InexactFloat64()),
		fmt.Sprintf("Withdrawal strategy: %s", s.Strategy),
		brackets,
		gains,
	}
	if s.EnableBorrowing {
		out = append(out, fmt.Sprintf("Borrowing enabled at %.1f%% interest", s.DebtInterestRate.Mul(decimalHundred).InexactFloat64()))
	}
	return out
}
