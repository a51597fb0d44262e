package calculation

import (
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal brackets: 2024 tables for every projection year unless IndexTaxBrackets is set.
//    - Single and Head of Household share the single table
//    - Married Filing Separately uses half of the Married Filing Jointly thresholds
// 2. Standard deduction: $29,200 MFJ, $14,600 for every other status. No age 65+ add-on.
// 3. Long-term capital gains: 0% / 15% / 20% tiers applied to the gains alone. Gains are not
//    stacked on top of ordinary income unless StackCapitalGains is set.
// 4. Social Security benefits, Roth, HSA and "other" account distributions are untaxed.

// TaxBracket is one marginal bracket. A zero Max marks the open-ended top bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// TaxTable holds the ordinary and capital-gains brackets for one filing status.
type TaxTable struct {
	Status            domain.FilingStatus
	StandardDeduction decimal.Decimal
	Ordinary          []TaxBracket
	CapitalGains      []TaxBracket
}

var (
	ordinaryRates = []decimal.Decimal{
		decimal.NewFromFloat(0.10),
		decimal.NewFromFloat(0.12),
		decimal.NewFromFloat(0.22),
		decimal.NewFromFloat(0.24),
		decimal.NewFromFloat(0.32),
		decimal.NewFromFloat(0.35),
		decimal.NewFromFloat(0.37),
	}
	capitalGainsRates = []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromFloat(0.15),
		decimal.NewFromFloat(0.20),
	}

	ordinaryThresholdsSingle = []int64{11600, 47150, 100525, 191950, 243725, 609350}
	ordinaryThresholdsMFJ    = []int64{23200, 94300, 201050, 383900, 487450, 731200}
	gainsThresholdsSingle    = []int64{47025, 518900}
	gainsThresholdsMFJ       = []int64{94050, 583750}

	standardDeductionMFJ   = decimal.NewFromInt(29200)
	standardDeductionOther = decimal.NewFromInt(14600)
)

// buildBrackets turns upper thresholds into contiguous brackets; the last rate is open-ended.
func buildBrackets(thresholds []int64, rates []decimal.Decimal, scale decimal.Decimal) []TaxBracket {
	brackets := make([]TaxBracket, 0, len(rates))
	lower := decimal.Zero
	for i, rate := range rates {
		b := TaxBracket{Min: lower, Rate: rate}
		if i < len(thresholds) {
			b.Max = decimal.NewFromInt(thresholds[i]).Mul(scale)
			lower = b.Max
		}
		brackets = append(brackets, b)
	}
	return brackets
}

// TaxTable2024 returns the embedded 2024 federal table for status. An unknown or empty
// status falls back to Single.
func TaxTable2024(status domain.FilingStatus) TaxTable {
	one := decimal.NewFromInt(1)
	half := decimal.NewFromFloat(0.5)
	switch status {
	case domain.FilingStatusMarriedFilingJointly:
		return TaxTable{
			Status:            status,
			StandardDeduction: standardDeductionMFJ,
			Ordinary:          buildBrackets(ordinaryThresholdsMFJ, ordinaryRates, one),
			CapitalGains:      buildBrackets(gainsThresholdsMFJ, capitalGainsRates, one),
		}
	case domain.FilingStatusMarriedFilingSeparately:
		return TaxTable{
			Status:            status,
			StandardDeduction: standardDeductionOther,
			Ordinary:          buildBrackets(ordinaryThresholdsMFJ, ordinaryRates, half),
			CapitalGains:      buildBrackets(gainsThresholdsMFJ, capitalGainsRates, half),
		}
	case domain.FilingStatusHeadOfHousehold:
		t := TaxTable2024(domain.FilingStatusSingle)
		t.Status = status
		return t
	default:
		return TaxTable{
			Status:            domain.FilingStatusSingle,
			StandardDeduction: standardDeductionOther,
			Ordinary:          buildBrackets(ordinaryThresholdsSingle, ordinaryRates, one),
			CapitalGains:      buildBrackets(gainsThresholdsSingle, capitalGainsRates, one),
		}
	}
}

// Indexed scales every threshold and the standard deduction by factor.
func (t TaxTable) Indexed(factor decimal.Decimal) TaxTable {
	scale := func(in []TaxBracket) []TaxBracket {
		out := make([]TaxBracket, len(in))
		for i, b := range in {
			out[i] = TaxBracket{Min: b.Min.Mul(factor), Max: b.Max.Mul(factor), Rate: b.Rate}
		}
		return out
	}
	return TaxTable{
		Status:            t.Status,
		StandardDeduction: t.StandardDeduction.Mul(factor),
		Ordinary:          scale(t.Ordinary),
		CapitalGains:      scale(t.CapitalGains),
	}
}

// applyBrackets taxes each slice of income at the rate of the bracket it falls in.
func applyBrackets(income decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	totalTax := decimal.Zero
	for _, bracket := range brackets {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		upper := income
		if !bracket.Max.IsZero() {
			upper = decimal.Min(income, bracket.Max)
		}
		incomeInBracket := upper.Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}
	return totalTax
}

// DetermineFilingStatus returns explicit when set, otherwise MFJ when spouse income is
// included and Single when it is not.
func DetermineFilingStatus(includeSpouseIncome bool, explicit domain.FilingStatus) domain.FilingStatus {
	if explicit != "" {
		return explicit
	}
	if includeSpouseIncome {
		return domain.FilingStatusMarriedFilingJointly
	}
	return domain.FilingStatusSingle
}

// CalculateProgressiveTax applies the 2024 ordinary brackets to taxableIncome, which must
// already have the standard deduction removed.
func CalculateProgressiveTax(taxableIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return applyBrackets(taxableIncome, TaxTable2024(status).Ordinary)
}

// CalculateCapitalGainsTax applies the long-term gains tiers to the gains on their own.
func CalculateCapitalGainsTax(longTermGains decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return applyBrackets(longTermGains, TaxTable2024(status).CapitalGains)
}

// CalculateStackedCapitalGainsTax places gains on top of ordinary taxable income when
// picking tiers, as the IRS worksheet does.
func CalculateStackedCapitalGainsTax(ordinaryTaxable, longTermGains decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return stackedGainsTax(ordinaryTaxable, longTermGains, TaxTable2024(status).CapitalGains)
}

func stackedGainsTax(ordinaryTaxable, gains decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	if gains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	base := decimal.Max(ordinaryTaxable, decimal.Zero)
	return applyBrackets(base.Add(gains), brackets).Sub(applyBrackets(base, brackets))
}

// StandardDeduction returns the 2024 standard deduction for status.
func StandardDeduction(status domain.FilingStatus) decimal.Decimal {
	if status == domain.FilingStatusMarriedFilingJointly {
		return standardDeductionMFJ
	}
	return standardDeductionOther
}

// BracketCeiling returns the taxable-income top of the ordinary bracket taxed at rate,
// or zero when no bracket has that rate or the bracket is open-ended.
func BracketCeiling(status domain.FilingStatus, rate decimal.Decimal) decimal.Decimal {
	for _, b := range TaxTable2024(status).Ordinary {
		if b.Rate.Equal(rate) {
			return b.Max
		}
	}
	return decimal.Zero
}

// MarginalRate returns the ordinary rate applied to the next dollar of taxableIncome.
func (t TaxTable) MarginalRate(taxableIncome decimal.Decimal) decimal.Decimal {
	for _, b := range t.Ordinary {
		if b.Max.IsZero() || taxableIncome.LessThan(b.Max) {
			return b.Rate
		}
	}
	return t.Ordinary[len(t.Ordinary)-1].Rate
}

// TaxInput is the year's income split by tax character.
type TaxInput struct {
	OrdinaryIncome decimal.Decimal
	CapitalGains   decimal.Decimal
	Status         domain.FilingStatus
	YearsElapsed   int
}

// TaxResult itemizes the federal tax for a year.
type TaxResult struct {
	Deduction       decimal.Decimal
	TaxableIncome   decimal.Decimal
	CapitalGains    decimal.Decimal
	OrdinaryTax     decimal.Decimal
	CapitalGainsTax decimal.Decimal
	Total           decimal.Decimal
}

// rounded returns the result in whole cents with Total kept equal to its two parts.
func (r TaxResult) rounded() TaxResult {
	r.Deduction = cents(r.Deduction)
	r.TaxableIncome = cents(r.TaxableIncome)
	r.CapitalGains = cents(r.CapitalGains)
	r.OrdinaryTax = cents(r.OrdinaryTax)
	r.CapitalGainsTax = cents(r.CapitalGainsTax)
	r.Total = r.OrdinaryTax.Add(r.CapitalGainsTax)
	return r
}

// TaxCalculator computes a year's federal tax for the projection engine.
type TaxCalculator struct {
	InflationRate     decimal.Decimal
	IndexBrackets     bool
	StackCapitalGains bool
}

// NewTaxCalculator builds a calculator from scenario settings.
func NewTaxCalculator(settings domain.CalculatorSettings) *TaxCalculator {
	return &TaxCalculator{
		InflationRate:     settings.InflationRate,
		IndexBrackets:     settings.IndexTaxBrackets,
		StackCapitalGains: settings.StackCapitalGains,
	}
}

// Table returns the bracket table in effect yearsElapsed years after the plan start.
func (tc *TaxCalculator) Table(status domain.FilingStatus, yearsElapsed int) TaxTable {
	table := TaxTable2024(status)
	if tc.IndexBrackets && yearsElapsed > 0 {
		table = table.Indexed(compound(tc.InflationRate, yearsElapsed))
	}
	return table
}

// Compute subtracts the standard deduction from ordinary income and taxes both parts.
func (tc *TaxCalculator) Compute(in TaxInput) TaxResult {
	table := tc.Table(in.Status, in.YearsElapsed)
	taxable := decimal.Max(in.OrdinaryIncome.Sub(table.StandardDeduction), decimal.Zero)
	gains := decimal.Max(in.CapitalGains, decimal.Zero)

	res := TaxResult{
		Deduction:     table.StandardDeduction,
		TaxableIncome: taxable,
		CapitalGains:  gains,
		OrdinaryTax:   applyBrackets(taxable, table.Ordinary),
	}
	if tc.StackCapitalGains {
		res.CapitalGainsTax = stackedGainsTax(taxable, gains, table.CapitalGains)
	} else {
		res.CapitalGainsTax = applyBrackets(gains, table.CapitalGains)
	}
	res.Total = res.OrdinaryTax.Add(res.CapitalGainsTax)
	return res
}

// compound returns (1+rate)^years. Non-positive years give 1; a base at or below zero gives 0.
func compound(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimal.NewFromInt(1)
	}
	base := decimal.NewFromInt(1).Add(rate)
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return base.Pow(decimal.NewFromInt(int64(years)))
}
