package calculation

import (
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	earliestClaimAge = 62
	latestCreditAge  = 70
)

// SocialSecurityCalculator handles Social Security benefit calculations
type SocialSecurityCalculator struct {
	BirthYear    int
	FRAMonths    int
	BenefitAtFRA decimal.Decimal // monthly
}

// NewSocialSecurityCalculator creates a new Social Security calculator
func NewSocialSecurityCalculator(birthYear int, benefitAtFRA decimal.Decimal) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{
		BirthYear:    birthYear,
		FRAMonths:    dateutil.FullRetirementAgeMonths(birthYear),
		BenefitAtFRA: benefitAtFRA,
	}
}

// CalculateBenefitAtAge returns the monthly benefit when claiming at claimingAge.
// Early claims lose 5/9 of 1% per month for the first 36 months and 5/12 of 1% for each
// month beyond; delayed claims gain 2/3 of 1% per month up to age 70.
func (ssc *SocialSecurityCalculator) CalculateBenefitAtAge(claimingAge int) decimal.Decimal {
	if claimingAge < earliestClaimAge || ssc.BenefitAtFRA.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	claimMonths := claimingAge * 12

	if claimMonths < ssc.FRAMonths {
		monthsEarly := ssc.FRAMonths - claimMonths
		first := monthsEarly
		if first > 36 {
			first = 36
		}
		reduction := decimal.NewFromInt(int64(first * 5)).Div(decimal.NewFromInt(900))
		if monthsEarly > 36 {
			extra := decimal.NewFromInt(int64((monthsEarly - 36) * 5)).Div(decimal.NewFromInt(1200))
			reduction = reduction.Add(extra)
		}
		return ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Sub(reduction))
	}

	if claimMonths > ssc.FRAMonths {
		capMonths := latestCreditAge*12 - ssc.FRAMonths
		monthsDelayed := claimMonths - ssc.FRAMonths
		if monthsDelayed > capMonths {
			monthsDelayed = capMonths
		}
		credit := decimal.NewFromInt(int64(monthsDelayed * 2)).Div(decimal.NewFromInt(300))
		return ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Add(credit))
	}

	return ssc.BenefitAtFRA
}

// AnnualBenefitForYear returns the yearly benefit received in year when claiming at
// startAge, with a COLA compounded from baseYear. Zero before the claiming year.
func (ssc *SocialSecurityCalculator) AnnualBenefitForYear(year, startAge, baseYear int, colaRate decimal.Decimal) decimal.Decimal {
	if dateutil.AgeInYear(ssc.BirthYear, year) < startAge {
		return decimal.Zero
	}
	monthly := ssc.CalculateBenefitAtAge(startAge)
	return monthly.Mul(decimal.NewFromInt(12)).Mul(compound(colaRate, year-baseYear))
}

// householdSSA returns the combined Social Security income for year. A start age of zero
// means the full retirement age of each person. Benefits stop after a person's
// life-expectancy year.
func householdSSA(h domain.Household, s domain.CalculatorSettings, year int) decimal.Decimal {
	total := decimal.Zero
	claim := func(birthYear, lifeExpectancy int, benefit decimal.Decimal) decimal.Decimal {
		if lifeExpectancy > 0 && year > birthYear+lifeExpectancy {
			return decimal.Zero
		}
		startAge := s.SSAStartAge
		if startAge == 0 {
			startAge = dateutil.FullRetirementAge(birthYear)
		}
		calc := NewSocialSecurityCalculator(birthYear, benefit)
		return calc.AnnualBenefitForYear(year, startAge, s.CurrentYear, s.InflationRate)
	}
	if s.IncludePrimarySSA {
		total = total.Add(claim(h.PrimaryBirthYear, h.LifeExpectancy, h.PrimarySSABenefit))
	}
	if s.IncludeSpouseSSA && h.HasSpouse() {
		total = total.Add(claim(h.SpouseBirthYear, h.EffectiveSpouseLifeExpectancy(), h.SpouseSSABenefit))
	}
	return total
}
