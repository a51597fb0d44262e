package domain

import (
	"strings"

	"github.com/rpgo/withdrawal-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// FilingStatus is the federal filing status used to pick bracket tables.
type FilingStatus string

const (
	FilingStatusSingle                  FilingStatus = "single"
	FilingStatusMarriedFilingJointly    FilingStatus = "married_filing_jointly"
	FilingStatusMarriedFilingSeparately FilingStatus = "married_filing_separately"
	FilingStatusHeadOfHousehold         FilingStatus = "head_of_household"
)

// filingStatusAliases maps user-friendly spellings onto canonical statuses.
var filingStatusAliases = map[string]FilingStatus{
	"single":                    FilingStatusSingle,
	"s":                         FilingStatusSingle,
	"mfj":                       FilingStatusMarriedFilingJointly,
	"married_filing_jointly":    FilingStatusMarriedFilingJointly,
	"married filing jointly":    FilingStatusMarriedFilingJointly,
	"mfs":                       FilingStatusMarriedFilingSeparately,
	"married_filing_separately": FilingStatusMarriedFilingSeparately,
	"married filing separately": FilingStatusMarriedFilingSeparately,
	"hoh":                       FilingStatusHeadOfHousehold,
	"head_of_household":         FilingStatusHeadOfHousehold,
	"head of household":         FilingStatusHeadOfHousehold,
}

// ParseFilingStatus resolves a filing status string. Empty input yields an empty status
// (meaning "derive from household composition"); unknown input reports ok=false.
func ParseFilingStatus(s string) (FilingStatus, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "" {
		return "", true
	}
	fs, ok := filingStatusAliases[n]
	return fs, ok
}

// Valid reports whether fs is one of the four known statuses.
func (fs FilingStatus) Valid() bool {
	switch fs {
	case FilingStatusSingle, FilingStatusMarriedFilingJointly,
		FilingStatusMarriedFilingSeparately, FilingStatusHeadOfHousehold:
		return true
	}
	return false
}

// Household describes the people a projection is run for. It is read-only input.
type Household struct {
	PrimaryBirthYear     int          `yaml:"primary_birth_year" json:"primary_birth_year" validate:"required,gte=1900,lte=2100"`
	SpouseBirthYear      int          `yaml:"spouse_birth_year,omitempty" json:"spouse_birth_year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	FilingStatus         FilingStatus `yaml:"filing_status,omitempty" json:"filing_status,omitempty"`
	LifeExpectancy       int          `yaml:"life_expectancy" json:"life_expectancy" validate:"required,gt=0,lte=120"`
	SpouseLifeExpectancy int          `yaml:"spouse_life_expectancy,omitempty" json:"spouse_life_expectancy,omitempty" validate:"omitempty,gt=0,lte=120"`
	IncludeSpouse        bool         `yaml:"include_spouse" json:"include_spouse"`

	// Monthly Social Security benefit at full retirement age.
	PrimarySSABenefit decimal.Decimal `yaml:"primary_ssa_benefit,omitempty" json:"primary_ssa_benefit,omitempty" validate:"gte=0"`
	SpouseSSABenefit  decimal.Decimal `yaml:"spouse_ssa_benefit,omitempty" json:"spouse_ssa_benefit,omitempty" validate:"gte=0"`
}

// HasSpouse reports whether the spouse takes part in the projection.
func (h Household) HasSpouse() bool {
	return h.IncludeSpouse && h.SpouseBirthYear > 0
}

// PrimaryAge returns the primary's age during the given calendar year.
func (h Household) PrimaryAge(year int) int {
	return dateutil.AgeInYear(h.PrimaryBirthYear, year)
}

// SpouseAge returns the spouse's age during the given calendar year, or 0 without a spouse.
func (h Household) SpouseAge(year int) int {
	if !h.HasSpouse() {
		return 0
	}
	return dateutil.AgeInYear(h.SpouseBirthYear, year)
}

// FinalYear is the last calendar year covered by the projection: the later of the
// primary's and (when included) the spouse's life-expectancy years.
func (h Household) FinalYear() int {
	last := h.PrimaryBirthYear + h.LifeExpectancy
	if h.HasSpouse() {
		if spouseLast := h.SpouseBirthYear + h.EffectiveSpouseLifeExpectancy(); spouseLast > last {
			last = spouseLast
		}
	}
	return last
}

// EffectiveSpouseLifeExpectancy falls back to the primary's life expectancy when the
// spouse's is unset.
func (h Household) EffectiveSpouseLifeExpectancy() int {
	if h.SpouseLifeExpectancy > 0 {
		return h.SpouseLifeExpectancy
	}
	return h.LifeExpectancy
}
