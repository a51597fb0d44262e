package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestParseFilingStatus(t *testing.T) {
	tests := []struct {
		in   string
		want FilingStatus
		ok   bool
	}{
		{"MFJ", FilingStatusMarriedFilingJointly, true},
		{" head of household ", FilingStatusHeadOfHousehold, true},
		{"single", FilingStatusSingle, true},
		{"", "", true},
		{"widowed", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFilingStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.False(t, FilingStatus("").Valid())
	assert.True(t, FilingStatusMarriedFilingSeparately.Valid())
}

func TestParseAccountType(t *testing.T) {
	tests := map[string]AccountType{
		"401(k)":          Account401k,
		"Traditional IRA": AccountIRA,
		"Roth-IRA":        AccountRoth,
		"brokerage":       AccountTaxable,
		"HSA":             AccountHSA,
	}
	for in, want := range tests {
		got, ok := ParseAccountType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseAccountType("annuity")
	assert.False(t, ok)
}

func TestParseStrategyType(t *testing.T) {
	for _, st := range AllStrategyTypes {
		got, ok := ParseStrategyType(string(st))
		assert.True(t, ok, st)
		assert.Equal(t, st, got)
	}
	got, ok := ParseStrategyType("Guyton-Klinger")
	assert.True(t, ok)
	assert.Equal(t, StrategyGuardrails, got)
	_, ok = ParseStrategyType("lottery")
	assert.False(t, ok)
}

func TestHouseholdAgesAndFinalYear(t *testing.T) {
	h := Household{PrimaryBirthYear: 1960, LifeExpectancy: 85}
	assert.Equal(t, 64, h.PrimaryAge(2024))
	assert.Equal(t, 0, h.SpouseAge(2024))
	assert.Equal(t, 2045, h.FinalYear())

	// a spouse only counts when included
	h.SpouseBirthYear = 1966
	assert.Equal(t, 2045, h.FinalYear())
	h.IncludeSpouse = true
	assert.Equal(t, 58, h.SpouseAge(2024))
	assert.Equal(t, 85, h.EffectiveSpouseLifeExpectancy())
	assert.Equal(t, 2051, h.FinalYear())

	h.SpouseLifeExpectancy = 70
	assert.Equal(t, 2045, h.FinalYear())
}

func TestExpense(t *testing.T) {
	e := Expense{Name: "Health insurance", MonthlyBefore65: dec(900), MonthlyAfter65: dec(300), StartYear: 2025, EndYear: 2030}
	assert.True(t, e.Annual(64).Equal(dec(10800)))
	assert.True(t, e.Annual(65).Equal(dec(3600)))
	assert.Equal(t, ExpenseEssential, e.Classify())
	assert.Equal(t, ExpenseDiscretionary, Expense{Name: "Sailing"}.Classify())

	assert.False(t, e.ActiveIn(2024))
	assert.True(t, e.ActiveIn(2025))
	assert.True(t, e.ActiveIn(2030))
	assert.False(t, e.ActiveIn(2031))
	assert.True(t, OtherIncome{Name: "Rent"}.ActiveIn(1999))
}

func TestBalancesByType(t *testing.T) {
	accounts := []Account{
		{Name: "a", Type: Account401k, Balance: dec(100)},
		{Name: "b", Type: AccountIRA, Balance: dec(50)},
		{Name: "c", Type: AccountIRA, Balance: dec(25)},
		{Name: "d", Type: AccountRoth, Balance: dec(10)},
	}
	b := SumByType(accounts)
	assert.True(t, b.Get(AccountIRA).Equal(dec(75)))
	assert.True(t, b.Get(AccountHSA).IsZero())
	assert.True(t, b.Total().Equal(dec(185)))
	assert.True(t, b.TaxDeferred().Equal(dec(175)))

	c := b.Clone()
	c[AccountRoth] = dec(0)
	assert.True(t, b.Get(AccountRoth).Equal(dec(10)))
}

func TestProjectionDetailHelpers(t *testing.T) {
	pd := ProjectionDetail{
		SSAIncome:        dec(20000),
		OtherIncome:      dec(5000),
		Distribution401k: dec(1000),
		DistributionRoth: dec(500),
		Accounts:         []AccountSnapshot{{Closing: dec(700)}, {Closing: dec(300)}},
	}
	assert.True(t, pd.TotalDistributions().Equal(dec(1500)))
	assert.True(t, pd.Distribution(AccountRoth).Equal(dec(500)))
	assert.True(t, pd.ComputedTotalIncome().Equal(dec(26500)))
	assert.True(t, pd.TotalBalance().Equal(dec(1000)))
	assert.True(t, pd.IsDepleted())
	pd.AssetsRemaining = dec(1)
	assert.False(t, pd.IsDepleted())
}

func TestConfigurationInput(t *testing.T) {
	cfg := &Configuration{Plan: Plan{Household: Household{PrimaryBirthYear: 1970}}}
	in := cfg.Input(Scenario{Name: "s", Settings: CalculatorSettings{Strategy: StrategyBucket}})
	assert.Equal(t, 1970, in.Household.PrimaryBirthYear)

	out := in.WithStrategy(StrategyQCD)
	assert.Equal(t, StrategyQCD, out.Settings.Strategy)
	assert.Equal(t, StrategyBucket, in.Settings.Strategy)
}
