package calculation

import (
	"errors"
	"testing"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func assertDecimal(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !expected.Equal(actual) {
		assert.Fail(t, "decimals differ: expected "+expected.String()+", got "+actual.String(), msgAndArgs...)
	}
}

func TestNewWithdrawalStrategy(t *testing.T) {
	for _, st := range domain.AllStrategyTypes {
		s, err := NewWithdrawalStrategy(st)
		require.NoError(t, err, st)
		assert.Equal(t, st, s.Type())
		assert.NotEmpty(t, s.Name())
	}

	_, err := NewWithdrawalStrategy("lottery")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestWithdrawalOrder(t *testing.T) {
	assert.Equal(t, DefaultWithdrawalOrder, WithdrawalOrder("", ""))
	assert.Equal(t, []domain.AccountType{
		domain.AccountRoth, domain.AccountHSA, domain.AccountTaxable,
		domain.Account401k, domain.AccountIRA, domain.AccountOther,
	}, WithdrawalOrder(domain.AccountRoth, domain.AccountHSA))
	assert.Equal(t, domain.AccountIRA, WithdrawalOrder(domain.AccountIRA, domain.AccountIRA)[0])
	assert.Len(t, WithdrawalOrder(domain.AccountIRA, domain.AccountIRA), len(DefaultWithdrawalOrder))
}

// Every strategy must stay within each type's balance and never go negative, whatever the
// parameters look like.
func TestStrategiesNeverOverdrawOrGoNegative(t *testing.T) {
	balanceSets := []domain.BalancesByType{
		{},
		{domain.AccountTaxable: dec(1000)},
		{domain.Account401k: dec(250000), domain.AccountIRA: dec(80000), domain.AccountRoth: dec(40000)},
		{
			domain.Account401k: dec(400000), domain.AccountIRA: dec(300000), domain.AccountRoth: dec(50000),
			domain.AccountHSA: dec(20000), domain.AccountTaxable: dec(75000), domain.AccountOther: dec(5000),
		},
	}
	shortfalls := []decimal.Decimal{decimal.Zero, dec(5000), dec(60000), dec(5000000)}
	contexts := []StrategyContext{
		{Age: 60, RMDAge: 75, FilingStatus: domain.FilingStatusSingle, RothAvailable: true},
		{
			Age: 80, RMDAge: 73, RetirementYearIndex: 12, FilingStatus: domain.FilingStatusMarriedFilingJointly,
			InflationRate: decimal.NewFromFloat(0.03), GrowthRate: decimal.NewFromFloat(0.05),
			EssentialExpenses: dec(90000), DiscretionaryExpenses: dec(20000), GuaranteedIncome: dec(30000),
			InitialPortfolio: dec(2000000), PreviousWithdrawal: dec(90000),
			Params: domain.StrategyParams{
				FixedPercentage: decimal.NewFromFloat(0.5), FixedAmount: dec(1000000),
				GuardrailCeiling: decimal.NewFromFloat(0.06), GuardrailFloor: decimal.NewFromFloat(0.03),
			},
		},
		{
			Age: 70, RMDAge: 73, FilingStatus: domain.FilingStatusHeadOfHousehold,
			GrowthRate: decimal.NewFromFloat(-0.2), InflationRate: decimal.NewFromFloat(-0.5),
			Params: domain.StrategyParams{
				FixedPercentage: decimal.NewFromFloat(-0.1), FixedAmount: dec(-5000),
				GuardrailCeiling: decimal.NewFromFloat(-1), GuardrailFloor: decimal.NewFromFloat(2),
				BracketThreshold: dec(-100),
			},
			Order: []domain.AccountType{domain.AccountHSA},
		},
	}

	for _, st := range domain.AllStrategyTypes {
		s, err := NewWithdrawalStrategy(st)
		require.NoError(t, err)
		for _, balances := range balanceSets {
			for _, shortfall := range shortfalls {
				for _, sctx := range contexts {
					plan := s.SelectWithdrawals(shortfall, balances, sctx)
					for _, at := range domain.AllAccountTypes {
						for _, part := range []domain.BalancesByType{plan.Distributions, plan.Conversions, plan.Charitable} {
							assert.False(t, part.Get(at).IsNegative(), "%s: negative %s", st, at)
						}
						out := plan.Distributions.Get(at).Add(plan.Conversions.Get(at)).Add(plan.Charitable.Get(at))
						assert.True(t, out.LessThanOrEqual(balances.Get(at)),
							"%s: %s outflow %s exceeds balance %s", st, at, out, balances.Get(at))
					}
				}
			}
		}
	}
}

func TestAmountBasedStrategies(t *testing.T) {
	balances := domain.BalancesByType{domain.AccountTaxable: dec(30000), domain.Account401k: dec(170000)}

	tests := []struct {
		name     string
		strategy WithdrawalStrategy
		sctx     StrategyContext
		expected map[domain.AccountType]decimal.Decimal
	}{
		{
			name:     "4% of the initial portfolio in the first retired year",
			strategy: FourPercentRule{},
			sctx:     StrategyContext{InitialPortfolio: dec(1000000), InflationRate: decimal.NewFromFloat(0.03)},
			expected: map[domain.AccountType]decimal.Decimal{domain.AccountTaxable: dec(30000), domain.Account401k: dec(10000)},
		},
		{
			name:     "4% amount grows with inflation",
			strategy: FourPercentRule{},
			sctx:     StrategyContext{InitialPortfolio: dec(1000000), InflationRate: decimal.NewFromFloat(0.03), RetirementYearIndex: 2},
			expected: map[domain.AccountType]decimal.Decimal{domain.AccountTaxable: dec(30000), domain.Account401k: dec(12436)},
		},
		{
			name:     "4% falls back to the current portfolio",
			strategy: FourPercentRule{},
			sctx:     StrategyContext{},
			expected: map[domain.AccountType]decimal.Decimal{domain.AccountTaxable: dec(8000)},
		},
		{
			name:     "fixed percentage of current portfolio",
			strategy: FixedPercentage{},
			sctx:     StrategyContext{Params: domain.StrategyParams{FixedPercentage: decimal.NewFromFloat(0.25)}},
			expected: map[domain.AccountType]decimal.Decimal{domain.AccountTaxable: dec(30000), domain.Account401k: dec(20000)},
		},
		{
			name:     "negative fixed percentage clamps to zero",
			strategy: FixedPercentage{},
			sctx:     StrategyContext{Params: domain.StrategyParams{FixedPercentage: decimal.NewFromFloat(-0.25)}},
			expected: map[domain.AccountType]decimal.Decimal{},
		},
		{
			name:     "fixed dollar follows the priority order",
			strategy: FixedDollar{},
			sctx: StrategyContext{
				Params: domain.StrategyParams{FixedAmount: dec(45000)},
				Order:  WithdrawalOrder(domain.Account401k, ""),
			},
			expected: map[domain.AccountType]decimal.Decimal{domain.Account401k: dec(45000)},
		},
		{
			name:     "negative fixed dollar clamps to zero",
			strategy: FixedDollar{},
			sctx:     StrategyContext{Params: domain.StrategyParams{FixedAmount: dec(-5000)}},
			expected: map[domain.AccountType]decimal.Decimal{},
		},
		{
			name:     "SWP takes expected earnings only",
			strategy: EarningsOnly{},
			sctx:     StrategyContext{GrowthRate: decimal.NewFromFloat(0.05)},
			expected: map[domain.AccountType]decimal.Decimal{domain.AccountTaxable: dec(10000)},
		},
		{
			name:     "SWP takes nothing in a negative-return assumption",
			strategy: EarningsOnly{},
			sctx:     StrategyContext{GrowthRate: decimal.NewFromFloat(-0.05)},
			expected: map[domain.AccountType]decimal.Decimal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := tt.strategy.SelectWithdrawals(dec(1), balances, tt.sctx)
			for _, at := range domain.AllAccountTypes {
				want, ok := tt.expected[at]
				if !ok {
					want = decimal.Zero
				}
				assertDecimal(t, want, plan.Distributions.Get(at), at)
			}
		})
	}
}

func TestProportional(t *testing.T) {
	balances := domain.BalancesByType{domain.Account401k: dec(300000), domain.AccountTaxable: dec(100000)}

	plan := Proportional{}.SelectWithdrawals(dec(40000), balances, StrategyContext{})
	assertDecimal(t, dec(30000), plan.Distributions.Get(domain.Account401k))
	assertDecimal(t, dec(10000), plan.Distributions.Get(domain.AccountTaxable))

	plan = Proportional{}.SelectWithdrawals(dec(900000), balances, StrategyContext{})
	assertDecimal(t, dec(400000), plan.Total())

	plan = Proportional{}.SelectWithdrawals(dec(1000), domain.BalancesByType{}, StrategyContext{})
	assert.True(t, plan.Total().IsZero())
}

func TestBracketTopping(t *testing.T) {
	balances := domain.BalancesByType{
		domain.Account401k:    dec(500000),
		domain.AccountTaxable: dec(10000),
		domain.AccountRoth:    dec(5000),
	}
	base := StrategyContext{FilingStatus: domain.FilingStatusSingle}

	t.Run("fills the 12% bracket then uses taxable and Roth", func(t *testing.T) {
		plan := BracketTopping{}.SelectWithdrawals(dec(50000), balances, base)
		// room = 47150 + 14600 standard deduction
		assertDecimal(t, dec(50000), plan.Distributions.Get(domain.Account401k))
		assert.True(t, plan.Distributions.Get(domain.AccountTaxable).IsZero())
	})

	t.Run("discretionary need does not breach the bracket", func(t *testing.T) {
		sctx := base
		sctx.EssentialExpenses = dec(70000)
		plan := BracketTopping{}.SelectWithdrawals(dec(80000), balances, sctx)
		assertDecimal(t, dec(61750), plan.Distributions.Get(domain.Account401k))
		assertDecimal(t, dec(10000), plan.Distributions.Get(domain.AccountTaxable))
		assertDecimal(t, dec(5000), plan.Distributions.Get(domain.AccountRoth))
	})

	t.Run("essential need may breach the bracket", func(t *testing.T) {
		sctx := base
		sctx.EssentialExpenses = dec(90000)
		plan := BracketTopping{}.SelectWithdrawals(dec(80000), balances, sctx)
		assertDecimal(t, dec(65000), plan.Distributions.Get(domain.Account401k))
		assertDecimal(t, dec(80000), plan.Total())
	})

	t.Run("existing ordinary income shrinks the room", func(t *testing.T) {
		sctx := base
		sctx.OrdinaryIncome = dec(51750)
		sctx.Params.BracketThreshold = dec(47150)
		plan := BracketTopping{}.SelectWithdrawals(dec(20000), balances, sctx)
		assertDecimal(t, dec(10000), plan.Distributions.Get(domain.Account401k))
		assertDecimal(t, dec(10000), plan.Distributions.Get(domain.AccountTaxable))
	})
}

func TestBucketDrawsShortestHorizonFirst(t *testing.T) {
	balances := domain.BalancesByType{
		domain.AccountRoth:    dec(100000),
		domain.AccountIRA:     dec(100000),
		domain.AccountTaxable: dec(15000),
		domain.AccountOther:   dec(5000),
	}
	plan := Bucket{}.SelectWithdrawals(dec(30000), balances, StrategyContext{})
	assertDecimal(t, dec(15000), plan.Distributions.Get(domain.AccountTaxable))
	assertDecimal(t, dec(5000), plan.Distributions.Get(domain.AccountOther))
	assertDecimal(t, dec(10000), plan.Distributions.Get(domain.AccountIRA))
	assert.True(t, plan.Distributions.Get(domain.AccountRoth).IsZero())
}

func TestGuardrails(t *testing.T) {
	balances := domain.BalancesByType{domain.AccountTaxable: dec(1000000)}
	rails := func(floor, ceiling float64) domain.StrategyParams {
		return domain.StrategyParams{GuardrailFloor: decimal.NewFromFloat(floor), GuardrailCeiling: decimal.NewFromFloat(ceiling)}
	}

	tests := []struct {
		name     string
		sctx     StrategyContext
		expected decimal.Decimal
	}{
		{
			name:     "first year starts from the shortfall and respects the floor",
			sctx:     StrategyContext{Params: rails(0.03, 0.05)},
			expected: dec(30000),
		},
		{
			name: "inflation-adjusted prior withdrawal inside the rails",
			sctx: StrategyContext{
				RetirementYearIndex: 1, PreviousWithdrawal: dec(40000),
				InflationRate: decimal.NewFromFloat(0.03), Params: rails(0.03, 0.05),
			},
			expected: dec(41200),
		},
		{
			name: "ceiling cuts the withdrawal",
			sctx: StrategyContext{
				RetirementYearIndex: 3, PreviousWithdrawal: dec(50000),
				InflationRate: decimal.NewFromFloat(0.03), Params: rails(0.03, 0.04),
			},
			expected: dec(40000),
		},
		{
			name: "floor above ceiling collapses to the ceiling",
			sctx: StrategyContext{
				RetirementYearIndex: 3, PreviousWithdrawal: dec(10000), Params: rails(0.06, 0.05),
			},
			expected: dec(50000),
		},
		{
			name:     "zero rails leave the proposal alone",
			sctx:     StrategyContext{RetirementYearIndex: 3, PreviousWithdrawal: dec(123000)},
			expected: dec(123000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Guardrails{}.SelectWithdrawals(dec(20000), balances, tt.sctx)
			assertDecimal(t, tt.expected, plan.Total())
		})
	}
}

func TestFloorAndUpside(t *testing.T) {
	balances := domain.BalancesByType{domain.AccountTaxable: dec(100000), domain.AccountRoth: dec(100000)}
	sctx := StrategyContext{
		EssentialExpenses: dec(40000),
		GuaranteedIncome:  dec(30000),
		GrowthRate:        decimal.NewFromFloat(0.05),
	}

	// essential gap 10000, upside 200000 * 5% = 10000
	plan := FloorAndUpside{}.SelectWithdrawals(dec(30000), balances, sctx)
	assertDecimal(t, dec(20000), plan.Total())

	sctx.GrowthRate = decimal.Zero
	plan = FloorAndUpside{}.SelectWithdrawals(dec(30000), balances, sctx)
	assertDecimal(t, dec(10000), plan.Total())
	assertDecimal(t, dec(10000), plan.Distributions.Get(domain.AccountTaxable))
}

func TestRothConversionBridge(t *testing.T) {
	balances := domain.BalancesByType{domain.AccountTaxable: dec(50000), domain.Account401k: dec(100000)}
	sctx := StrategyContext{Age: 65, RMDAge: 75, FilingStatus: domain.FilingStatusSingle, RothAvailable: true}

	t.Run("before RMD age funds from taxable and converts", func(t *testing.T) {
		plan := RothConversionBridge{}.SelectWithdrawals(dec(20000), balances, sctx)
		assertDecimal(t, dec(20000), plan.Distributions.Get(domain.AccountTaxable))
		assert.True(t, plan.Distributions.Get(domain.Account401k).IsZero())
		assertDecimal(t, dec(61750), plan.Conversions.Get(domain.Account401k))
		assertDecimal(t, dec(61750), plan.RothConversion())
	})

	t.Run("no conversion without a Roth destination", func(t *testing.T) {
		noRoth := sctx
		noRoth.RothAvailable = false
		plan := RothConversionBridge{}.SelectWithdrawals(dec(20000), balances, noRoth)
		assert.True(t, plan.RothConversion().IsZero())
	})

	t.Run("at RMD age draws tax-deferred first", func(t *testing.T) {
		old := sctx
		old.Age = 75
		plan := RothConversionBridge{}.SelectWithdrawals(dec(20000), balances, old)
		assertDecimal(t, dec(20000), plan.Distributions.Get(domain.Account401k))
		assert.True(t, plan.RothConversion().IsZero())
	})
}

func TestQualifiedCharitable(t *testing.T) {
	sctx := StrategyContext{Age: 75, RMDAge: 73}

	t.Run("IRA required distribution goes to charity", func(t *testing.T) {
		balances := domain.BalancesByType{domain.AccountIRA: dec(246000), domain.AccountTaxable: dec(3000)}
		plan := QualifiedCharitable{}.SelectWithdrawals(dec(5000), balances, sctx)
		assertDecimal(t, dec(10000), plan.Charitable.Get(domain.AccountIRA)) // 246000 / 24.6
		assertDecimal(t, dec(3000), plan.Distributions.Get(domain.AccountTaxable))
		assertDecimal(t, dec(2000), plan.Distributions.Get(domain.AccountIRA))
	})

	t.Run("charitable amount is capped", func(t *testing.T) {
		balances := domain.BalancesByType{domain.AccountIRA: dec(10000000)}
		plan := QualifiedCharitable{}.SelectWithdrawals(decimal.Zero, balances, sctx)
		assertDecimal(t, QCDAnnualLimit, plan.CharitableTotal())
	})

	t.Run("nothing goes to charity before RMD age", func(t *testing.T) {
		young := sctx
		young.Age = 70
		balances := domain.BalancesByType{domain.AccountIRA: dec(246000)}
		plan := QualifiedCharitable{}.SelectWithdrawals(dec(5000), balances, young)
		assert.True(t, plan.CharitableTotal().IsZero())
		assertDecimal(t, dec(5000), plan.Distributions.Get(domain.AccountIRA))
	})
}
