package calculation

import (
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Bucket draws the cash bucket (taxable, other) first, then fixed income (401k, IRA),
// then the long-horizon equity bucket (HSA, Roth).
type Bucket struct{}

var bucketOrder = []domain.AccountType{
	domain.AccountTaxable,
	domain.AccountOther,
	domain.Account401k,
	domain.AccountIRA,
	domain.AccountHSA,
	domain.AccountRoth,
}

func (Bucket) Name() string              { return "Bucket" }
func (Bucket) Type() domain.StrategyType { return domain.StrategyBucket }

func (Bucket) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	d := newDrawdown(balances)
	d.takeInOrder(shortfall, bucketOrder...)
	return d.plan()
}

// Guardrails keeps the withdrawal rate between a floor and a ceiling share of the portfolio,
// starting from last year's withdrawal grown by inflation.
type Guardrails struct{}

func (Guardrails) Name() string              { return "Guardrails" }
func (Guardrails) Type() domain.StrategyType { return domain.StrategyGuardrails }

func (Guardrails) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	proposed := nonNegative(shortfall)
	if sctx.RetirementYearIndex > 0 && sctx.PreviousWithdrawal.IsPositive() {
		proposed = sctx.PreviousWithdrawal.Mul(decimal.NewFromInt(1).Add(sctx.InflationRate))
	}
	return amountPlan(guardrailClamp(proposed, balances.Total(), sctx.Params), balances, sctx)
}

// guardrailClamp bounds amount into [floor, ceiling] x portfolio. A zero rail is no rail.
func guardrailClamp(amount, portfolio decimal.Decimal, p domain.StrategyParams) decimal.Decimal {
	floor := nonNegative(p.GuardrailFloor)
	ceiling := nonNegative(p.GuardrailCeiling)
	if ceiling.IsPositive() && floor.GreaterThan(ceiling) {
		floor = ceiling
	}
	if ceiling.IsPositive() {
		amount = decimal.Min(amount, portfolio.Mul(ceiling))
	}
	if floor.IsPositive() {
		amount = decimal.Max(amount, portfolio.Mul(floor))
	}
	return amount
}

// FloorAndUpside covers essential spending from stable accounts and lets discretionary
// spending use only the portfolio's expected upside for the year.
type FloorAndUpside struct{}

func (FloorAndUpside) Name() string              { return "Floor and Upside" }
func (FloorAndUpside) Type() domain.StrategyType { return domain.StrategyFloorUpside }

func (FloorAndUpside) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	d := newDrawdown(balances)
	need := nonNegative(shortfall)
	if need.IsZero() {
		return d.plan()
	}
	upside := balances.Total().Mul(nonNegative(sctx.GrowthRate))

	essential := decimal.Min(nonNegative(sctx.EssentialExpenses.Sub(sctx.GuaranteedIncome)), need)
	d.takeInOrder(essential, bucketOrder...)

	discretionary := decimal.Min(need.Sub(essential), upside)
	d.takeInOrder(discretionary, orderOrDefault(sctx.Order)...)
	return d.plan()
}
