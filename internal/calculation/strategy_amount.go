package calculation

import (
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// fourPercentRate is the initial withdrawal rate of the 4% rule.
var fourPercentRate = decimal.NewFromFloat(0.04)

// FourPercentRule withdraws 4% of the portfolio in the first retired year and the same
// amount grown by inflation afterwards, regardless of market performance.
type FourPercentRule struct{}

func (FourPercentRule) Name() string              { return "4% Rule" }
func (FourPercentRule) Type() domain.StrategyType { return domain.StrategyFourPercent }

// SelectWithdrawals ignores shortfall; the policy amount is withdrawn whenever a need exists.
func (FourPercentRule) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	base := sctx.InitialPortfolio
	if !base.IsPositive() {
		base = balances.Total()
	}
	amount := base.Mul(fourPercentRate).Mul(compound(sctx.InflationRate, sctx.RetirementYearIndex))
	return amountPlan(amount, balances, sctx)
}

// FixedPercentage withdraws a configured share of the current portfolio.
type FixedPercentage struct{}

func (FixedPercentage) Name() string              { return "Fixed Percentage" }
func (FixedPercentage) Type() domain.StrategyType { return domain.StrategyFixedPercentage }

func (FixedPercentage) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	rate := nonNegative(sctx.Params.FixedPercentage)
	return amountPlan(balances.Total().Mul(rate), balances, sctx)
}

// FixedDollar withdraws the configured amount every year without inflation adjustment.
type FixedDollar struct{}

func (FixedDollar) Name() string              { return "Fixed Dollar" }
func (FixedDollar) Type() domain.StrategyType { return domain.StrategyFixedDollar }

func (FixedDollar) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	return amountPlan(nonNegative(sctx.Params.FixedAmount), balances, sctx)
}

// EarningsOnly is a systematic withdrawal plan that takes the year's expected earnings and
// leaves principal alone.
type EarningsOnly struct{}

func (EarningsOnly) Name() string              { return "SWP (Earnings Only)" }
func (EarningsOnly) Type() domain.StrategyType { return domain.StrategySWP }

func (EarningsOnly) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	earnings := balances.Total().Mul(nonNegative(sctx.GrowthRate))
	return amountPlan(earnings, balances, sctx)
}
