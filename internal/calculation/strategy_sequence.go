package calculation

import (
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Proportional splits the shortfall across account types by their share of the portfolio.
type Proportional struct{}

func (Proportional) Name() string              { return "Proportional" }
func (Proportional) Type() domain.StrategyType { return domain.StrategyProportional }

func (Proportional) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	d := newDrawdown(balances)
	total := d.availableTotal()
	need := nonNegative(shortfall)
	if total.IsZero() || need.IsZero() {
		return d.plan()
	}
	if need.GreaterThanOrEqual(total) {
		for _, t := range domain.AllAccountTypes {
			d.take(t, d.available(t))
		}
		return d.plan()
	}
	for _, t := range domain.AllAccountTypes {
		share := d.available(t).Div(total)
		d.take(t, need.Mul(share))
	}
	return d.plan()
}

// BracketTopping fills ordinary income from tax-deferred accounts up to a bracket threshold
// and covers the rest from taxable, Roth, HSA and other money. Essential spending that is
// still unfunded may push past the bracket; discretionary spending may not.
type BracketTopping struct{}

func (BracketTopping) Name() string              { return "Bracket Topping" }
func (BracketTopping) Type() domain.StrategyType { return domain.StrategyBracketTopping }

func (BracketTopping) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	d := newDrawdown(balances)
	need := nonNegative(shortfall)
	if need.IsZero() {
		return d.plan()
	}

	room := bracketRoom(sctx, sctx.OrdinaryIncome)
	inBracket := decimal.Min(need, room)
	need = need.Sub(inBracket).Add(d.takeInOrder(inBracket, domain.Account401k, domain.AccountIRA))

	need = d.takeInOrder(need, domain.AccountTaxable, domain.AccountRoth, domain.AccountHSA, domain.AccountOther)
	if need.IsZero() {
		return d.plan()
	}

	withdrawn := d.plan().Total()
	essentialGap := nonNegative(sctx.EssentialExpenses.Sub(sctx.GuaranteedIncome).Sub(withdrawn))
	d.takeInOrder(decimal.Min(need, essentialGap), domain.Account401k, domain.AccountIRA)
	return d.plan()
}
