package calculation

import (
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// RothConversionBridge spends taxable and Roth money before RMD age and uses the spare
// bracket room to convert traditional balances to Roth. From RMD age on it draws
// tax-deferred accounts first.
type RothConversionBridge struct{}

func (RothConversionBridge) Name() string              { return "Roth Conversion Bridge" }
func (RothConversionBridge) Type() domain.StrategyType { return domain.StrategyRothBridge }

func (RothConversionBridge) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	d := newDrawdown(balances)
	if sctx.RMDAge > 0 && sctx.Age >= sctx.RMDAge {
		d.takeInOrder(shortfall,
			domain.Account401k, domain.AccountIRA, domain.AccountTaxable,
			domain.AccountRoth, domain.AccountHSA, domain.AccountOther)
		return d.plan()
	}

	d.takeInOrder(shortfall,
		domain.AccountTaxable, domain.AccountRoth, domain.AccountHSA,
		domain.AccountOther, domain.Account401k, domain.AccountIRA)
	if !sctx.RothAvailable {
		return d.plan()
	}

	deferredDrawn := d.taken.TaxDeferred()
	room := nonNegative(bracketRoom(sctx, sctx.OrdinaryIncome).Sub(deferredDrawn))
	room = room.Sub(d.convert(domain.Account401k, room))
	d.convert(domain.AccountIRA, room)
	return d.plan()
}

// QualifiedCharitable sends the IRA's required distribution to charity once RMDs apply,
// then covers the shortfall from other accounts with the IRA last.
type QualifiedCharitable struct{}

func (QualifiedCharitable) Name() string              { return "Qualified Charitable Distribution" }
func (QualifiedCharitable) Type() domain.StrategyType { return domain.StrategyQCD }

func (QualifiedCharitable) SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	d := newDrawdown(balances)
	if sctx.RMDAge > 0 && sctx.Age >= sctx.RMDAge {
		if period := DistributionPeriod(sctx.Age); period.IsPositive() {
			ira := d.available(domain.AccountIRA)
			d.donate(domain.AccountIRA, decimal.Min(ira.Div(period), QCDAnnualLimit))
		}
	}
	d.takeInOrder(shortfall,
		domain.AccountTaxable, domain.Account401k, domain.AccountRoth,
		domain.AccountHSA, domain.AccountOther, domain.AccountIRA)
	return d.plan()
}
