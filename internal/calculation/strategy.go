package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrUnknownStrategy is returned for a strategy type with no implementation.
var ErrUnknownStrategy = errors.New("unknown withdrawal strategy")

// QCDAnnualLimit is the 2024 per-person cap on qualified charitable distributions.
var QCDAnnualLimit = decimal.NewFromInt(105000)

// WithdrawalStrategy decides which accounts fund a year's shortfall.
// Implementations are stateless; everything that depends on earlier years arrives
// through StrategyContext, so one value can serve concurrent projections.
type WithdrawalStrategy interface {
	SelectWithdrawals(shortfall decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan
	Name() string
	Type() domain.StrategyType
}

// StrategyContext is the household's position for the year being withdrawn.
type StrategyContext struct {
	Year                int
	Age                 int
	SpouseAge           int
	BirthYear           int
	RMDAge              int
	RetirementYearIndex int // 0 in the first retired year

	FilingStatus  domain.FilingStatus
	InflationRate decimal.Decimal
	GrowthRate    decimal.Decimal

	// GuaranteedIncome is Social Security plus other recurring income.
	GuaranteedIncome decimal.Decimal
	// OrdinaryIncome is income already taxable as ordinary before any withdrawal.
	OrdinaryIncome        decimal.Decimal
	EssentialExpenses     decimal.Decimal
	DiscretionaryExpenses decimal.Decimal

	// InitialPortfolio is the total balance at the start of the first retired year.
	InitialPortfolio decimal.Decimal
	// PreviousWithdrawal is last year's total distribution.
	PreviousWithdrawal decimal.Decimal

	// BracketFactor scales bracket thresholds when brackets are indexed; zero means 1.
	BracketFactor decimal.Decimal

	Params        domain.StrategyParams
	Order         []domain.AccountType
	RothAvailable bool
}

// WithdrawalPlan is a strategy's answer for one year.
type WithdrawalPlan struct {
	// Distributions fund spending.
	Distributions domain.BalancesByType
	// Conversions move tax-deferred money into Roth; taxed as ordinary income, not spent.
	Conversions domain.BalancesByType
	// Charitable leaves the household as qualified charitable distributions.
	Charitable domain.BalancesByType
}

// Total is the spendable amount withdrawn.
func (p WithdrawalPlan) Total() decimal.Decimal {
	return p.Distributions.Total()
}

// RothConversion sums all conversions.
func (p WithdrawalPlan) RothConversion() decimal.Decimal {
	return p.Conversions.Total()
}

// CharitableTotal sums all qualified charitable distributions.
func (p WithdrawalPlan) CharitableTotal() decimal.Decimal {
	return p.Charitable.Total()
}

// DefaultWithdrawalOrder is used when settings give no priority hints.
var DefaultWithdrawalOrder = []domain.AccountType{
	domain.AccountTaxable,
	domain.Account401k,
	domain.AccountIRA,
	domain.AccountOther,
	domain.AccountRoth,
	domain.AccountHSA,
}

// WithdrawalOrder moves the priority and secondary hints to the front of the default order.
func WithdrawalOrder(priority, secondary domain.AccountType) []domain.AccountType {
	order := make([]domain.AccountType, 0, len(DefaultWithdrawalOrder))
	seen := map[domain.AccountType]bool{}
	for _, t := range []domain.AccountType{priority, secondary} {
		if t != "" && !seen[t] {
			order = append(order, t)
			seen[t] = true
		}
	}
	for _, t := range DefaultWithdrawalOrder {
		if !seen[t] {
			order = append(order, t)
		}
	}
	return order
}

// drawdown tracks what remains of each account type while a plan is assembled, so that
// no type is ever asked for more than its opening balance.
type drawdown struct {
	remaining  domain.BalancesByType
	taken      domain.BalancesByType
	converted  domain.BalancesByType
	charitable domain.BalancesByType
}

func newDrawdown(balances domain.BalancesByType) *drawdown {
	remaining := domain.BalancesByType{}
	for _, t := range domain.AllAccountTypes {
		remaining[t] = nonNegative(balances.Get(t))
	}
	return &drawdown{
		remaining:  remaining,
		taken:      domain.BalancesByType{},
		converted:  domain.BalancesByType{},
		charitable: domain.BalancesByType{},
	}
}

// available returns the undrawn balance of t.
func (d *drawdown) available(t domain.AccountType) decimal.Decimal {
	return d.remaining.Get(t)
}

func (d *drawdown) availableTotal() decimal.Decimal {
	return d.remaining.Total()
}

func (d *drawdown) move(into domain.BalancesByType, t domain.AccountType, amount decimal.Decimal) decimal.Decimal {
	amount = decimal.Min(nonNegative(amount), d.available(t))
	if amount.IsZero() {
		return decimal.Zero
	}
	d.remaining[t] = d.available(t).Sub(amount)
	into[t] = into.Get(t).Add(amount)
	return amount
}

// take distributes up to amount from t and returns what was taken.
func (d *drawdown) take(t domain.AccountType, amount decimal.Decimal) decimal.Decimal {
	return d.move(d.taken, t, amount)
}

// takeInOrder draws amount across types in order and returns the part left unfunded.
func (d *drawdown) takeInOrder(amount decimal.Decimal, order ...domain.AccountType) decimal.Decimal {
	need := nonNegative(amount)
	for _, t := range order {
		if need.IsZero() {
			break
		}
		need = need.Sub(d.take(t, need))
	}
	return need
}

func (d *drawdown) convert(t domain.AccountType, amount decimal.Decimal) decimal.Decimal {
	return d.move(d.converted, t, amount)
}

func (d *drawdown) donate(t domain.AccountType, amount decimal.Decimal) decimal.Decimal {
	return d.move(d.charitable, t, amount)
}

func (d *drawdown) plan() WithdrawalPlan {
	return WithdrawalPlan{Distributions: d.taken, Conversions: d.converted, Charitable: d.charitable}
}

// emptyPlan withdraws nothing.
func emptyPlan() WithdrawalPlan {
	return WithdrawalPlan{
		Distributions: domain.BalancesByType{},
		Conversions:   domain.BalancesByType{},
		Charitable:    domain.BalancesByType{},
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func orderOrDefault(order []domain.AccountType) []domain.AccountType {
	if len(order) == 0 {
		return DefaultWithdrawalOrder
	}
	return order
}

// amountPlan draws a policy-determined amount in the configured order.
func amountPlan(amount decimal.Decimal, balances domain.BalancesByType, sctx StrategyContext) WithdrawalPlan {
	d := newDrawdown(balances)
	d.takeInOrder(amount, orderOrDefault(sctx.Order)...)
	return d.plan()
}

// bracketThreshold returns the configured taxable-income ceiling, or the top of the 12%
// bracket when none is set.
func bracketThreshold(sctx StrategyContext) decimal.Decimal {
	if sctx.Params.BracketThreshold.IsPositive() {
		return sctx.Params.BracketThreshold
	}
	return BracketCeiling(sctx.FilingStatus, decimal.NewFromFloat(0.12))
}

// bracketRoom is the gross ordinary income that still fits under the threshold.
func bracketRoom(sctx StrategyContext, alreadyOrdinary decimal.Decimal) decimal.Decimal {
	ceiling := bracketThreshold(sctx).Add(StandardDeduction(sctx.FilingStatus))
	if sctx.BracketFactor.IsPositive() {
		ceiling = ceiling.Mul(sctx.BracketFactor)
	}
	return nonNegative(ceiling.Sub(alreadyOrdinary))
}

// NewWithdrawalStrategy returns the implementation for t.
func NewWithdrawalStrategy(t domain.StrategyType) (WithdrawalStrategy, error) {
	switch t {
	case domain.StrategyFourPercent:
		return FourPercentRule{}, nil
	case domain.StrategyFixedPercentage:
		return FixedPercentage{}, nil
	case domain.StrategyFixedDollar:
		return FixedDollar{}, nil
	case domain.StrategySWP:
		return EarningsOnly{}, nil
	case domain.StrategyProportional:
		return Proportional{}, nil
	case domain.StrategyBracketTopping:
		return BracketTopping{}, nil
	case domain.StrategyBucket:
		return Bucket{}, nil
	case domain.StrategyGuardrails:
		return Guardrails{}, nil
	case domain.StrategyFloorUpside:
		return FloorAndUpside{}, nil
	case domain.StrategyRothBridge:
		return RothConversionBridge{}, nil
	case domain.StrategyQCD:
		return QualifiedCharitable{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, t)
}
