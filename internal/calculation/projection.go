package calculation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// accountState is the engine's working copy of one input account. The caller's
// accounts are never written to.
type accountState struct {
	contribution decimal.Decimal
	balance      decimal.Decimal
	snap         domain.AccountSnapshot
}

func newAccountStates(accounts []domain.Account) []*accountState {
	states := make([]*accountState, len(accounts))
	for i, a := range accounts {
		id := a.ID
		if id == "" {
			id = fmt.Sprintf("account-%d", i+1)
		}
		states[i] = &accountState{
			contribution: cents(a.AnnualContribution),
			balance:      cents(a.Balance),
			snap:         domain.AccountSnapshot{ID: id, Name: a.Name, Type: a.Type},
		}
	}
	return states
}

// open starts a new year's ledger from the current balance.
func (a *accountState) open() {
	a.snap = domain.AccountSnapshot{ID: a.snap.ID, Name: a.snap.Name, Type: a.snap.Type, Opening: a.balance}
}

func (a *accountState) grow(rate decimal.Decimal) {
	g := cents(a.snap.Opening.Mul(rate))
	a.snap.Growth = g
	a.balance = a.balance.Add(g)
}

func (a *accountState) contribute() {
	if !a.contribution.IsPositive() {
		return
	}
	a.snap.Contribution = a.contribution
	a.balance = a.balance.Add(a.contribution)
}

// take removes up to amount, never below zero, and returns what was removed.
func (a *accountState) take(amount decimal.Decimal) decimal.Decimal {
	amount = decimal.Min(amount, nonNegative(a.balance))
	a.balance = a.balance.Sub(amount)
	return amount
}

func (a *accountState) distribute(amount decimal.Decimal) decimal.Decimal {
	taken := a.take(amount)
	a.snap.Distribution = a.snap.Distribution.Add(taken)
	return taken
}

func (a *accountState) transferOut(amount decimal.Decimal) decimal.Decimal {
	taken := a.take(amount)
	a.snap.TransferOut = a.snap.TransferOut.Add(taken)
	return taken
}

func (a *accountState) transferIn(amount decimal.Decimal) {
	a.snap.TransferIn = a.snap.TransferIn.Add(amount)
	a.balance = a.balance.Add(amount)
}

func (a *accountState) depositSurplus(amount decimal.Decimal) {
	a.snap.SurplusDeposit = a.snap.SurplusDeposit.Add(amount)
	a.balance = a.balance.Add(amount)
}

// close finalizes the ledger and returns the year's snapshot.
func (a *accountState) close() domain.AccountSnapshot {
	a.snap.Closing = a.balance
	return a.snap
}

func balancesByType(accounts []*accountState) domain.BalancesByType {
	out := domain.BalancesByType{}
	for _, a := range accounts {
		out[a.snap.Type] = out.Get(a.snap.Type).Add(a.balance)
	}
	return out
}

func firstOfType(accounts []*accountState, t domain.AccountType) *accountState {
	for _, a := range accounts {
		if a.snap.Type == t {
			return a
		}
	}
	return nil
}

// surplusAccount receives positive gaps: the first taxable account, else the first account.
func surplusAccount(accounts []*accountState) *accountState {
	if a := firstOfType(accounts, domain.AccountTaxable); a != nil {
		return a
	}
	if len(accounts) > 0 {
		return accounts[0]
	}
	return nil
}

// cents rounds a money amount half away from zero. Every amount the engine derives by
// multiplication or division passes through it, so records only hold whole cents.
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// withdraw spreads per-type amounts over the accounts of each type in input order and
// returns what was actually removed. Amounts beyond the balances are dropped.
func withdraw(accounts []*accountState, amounts domain.BalancesByType, apply func(*accountState, decimal.Decimal) decimal.Decimal) domain.BalancesByType {
	realized := domain.BalancesByType{}
	for _, t := range domain.AllAccountTypes {
		need := cents(amounts.Get(t))
		for _, a := range accounts {
			if !need.IsPositive() {
				break
			}
			if a.snap.Type != t {
				continue
			}
			got := apply(a, need)
			need = need.Sub(got)
			realized[t] = realized.Get(t).Add(got)
		}
	}
	return realized
}

// yearExpenses is the inflated spending for one year, split two ways.
type yearExpenses struct {
	living        decimal.Decimal
	special       decimal.Decimal
	essential     decimal.Decimal
	discretionary decimal.Decimal
}

func (e yearExpenses) total() decimal.Decimal {
	return e.living.Add(e.special)
}

// expensesFor inflates every active expense from the plan start to year. A plan without
// itemized expenses spends the settings' annual retirement baseline once retired.
func expensesFor(in domain.ProjectionInput, year, age int, isRetired bool, inflation decimal.Decimal) yearExpenses {
	var out yearExpenses
	for _, e := range in.Expenses {
		if !e.ActiveIn(year) {
			continue
		}
		amount := cents(e.Annual(age).Mul(inflation))
		if e.Special {
			out.special = out.special.Add(amount)
		} else {
			out.living = out.living.Add(amount)
		}
		if e.Classify() == domain.ExpenseEssential {
			out.essential = out.essential.Add(amount)
		} else {
			out.discretionary = out.discretionary.Add(amount)
		}
	}
	if len(in.Expenses) == 0 && isRetired && in.Settings.AnnualRetirementExpenses.IsPositive() {
		baseline := cents(in.Settings.AnnualRetirementExpenses.Mul(inflation))
		out.living = baseline
		out.essential = baseline
	}
	return out
}

// otherIncomeFor sums the recurring income received in year.
func otherIncomeFor(incomes []domain.OtherIncome, year int, inflation decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, o := range incomes {
		if !o.ActiveIn(year) {
			continue
		}
		amount := o.AnnualAmount
		if o.InflationAdjusted {
			amount = amount.Mul(inflation)
		}
		total = total.Add(cents(amount))
	}
	return total
}

// debtState carries borrowing across years.
type debtState struct {
	balance    decimal.Decimal
	cumulative decimal.Decimal
}

// run is the year-step loop. Each iteration works on the engine's own account copies and
// appends one freshly built record.
func (pe *ProjectionEngine) run(ctx context.Context, in domain.ProjectionInput, strategy WithdrawalStrategy, growth GrowthModel) ([]domain.ProjectionDetail, error) {
	h, s := in.Household, in.Settings
	log := pe.logger()

	accounts := newAccountStates(in.Accounts)
	status := DetermineFilingStatus(h.HasSpouse(), h.FilingStatus)
	taxCalc := NewTaxCalculator(s)
	rmdCalc := NewRMDCalculator(h.PrimaryBirthYear)
	rmdAge := rmdCalc.RMDAge()
	order := WithdrawalOrder(s.WithdrawalPriority, s.SecondaryPriority)
	roth := firstOfType(accounts, domain.AccountRoth)
	surplusTo := surplusAccount(accounts)

	finalYear := h.FinalYear()
	projection := make([]domain.ProjectionDetail, 0, finalYear-s.CurrentYear+1)
	log.Debugf("projecting %d-%d with %s strategy (%s)", s.CurrentYear, finalYear, strategy.Name(), status)

	var (
		debt               debtState
		retiredIndex       = -1
		initialPortfolio   decimal.Decimal
		previousWithdrawal decimal.Decimal
		ssaStarted         bool
		depleted           = balancesByType(accounts).Total().LessThanOrEqual(decimal.Zero)
	)

	for year := s.CurrentYear; year <= finalYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		yearIndex := dateutil.YearsBetween(s.CurrentYear, year)
		age := h.PrimaryAge(year)
		isRetired := age >= s.RetirementAge
		inflation := compound(s.InflationRate, yearIndex)

		for _, a := range accounts {
			a.open()
		}
		opening := balancesByType(accounts)

		ssa := cents(householdSSA(h, s, year))
		other := otherIncomeFor(in.OtherIncomes, year, inflation)
		expenses := expensesFor(in, year, age, isRetired, inflation)

		// Withdrawals are decided against opening balances and only once retired
		plan := emptyPlan()
		if isRetired {
			retiredIndex++
			if retiredIndex == 0 {
				initialPortfolio = opening.Total()
			}
			shortfall := nonNegative(expenses.total().Sub(ssa).Sub(other))
			if shortfall.IsPositive() {
				bracketFactor := decimal.NewFromInt(1)
				if s.IndexTaxBrackets {
					bracketFactor = inflation
				}
				plan = strategy.SelectWithdrawals(shortfall, opening, StrategyContext{
					Year:                  year,
					Age:                   age,
					SpouseAge:             h.SpouseAge(year),
					BirthYear:             h.PrimaryBirthYear,
					RMDAge:                rmdAge,
					RetirementYearIndex:   retiredIndex,
					FilingStatus:          status,
					InflationRate:         s.InflationRate,
					GrowthRate:            growth.Rate(yearIndex, true),
					GuaranteedIncome:      ssa.Add(other),
					OrdinaryIncome:        other,
					EssentialExpenses:     expenses.essential,
					DiscretionaryExpenses: expenses.discretionary,
					InitialPortfolio:      initialPortfolio,
					PreviousWithdrawal:    previousWithdrawal,
					BracketFactor:         bracketFactor,
					Params:                s.StrategyParams,
					Order:                 order,
					RothAvailable:         roth != nil,
				})
			}
		}

		// Growth on the opening balance, then contributions, then withdrawals
		rate := growth.Rate(yearIndex, isRetired)
		for _, a := range accounts {
			a.grow(rate)
			if !isRetired {
				a.contribute()
			}
		}
		distributed := withdraw(accounts, plan.Distributions, (*accountState).distribute)
		donated := withdraw(accounts, plan.Charitable, (*accountState).transferOut)
		conversion := decimal.Zero
		if roth != nil {
			conversion = withdraw(accounts, plan.Conversions, (*accountState).transferOut).Total()
			if conversion.IsPositive() {
				roth.transferIn(conversion)
			}
		}

		totalDistributions := distributed.Total()
		totalIncome := ssa.Add(totalDistributions).Add(other)
		tax := taxCalc.Compute(TaxInput{
			OrdinaryIncome: distributed.TaxDeferred().Add(other).Add(conversion),
			CapitalGains:   distributed.Get(domain.AccountTaxable),
			Status:         status,
			YearsElapsed:   yearIndex,
		}).rounded()
		gap := totalIncome.Sub(expenses.total()).Sub(tax.Total)

		// Debt: interest on the opening balance, then borrow or repay
		interest := cents(debt.balance.Mul(s.DebtInterestRate))
		debt.balance = debt.balance.Add(interest)
		debt.cumulative = debt.cumulative.Add(interest)
		unmet, principal := decimal.Zero, decimal.Zero
		if gap.IsNegative() && (isRetired || s.EnableBorrowing) {
			unmet = gap.Neg()
		}
		switch {
		case gap.IsNegative() && s.EnableBorrowing:
			debt.balance = debt.balance.Add(unmet)
			debt.cumulative = debt.cumulative.Add(unmet)
		case gap.IsPositive():
			// debt is only ever non-zero with borrowing enabled
			principal = decimal.Min(gap, debt.balance)
			debt.balance = debt.balance.Sub(principal)
			if surplus := gap.Sub(principal); surplus.IsPositive() && surplusTo != nil {
				surplusTo.depositSurplus(surplus)
			}
		}

		snapshots := make([]domain.AccountSnapshot, len(accounts))
		assets, investmentIncome := decimal.Zero, decimal.Zero
		for i, a := range accounts {
			snapshots[i] = a.close()
			assets = assets.Add(snapshots[i].Closing)
			investmentIncome = investmentIncome.Add(snapshots[i].Growth)
		}

		var events []string
		if isRetired && retiredIndex == 0 {
			events = append(events, domain.EventRetirement)
		}
		if !ssaStarted && ssa.IsPositive() {
			ssaStarted = true
			events = append(events, domain.EventSSAStart)
		}
		if age == rmdAge {
			events = append(events, domain.EventRMDStart)
		}
		if age == 65 {
			events = append(events, domain.EventAge65)
		}
		if h.HasSpouse() && year == h.SpouseBirthYear+h.EffectiveSpouseLifeExpectancy() {
			events = append(events, domain.EventSpouseEnd)
		}
		if age == h.LifeExpectancy {
			events = append(events, domain.EventLifeExpectancy)
		}
		if nowDepleted := assets.LessThanOrEqual(decimal.Zero); nowDepleted != depleted {
			if nowDepleted {
				events = append(events, domain.EventDepleted)
			}
			depleted = nowDepleted
		}

		detail := domain.ProjectionDetail{
			Year:      year,
			Age:       age,
			SpouseAge: h.SpouseAge(year),
			Event:     strings.Join(events, ", "),
			IsRetired: isRetired,

			SSAIncome:           ssa,
			Distribution401k:    distributed.Get(domain.Account401k),
			DistributionIRA:     distributed.Get(domain.AccountIRA),
			DistributionRoth:    distributed.Get(domain.AccountRoth),
			DistributionTaxable: distributed.Get(domain.AccountTaxable),
			DistributionHSA:     distributed.Get(domain.AccountHSA),
			DistributionOther:   distributed.Get(domain.AccountOther),
			InvestmentIncome:    investmentIncome,
			OtherIncome:         other,
			TotalIncome:         totalIncome,
			AfterTaxIncome:      totalIncome.Sub(tax.Total),

			LivingExpenses:  expenses.living,
			SpecialExpenses: expenses.special,
			TotalExpenses:   expenses.total(),
			GapExcess:       gap,
			UnmetNeed:       unmet,

			CumulativeLiability: debt.cumulative,
			DebtBalance:         debt.balance,
			DebtInterest:        interest,
			DebtPrincipal:       principal,

			AssetsRemaining: assets,
			NetWorth:        assets.Sub(debt.balance),
			Accounts:        snapshots,

			TaxableIncome:      tax.TaxableIncome,
			CapitalGainsIncome: tax.CapitalGains,
			OrdinaryTax:        tax.OrdinaryTax,
			CapitalGainsTax:    tax.CapitalGainsTax,
			TaxPaid:            tax.Total,
			FilingStatus:       status,

			RothConversion:         conversion,
			CharitableDistribution: donated.Total(),
			RMDRequired:            cents(rmdCalc.CalculateRMD(opening.TaxDeferred(), age)),
		}
		projection = append(projection, detail)

		if isRetired {
			previousWithdrawal = totalDistributions
		}
		if pe.Debug {
			marginal := taxCalc.Table(status, yearIndex).MarginalRate(tax.TaxableIncome)
			log.Debugf("%d age %d: income %s expenses %s tax %s (marginal %s) gap %s net worth %s",
				year, age, totalIncome.StringFixed(2), expenses.total().StringFixed(2),
				tax.Total.StringFixed(2), marginal.StringFixed(2), gap.StringFixed(2), detail.NetWorth.StringFixed(2))
		}
	}
	return projection, nil
}
