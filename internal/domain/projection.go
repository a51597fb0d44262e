package domain

import (
	"github.com/shopspring/decimal"
)

// Life-cycle event labels attached to projection years.
const (
	EventNone           = ""
	EventRetirement     = "retirement"
	EventSSAStart       = "ssa_start"
	EventRMDStart       = "rmd_start"
	EventAge65          = "age_65"
	EventDepleted       = "assets_depleted"
	EventSpouseEnd      = "spouse_life_expectancy"
	EventLifeExpectancy = "life_expectancy"
)

// AccountSnapshot is the per-account ledger for one projection year.
// Closing = Opening + Growth + Contribution + TransferIn + SurplusDeposit - Distribution - TransferOut.
type AccountSnapshot struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Opening        decimal.Decimal `json:"opening"`
	Growth         decimal.Decimal `json:"growth"`
	Contribution   decimal.Decimal `json:"contribution"`
	Distribution   decimal.Decimal `json:"distribution"`
	TransferIn     decimal.Decimal `json:"transfer_in"`
	TransferOut    decimal.Decimal `json:"transfer_out"`
	SurplusDeposit decimal.Decimal `json:"surplus_deposit"`
	Closing        decimal.Decimal `json:"closing"`
}

// ProjectionDetail is one simulated year. Records are emitted as values and never
// modified afterwards.
type ProjectionDetail struct {
	Year      int    `json:"year"`
	Age       int    `json:"age"`
	SpouseAge int    `json:"spouse_age,omitempty"`
	Event     string `json:"event,omitempty"`
	IsRetired bool   `json:"is_retired"`

	// Income
	SSAIncome           decimal.Decimal `json:"ssa_income"`
	Distribution401k    decimal.Decimal `json:"distribution_401k"`
	DistributionIRA     decimal.Decimal `json:"distribution_ira"`
	DistributionRoth    decimal.Decimal `json:"distribution_roth"`
	DistributionTaxable decimal.Decimal `json:"distribution_taxable"`
	DistributionHSA     decimal.Decimal `json:"distribution_hsa"`
	DistributionOther   decimal.Decimal `json:"distribution_other"`
	InvestmentIncome    decimal.Decimal `json:"investment_income"`
	OtherIncome         decimal.Decimal `json:"other_income"`
	TotalIncome         decimal.Decimal `json:"total_income"`
	AfterTaxIncome      decimal.Decimal `json:"after_tax_income"`

	// Expenses
	LivingExpenses  decimal.Decimal `json:"living_expenses"`
	SpecialExpenses decimal.Decimal `json:"special_expenses"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	GapExcess       decimal.Decimal `json:"gap_excess"`
	UnmetNeed       decimal.Decimal `json:"unmet_need"`

	// Debt (non-zero only when borrowing is enabled)
	CumulativeLiability decimal.Decimal `json:"cumulative_liability"`
	DebtBalance         decimal.Decimal `json:"debt_balance"`
	DebtInterest        decimal.Decimal `json:"debt_interest"`
	DebtPrincipal       decimal.Decimal `json:"debt_principal"`

	// Balances
	AssetsRemaining decimal.Decimal   `json:"assets_remaining"`
	NetWorth        decimal.Decimal   `json:"networth"`
	Accounts        []AccountSnapshot `json:"accounts"`

	// Tax
	TaxableIncome      decimal.Decimal `json:"taxable_income"`
	CapitalGainsIncome decimal.Decimal `json:"capital_gains_income"`
	OrdinaryTax        decimal.Decimal `json:"ordinary_tax"`
	CapitalGainsTax    decimal.Decimal `json:"capital_gains_tax"`
	TaxPaid            decimal.Decimal `json:"tax_paid"`
	FilingStatus       FilingStatus    `json:"filing_status"`

	// Transfers that leave the household's spendable cash untouched
	RothConversion         decimal.Decimal `json:"roth_conversion"`
	CharitableDistribution decimal.Decimal `json:"charitable_distribution"`
	RMDRequired            decimal.Decimal `json:"rmd_required"`
}

// TotalDistributions sums the per-type distribution fields.
func (pd ProjectionDetail) TotalDistributions() decimal.Decimal {
	return pd.Distribution401k.Add(pd.DistributionIRA).Add(pd.DistributionRoth).
		Add(pd.DistributionTaxable).Add(pd.DistributionHSA).Add(pd.DistributionOther)
}

// Distribution returns the distribution field for t.
func (pd ProjectionDetail) Distribution(t AccountType) decimal.Decimal {
	switch t {
	case Account401k:
		return pd.Distribution401k
	case AccountIRA:
		return pd.DistributionIRA
	case AccountRoth:
		return pd.DistributionRoth
	case AccountTaxable:
		return pd.DistributionTaxable
	case AccountHSA:
		return pd.DistributionHSA
	case AccountOther:
		return pd.DistributionOther
	}
	return decimal.Zero
}

// ComputedTotalIncome recomputes total income from its components.
func (pd ProjectionDetail) ComputedTotalIncome() decimal.Decimal {
	return pd.SSAIncome.Add(pd.TotalDistributions()).Add(pd.OtherIncome)
}

// TotalBalance sums the closing balance of every account.
func (pd ProjectionDetail) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range pd.Accounts {
		total = total.Add(a.Closing)
	}
	return total
}

// IsDepleted reports whether no assets remain.
func (pd ProjectionDetail) IsDepleted() bool {
	return pd.AssetsRemaining.LessThanOrEqual(decimal.Zero)
}
