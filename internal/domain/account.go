package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account for tax treatment and withdrawal ordering.
type AccountType string

const (
	Account401k    AccountType = "401k"
	AccountIRA     AccountType = "ira"
	AccountRoth    AccountType = "roth_ira"
	AccountHSA     AccountType = "hsa"
	AccountTaxable AccountType = "taxable"
	AccountOther   AccountType = "other"
)

// AllAccountTypes lists every account type in a fixed order. Iterate this slice rather
// than a BalancesByType map whenever output order matters.
var AllAccountTypes = []AccountType{
	Account401k, AccountIRA, AccountRoth, AccountHSA, AccountTaxable, AccountOther,
}

// ParseAccountType normalizes common spellings ("Roth IRA", "brokerage", "401(k)").
func ParseAccountType(s string) (AccountType, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_", "(", "", ")", "").Replace(n)
	switch n {
	case "401k", "403b", "tsp":
		return Account401k, true
	case "ira", "traditional_ira":
		return AccountIRA, true
	case "roth", "roth_ira", "roth_401k":
		return AccountRoth, true
	case "hsa":
		return AccountHSA, true
	case "taxable", "brokerage", "cash":
		return AccountTaxable, true
	case "other":
		return AccountOther, true
	}
	return "", false
}

// Valid reports whether t is one of the six known account types.
func (t AccountType) Valid() bool {
	for _, known := range AllAccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsTaxDeferred reports whether withdrawals are ordinary income.
func (t AccountType) IsTaxDeferred() bool {
	return t == Account401k || t == AccountIRA
}

// Account is one investment account as supplied by the caller.
type Account struct {
	ID                 string          `yaml:"id" json:"id"`
	Name               string          `yaml:"name" json:"name" validate:"required"`
	Owner              string          `yaml:"owner,omitempty" json:"owner,omitempty"`
	Type               AccountType     `yaml:"type" json:"type" validate:"required"`
	Balance            decimal.Decimal `yaml:"balance" json:"balance" validate:"gte=0"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution,omitempty" json:"annual_contribution,omitempty" validate:"gte=0"`
}

// BalancesByType aggregates balances per account type.
type BalancesByType map[AccountType]decimal.Decimal

// SumByType totals the balances of the given accounts per type.
func SumByType(accounts []Account) BalancesByType {
	out := BalancesByType{}
	for _, a := range accounts {
		out[a.Type] = out.Get(a.Type).Add(a.Balance)
	}
	return out
}

// Get returns the balance for t, zero when absent.
func (b BalancesByType) Get(t AccountType) decimal.Decimal {
	if v, ok := b[t]; ok {
		return v
	}
	return decimal.Zero
}

// Total sums every type.
func (b BalancesByType) Total() decimal.Decimal {
	total := decimal.Zero
	for _, t := range AllAccountTypes {
		total = total.Add(b.Get(t))
	}
	return total
}

// TaxDeferred sums the 401k and IRA balances.
func (b BalancesByType) TaxDeferred() decimal.Decimal {
	total := decimal.Zero
	for t, v := range b {
		if t.IsTaxDeferred() {
			total = total.Add(v)
		}
	}
	return total
}

// Clone returns an independent copy.
func (b BalancesByType) Clone() BalancesByType {
	out := make(BalancesByType, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
