package decimal

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Cents returns the amount in whole cents, rounded half away from zero.
func (m Money) Cents() int64 {
	return m.Decimal.Shift(2).Round(0).IntPart()
}

// String returns the plain two-decimal representation
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount in US dollars with thousands separators ("$1,234.56").
func (m Money) Format() string {
	return m.FormatIn(gomoney.USD)
}

// FormatIn renders the amount using the display rules of an ISO currency code.
func (m Money) FormatIn(code string) string {
	return gomoney.New(m.Cents(), code).Display()
}

// Whole renders the amount without cents ("$1,235").
func (m Money) Whole() string {
	cur := gomoney.GetCurrency(gomoney.USD)
	whole := m.Decimal.Round(0).IntPart()
	out := cur.Formatter().Format(whole * 100)
	// strip ".00"
	if len(out) > 3 && out[len(out)-3] == '.' {
		out = out[:len(out)-3]
	}
	return out
}
