package decimal

import (
	"testing"

	gomoney "github.com/Rhymond/go-money"
	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) Money {
	return NewMoneyFromDecimal(stddec.RequireFromString(s))
}

func TestCentsAndString(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		str   string
	}{
		{"2.344", 234, "2.34"},
		{"2.345", 235, "2.35"},
		{"1234.567", 123457, "1234.57"},
		{"-0.005", -1, "-0.01"},
	}
	for _, c := range cases {
		m := money(c.in)
		assert.Equal(t, c.cents, m.Cents(), c.in)
		assert.Equal(t, c.str, m.String(), c.in)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in    string
		full  string
		whole string
	}{
		{"0", "$0.00", "$0"},
		{"1234.5", "$1,234.50", "$1,235"},
		{"2088624.7", "$2,088,624.70", "$2,088,625"},
		{"-36000", "-$36,000.00", "-$36,000"},
	}
	for _, c := range cases {
		m := money(c.in)
		assert.Equal(t, c.full, m.Format(), c.in)
		assert.Equal(t, c.whole, m.Whole(), c.in)
	}
}

func TestFormatIn(t *testing.T) {
	m := money("1234.5")
	assert.Equal(t, m.Format(), m.FormatIn(gomoney.USD))
	assert.Contains(t, m.FormatIn(gomoney.EUR), "€")
}
