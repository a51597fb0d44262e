package output

import (
	"strconv"

	money "github.com/rpgo/withdrawal-planner/pkg/decimal"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatWhole formats a decimal as USD rounded to whole dollars.
func FormatWhole(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Whole()
}

// FormatPercentage formats a value already expressed in percent with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.04) as a percentage ("4.00%").
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

func intToString(i int) string   { return strconv.Itoa(i) }
func boolToString(b bool) string { return strconv.FormatBool(b) }
