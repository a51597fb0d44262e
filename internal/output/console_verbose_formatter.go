package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// ConsoleVerboseFormatter renders the year-by-year ledger of every scenario.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string      { return "console-verbose" }
func (c ConsoleVerboseFormatter) Extension() string { return "txt" }

func (c ConsoleVerboseFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 120))
	fmt.Fprintln(&buf, "DETAILED RETIREMENT WITHDRAWAL PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 120))
	if report.Title != "" {
		fmt.Fprintln(&buf, report.Title)
	}
	fmt.Fprintln(&buf)

	for i, r := range report.Results {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, r.Scenario.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range GenerateAssumptions(r.Scenario.Settings) {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)

		if first, ok := firstRetiredYear(r.Projection); ok {
			fmt.Fprintf(&buf, "FIRST RETIREMENT YEAR (%d) INCOME BREAKDOWN:\n", first.Year)
			fmt.Fprintln(&buf, "----------------------------------------")
			fmt.Fprintln(&buf, "INCOME SOURCES:")
			fmt.Fprintf(&buf, "  Social Security:        %s\n", FormatCurrency(first.SSAIncome))
			fmt.Fprintf(&buf, "  Other Income:           %s\n", FormatCurrency(first.OtherIncome))
			for _, t := range domain.AllAccountTypes {
				if d := first.Distribution(t); d.IsPositive() {
					fmt.Fprintf(&buf, "  %-23s %s\n", accountLabel(t)+":", FormatCurrency(d))
				}
			}
			fmt.Fprintf(&buf, "  TOTAL INCOME:           %s\n", FormatCurrency(first.TotalIncome))
			fmt.Fprintln(&buf)
			fmt.Fprintln(&buf, "TAXES & EXPENSES:")
			fmt.Fprintf(&buf, "  Ordinary Tax:           %s\n", FormatCurrency(first.OrdinaryTax))
			fmt.Fprintf(&buf, "  Capital Gains Tax:      %s\n", FormatCurrency(first.CapitalGainsTax))
			fmt.Fprintf(&buf, "  Living Expenses:        %s\n", FormatCurrency(first.LivingExpenses))
			fmt.Fprintf(&buf, "  Special Expenses:       %s\n", FormatCurrency(first.SpecialExpenses))
			fmt.Fprintf(&buf, "  After-Tax Income:       %s\n", FormatCurrency(first.AfterTaxIncome))
			fmt.Fprintf(&buf, "  Gap / Excess:           %s\n", FormatCurrency(first.GapExcess))
			fmt.Fprintln(&buf)
		}

		writeLedger(&buf, r.Projection)

		s := r.Summary
		fmt.Fprintln(&buf, "LONG-TERM PROJECTION:")
		fmt.Fprintln(&buf, "---------------------")
		fmt.Fprintf(&buf, "  Longevity Age:           %d\n", s.LongevityAge)
		fmt.Fprintf(&buf, "  Depletion Year:          %s\n", depletionLabel(s.DepletionYear))
		fmt.Fprintf(&buf, "  Total Distributions:     %s\n", FormatCurrency(s.TotalDistributions))
		fmt.Fprintf(&buf, "  Total Taxes:             %s\n", FormatCurrency(s.TotalTaxes))
		fmt.Fprintf(&buf, "  Effective Tax Rate:      %s\n", FormatRate(s.EffectiveTaxRate))
		if s.TotalRothConversion.IsPositive() {
			fmt.Fprintf(&buf, "  Roth Conversions:        %s\n", FormatCurrency(s.TotalRothConversion))
		}
		if s.TotalCharitable.IsPositive() {
			fmt.Fprintf(&buf, "  Charitable (QCD):        %s\n", FormatCurrency(s.TotalCharitable))
		}
		if s.PeakDebt.IsPositive() {
			fmt.Fprintf(&buf, "  Peak Debt:               %s\n", FormatCurrency(s.PeakDebt))
		}
		fmt.Fprintf(&buf, "  Final Net Worth:         %s\n", FormatCurrency(s.FinalNetWorth))
		fmt.Fprintf(&buf, "  Risk:                    %s\n", s.Risk)
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf)
	}

	if report.Compare != nil {
		writeComparison(&buf, report.Compare)
	}
	if report.Simulated != nil {
		writeSimulation(&buf, report.Simulated)
	}

	rec := AnalyzeScenarios(report)
	if rec.Strategy != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Best scenario: %s (%s)\n", rec.ScenarioName, rec.Strategy)
		fmt.Fprintf(&buf, "Money lasts to age: %d\n", rec.LongevityAge)
		fmt.Fprintf(&buf, "Final Net Worth Change: %s (%s)\n", FormatCurrency(rec.NetWorthChange), FormatPercentage(rec.PercentageChange))
	}

	return buf.Bytes(), nil
}

func writeLedger(w io.Writer, projection []domain.ProjectionDetail) {
	fmt.Fprintf(w, "%-6s %4s %12s %12s %12s %10s %12s %12s %12s %14s  %s\n",
		"YEAR", "AGE", "SSA", "WITHDRAWN", "TOTAL INC", "TAX", "EXPENSES", "GAP", "DEBT", "NET WORTH", "EVENT")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, pd := range projection {
		fmt.Fprintf(w, "%-6d %4d %12s %12s %12s %10s %12s %12s %12s %14s  %s\n",
			pd.Year, pd.Age,
			FormatWhole(pd.SSAIncome),
			FormatWhole(pd.TotalDistributions()),
			FormatWhole(pd.TotalIncome),
			FormatWhole(pd.TaxPaid),
			FormatWhole(pd.TotalExpenses),
			FormatWhole(pd.GapExcess),
			FormatWhole(pd.DebtBalance),
			FormatWhole(pd.NetWorth),
			pd.Event,
		)
	}
	fmt.Fprintln(w)
}

func firstRetiredYear(projection []domain.ProjectionDetail) (domain.ProjectionDetail, bool) {
	for _, pd := range projection {
		if pd.IsRetired {
			return pd, true
		}
	}
	return domain.ProjectionDetail{}, false
}

func accountLabel(t domain.AccountType) string {
	switch t {
	case domain.Account401k:
		return "401(k) Withdrawal"
	case domain.AccountIRA:
		return "IRA Withdrawal"
	case domain.AccountRoth:
		return "Roth Withdrawal"
	case domain.AccountHSA:
		return "HSA Withdrawal"
	case domain.AccountTaxable:
		return "Taxable Withdrawal"
	}
	return "Other Withdrawal"
}
