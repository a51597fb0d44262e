package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// ConsoleFormatter provides a concise console summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT WITHDRAWAL SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if report.Title != "" {
		fmt.Fprintln(&buf, report.Title)
	}
	fmt.Fprintln(&buf)
	for _, r := range report.Results {
		s := r.Summary
		fmt.Fprintf(&buf, "%s [%s]: Longevity=%d Depleted=%s FinalNetWorth=%s Risk=%s\n",
			r.Scenario.Name, s.Strategy, s.LongevityAge, depletionLabel(s.DepletionYear),
			FormatWhole(s.FinalNetWorth), s.Risk)
		fmt.Fprintf(&buf, "  FirstWithdrawal=%s TotalTaxes=%s EffectiveTaxRate=%s\n",
			FormatWhole(s.FirstWithdrawal), FormatWhole(s.TotalTaxes), FormatRate(s.EffectiveTaxRate))
	}
	if report.Compare != nil {
		writeComparison(&buf, report.Compare)
	}
	if report.Simulated != nil {
		writeSimulation(&buf, report.Simulated)
	}
	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" || rec.Strategy != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s / %s (Δ %s / %s)\n", rec.ScenarioName, rec.Strategy,
			FormatWhole(rec.NetWorthChange), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}

func writeComparison(w io.Writer, cmp *domain.StrategyComparison) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "STRATEGY COMPARISON: %s\n", cmp.ScenarioName)
	fmt.Fprintln(w, strings.Repeat("-", 86))
	fmt.Fprintf(w, "  %-18s %9s %9s %16s %14s %8s\n", "STRATEGY", "LONGEVITY", "DEPLETED", "FINAL NET WORTH", "TOTAL TAXES", "RISK")
	for _, r := range cmp.Results {
		s := r.Summary
		marker := " "
		if s.Strategy == cmp.Best {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-18s %9d %9s %16s %14s %8s\n", marker, s.Strategy, s.LongevityAge,
			depletionLabel(s.DepletionYear), FormatWhole(s.FinalNetWorth), FormatWhole(s.TotalTaxes), s.Risk)
	}
}

func writeSimulation(w io.Writer, mc *domain.MonteCarloResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "MONTE CARLO (%d runs, seed %d)\n", mc.Simulations, mc.Seed)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  Success Rate:        %s\n", FormatRate(mc.SuccessRate))
	fmt.Fprintf(w, "  Depleted Runs:       %d\n", mc.DepletedRuns)
	fmt.Fprintf(w, "  Median Longevity:    %d\n", mc.MedianLongevity)
	fmt.Fprintf(w, "  Ending Net Worth P10: %s\n", FormatWhole(mc.EndingNetWorth.P10))
	fmt.Fprintf(w, "  Ending Net Worth P50: %s\n", FormatWhole(mc.EndingNetWorth.P50))
	fmt.Fprintf(w, "  Ending Net Worth P90: %s\n", FormatWhole(mc.EndingNetWorth.P90))
	fmt.Fprintf(w, "  Mean Return:         %s (volatility %s)\n", FormatRate(mc.MeanReturn), FormatRate(mc.ReturnVolatility))
}

func depletionLabel(year int) string {
	if year == 0 {
		return "never"
	}
	return intToString(year)
}
