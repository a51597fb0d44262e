package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// MarkdownFormatter writes the report as markdown. With Render set the markdown is
// styled for the terminal by glamour.
type MarkdownFormatter struct {
	Render bool
	// Style is a glamour standard style ("dark", "light", "notty"); empty detects it.
	Style string
	// Width wraps rendered output; zero means 100 columns.
	Width int
}

func (m MarkdownFormatter) Name() string {
	if m.Render {
		return "terminal"
	}
	return "markdown"
}

func (m MarkdownFormatter) Extension() string {
	if m.Render {
		return "txt"
	}
	return "md"
}

func (m MarkdownFormatter) Format(report *domain.Report) ([]byte, error) {
	md := MarkdownReport(report)
	if !m.Render {
		return md, nil
	}
	width := m.Width
	if width <= 0 {
		width = 100
	}
	style := glamour.WithAutoStyle()
	if m.Style != "" {
		style = glamour.WithStandardStyle(m.Style)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(string(md))
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return []byte(out), nil
}

// MarkdownReport builds the plain markdown document for a report.
func MarkdownReport(report *domain.Report) []byte {
	var buf bytes.Buffer
	title := report.Title
	if title == "" {
		title = "Retirement Withdrawal Projection"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)

	for _, r := range report.Results {
		s := r.Summary
		fmt.Fprintf(&buf, "## %s\n\n", r.Scenario.Name)
		fmt.Fprintf(&buf, "- **Strategy:** %s\n", s.Strategy)
		fmt.Fprintf(&buf, "- **Longevity age:** %d\n", s.LongevityAge)
		fmt.Fprintf(&buf, "- **Depleted:** %s\n", depletionLabel(s.DepletionYear))
		fmt.Fprintf(&buf, "- **First withdrawal:** %s\n", FormatWhole(s.FirstWithdrawal))
		fmt.Fprintf(&buf, "- **Total taxes:** %s (%s effective)\n", FormatWhole(s.TotalTaxes), FormatRate(s.EffectiveTaxRate))
		fmt.Fprintf(&buf, "- **Final net worth:** %s\n", FormatWhole(s.FinalNetWorth))
		fmt.Fprintf(&buf, "- **Risk:** %s\n\n", s.Risk)

		fmt.Fprintln(&buf, "### Assumptions")
		fmt.Fprintln(&buf)
		for _, a := range GenerateAssumptions(r.Scenario.Settings) {
			fmt.Fprintf(&buf, "- %s\n", a)
		}
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "### Projection")
		fmt.Fprintln(&buf)
		writeMarkdownLedger(&buf, r.Projection)
	}

	if cmp := report.Compare; cmp != nil {
		fmt.Fprintf(&buf, "## Strategy comparison: %s\n\n", cmp.ScenarioName)
		fmt.Fprintln(&buf, "| Strategy | Longevity | Depleted | Final net worth | Total taxes | Risk |")
		fmt.Fprintln(&buf, "|---|---:|---:|---:|---:|---|")
		for _, r := range cmp.Results {
			s := r.Summary
			name := string(s.Strategy)
			if s.Strategy == cmp.Best {
				name = "**" + name + "**"
			}
			fmt.Fprintf(&buf, "| %s | %d | %s | %s | %s | %s |\n", name, s.LongevityAge,
				depletionLabel(s.DepletionYear), FormatWhole(s.FinalNetWorth), FormatWhole(s.TotalTaxes), s.Risk)
		}
		fmt.Fprintln(&buf)
	}

	if mc := report.Simulated; mc != nil {
		fmt.Fprintf(&buf, "## Monte Carlo (%d runs)\n\n", mc.Simulations)
		fmt.Fprintf(&buf, "- **Success rate:** %s\n", FormatRate(mc.SuccessRate))
		fmt.Fprintf(&buf, "- **Median longevity:** %d\n", mc.MedianLongevity)
		fmt.Fprintf(&buf, "- **Ending net worth P10 / P50 / P90:** %s / %s / %s\n\n",
			FormatWhole(mc.EndingNetWorth.P10), FormatWhole(mc.EndingNetWorth.P50), FormatWhole(mc.EndingNetWorth.P90))
	}

	if rec := AnalyzeScenarios(report); rec.Strategy != "" {
		fmt.Fprintf(&buf, "> Recommended: **%s** (%s), money lasts to age %d.\n", rec.ScenarioName, rec.Strategy, rec.LongevityAge)
	}
	return buf.Bytes()
}

func writeMarkdownLedger(w io.Writer, projection []domain.ProjectionDetail) {
	fmt.Fprintln(w, "| Year | Age | Withdrawn | Total income | Tax | Expenses | Gap | Net worth | Event |")
	fmt.Fprintln(w, "|---:|---:|---:|---:|---:|---:|---:|---:|---|")
	for _, pd := range projection {
		fmt.Fprintf(w, "| %d | %d | %s | %s | %s | %s | %s | %s | %s |\n", pd.Year, pd.Age,
			FormatWhole(pd.TotalDistributions()), FormatWhole(pd.TotalIncome), FormatWhole(pd.TaxPaid),
			FormatWhole(pd.TotalExpenses), FormatWhole(pd.GapExcess), FormatWhole(pd.NetWorth), pd.Event)
	}
	fmt.Fprintln(w)
}
