package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per scenario run). Strategy
// comparison runs follow the scenario rows.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

var summaryHeader = []string{"Scenario", "Strategy", "FirstYear", "FinalYear", "FirstRetiredYear", "LongevityAge", "DepletionYear",
	"InitialAssets", "RetirementAssets", "FirstWithdrawal", "TotalDistributions", "TotalTaxes", "EffectiveTaxRate",
	"TotalRothConversion", "TotalCharitable", "TotalUnmetNeed", "PeakDebt", "FinalNetWorth", "Risk"}

func (c CSVSummarizer) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	results := report.Results
	if report.Compare != nil {
		results = append(append([]domain.ScenarioResult(nil), results...), report.Compare.Results...)
	}
	for _, r := range results {
		if err := w.Write(summaryRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func summaryRow(r domain.ScenarioResult) []string {
	s := r.Summary
	name := s.Name
	if name == "" {
		name = r.Scenario.Name
	}
	return []string{
		name,
		string(s.Strategy),
		intToString(s.FirstYear),
		intToString(s.FinalYear),
		intToString(s.FirstRetiredYear),
		intToString(s.LongevityAge),
		intToString(s.DepletionYear),
		s.InitialAssets.StringFixed(2),
		s.RetirementAssets.StringFixed(2),
		s.FirstWithdrawal.StringFixed(2),
		s.TotalDistributions.StringFixed(2),
		s.TotalTaxes.StringFixed(2),
		s.EffectiveTaxRate.StringFixed(4),
		s.TotalRothConversion.StringFixed(2),
		s.TotalCharitable.StringFixed(2),
		s.TotalUnmetNeed.StringFixed(2),
		s.PeakDebt.StringFixed(2),
		s.FinalNetWorth.StringFixed(2),
		string(s.Risk),
	}
}
