package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// CSVDetailedExporter provides the raw annual projection per scenario/year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

var detailedHeader = []string{"Scenario", "Strategy", "Year", "Age", "SpouseAge", "Event", "IsRetired",
	"SSAIncome", "Distribution401k", "DistributionIRA", "DistributionRoth", "DistributionTaxable",
	"DistributionHSA", "DistributionOther", "InvestmentIncome", "OtherIncome", "TotalIncome",
	"LivingExpenses", "SpecialExpenses", "TotalExpenses", "TaxableIncome", "CapitalGainsIncome",
	"OrdinaryTax", "CapitalGainsTax", "TaxPaid", "AfterTaxIncome", "GapExcess", "UnmetNeed",
	"DebtBalance", "DebtInterest", "DebtPrincipal", "CumulativeLiability", "RothConversion",
	"CharitableDistribution", "RMDRequired", "AssetsRemaining", "NetWorth"}

func (c CSVDetailedExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(detailedHeader); err != nil {
		return nil, err
	}
	results := report.Results
	if report.Compare != nil {
		results = append(append([]domain.ScenarioResult(nil), results...), report.Compare.Results...)
	}
	for _, r := range results {
		for _, yr := range r.Projection {
			if err := w.Write(detailedRow(r.Scenario.Name, r.Summary.Strategy, yr)); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func detailedRow(name string, st domain.StrategyType, yr domain.ProjectionDetail) []string {
	return []string{
		name,
		string(st),
		intToString(yr.Year),
		intToString(yr.Age),
		intToString(yr.SpouseAge),
		yr.Event,
		boolToString(yr.IsRetired),
		yr.SSAIncome.StringFixed(2),
		yr.Distribution401k.StringFixed(2),
		yr.DistributionIRA.StringFixed(2),
		yr.DistributionRoth.StringFixed(2),
		yr.DistributionTaxable.StringFixed(2),
		yr.DistributionHSA.StringFixed(2),
		yr.DistributionOther.StringFixed(2),
		yr.InvestmentIncome.StringFixed(2),
		yr.OtherIncome.StringFixed(2),
		yr.TotalIncome.StringFixed(2),
		yr.LivingExpenses.StringFixed(2),
		yr.SpecialExpenses.StringFixed(2),
		yr.TotalExpenses.StringFixed(2),
		yr.TaxableIncome.StringFixed(2),
		yr.CapitalGainsIncome.StringFixed(2),
		yr.OrdinaryTax.StringFixed(2),
		yr.CapitalGainsTax.StringFixed(2),
		yr.TaxPaid.StringFixed(2),
		yr.AfterTaxIncome.StringFixed(2),
		yr.GapExcess.StringFixed(2),
		yr.UnmetNeed.StringFixed(2),
		yr.DebtBalance.StringFixed(2),
		yr.DebtInterest.StringFixed(2),
		yr.DebtPrincipal.StringFixed(2),
		yr.CumulativeLiability.StringFixed(2),
		yr.RothConversion.StringFixed(2),
		yr.CharitableDistribution.StringFixed(2),
		yr.RMDRequired.StringFixed(2),
		yr.AssetsRemaining.StringFixed(2),
		yr.NetWorth.StringFixed(2),
	}
}
