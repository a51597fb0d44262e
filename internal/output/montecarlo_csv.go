package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// MonteCarloCSVFormatter exports the stochastic summary of a report as metric rows.
type MonteCarloCSVFormatter struct{}

func (m MonteCarloCSVFormatter) Name() string      { return "montecarlo-csv" }
func (m MonteCarloCSVFormatter) Extension() string { return "csv" }

func (m MonteCarloCSVFormatter) Format(report *domain.Report) ([]byte, error) {
	if report.Simulated == nil {
		return nil, errors.New("report has no Monte Carlo result")
	}
	var buf bytes.Buffer
	if err := writeMonteCarloSummary(&buf, report.Simulated); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MonteCarloCSVReport generates CSV exports for Monte Carlo results
type MonteCarloCSVReport struct {
	Result *domain.MonteCarloResult
}

// GenerateSummaryCSV creates a summary CSV with aggregate statistics
func (m *MonteCarloCSVReport) GenerateSummaryCSV(outputPath string) error {
	var buf bytes.Buffer
	if err := writeMonteCarloSummary(&buf, m.Result); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	return nil
}

// GeneratePercentileCSV creates a CSV with the ending net worth percentiles
func (m *MonteCarloCSVReport) GeneratePercentileCSV(outputPath string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Percentile", "EndingNetWorth", "Interpretation"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	p := m.Result.EndingNetWorth
	percentileData := [][]string{
		{"10th", p.P10.StringFixed(0), "Worst 10% of scenarios"},
		{"25th", p.P25.StringFixed(0), "Below average scenarios"},
		{"50th (Median)", p.P50.StringFixed(0), "Typical scenario"},
		{"75th", p.P75.StringFixed(0), "Above average scenarios"},
		{"90th", p.P90.StringFixed(0), "Best 10% of scenarios"},
	}
	for _, row := range percentileData {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write percentile row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	return nil
}

// GenerateAllCSVReports creates all CSV reports in a single directory
func (m *MonteCarloCSVReport) GenerateAllCSVReports(outputDir string) error {
	if m.Result == nil {
		return errors.New("no Monte Carlo result to export")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := m.GenerateSummaryCSV(filepath.Join(outputDir, "monte_carlo_summary.csv")); err != nil {
		return fmt.Errorf("failed to generate summary CSV: %w", err)
	}
	if err := m.GeneratePercentileCSV(filepath.Join(outputDir, "monte_carlo_percentiles.csv")); err != nil {
		return fmt.Errorf("failed to generate percentile CSV: %w", err)
	}
	return nil
}

func writeMonteCarloSummary(buf *bytes.Buffer, r *domain.MonteCarloResult) error {
	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"Metric", "Value", "Description"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	summaryData := [][]string{
		{"Success Rate", FormatRate(r.SuccessRate), "Percentage of simulations that never ran out of money"},
		{"Depleted Runs", strconv.Itoa(r.DepletedRuns), "Simulations where assets were exhausted"},
		{"Median Longevity", fmt.Sprintf("%d years of age", r.MedianLongevity), "Median last age with assets remaining"},
		{"10th Percentile Net Worth", r.EndingNetWorth.P10.StringFixed(0), "10th percentile of ending net worth"},
		{"50th Percentile Net Worth", r.EndingNetWorth.P50.StringFixed(0), "Median ending net worth"},
		{"90th Percentile Net Worth", r.EndingNetWorth.P90.StringFixed(0), "90th percentile of ending net worth"},
		{"Mean Return", FormatRate(r.MeanReturn), "Average sampled annual return"},
		{"Return Volatility", FormatRate(r.ReturnVolatility), "Standard deviation of sampled returns"},
		{"Number of Simulations", strconv.Itoa(r.Simulations), "Total number of simulations run"},
		{"Seed", strconv.FormatInt(r.Seed, 10), "Seed of the first simulation"},
	}
	for _, row := range summaryData {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
