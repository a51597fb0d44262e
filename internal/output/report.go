package output

import (
	"os"
	"path/filepath"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"gopkg.in/yaml.v3"
)

// allFormats is what GenerateReport writes for the format "all".
var allFormats = []string{"console-verbose", "detailed-csv", "json"}

// GenerateReport writes the report to dir with the named formatter and returns the
// written paths. The format "all" writes the verbose console, detailed CSV and JSON files,
// plus the Monte Carlo CSV files when the report carries a simulation.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	names := []string{format}
	all := NormalizeFormatName(format) == "all"
	if all {
		names = allFormats
	}
	var paths []string
	for _, name := range names {
		f, err := LookupFormatter(name)
		if err != nil {
			return paths, err
		}
		path, err := WriteFormatted(f, report, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	if all && report.Simulated != nil {
		mc := &MonteCarloCSVReport{Result: report.Simulated}
		if err := mc.GenerateAllCSVReports(dir); err != nil {
			return paths, err
		}
		paths = append(paths,
			filepath.Join(dir, "monte_carlo_summary.csv"),
			filepath.Join(dir, "monte_carlo_percentiles.csv"))
	}
	return paths, nil
}

// SaveConfiguration writes the configuration back out as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
