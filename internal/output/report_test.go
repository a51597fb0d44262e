package output_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rpgo/withdrawal-planner/internal/config"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSaveConfiguration(t *testing.T) {
	cfg := config.NewInputParser().CreateExampleConfiguration()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, output.SaveConfiguration(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back domain.Configuration
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.Len(t, back.Scenarios, len(cfg.Scenarios))
	assert.Equal(t, cfg.Scenarios[0].Name, back.Scenarios[0].Name)
	assert.Equal(t, cfg.Plan.Household.PrimaryBirthYear, back.Plan.Household.PrimaryBirthYear)
}

func TestGenerateReport(t *testing.T) {
	report := &domain.Report{Title: "empty"}

	dir := t.TempDir()
	paths, err := output.GenerateReport(report, "json", dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, ".json", filepath.Ext(paths[0]))

	dir = t.TempDir()
	paths, err = output.GenerateReport(report, "all", dir)
	require.NoError(t, err)
	exts := make([]string, 0, len(paths))
	for _, p := range paths {
		exts = append(exts, filepath.Ext(p))
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	sort.Strings(exts)
	assert.Equal(t, []string{".csv", ".json", ".txt"}, exts)

	report.Simulated = &domain.MonteCarloResult{Simulations: 3, Seed: 1}
	dir = t.TempDir()
	paths, err = output.GenerateReport(report, "all", dir)
	require.NoError(t, err)
	require.Len(t, paths, 5)
	for _, name := range []string{"monte_carlo_summary.csv", "monte_carlo_percentiles.csv"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestGenerateReportUnknownFormat(t *testing.T) {
	paths, err := output.GenerateReport(&domain.Report{}, "pdf", t.TempDir())
	assert.Empty(t, paths)
	assert.True(t, errors.Is(err, output.ErrUnsupportedFormat))
}
