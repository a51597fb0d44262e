package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputGeneration(t *testing.T) {
	cfg := loadExample(t)
	engine := calculation.NewProjectionEngine()
	results, err := engine.RunScenarios(t.Context(), cfg)
	require.NoError(t, err)
	cmp, err := engine.CompareStrategies(t.Context(), cfg.Scenarios[0].Name, cfg.Input(cfg.Scenarios[0]))
	require.NoError(t, err)
	report := &domain.Report{Title: "Integration", Results: results, Compare: cmp}

	for _, name := range output.AvailableFormatterNames() {
		if name == "montecarlo-csv" {
			continue
		}
		f := output.GetFormatterByName(name)
		require.NotNil(t, f, name)
		data, err := f.Format(report)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	dir := t.TempDir()
	paths, err := output.GenerateReport(report, "all", dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, fi.Size())
		assert.True(t, strings.HasPrefix(p, dir))
	}
}

func TestSaveConfiguration_WritesFile(t *testing.T) {
	cfg := loadExample(t)
	out := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, output.SaveConfiguration(cfg, out))
	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())
}
