package output

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "Baseline [four_percent]:")
	assert.Contains(t, content, "STRATEGY COMPARISON: Baseline")
	assert.Contains(t, content, "MONTE CARLO (20 runs, seed 42)")
	assert.Contains(t, content, "Recommended: Baseline / ")
}

func TestConsoleVerboseFormatter(t *testing.T) {
	report := buildTestReport(t)
	out, err := ConsoleVerboseFormatter{}.Format(report)
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "DETAILED RETIREMENT WITHDRAWAL PROJECTION")
	assert.Contains(t, content, "FIRST RETIREMENT YEAR (2025) INCOME BREAKDOWN:")
	assert.Contains(t, content, "KEY ASSUMPTIONS:")
	assert.Contains(t, content, "SUMMARY & RECOMMENDATIONS")
	for _, pd := range report.Results[0].Projection {
		assert.Contains(t, content, "\n"+intToString(pd.Year)+" ", "ledger row for %d", pd.Year)
	}
}

func TestCSVSummarizerRows(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport(t))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 5, "header + scenario + three compared strategies")
	assert.True(t, strings.HasPrefix(lines[1], "Baseline,four_percent,2024,2048,2025,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "Baseline,bucket,"), lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "Baseline,guardrails,"), lines[4])
}

func TestCSVDetailedExporterRows(t *testing.T) {
	report := buildTestReport(t)
	out, err := CSVDetailedExporter{}.Format(report)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	years := len(report.Results[0].Projection)
	assert.Len(t, lines, 1+years*4)
	assert.Equal(t, len(detailedHeader), strings.Count(lines[0], ",")+1)
	assert.True(t, strings.HasPrefix(lines[1], "Baseline,four_percent,2024,64,0,"), lines[1])
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	report := buildTestReport(t)
	out, err := JSONFormatter{}.Format(report)
	require.NoError(t, err)

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Fixture household", decoded.Title)
	require.NotNil(t, decoded.Compare)
	assert.Equal(t, report.Compare.Best, decoded.Compare.Best)
	require.NotNil(t, decoded.Simulated)
	assert.Equal(t, 20, decoded.Simulated.Simulations)
	assert.Len(t, decoded.Results[0].Projection, len(report.Results[0].Projection))
}

func TestMarkdownFormatter(t *testing.T) {
	report := buildTestReport(t)

	out, err := MarkdownFormatter{}.Format(report)
	require.NoError(t, err)
	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# Fixture household\n"))
	assert.Contains(t, md, "## Strategy comparison: Baseline")
	assert.Contains(t, md, "| Year | Age | Withdrawn |")
	assert.Contains(t, md, "**"+string(report.Compare.Best)+"**")

	rendered, err := MarkdownFormatter{Render: true, Style: "notty", Width: 140}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "Fixture household")
	assert.NotEqual(t, md, string(rendered))
}

func TestMonteCarloCSVFormatter(t *testing.T) {
	out, err := MonteCarloCSVFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Number of Simulations,20,")
	assert.Contains(t, string(out), "Seed,42,")

	_, err = MonteCarloCSVFormatter{}.Format(&domain.Report{})
	assert.Error(t, err)
}

// Golden snapshots pin the full output of every formatter for a hand-built report.
// Run with UPDATE_GOLDEN=1 to accept intentional changes.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"console", "console.golden", ConsoleFormatter{}},
		{"console_verbose", "console_verbose.golden", ConsoleVerboseFormatter{}},
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_detailed", "csv_detailed.golden", CSVDetailedExporter{}},
		{"markdown", "markdown.golden", MarkdownFormatter{}},
		{"montecarlo_csv", "montecarlo_csv.golden", MonteCarloCSVFormatter{}},
	}

	report := staticReport()
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.formatter.Format(report)
			require.NoError(t, err)
			goldenPath := filepath.Join("testdata", tc.golden)
			if update {
				require.NoError(t, os.WriteFile(goldenPath, out, 0o644))
			}
			data, err := os.ReadFile(goldenPath)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(out), "run UPDATE_GOLDEN=1 to accept")
		})
	}
}

// The fixture report comes from a real engine run, so only its stable lines are pinned.
func TestFixtureReportHeaders(t *testing.T) {
	report := buildTestReport(t)
	out, err := ConsoleVerboseFormatter{}.Format(report)
	require.NoError(t, err)
	lines := strings.Split(string(out), "\n")
	require.Greater(t, len(lines), 5)
	assert.Equal(t, strings.Repeat("=", 120), lines[0])
	assert.Equal(t, "DETAILED RETIREMENT WITHDRAWAL PROJECTION", lines[1])
	assert.Equal(t, "Fixture household", lines[3])
	assert.Equal(t, "SCENARIO 1: Baseline", lines[5])

	csvOut, err := CSVDetailedExporter{}.Format(report)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(csvOut)), "\n")
	assert.Equal(t, strings.Join(detailedHeader, ","), rows[0])
	assert.Len(t, rows, 1+len(report.Results[0].Projection)+projectionRows(report.Compare))
}

func projectionRows(cmp *domain.StrategyComparison) int {
	if cmp == nil {
		return 0
	}
	n := 0
	for _, r := range cmp.Results {
		n += len(r.Projection)
	}
	return n
}

func TestFormatterAliasResolution(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"console", "console"},
		{"verbose", "console-verbose"},
		{" Table ", "console-verbose"},
		{"csv-detailed", "detailed-csv"},
		{"md", "markdown"},
		{"glamour", "terminal"},
		{"mc-csv", "montecarlo-csv"},
		{"JSON", "json"},
	}
	for _, tt := range tests {
		f := GetFormatterByName(tt.in)
		require.NotNil(t, f, "alias %q did not resolve", tt.in)
		assert.Equal(t, tt.want, f.Name())
	}
	assert.Nil(t, GetFormatterByName("html"))
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := LookupFormatter("definitely-not-a-format")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "unsupported report format")
	assert.Contains(t, err.Error(), "Try one of:")
	assert.Contains(t, err.Error(), "detailed-csv")
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{
		"console", "console-verbose", "csv", "detailed-csv", "json", "markdown", "montecarlo-csv", "terminal",
	}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "verbose")
}

func TestWriteFormatted(t *testing.T) {
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = orig })

	dir := filepath.Join(t.TempDir(), "reports")
	ff := FormatterFunc{ID: "txt", F: func(r *domain.Report) ([]byte, error) { return []byte(r.Title), nil }}
	path, err := WriteFormatted(ff, &domain.Report{Title: "hello"}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "withdrawal_report_20250102_030405.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	failing := FormatterFunc{ID: "bad", F: func(*domain.Report) ([]byte, error) { return nil, errors.New("boom") }}
	_, err = WriteFormatted(failing, &domain.Report{}, dir)
	assert.ErrorContains(t, err, "bad formatter: boom")
}
