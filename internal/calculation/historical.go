package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// HistoricalDataPoint represents a single year's historical data
type HistoricalDataPoint struct {
	Year int             `json:"year"`
	Data decimal.Decimal `json:"data"`
}

// HistoricalStatistics provides statistical summary of the dataset
type HistoricalStatistics struct {
	Mean         decimal.Decimal `json:"mean"`
	Median       decimal.Decimal `json:"median"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MissingYears []int           `json:"missing_years"`
}

// HistoricalReturns is a series of annual portfolio returns (0.07 = 7%) sorted by year.
type HistoricalReturns struct {
	Name       string                `json:"name"`
	DataPoints []HistoricalDataPoint `json:"data_points"`
	MinYear    int                   `json:"min_year"`
	MaxYear    int                   `json:"max_year"`
	Statistics HistoricalStatistics  `json:"statistics"`
}

// LoadHistoricalReturns reads a Year,Return CSV file with a header row.
func LoadHistoricalReturns(path string) (*HistoricalReturns, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()
	return ReadHistoricalReturns(file, path)
}

// ReadHistoricalReturns parses Year,Return rows. Rows whose year or value do not parse
// are skipped; a trailing "%" divides the value by 100.
func ReadHistoricalReturns(r io.Reader, name string) (*HistoricalReturns, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, errors.New("invalid CSV format: expected at least 2 columns")
	}

	var dataPoints []HistoricalDataPoint
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		value, err := parseReturn(record[1])
		if err != nil {
			continue
		}
		dataPoints = append(dataPoints, HistoricalDataPoint{Year: year, Data: value})
	}
	if len(dataPoints) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", name)
	}
	sort.Slice(dataPoints, func(i, j int) bool { return dataPoints[i].Year < dataPoints[j].Year })

	return &HistoricalReturns{
		Name:       name,
		DataPoints: dataPoints,
		MinYear:    dataPoints[0].Year,
		MaxYear:    dataPoints[len(dataPoints)-1].Year,
		Statistics: calculateStatistics(dataPoints),
	}, nil
}

func parseReturn(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(pct))
		return d.Div(decimal.NewFromInt(100)), err
	}
	return decimal.NewFromString(s)
}

// calculateStatistics expects dataPoints sorted by year.
func calculateStatistics(dataPoints []HistoricalDataPoint) HistoricalStatistics {
	n := len(dataPoints)
	if n == 0 {
		return HistoricalStatistics{}
	}

	values := make([]decimal.Decimal, n)
	sum := decimal.Zero
	for i, dp := range dataPoints {
		values[i] = dp.Data
		sum = sum.Add(dp.Data)
	}
	mean := sum.Div(decimal.NewFromInt(int64(n)))

	varianceSum := decimal.Zero
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(decimal.NewFromInt(int64(n)))
	stdDev := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))

	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
	median := values[n/2]
	if n%2 == 0 {
		median = values[n/2-1].Add(values[n/2]).Div(decimal.NewFromInt(2))
	}

	var missingYears []int
	next := dataPoints[0].Year
	for _, dp := range dataPoints {
		for ; next < dp.Year; next++ {
			missingYears = append(missingYears, next)
		}
		next = dp.Year + 1
	}

	return HistoricalStatistics{
		Mean:         mean,
		Median:       median,
		StdDev:       stdDev,
		Min:          values[0],
		Max:          values[n-1],
		Count:        n,
		MissingYears: missingYears,
	}
}

// ValidateDataQuality reports gaps and implausible returns (above 100% or below -50%).
func (h *HistoricalReturns) ValidateDataQuality() []string {
	var issues []string
	if len(h.Statistics.MissingYears) > 0 {
		issues = append(issues, fmt.Sprintf("Missing years in %s: %v", h.Name, h.Statistics.MissingYears))
	}
	for _, dp := range h.DataPoints {
		if dp.Data.GreaterThan(decimal.NewFromInt(1)) {
			issues = append(issues, fmt.Sprintf("Extreme positive return for year %d: %s", dp.Year, dp.Data.String()))
		}
		if dp.Data.LessThan(decimal.NewFromFloat(-0.5)) {
			issues = append(issues, fmt.Sprintf("Extreme negative return for year %d: %s", dp.Year, dp.Data.String()))
		}
	}
	return issues
}

// HistoricalGrowth replays randomly drawn historical years, one draw per projection
// year. The pre-retirement rate keeps the scenario's spread over the retirement rate.
type HistoricalGrowth struct {
	Base    FixedGrowth
	mean    decimal.Decimal
	samples []decimal.Decimal
}

// NewHistoricalGrowth draws years returns from h with replacement.
func NewHistoricalGrowth(base FixedGrowth, h *HistoricalReturns, years int, rng *rand.Rand) *HistoricalGrowth {
	samples := make([]decimal.Decimal, years)
	for i := range samples {
		samples[i] = h.DataPoints[rng.Intn(len(h.DataPoints))].Data
	}
	return &HistoricalGrowth{Base: base, mean: h.Statistics.Mean, samples: samples}
}

func (g *HistoricalGrowth) Rate(yearIndex int, retired bool) decimal.Decimal {
	rate := g.mean
	if yearIndex >= 0 && yearIndex < len(g.samples) {
		rate = g.samples[yearIndex]
	}
	if !retired {
		rate = rate.Add(g.Base.PreRetirement.Sub(g.Base.DuringRetirement))
	}
	return decimal.Max(rate, minAnnualReturn)
}
