package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultVolatility is the annual return standard deviation used when none is configured.
var DefaultVolatility = decimal.NewFromFloat(0.15)

// MonteCarloSimulator reruns the deterministic projection under randomly sampled
// annual returns. It is a thin wrapper: all cash-flow logic stays in the engine.
type MonteCarloSimulator struct {
	Engine     *ProjectionEngine
	Volatility decimal.Decimal
	Seed       int64
	Workers    int
	Historical *HistoricalReturns
}

// MonteCarloConfig holds configuration for Monte Carlo simulations
type MonteCarloConfig struct {
	Volatility decimal.Decimal
	Seed       int64 // zero draws a seed from the seed provider
	Workers    int   // zero means GOMAXPROCS
	// Historical, when set, replaces normal draws with bootstrapped historical years.
	Historical *HistoricalReturns
}

// simulationOutcome is the part of one run kept for aggregation.
type simulationOutcome struct {
	success        bool
	depleted       bool
	longevityAge   int
	endingNetWorth decimal.Decimal
	returns        []float64
}

// NewMonteCarloSimulator creates a new Monte Carlo simulator
func NewMonteCarloSimulator(engine *ProjectionEngine, config MonteCarloConfig) *MonteCarloSimulator {
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}
	if !config.Volatility.IsPositive() {
		config.Volatility = DefaultVolatility
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if engine == nil {
		engine = NewProjectionEngine()
	}
	return &MonteCarloSimulator{
		Engine:     engine,
		Volatility: config.Volatility,
		Seed:       config.Seed,
		Workers:    config.Workers,
		Historical: config.Historical,
	}
}

// Run executes n simulations of in. Simulation i uses seed Seed+i, so results do not
// depend on scheduling.
func (mcs *MonteCarloSimulator) Run(ctx context.Context, in domain.ProjectionInput, n int) (*domain.MonteCarloResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: simulation count must be positive, got %d", ErrInvalidInput, n)
	}
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if mcs.Historical != nil && len(mcs.Historical.DataPoints) == 0 {
		return nil, fmt.Errorf("%w: historical returns are empty", ErrInvalidInput)
	}
	years := in.Household.FinalYear() - in.Settings.CurrentYear + 1
	base := NewFixedGrowth(in.Settings)

	outcomes := make([]simulationOutcome, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mcs.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(mcs.Seed + int64(i)))
			var growth GrowthModel = NewNormalGrowth(base, mcs.Volatility, years, rng)
			if mcs.Historical != nil {
				growth = NewHistoricalGrowth(base, mcs.Historical, years, rng)
			}
			projection, err := mcs.Engine.ProjectWithGrowth(gctx, cloneInput(in), growth)
			if err != nil {
				return fmt.Errorf("simulation %d: %w", i, err)
			}
			outcomes[i] = mcs.outcome(in, projection, growth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mcs.aggregate(outcomes), nil
}

func (mcs *MonteCarloSimulator) outcome(in domain.ProjectionInput, projection []domain.ProjectionDetail, growth GrowthModel) simulationOutcome {
	summary := Summarize(projection, in.Settings)
	returns := make([]float64, len(projection))
	for i, pd := range projection {
		returns[i] = growth.Rate(i, pd.IsRetired).InexactFloat64()
	}
	return simulationOutcome{
		success:        summary.DepletionYear == 0 && !summary.FinalNetWorth.IsNegative(),
		depleted:       summary.DepletionYear != 0,
		longevityAge:   summary.LongevityAge,
		endingNetWorth: summary.FinalNetWorth,
		returns:        returns,
	}
}

func (mcs *MonteCarloSimulator) aggregate(outcomes []simulationOutcome) *domain.MonteCarloResult {
	n := len(outcomes)
	successes, depleted := 0, 0
	netWorth := make([]decimal.Decimal, n)
	longevity := make([]int, n)
	var sum, sumSq float64
	var count int
	for i, o := range outcomes {
		if o.success {
			successes++
		}
		if o.depleted {
			depleted++
		}
		netWorth[i] = o.endingNetWorth
		longevity[i] = o.longevityAge
		for _, r := range o.returns {
			sum += r
			sumSq += r * r
			count++
		}
	}
	sort.Slice(netWorth, func(i, j int) bool { return netWorth[i].LessThan(netWorth[j]) })
	sort.Ints(longevity)

	mean, stdDev := 0.0, 0.0
	if count > 0 {
		mean = sum / float64(count)
		stdDev = math.Sqrt(math.Max(sumSq/float64(count)-mean*mean, 0))
	}

	return &domain.MonteCarloResult{
		Simulations:     n,
		Seed:            mcs.Seed,
		SuccessRate:     decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(n))).Round(4),
		MedianLongevity: longevity[n/2],
		EndingNetWorth: domain.PercentileRanges{
			P10: netWorth[n/10],
			P25: netWorth[n/4],
			P50: netWorth[n/2],
			P75: netWorth[3*n/4],
			P90: netWorth[9*n/10],
		},
		DepletedRuns:     depleted,
		MeanReturn:       decimal.NewFromFloat(mean).Round(4),
		ReturnVolatility: decimal.NewFromFloat(stdDev).Round(4),
	}
}
