package calculation

import (
	"math"
	"math/rand"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// GrowthModel supplies the portfolio return for each projection year.
type GrowthModel interface {
	Rate(yearIndex int, retired bool) decimal.Decimal
}

// FixedGrowth applies the scenario's constant pre- and during-retirement rates.
type FixedGrowth struct {
	PreRetirement    decimal.Decimal
	DuringRetirement decimal.Decimal
}

// NewFixedGrowth reads the growth assumptions from settings.
func NewFixedGrowth(s domain.CalculatorSettings) FixedGrowth {
	return FixedGrowth{PreRetirement: s.GrowthRatePreRetirement, DuringRetirement: s.GrowthRateDuringRetirement}
}

func (g FixedGrowth) Rate(_ int, retired bool) decimal.Decimal {
	if retired {
		return g.DuringRetirement
	}
	return g.PreRetirement
}

// minAnnualReturn keeps a sampled year from wiping out more than the whole balance.
var minAnnualReturn = decimal.NewFromFloat(-0.95)

// NormalGrowth perturbs a base model with normally distributed shocks drawn once at
// construction, so repeated Rate calls for the same year agree.
type NormalGrowth struct {
	Base       FixedGrowth
	Volatility decimal.Decimal
	shocks     []float64
}

// NewNormalGrowth draws years shocks from rng.
func NewNormalGrowth(base FixedGrowth, volatility decimal.Decimal, years int, rng *rand.Rand) *NormalGrowth {
	shocks := make([]float64, years)
	for i := range shocks {
		shocks[i] = boxMuller(rng.Float64(), rng.Float64())
	}
	return &NormalGrowth{Base: base, Volatility: volatility, shocks: shocks}
}

func (g *NormalGrowth) Rate(yearIndex int, retired bool) decimal.Decimal {
	rate := g.Base.Rate(yearIndex, retired)
	if yearIndex >= 0 && yearIndex < len(g.shocks) {
		rate = rate.Add(decimal.NewFromFloat(g.shocks[yearIndex]).Mul(g.Volatility))
	}
	return decimal.Max(rate, minAnnualReturn)
}

// boxMuller turns two uniform samples into a standard normal one.
func boxMuller(u1, u2 float64) float64 {
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
