package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. RPGO_INFLATION_RATE.
const EnvPrefix = "RPGO"

// Defaults are the assumptions applied to scenario settings the file leaves out.
type Defaults struct {
	GrowthRatePreRetirement    decimal.Decimal
	GrowthRateDuringRetirement decimal.Decimal
	InflationRate              decimal.Decimal
	CapitalGainsTaxRate        decimal.Decimal
	RetirementIncomeTaxRate    decimal.Decimal
	Strategy                   domain.StrategyType
}

// BuiltinDefaults returns the defaults used when nothing is configured.
func BuiltinDefaults() Defaults {
	return Defaults{
		GrowthRatePreRetirement:    decimal.NewFromFloat(0.10),
		GrowthRateDuringRetirement: decimal.NewFromFloat(0.05),
		InflationRate:              decimal.NewFromFloat(0.04),
		CapitalGainsTaxRate:        decimal.NewFromFloat(0.20),
		RetirementIncomeTaxRate:    decimal.NewFromFloat(0.25),
		Strategy:                   domain.StrategyFourPercent,
	}
}

// LoadDefaults loads envFiles into the process environment (missing files are skipped,
// no argument means ".env") and reads RPGO_* overrides on top of the built-in defaults.
func LoadDefaults(envFiles ...string) (Defaults, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Defaults{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	builtin := BuiltinDefaults()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("GROWTH_RATE_PRE_RETIREMENT", builtin.GrowthRatePreRetirement.String())
	v.SetDefault("GROWTH_RATE_DURING_RETIREMENT", builtin.GrowthRateDuringRetirement.String())
	v.SetDefault("INFLATION_RATE", builtin.InflationRate.String())
	v.SetDefault("CAPITAL_GAINS_TAX_RATE", builtin.CapitalGainsTaxRate.String())
	v.SetDefault("RETIREMENT_INCOME_TAX_RATE", builtin.RetirementIncomeTaxRate.String())
	v.SetDefault("STRATEGY", string(builtin.Strategy))

	var d Defaults
	rates := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"GROWTH_RATE_PRE_RETIREMENT", &d.GrowthRatePreRetirement},
		{"GROWTH_RATE_DURING_RETIREMENT", &d.GrowthRateDuringRetirement},
		{"INFLATION_RATE", &d.InflationRate},
		{"CAPITAL_GAINS_TAX_RATE", &d.CapitalGainsTaxRate},
		{"RETIREMENT_INCOME_TAX_RATE", &d.RetirementIncomeTaxRate},
	}
	for _, r := range rates {
		raw := v.GetString(r.key)
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return Defaults{}, fmt.Errorf("invalid %s_%s %q: %w", EnvPrefix, r.key, raw, err)
		}
		*r.dst = rate
	}

	raw := v.GetString("STRATEGY")
	st, ok := domain.ParseStrategyType(raw)
	if !ok {
		return Defaults{}, fmt.Errorf("invalid %s_STRATEGY %q", EnvPrefix, raw)
	}
	d.Strategy = st
	return d, nil
}

// Apply fills the settings fields named in the settings YAML block that were not
// given. present reports which keys appeared in the file; nil means "treat zero
// values as missing", which is what in-process callers get.
func (d Defaults) Apply(s *domain.CalculatorSettings, present map[string]bool) {
	missing := func(key string, zero bool) bool {
		if present != nil {
			return !present[key]
		}
		return zero
	}
	if missing("growth_rate_pre_retirement", s.GrowthRatePreRetirement.IsZero()) {
		s.GrowthRatePreRetirement = d.GrowthRatePreRetirement
	}
	if missing("growth_rate_during_retirement", s.GrowthRateDuringRetirement.IsZero()) {
		s.GrowthRateDuringRetirement = d.GrowthRateDuringRetirement
	}
	if missing("inflation_rate", s.InflationRate.IsZero()) {
		s.InflationRate = d.InflationRate
	}
	if missing("capital_gains_tax_rate", s.CapitalGainsTaxRate.IsZero()) {
		s.CapitalGainsTaxRate = d.CapitalGainsTaxRate
	}
	if missing("retirement_income_tax_rate", s.RetirementIncomeTaxRate.IsZero()) {
		s.RetirementIncomeTaxRate = d.RetirementIncomeTaxRate
	}
	if s.Strategy == "" {
		s.Strategy = d.Strategy
	}
}
