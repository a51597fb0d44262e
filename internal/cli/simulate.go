package cli

import (
	"fmt"

	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSimulateCommand(opts *options) *cobra.Command {
	var (
		runs       int
		seed       int64
		volatility float64
		workers    int
		historical string
	)
	cmd := &cobra.Command{
		Use:   "simulate <scenario-file>",
		Short: "Rerun a scenario under randomly sampled market returns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfiguration(args[0])
			if err != nil {
				return err
			}
			sc, err := opts.pickScenario(cfg)
			if err != nil {
				return err
			}
			engine := opts.engine()
			base, err := engine.RunScenario(cmd.Context(), cfg, sc)
			if err != nil {
				return err
			}
			config := calculation.MonteCarloConfig{
				Volatility: decimal.NewFromFloat(volatility),
				Seed:       seed,
				Workers:    workers,
			}
			if historical != "" {
				if config.Historical, err = calculation.LoadHistoricalReturns(historical); err != nil {
					return err
				}
				for _, issue := range config.Historical.ValidateDataQuality() {
					logging.Get().Warn("historical data", zap.String("issue", issue))
				}
			}
			sim := calculation.NewMonteCarloSimulator(engine, config)
			mc, err := sim.Run(cmd.Context(), cfg.Input(sc), runs)
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), &domain.Report{
				Title:     fmt.Sprintf("Monte Carlo simulation for %s", sc.Name),
				Results:   []domain.ScenarioResult{*base},
				Simulated: mc,
			})
		},
	}
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "scenario name or id (default: first)")
	cmd.Flags().IntVarP(&runs, "runs", "n", 1000, "number of simulations")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed of the first simulation (0 picks one)")
	cmd.Flags().Float64Var(&volatility, "volatility", calculation.DefaultVolatility.InexactFloat64(), "annual return standard deviation")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel simulations (0 uses every CPU)")
	cmd.Flags().StringVar(&historical, "historical", "", "Year,Return CSV to bootstrap returns from instead of normal draws")
	return cmd
}
