package cli

import (
	"fmt"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/spf13/cobra"
)

func newCompareCommand(opts *options) *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "compare <scenario-file>",
		Short: "Run one scenario under every withdrawal strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategies, err := parseStrategies(names)
			if err != nil {
				return err
			}
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
			cmp, err := engine.CompareSelected(cmd.Context(), sc.Name, cfg.Input(sc), strategies)
			if err != nil {
				return err
			}
			if err := opts.persist(cmd.Context(), []domain.ScenarioResult{*base}); err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), &domain.Report{
				Title:   fmt.Sprintf("Strategy comparison for %s", sc.Name),
				Results: []domain.ScenarioResult{*base},
				Compare: cmp,
			})
		},
	}
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "scenario name or id (default: first)")
	cmd.Flags().StringSliceVar(&names, "strategies", nil, "comma separated strategies to compare (default: all)")
	return cmd
}

func parseStrategies(names []string) ([]domain.StrategyType, error) {
	if len(names) == 0 {
		return domain.AllStrategyTypes, nil
	}
	out := make([]domain.StrategyType, 0, len(names))
	for _, n := range names {
		st, ok := domain.ParseStrategyType(n)
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", n)
		}
		out = append(out, st)
	}
	return out, nil
}
