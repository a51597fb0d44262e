package cli

import (
	"fmt"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project <scenario-file>",
		Short: "Project every scenario of a file year by year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfiguration(args[0])
			if err != nil {
				return err
			}
			engine := opts.engine()

			var results []domain.ScenarioResult
			if opts.scenario != "" {
				sc, err := opts.pickScenario(cfg)
				if err != nil {
					return err
				}
				r, err := engine.RunScenario(cmd.Context(), cfg, sc)
				if err != nil {
					return err
				}
				results = []domain.ScenarioResult{*r}
			} else if results, err = engine.RunScenarios(cmd.Context(), cfg); err != nil {
				return err
			}

			if err := opts.persist(cmd.Context(), results); err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), &domain.Report{
				Title:   fmt.Sprintf("Projection of %s", args[0]),
				Results: results,
			})
		},
	}
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "only run the scenario with this name or id")
	return cmd
}
