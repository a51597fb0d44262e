package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/config"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario-file>",
		Short: "Check a scenario file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfiguration(args[0])
			if err != nil {
				return err
			}
			assets := domain.SumByType(cfg.Plan.Accounts).Total()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scenario(s), %d account(s), %s, ok\n",
				args[0], len(cfg.Scenarios), len(cfg.Plan.Accounts), output.FormatWhole(assets))
			return nil
		},
	}
}

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the withdrawal strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tNAME")
			for _, st := range domain.AllStrategyTypes {
				s, err := calculation.NewWithdrawalStrategy(st)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", st, s.Name())
			}
			return w.Flush()
		},
	}
}

func newExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example scenario file (stdout without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if len(args) == 1 {
				if err := output.SaveConfiguration(cfg, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
				return nil
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newRunsCommand(opts *options) *cobra.Command {
	var remove string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List or delete the projections kept in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openStore()
			if err != nil {
				return err
			}
			if s == nil {
				return errors.New("--store is required")
			}
			defer s.Close()

			if remove != "" {
				if err := s.DeleteProjection(cmd.Context(), remove); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", remove)
				return nil
			}
			runs, err := s.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tRUN\tYEARS\tSAVED")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ScenarioID, r.ID, r.Years, r.SavedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&remove, "delete", "", "delete the projection of this scenario id")
	return cmd
}
