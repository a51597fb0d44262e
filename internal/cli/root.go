// Package cli wires the projection engine, scenario loader, stores and formatters into
// the rpgo command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/config"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/internal/logging"
	"github.com/rpgo/withdrawal-planner/internal/output"
	"github.com/rpgo/withdrawal-planner/internal/store"
	"github.com/rpgo/withdrawal-planner/internal/store/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	logLevel  string
	devLog    bool
	envFile   string
	format    string
	outputDir string
	storePath string
	scenario  string
	debug     bool
}

// NewRootCommand builds the rpgo command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "rpgo",
		Short:         "Retirement withdrawal and tax projections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			return logging.Init(opts.devLog, level)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.devLog, "dev-log", false, "human readable development logging")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with RPGO_* defaults")
	flags.StringVarP(&opts.format, "format", "f", "console", "output format")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "write report files to this directory instead of stdout")
	flags.StringVar(&opts.storePath, "store", "", "SQLite database that keeps the latest projection per scenario")
	flags.BoolVar(&opts.debug, "debug", false, "log every projected year")

	root.AddCommand(
		newProjectCommand(opts),
		newCompareCommand(opts),
		newSimulateCommand(opts),
		newValidateCommand(opts),
		newStrategiesCommand(),
		newExampleCommand(),
		newRunsCommand(opts),
	)
	return root
}

// Execute runs the command tree with the given context.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *options) loadConfiguration(path string) (*domain.Configuration, error) {
	defaults, err := config.LoadDefaults(o.envFile)
	if err != nil {
		return nil, err
	}
	cfg, err := config.NewInputParserWithDefaults(defaults).LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	logging.Get().Info("configuration loaded",
		zap.String("file", path),
		zap.Int("scenarios", len(cfg.Scenarios)),
		zap.Int("accounts", len(cfg.Plan.Accounts)))
	return cfg, nil
}

func (o *options) engine() *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(logging.Sugar())
	engine.Debug = o.debug
	return engine
}

// pickScenario returns the named scenario, or the first one when name is empty.
func (o *options) pickScenario(cfg *domain.Configuration) (domain.Scenario, error) {
	if o.scenario == "" {
		return cfg.Scenarios[0], nil
	}
	for _, s := range cfg.Scenarios {
		if s.Name == o.scenario || s.ID == o.scenario {
			return s, nil
		}
	}
	return domain.Scenario{}, fmt.Errorf("scenario %q not found", o.scenario)
}

func (o *options) openStore() (store.ProjectionStore, error) {
	if o.storePath == "" {
		return nil, nil
	}
	s, err := sqlite.New(o.storePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// persist saves each result under its scenario ID when a store is configured.
func (o *options) persist(ctx context.Context, results []domain.ScenarioResult) error {
	s, err := o.openStore()
	if err != nil || s == nil {
		return err
	}
	defer s.Close()
	for _, r := range results {
		run, err := s.ReplaceProjection(ctx, r.Scenario.ID, r.Projection)
		if err != nil {
			return fmt.Errorf("save scenario %q: %w", r.Scenario.Name, err)
		}
		logging.Get().Info("projection saved",
			zap.String("scenario", r.Scenario.Name),
			zap.String("run", run.ID),
			zap.Int("years", run.Years))
	}
	return nil
}

// emit renders the report to w, or writes files when an output directory is set.
func (o *options) emit(w io.Writer, report *domain.Report) error {
	if o.outputDir != "" {
		paths, err := output.GenerateReport(report, o.format, o.outputDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(w, "wrote %s\n", p)
		}
		return nil
	}
	f, err := output.LookupFormatter(o.format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
