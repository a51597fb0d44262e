package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CompareStrategies projects the same input once per strategy, concurrently, and returns
// the results in domain.AllStrategyTypes order.
func (pe *ProjectionEngine) CompareStrategies(ctx context.Context, name string, in domain.ProjectionInput) (*domain.StrategyComparison, error) {
	return pe.CompareSelected(ctx, name, in, domain.AllStrategyTypes)
}

// CompareSelected is CompareStrategies restricted to the given strategies.
func (pe *ProjectionEngine) CompareSelected(ctx context.Context, name string, in domain.ProjectionInput, strategies []domain.StrategyType) (*domain.StrategyComparison, error) {
	results := make([]domain.ScenarioResult, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, st := range strategies {
		g.Go(func() error {
			worker := &ProjectionEngine{Debug: pe.Debug, Logger: withPrefix(pe.logger(), string(st))}
			variant := cloneInput(in).WithStrategy(st)
			projection, err := worker.Project(gctx, variant)
			if err != nil {
				return fmt.Errorf("strategy %s: %w", st, err)
			}
			summary := Summarize(projection, variant.Settings)
			summary.Name = name
			results[i] = domain.ScenarioResult{
				Scenario:   domain.Scenario{Name: name, Settings: variant.Settings},
				Summary:    summary,
				Projection: projection,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.StrategyComparison{
		ScenarioName: name,
		Results:      results,
		Best:         bestResult(results),
	}, nil
}

// cloneInput copies the slices of in so that concurrent runs share nothing mutable.
func cloneInput(in domain.ProjectionInput) domain.ProjectionInput {
	out := in
	out.Accounts = append([]domain.Account(nil), in.Accounts...)
	out.Expenses = append([]domain.Expense(nil), in.Expenses...)
	out.OtherIncomes = append([]domain.OtherIncome(nil), in.OtherIncomes...)
	return out
}
