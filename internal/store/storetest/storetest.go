// Package storetest holds the behaviour every store.ProjectionStore must show.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rpgo/withdrawal-planner/internal/calculation"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Projection returns a real ledger for a small household, lasting until lifeExpectancy.
func Projection(t *testing.T, lifeExpectancy int, strategy domain.StrategyType) []domain.ProjectionDetail {
	t.Helper()
	in := domain.ProjectionInput{
		Household: domain.Household{PrimaryBirthYear: 1960, LifeExpectancy: lifeExpectancy},
		Accounts: []domain.Account{
			{ID: "ira", Name: "IRA", Type: domain.AccountIRA, Balance: decimal.NewFromInt(400000)},
			{ID: "roth", Name: "Roth", Type: domain.AccountRoth, Balance: decimal.NewFromInt(60000)},
		},
		Expenses: []domain.Expense{
			{Name: "Rent", MonthlyBefore65: decimal.NewFromInt(2500), MonthlyAfter65: decimal.NewFromInt(2500)},
		},
		Settings: domain.CalculatorSettings{
			CurrentYear:                2024,
			RetirementAge:              65,
			GrowthRatePreRetirement:    decimal.NewFromFloat(0.06),
			GrowthRateDuringRetirement: decimal.NewFromFloat(0.04),
			InflationRate:              decimal.NewFromFloat(0.03),
			Strategy:                   strategy,
		},
	}
	rows, err := calculation.NewProjectionEngine().Project(context.Background(), in)
	require.NoError(t, err)
	return rows
}

func assertSameRows(t *testing.T, expected, actual []domain.ProjectionDetail) {
	t.Helper()
	e, err := json.Marshal(expected)
	require.NoError(t, err)
	a, err := json.Marshal(actual)
	require.NoError(t, err)
	assert.JSONEq(t, string(e), string(a))
}

// Run exercises a fresh store from newStore against the ProjectionStore contract.
func Run(t *testing.T, newStore func(t *testing.T) store.ProjectionStore) {
	ctx := context.Background()

	t.Run("unknown scenario", func(t *testing.T) {
		s := newStore(t)
		_, err := s.LoadProjection(ctx, "missing")
		assert.True(t, errors.Is(err, store.ErrNotFound))
		assert.True(t, errors.Is(s.DeleteProjection(ctx, "missing"), store.ErrNotFound))
	})

	t.Run("save and load", func(t *testing.T) {
		s := newStore(t)
		rows := Projection(t, 90, domain.StrategyFourPercent)

		run, err := s.ReplaceProjection(ctx, "base", rows)
		require.NoError(t, err)
		assert.Equal(t, "base", run.ScenarioID)
		assert.Equal(t, len(rows), run.Years)
		assert.NotEmpty(t, run.ID)
		assert.False(t, run.SavedAt.IsZero())

		loaded, err := s.LoadProjection(ctx, "base")
		require.NoError(t, err)
		assertSameRows(t, rows, loaded)
	})

	t.Run("replacement is idempotent", func(t *testing.T) {
		s := newStore(t)
		long := Projection(t, 95, domain.StrategyFourPercent)
		short := Projection(t, 85, domain.StrategyBucket)

		_, err := s.ReplaceProjection(ctx, "base", long)
		require.NoError(t, err)
		_, err = s.ReplaceProjection(ctx, "base", short)
		require.NoError(t, err)
		loaded, err := s.LoadProjection(ctx, "base")
		require.NoError(t, err)
		require.Len(t, loaded, len(short), "no rows of the first save may survive")
		assertSameRows(t, short, loaded)

		_, err = s.ReplaceProjection(ctx, "base", short)
		require.NoError(t, err)
		again, err := s.LoadProjection(ctx, "base")
		require.NoError(t, err)
		assertSameRows(t, loaded, again)

		runs, err := s.ListRuns(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, len(short), runs[0].Years)
	})

	t.Run("scenarios are independent", func(t *testing.T) {
		s := newStore(t)
		a := Projection(t, 90, domain.StrategyGuardrails)
		b := Projection(t, 88, domain.StrategyProportional)
		_, err := s.ReplaceProjection(ctx, "b", b)
		require.NoError(t, err)
		_, err = s.ReplaceProjection(ctx, "a", a)
		require.NoError(t, err)
		_, err = s.ReplaceProjection(ctx, "a", a[:3])
		require.NoError(t, err)

		loaded, err := s.LoadProjection(ctx, "b")
		require.NoError(t, err)
		assertSameRows(t, b, loaded)

		runs, err := s.ListRuns(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "a", runs[0].ScenarioID)
		assert.Equal(t, 3, runs[0].Years)
		assert.Equal(t, "b", runs[1].ScenarioID)

		require.NoError(t, s.DeleteProjection(ctx, "a"))
		_, err = s.LoadProjection(ctx, "a")
		assert.True(t, errors.Is(err, store.ErrNotFound))
		_, err = s.LoadProjection(ctx, "b")
		assert.NoError(t, err)
	})

	t.Run("stored rows are copies", func(t *testing.T) {
		s := newStore(t)
		rows := Projection(t, 90, domain.StrategyFourPercent)
		want := store.CloneRows(rows)
		_, err := s.ReplaceProjection(ctx, "base", rows)
		require.NoError(t, err)

		rows[0].Accounts[0].Closing = decimal.NewFromInt(-1)
		rows[1].NetWorth = decimal.NewFromInt(-1)

		loaded, err := s.LoadProjection(ctx, "base")
		require.NoError(t, err)
		assertSameRows(t, want, loaded)
	})

	t.Run("empty projection", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ReplaceProjection(ctx, "base", Projection(t, 90, domain.StrategyFourPercent))
		require.NoError(t, err)
		run, err := s.ReplaceProjection(ctx, "base", nil)
		require.NoError(t, err)
		assert.Zero(t, run.Years)

		loaded, err := s.LoadProjection(ctx, "base")
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("scenario id required", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ReplaceProjection(ctx, "", nil)
		assert.Error(t, err)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := newStore(t)
		rows := Projection(t, 90, domain.StrategyFourPercent)
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < 8; i++ {
			g.Go(func() error {
				_, err := s.ReplaceProjection(gctx, fmt.Sprintf("s%d", i%4), rows[:10+i])
				return err
			})
		}
		require.NoError(t, g.Wait())

		runs, err := s.ListRuns(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 4)
		for _, r := range runs {
			loaded, err := s.LoadProjection(ctx, r.ScenarioID)
			require.NoError(t, err)
			assert.Len(t, loaded, r.Years, "rows match the last replacement of %s", r.ScenarioID)
		}
	})
}
