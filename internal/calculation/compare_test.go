package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareStrategies(t *testing.T) {
	in := householdInput()
	cmp, err := NewProjectionEngine().CompareStrategies(context.Background(), "household", in)
	require.NoError(t, err)

	assert.Equal(t, "household", cmp.ScenarioName)
	require.Len(t, cmp.Results, len(domain.AllStrategyTypes))
	for i, r := range cmp.Results {
		st := domain.AllStrategyTypes[i]
		assert.Equal(t, st, r.Summary.Strategy)
		assert.Equal(t, st, r.Scenario.Settings.Strategy)
		assert.Equal(t, "household", r.Summary.Name)
		assert.Len(t, r.Projection, in.Household.FinalYear()-in.Settings.CurrentYear+1)
	}
	assert.Contains(t, domain.AllStrategyTypes, cmp.Best)
	assert.Equal(t, domain.StrategyBracketTopping, in.Settings.Strategy, "input left untouched")
}

func TestCompareMatchesSequentialRuns(t *testing.T) {
	in := householdInput()
	strategies := []domain.StrategyType{domain.StrategyGuardrails, domain.StrategyFourPercent}
	cmp, err := NewProjectionEngine().CompareSelected(context.Background(), "pair", in, strategies)
	require.NoError(t, err)
	require.Len(t, cmp.Results, 2)

	for i, st := range strategies {
		sequential, err := json.Marshal(project(t, in.WithStrategy(st)))
		require.NoError(t, err)
		concurrent, err := json.Marshal(cmp.Results[i].Projection)
		require.NoError(t, err)
		assert.JSONEq(t, string(sequential), string(concurrent), st)
	}
}

type syncLogger struct {
	NopLogger
	mu    sync.Mutex
	lines []string
}

func (l *syncLogger) Debugf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func TestCompareTagsLogLinesWithStrategy(t *testing.T) {
	log := &syncLogger{}
	pe := NewProjectionEngine()
	pe.SetLogger(log)

	_, err := pe.CompareSelected(context.Background(), "tagged", exampleInput(), []domain.StrategyType{domain.StrategySWP})
	require.NoError(t, err)
	require.NotEmpty(t, log.lines)
	for _, line := range log.lines {
		assert.Contains(t, line, "[swp] ")
	}
}

func TestCompareStopsOnError(t *testing.T) {
	in := exampleInput()
	in.Settings.RetirementAge = 30

	_, err := NewProjectionEngine().CompareStrategies(context.Background(), "bad", in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCompareHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProjectionEngine().CompareStrategies(ctx, "cancelled", householdInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
