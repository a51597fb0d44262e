package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// Memory is an in-process ProjectionStore for tests and one-shot CLI runs.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]Run
	rows map[string][]domain.ProjectionDetail
	now  func() time.Time
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		runs: make(map[string]Run),
		rows: make(map[string][]domain.ProjectionDetail),
		now:  time.Now,
	}
}

func (m *Memory) ReplaceProjection(ctx context.Context, scenarioID string, rows []domain.ProjectionDetail) (Run, error) {
	if scenarioID == "" {
		return Run{}, fmt.Errorf("scenario id is required")
	}
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	run := Run{ID: uuid.NewString(), ScenarioID: scenarioID, Years: len(rows), SavedAt: m.now().UTC()}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[scenarioID] = run
	m.rows[scenarioID] = CloneRows(rows)
	return run, nil
}

func (m *Memory) LoadProjection(_ context.Context, scenarioID string) ([]domain.ProjectionDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.runs[scenarioID]; !ok {
		return nil, fmt.Errorf("scenario %q: %w", scenarioID, ErrNotFound)
	}
	return CloneRows(m.rows[scenarioID]), nil
}

// ListRuns returns the stored runs ordered by scenario id.
func (m *Memory) ListRuns(_ context.Context) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ScenarioID < runs[j].ScenarioID })
	return runs, nil
}

func (m *Memory) DeleteProjection(_ context.Context, scenarioID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[scenarioID]; !ok {
		return fmt.Errorf("scenario %q: %w", scenarioID, ErrNotFound)
	}
	delete(m.runs, scenarioID)
	delete(m.rows, scenarioID)
	return nil
}

func (m *Memory) Close() error { return nil }
