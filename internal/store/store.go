// Package store persists projection ledgers per scenario. A scenario's rows are always
// replaced as a whole: saving twice leaves exactly the second set of rows.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rpgo/withdrawal-planner/internal/domain"
)

// ErrNotFound is returned when a scenario has never been saved.
var ErrNotFound = errors.New("projection not found")

// Run describes the projection currently stored for a scenario.
type Run struct {
	ID         string    `json:"id"`
	ScenarioID string    `json:"scenario_id"`
	Years      int       `json:"years"`
	SavedAt    time.Time `json:"saved_at"`
}

// ProjectionStore is implemented by Memory and sqlite.Store.
type ProjectionStore interface {
	// ReplaceProjection deletes every stored row for scenarioID and inserts rows, atomically.
	ReplaceProjection(ctx context.Context, scenarioID string, rows []domain.ProjectionDetail) (Run, error)
	LoadProjection(ctx context.Context, scenarioID string) ([]domain.ProjectionDetail, error)
	ListRuns(ctx context.Context) ([]Run, error)
	DeleteProjection(ctx context.Context, scenarioID string) error
	Close() error
}

// CloneRows deep-copies a projection so stored rows share nothing with the caller.
func CloneRows(rows []domain.ProjectionDetail) []domain.ProjectionDetail {
	out := make([]domain.ProjectionDetail, len(rows))
	for i, r := range rows {
		r.Accounts = append([]domain.AccountSnapshot(nil), r.Accounts...)
		out[i] = r
	}
	return out
}
