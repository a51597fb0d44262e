/*
Package sqlite provides a SQLite-backed store.ProjectionStore.

TABLES:

	projection_runs: one row per scenario, describing the stored ledger
	projection_rows: one row per scenario and year; detail_json holds the full record,
	                 the scalar columns are there for ad-hoc SQL

REPLACEMENT:

	ReplaceProjection deletes every row of the scenario and inserts the new ledger inside
	a single transaction, so readers see either the old or the new projection.

CONCURRENCY:

	Uses sync.RWMutex for writers. The database is opened in WAL mode so readers do not
	block each other.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rpgo/withdrawal-planner/internal/domain"
	"github.com/rpgo/withdrawal-planner/internal/store"
)

// Store implements store.ProjectionStore using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var _ store.ProjectionStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projection_runs (
		scenario_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		years INTEGER NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projection_rows (
		scenario_id TEXT NOT NULL REFERENCES projection_runs(scenario_id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		age INTEGER NOT NULL,
		total_income TEXT NOT NULL,
		tax_paid TEXT NOT NULL,
		net_worth TEXT NOT NULL,
		detail_json TEXT NOT NULL,
		PRIMARY KEY (scenario_id, year)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceProjection deletes the scenario's rows and inserts rows in one transaction.
func (s *Store) ReplaceProjection(ctx context.Context, scenarioID string, rows []domain.ProjectionDetail) (store.Run, error) {
	if scenarioID == "" {
		return store.Run{}, fmt.Errorf("scenario id is required")
	}
	run := store.Run{ID: uuid.NewString(), ScenarioID: scenarioID, Years: len(rows), SavedAt: s.now().UTC().Truncate(time.Second)}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Run{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projection_rows WHERE scenario_id = ?`, scenarioID); err != nil {
		return store.Run{}, fmt.Errorf("failed to delete rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO projection_runs (scenario_id, run_id, years, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(scenario_id) DO UPDATE SET run_id = excluded.run_id, years = excluded.years, saved_at = excluded.saved_at
	`, scenarioID, run.ID, run.Years, run.SavedAt.Format(time.RFC3339)); err != nil {
		return store.Run{}, fmt.Errorf("failed to record run: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO projection_rows (scenario_id, year, age, total_income, tax_paid, net_worth, detail_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return store.Run{}, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	for _, r := range rows {
		detail, err := json.Marshal(r)
		if err != nil {
			return store.Run{}, fmt.Errorf("failed to encode %d: %w", r.Year, err)
		}
		if _, err := insert.ExecContext(ctx, scenarioID, r.Year, r.Age,
			r.TotalIncome.String(), r.TaxPaid.String(), r.NetWorth.String(), string(detail)); err != nil {
			return store.Run{}, fmt.Errorf("failed to insert %d: %w", r.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.Run{}, fmt.Errorf("failed to commit: %w", err)
	}
	return run, nil
}

// LoadProjection returns the stored rows for scenarioID in year order.
func (s *Store) LoadProjection(ctx context.Context, scenarioID string) ([]domain.ProjectionDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var years int
	err := s.db.QueryRowContext(ctx, `SELECT years FROM projection_runs WHERE scenario_id = ?`, scenarioID).Scan(&years)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scenario %q: %w", scenarioID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT detail_json FROM projection_rows WHERE scenario_id = ? ORDER BY year ASC
	`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	projection := make([]domain.ProjectionDetail, 0, years)
	for rows.Next() {
		var detail string
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var pd domain.ProjectionDetail
		if err := json.Unmarshal([]byte(detail), &pd); err != nil {
			return nil, fmt.Errorf("failed to decode row: %w", err)
		}
		projection = append(projection, pd)
	}
	return projection, rows.Err()
}

// ListRuns returns the stored runs ordered by scenario id.
func (s *Store) ListRuns(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT scenario_id, run_id, years, saved_at FROM projection_runs ORDER BY scenario_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var r store.Run
		var savedAt string
		if err := rows.Scan(&r.ScenarioID, &r.ID, &r.Years, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.SavedAt, err = time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse saved_at %q: %w", savedAt, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteProjection removes a scenario and its rows.
func (s *Store) DeleteProjection(ctx context.Context, scenarioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM projection_runs WHERE scenario_id = ?`, scenarioID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scenario %q: %w", scenarioID, store.ErrNotFound)
	}
	return nil
}
