// Package store persists a narrow audit trail of solve runs: the request
// that started them, when they finished, and their final outcome. It is
// not the system of record for Problem/Solution data — callers keep those
// in the request/response cycle — only a run log for later inspection.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/paiban/horario/internal/config"
)

// NewPostgres opens and pings a PostgreSQL connection per cfg.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Run is one row of the runs audit log.
type Run struct {
	ID              uuid.UUID `db:"id"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      *time.Time `db:"finished_at"`
	TeacherCount    int       `db:"teacher_count"`
	GroupCount      int       `db:"group_count"`
	RoomCount       int       `db:"room_count"`
	EventCount      int       `db:"event_count"`
	State           string    `db:"state"`
	Iterations      int       `db:"iterations"`
	HardConflicts   int       `db:"hard_conflicts"`
	SoftPenalty     float64   `db:"soft_penalty"`
	Quality         float64   `db:"quality"`
	SolutionJSON    []byte    `db:"solution_json"`
}

// Schema is the DDL for the runs table, applied by operators out of band
// (there is no migration runner here).
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             UUID PRIMARY KEY,
	started_at     TIMESTAMPTZ NOT NULL,
	finished_at    TIMESTAMPTZ,
	teacher_count  INT NOT NULL,
	group_count    INT NOT NULL,
	room_count     INT NOT NULL,
	event_count    INT NOT NULL,
	state          TEXT NOT NULL,
	iterations     INT NOT NULL DEFAULT 0,
	hard_conflicts INT NOT NULL DEFAULT 0,
	soft_penalty   DOUBLE PRECISION NOT NULL DEFAULT 0,
	quality        DOUBLE PRECISION NOT NULL DEFAULT 0,
	solution_json  JSONB
)`

// RunStore records the lifecycle of solve runs.
type RunStore struct {
	db *sqlx.DB
}

// NewRunStore constructs a RunStore over an already-opened connection.
func NewRunStore(db *sqlx.DB) *RunStore {
	return &RunStore{db: db}
}

// StartRun inserts a new row marking a run's start.
func (s *RunStore) StartRun(ctx context.Context, runID uuid.UUID, teachers, groups, rooms, events int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, teacher_count, group_count, room_count, event_count, state)
		VALUES ($1, $2, $3, $4, $5, $6, 'running')`,
		runID, time.Now().UTC(), teachers, groups, rooms, events)
	return err
}

// FinishRun updates a run's row with its terminal outcome.
func (s *RunStore) FinishRun(ctx context.Context, runID uuid.UUID, state string, iterations, hardConflicts int, softPenalty, quality float64, solutionJSON []byte) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = $2, state = $3, iterations = $4, hard_conflicts = $5, soft_penalty = $6, quality = $7, solution_json = $8
		WHERE id = $1`,
		runID, time.Now().UTC(), state, iterations, hardConflicts, softPenalty, quality, solutionJSON)
	return err
}

// Get fetches a run by ID.
func (s *RunStore) Get(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = $1`, runID)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecent returns the most recently started runs, newest first.
func (s *RunStore) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	return runs, err
}
