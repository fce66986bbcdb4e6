package store

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunStoreStartRun(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	s := NewRunStore(db)

	runID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO runs")).
		WithArgs(runID, sqlmock.AnyArg(), 3, 2, 4, 10).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.StartRun(context.Background(), runID, 3, 2, 4, 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStoreFinishRun(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	s := NewRunStore(db)

	runID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE runs")).
		WithArgs(runID, sqlmock.AnyArg(), "finished_ok", 120, 0, 12.5, 87.5, []byte("{}")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.FinishRun(context.Background(), runID, "finished_ok", 120, 0, 12.5, 87.5, []byte("{}"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStoreListRecent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	s := NewRunStore(db)

	rows := sqlmock.NewRows([]string{"id", "started_at", "finished_at", "teacher_count", "group_count", "room_count", "event_count", "state", "iterations", "hard_conflicts", "soft_penalty", "quality", "solution_json"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM runs ORDER BY started_at DESC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	runs, err := s.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}
