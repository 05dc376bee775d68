package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/sonarlens/api/schemas"
)

func testRun() ExportRun {
	return ExportRun{
		ID:           uuid.New(),
		Organization: "my-org",
		Project:      "my-project",
		Total:        2,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testIssues() []schemas.Issue {
	return []schemas.Issue{
		{Key: "k1", Rule: "java:S106", Severity: schemas.SeverityMajor, Type: schemas.TypeCodeSmell, FileName: "a.go"},
		{Key: "k2", Rule: "java:S107", Severity: schemas.SeverityInfo, Type: schemas.TypeBug, FileName: "b.go"},
	}
}

var issueColumns = []string{"key", "run_id", "rule", "rule_name", "severity", "type", "status", "component", "file_name", "line", "message", "author", "tags", "is_hotspot", "creation_date", "update_date"}

func TestNewStore(t *testing.T) {
	t.Run("returns error if ping fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		pingErr := errors.New("database unavailable")
		mockPool.ExpectPing().WillReturnError(pingErr)

		_, err = New(context.Background(), mockPool, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, pingErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestSaveExport(t *testing.T) {
	ctx := context.Background()

	t.Run("persists run row and issues in one transaction", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing()
		s, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		run := testRun()
		issues := testIssues()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
			WithArgs(run.ID, run.Organization, run.Project, run.Total, run.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"issues"}, issueColumns).WillReturnResult(int64(len(issues)))
		mockPool.ExpectCommit()

		require.NoError(t, s.SaveExport(ctx, run, issues))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("skips the copy for an empty issue set", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing()
		s, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		run := testRun()
		run.Total = 0

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
			WithArgs(run.ID, run.Organization, run.Project, run.Total, run.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		require.NoError(t, s.SaveExport(ctx, run, nil))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("rolls back when the copy fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing()
		s, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		run := testRun()
		copyErr := errors.New("copy failed")

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
			WithArgs(run.ID, run.Organization, run.Project, run.Total, run.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"issues"}, issueColumns).WillReturnError(copyErr)
		mockPool.ExpectRollback()

		err = s.SaveExport(ctx, run, testIssues())
		require.Error(t, err)
		assert.ErrorIs(t, err, copyErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("reports a copy-count mismatch", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing()
		s, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		run := testRun()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
			WithArgs(run.ID, run.Organization, run.Project, run.Total, run.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"issues"}, issueColumns).WillReturnResult(1)
		mockPool.ExpectRollback()

		err = s.SaveExport(ctx, run, testIssues())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mismatch")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
