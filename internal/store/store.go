package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/sonarlens/api/schemas"
)

// DBPool abstracts the pgxpool.Pool so the store can be exercised against a
// mock in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store persists export runs and their issues to PostgreSQL.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// ExportRun describes one completed export operation.
type ExportRun struct {
	ID           uuid.UUID
	Organization string
	Project      string
	Total        int
	CreatedAt    time.Time
}

// New creates a store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const insertRunSQL = `
    INSERT INTO export_runs (id, organization, project, total, created_at)
    VALUES ($1, $2, $3, $4, $5);
`

// SaveExport writes the run row and its issues in a single transaction.
func (s *Store) SaveExport(ctx context.Context, run ExportRun, issues []schemas.Issue) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, insertRunSQL, run.ID, run.Organization, run.Project, run.Total, run.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert export run %s: %w", run.ID, err)
	}

	if len(issues) > 0 {
		if err := s.copyIssues(ctx, tx, run.ID, issues); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("Persisted export run",
		zap.String("run_id", run.ID.String()),
		zap.Int("issues", len(issues)))
	return nil
}

func (s *Store) copyIssues(ctx context.Context, tx pgx.Tx, runID uuid.UUID, issues []schemas.Issue) error {
	rows := make([][]interface{}, len(issues))
	for i, issue := range issues {
		rows[i] = []interface{}{
			issue.Key, runID, issue.Rule, issue.RuleName,
			string(issue.Severity), string(issue.Type), issue.Status,
			issue.Component, issue.FileName, issue.Line,
			issue.Message, issue.Author, issue.Tags, issue.IsHotspot,
			issue.CreationDate, issue.UpdateDate,
		}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"issues"},
		[]string{"key", "run_id", "rule", "rule_name", "severity", "type", "status", "component", "file_name", "line", "message", "author", "tags", "is_hotspot", "creation_date", "update_date"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy issues: %w", err)
	}
	if int(copyCount) != len(issues) {
		return fmt.Errorf("mismatch in copied issue count: expected %d, got %d", len(issues), copyCount)
	}
	return nil
}
