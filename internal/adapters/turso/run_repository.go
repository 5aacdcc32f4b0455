package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/emiliopalmerini/expconv/internal/domain"
	"github.com/emiliopalmerini/expconv/internal/ports"
	"github.com/emiliopalmerini/expconv/internal/util"
)

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, input_path, output_path, record_count, total_tokens, average_tokens,
	output_bytes, context_budget, percent_used, recommended_batch, started_at, finished_at`

// DBTX is the subset of *sql.DB the repository uses.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type RunRepository struct {
	db DBTX
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Create(ctx context.Context, run *domain.ConversionRun) error {
	s := run.Stats

	var batch *int64
	if s.RecommendedBatch > 0 {
		b := int64(s.RecommendedBatch)
		batch = &b
	}

	_, err := WithRetry(ctx, maxStreamRetries, func() (sql.Result, error) {
		return r.db.ExecContext(ctx, `INSERT INTO conversion_runs (`+runColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.InputPath,
			run.OutputPath,
			s.RecordCount,
			s.TotalTokens,
			s.AverageTokens,
			s.OutputBytes,
			s.ContextBudget,
			s.PercentUsed,
			util.NullInt64(batch),
			run.StartedAt.UTC().Format(timestampLayout),
			run.FinishedAt.UTC().Format(timestampLayout),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to create conversion run: %w", err)
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.ConversionRun, error) {
	runs, err := r.queryRuns(ctx, `SELECT `+runColumns+` FROM conversion_runs WHERE id = ? LIMIT 1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion run: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

func (r *RunRepository) List(ctx context.Context, opts ports.ListRunsOptions) ([]*domain.ConversionRun, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = 20
	}

	var (
		where []string
		args  []any
	)
	if opts.InputPath != nil {
		where = append(where, "input_path = ?")
		args = append(args, *opts.InputPath)
	}

	query := `SELECT ` + runColumns + ` FROM conversion_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY finished_at DESC LIMIT ?"
	args = append(args, limit)

	runs, err := r.queryRuns(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion runs: %w", err)
	}
	return runs, nil
}

// DeleteBefore removes runs that finished before the given time.
func (r *RunRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := WithRetry(ctx, maxStreamRetries, func() (sql.Result, error) {
		return r.db.ExecContext(ctx, `DELETE FROM conversion_runs WHERE finished_at < ?`, before.UTC().Format(timestampLayout))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversion runs: %w", err)
	}
	return res.RowsAffected()
}

// queryRuns runs query and scans every row, retrying the whole read when the
// Turso stream goes stale.
func (r *RunRepository) queryRuns(ctx context.Context, query string, args ...any) ([]*domain.ConversionRun, error) {
	return WithRetry(ctx, maxStreamRetries, func() ([]*domain.ConversionRun, error) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer func() { _ = rows.Close() }()

		var runs []*domain.ConversionRun
		for rows.Next() {
			run, err := scanRun(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan conversion run: %w", err)
			}
			runs = append(runs, run)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return runs, nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.ConversionRun, error) {
	var (
		run                 domain.ConversionRun
		batch               sql.NullInt64
		startedAt, finished string
	)
	err := s.Scan(
		&run.ID,
		&run.InputPath,
		&run.OutputPath,
		&run.Stats.RecordCount,
		&run.Stats.TotalTokens,
		&run.Stats.AverageTokens,
		&run.Stats.OutputBytes,
		&run.Stats.ContextBudget,
		&run.Stats.PercentUsed,
		&batch,
		&startedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}

	if batch.Valid {
		run.Stats.RecommendedBatch = int(batch.Int64)
	}
	run.Stats.OverBudget = run.Stats.TotalTokens > run.Stats.ContextBudget
	run.StartedAt = util.ParseTimeRFC3339(startedAt)
	run.FinishedAt = util.ParseTimeRFC3339(finished)
	return &run, nil
}
