package turso

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/expconv/internal/domain"
	"github.com/emiliopalmerini/expconv/internal/migrate"
	"github.com/emiliopalmerini/expconv/internal/ports"
)

// flakyDB fails the first failures calls of each kind with a stale stream error.
type flakyDB struct {
	db         *sql.DB
	failures   int
	execCalls  int
	queryCalls int
}

var errStaleStream = errors.New("hrana: stream not found")

func (f *flakyDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execCalls++
	if f.execCalls <= f.failures {
		return nil, errStaleStream
	}
	return f.db.ExecContext(ctx, query, args...)
}

func (f *flakyDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	f.queryCalls++
	if f.queryCalls <= f.failures {
		return nil, errStaleStream
	}
	return f.db.QueryContext(ctx, query, args...)
}

func newFlakyRepo(t *testing.T, failures int) (*RunRepository, *flakyDB) {
	t.Helper()

	db, err := NewLocalDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrate.RunAll(context.Background(), db))

	flaky := &flakyDB{db: db, failures: failures}
	return &RunRepository{db: flaky}, flaky
}

func testRun(finished time.Time) *domain.ConversionRun {
	stats := domain.ComputeStatistics(2, 100, 512, domain.DefaultContextBudget)
	return domain.NewConversionRun("a.csv", "a.json", stats, finished.Add(-time.Second), finished)
}

func TestRunRepository_RetriesStaleStreams(t *testing.T) {
	ctx := context.Background()
	finished := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	t.Run("create", func(t *testing.T) {
		repo, flaky := newFlakyRepo(t, maxStreamRetries)
		require.NoError(t, repo.Create(ctx, testRun(finished)))
		assert.Equal(t, maxStreamRetries+1, flaky.execCalls)
	})

	t.Run("get by id", func(t *testing.T) {
		repo, flaky := newFlakyRepo(t, 0)
		run := testRun(finished)
		require.NoError(t, repo.Create(ctx, run))

		flaky.failures, flaky.queryCalls = maxStreamRetries, 0
		got, err := repo.GetByID(ctx, run.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, maxStreamRetries+1, flaky.queryCalls)
	})

	t.Run("list", func(t *testing.T) {
		repo, flaky := newFlakyRepo(t, 0)
		require.NoError(t, repo.Create(ctx, testRun(finished)))

		flaky.failures, flaky.queryCalls = 1, 0
		runs, err := repo.List(ctx, ports.ListRunsOptions{})
		require.NoError(t, err)
		assert.Len(t, runs, 1)
		assert.Equal(t, 2, flaky.queryCalls)
	})

	t.Run("delete before", func(t *testing.T) {
		repo, flaky := newFlakyRepo(t, 0)
		require.NoError(t, repo.Create(ctx, testRun(finished)))

		flaky.failures, flaky.execCalls = maxStreamRetries, 0
		n, err := repo.DeleteBefore(ctx, finished.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, maxStreamRetries+1, flaky.execCalls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		repo, flaky := newFlakyRepo(t, maxStreamRetries+1)

		_, err := repo.DeleteBefore(ctx, finished)
		require.Error(t, err)
		assert.ErrorIs(t, err, errStaleStream)
		assert.Equal(t, maxStreamRetries+1, flaky.execCalls)
	})
}
