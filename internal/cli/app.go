package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/expconv/internal/adapters/otel"
	"github.com/emiliopalmerini/expconv/internal/adapters/turso"
	"github.com/emiliopalmerini/expconv/internal/domain"
	"github.com/emiliopalmerini/expconv/internal/infrastructure/config"
	"github.com/emiliopalmerini/expconv/internal/migrate"
	"github.com/emiliopalmerini/expconv/internal/ports"
)

// AppContext holds the shared dependencies of a command invocation.
type AppContext struct {
	Config *config.Config
	Logger *slog.Logger
}

// NewAppContext loads configuration and builds the logger for cmd.
func NewAppContext(cmd *cobra.Command) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	return &AppContext{
		Config: cfg,
		Logger: newLogger(cmd.ErrOrStderr(), verbose),
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenHistory connects to the history database and applies pending migrations.
func (a *AppContext) OpenHistory(ctx context.Context) (*sql.DB, ports.RunRepository, error) {
	db, err := a.openHistoryDB()
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, turso.NewRunRepository(db), nil
}

func (a *AppContext) openHistoryDB() (*sql.DB, error) {
	db, err := turso.Open(a.Config.History.DB, a.Config.History.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	return db, nil
}

// MetricsExporter returns the OTEL exporter when enabled, falling back to a
// no-op exporter when it is disabled or cannot be created.
func (a *AppContext) MetricsExporter(ctx context.Context) ports.MetricsExporter {
	cfg := otel.Config{
		Endpoint: a.Config.OTEL.Endpoint,
		Enabled:  a.Config.OTEL.Enabled,
		Insecure: a.Config.OTEL.Insecure,
	}
	if !cfg.Active() {
		return otel.NewNoOpExporter()
	}

	exp, err := otel.NewExporter(ctx, cfg)
	if err != nil {
		a.Logger.Warn("metrics exporter unavailable", "endpoint", cfg.Endpoint, "error", err)
		return otel.NewNoOpExporter()
	}
	return exp
}

func (a *AppContext) shutdownTimeout() time.Duration {
	if t := a.Config.OTEL.ShutdownTimeout; t > 0 {
		return t
	}
	return 5 * time.Second
}

// RecordRun saves run to the history database. Failures are logged only.
func (a *AppContext) RecordRun(ctx context.Context, run *domain.ConversionRun) {
	db, repo, err := a.OpenHistory(ctx)
	if err != nil {
		a.Logger.Warn("run not recorded", "error", err)
		return
	}
	defer func() { _ = db.Close() }()

	if err := repo.Create(ctx, run); err != nil {
		a.Logger.Warn("run not recorded", "id", run.ID, "error", err)
		return
	}
	a.Logger.Debug("recorded run", "id", run.ID, "db", a.Config.History.DB)
}

// ExportMetrics pushes run metrics. Failures are logged only. The final flush
// is bounded by the OTEL shutdown timeout so an unreachable collector cannot
// hold the command open.
func (a *AppContext) ExportMetrics(ctx context.Context, run *domain.ConversionRun) {
	exp := a.MetricsExporter(ctx)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout())
		defer cancel()
		if err := exp.Close(shutdownCtx); err != nil {
			a.Logger.Warn("failed to flush metrics", "error", err)
		}
	}()

	if err := exp.ExportRunMetrics(ctx, run); err != nil {
		a.Logger.Warn("failed to export metrics", "id", run.ID, "error", err)
	}
}
