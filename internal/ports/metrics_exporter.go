package ports

import (
	"context"

	"github.com/emiliopalmerini/expconv/internal/domain"
)

// MetricsExporter exports run metrics to an external observability system.
type MetricsExporter interface {
	// ExportRunMetrics exports the statistics of a completed run.
	ExportRunMetrics(ctx context.Context, run *domain.ConversionRun) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
