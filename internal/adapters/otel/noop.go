package otel

import (
	"context"

	"github.com/emiliopalmerini/expconv/internal/domain"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportRunMetrics(ctx context.Context, run *domain.ConversionRun) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
