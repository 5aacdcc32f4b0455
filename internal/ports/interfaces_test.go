package ports_test

import (
	"testing"

	"github.com/emiliopalmerini/expconv/internal/adapters/otel"
	"github.com/emiliopalmerini/expconv/internal/adapters/turso"
	"github.com/emiliopalmerini/expconv/internal/ports"
)

// Compile-time interface conformance checks.
// These verify that concrete adapters properly implement their port interfaces.

func TestRunRepositoryConformance(t *testing.T) {
	var _ ports.RunRepository = (*turso.RunRepository)(nil)
}

func TestMetricsExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.Exporter)(nil)
	var _ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
}
