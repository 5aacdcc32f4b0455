package otel

import (
	"context"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/expconv/internal/domain"
)

const (
	serviceName    = "expconv"
	serviceVersion = "1.0.0"
)

// Exporter exports conversion run metrics to an OTEL Collector.
type Exporter struct {
	provider     *sdkmetric.MeterProvider
	runsTotal    metric.Int64Counter
	recordsTotal metric.Int64Counter
	tokensTotal  metric.Int64Counter
	outputHist   metric.Int64Histogram
	usageHist    metric.Float64Histogram
	durationHist metric.Float64Histogram
}

// NewExporter creates an exporter that pushes to the configured OTLP gRPC endpoint.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Active() {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	return NewExporterWithReader(ctx, sdkmetric.NewPeriodicReader(exp))
}

// NewExporterWithReader creates an exporter whose metrics are collected by reader.
func NewExporterWithReader(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	e := &Exporter{provider: provider}

	if e.runsTotal, err = meter.Int64Counter(
		"expconv_runs_total",
		metric.WithDescription("Total number of conversion runs"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	if e.recordsTotal, err = meter.Int64Counter(
		"expconv_records_total",
		metric.WithDescription("Total experiment records converted"),
		metric.WithUnit("{record}"),
	); err != nil {
		return nil, fmt.Errorf("creating records counter: %w", err)
	}

	if e.tokensTotal, err = meter.Int64Counter(
		"expconv_tokens_total",
		metric.WithDescription("Total estimated tokens across converted records"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("creating tokens counter: %w", err)
	}

	if e.outputHist, err = meter.Int64Histogram(
		"expconv_output_bytes",
		metric.WithDescription("Size of the written JSON document"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("creating output histogram: %w", err)
	}

	if e.usageHist, err = meter.Float64Histogram(
		"expconv_context_usage_percent",
		metric.WithDescription("Share of the context budget used by a run"),
		metric.WithUnit("%"),
	); err != nil {
		return nil, fmt.Errorf("creating usage histogram: %w", err)
	}

	if e.durationHist, err = meter.Float64Histogram(
		"expconv_run_duration_seconds",
		metric.WithDescription("Conversion run duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return e, nil
}

// ExportRunMetrics records the metrics of a completed run.
func (e *Exporter) ExportRunMetrics(ctx context.Context, run *domain.ConversionRun) error {
	s := run.Stats
	opt := metric.WithAttributes(
		attribute.String("input", filepath.Base(run.InputPath)),
		attribute.Bool("over_budget", s.OverBudget),
	)

	e.runsTotal.Add(ctx, 1, opt)
	e.recordsTotal.Add(ctx, int64(s.RecordCount), opt)
	e.tokensTotal.Add(ctx, int64(s.TotalTokens), opt)
	e.outputHist.Record(ctx, s.OutputBytes, opt)
	e.usageHist.Record(ctx, s.PercentUsed, opt)
	e.durationHist.Record(ctx, run.Duration().Seconds(), opt)

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
