package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the tracer and meter name used across dml
const InstrumentationName = "github.com/platinummonkey/dml"

// OTelMetrics mirrors the validation metrics as OpenTelemetry instruments
// so they reach the OTLP collector alongside traces.
// Record* methods are safe to call on a nil *OTelMetrics.
type OTelMetrics struct {
	validationRuns     metric.Int64Counter
	validationDuration metric.Float64Histogram
	directiveErrors    metric.Int64Counter
	schemaReloads      metric.Int64Counter
}

// NewOTelMetrics creates the instruments on the global meter provider
func NewOTelMetrics() (*OTelMetrics, error) {
	return NewOTelMetricsWithMeter(otel.Meter(InstrumentationName))
}

// NewOTelMetricsWithMeter creates the instruments on the given meter
func NewOTelMetricsWithMeter(meter metric.Meter) (*OTelMetrics, error) {
	m := &OTelMetrics{}
	var err error

	m.validationRuns, err = meter.Int64Counter(
		"dml.validation.runs",
		metric.WithDescription("Total number of datamodel validation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create validation runs counter: %w", err)
	}

	m.validationDuration, err = meter.Float64Histogram(
		"dml.validation.duration",
		metric.WithDescription("Datamodel validation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create validation duration histogram: %w", err)
	}

	m.directiveErrors, err = meter.Int64Counter(
		"dml.directive.errors",
		metric.WithDescription("Total number of directive validation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create directive errors counter: %w", err)
	}

	m.schemaReloads, err = meter.Int64Counter(
		"dml.schema.reloads",
		metric.WithDescription("Total number of schema loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema reloads counter: %w", err)
	}

	return m, nil
}

// RecordValidation records one validation run
func (m *OTelMetrics) RecordValidation(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.validationRuns.Add(ctx, 1, attrs)
	m.validationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDirectiveError records a single directive error
func (m *OTelMetrics) RecordDirectiveError(ctx context.Context, kind, directive, code string) {
	if m == nil {
		return
	}
	m.directiveErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("directive", directive),
		attribute.String("code", code),
	))
}

// RecordSchemaLoad records the outcome of a schema load
func (m *OTelMetrics) RecordSchemaLoad(ctx context.Context, ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	m.schemaReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
