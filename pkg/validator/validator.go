package validator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
	"github.com/platinummonkey/dml/pkg/dml/parser"
	"github.com/platinummonkey/dml/pkg/observability"
)

const (
	StatusValid    = "valid"
	StatusInvalid  = "invalid"
	StatusCanceled = "canceled"
)

// Result is the outcome of one validation run
type Result struct {
	RunID     uuid.UUID        `json:"runId"`
	Datamodel *dml.Datamodel   `json:"datamodel"`
	Errors    directive.Errors `json:"errors"`
	Valid     bool             `json:"valid"`
	Duration  time.Duration    `json:"duration"`
	Nodes     map[string]int   `json:"nodes"`
}

// Err returns the directive errors as an error, or nil when valid
func (r *Result) Err() error {
	return r.Errors.Err()
}

// Validator runs a directive catalog over whole datamodels
type Validator struct {
	catalog     *directive.Catalog
	config      *Config
	logger      *observability.Logger
	metrics     *observability.Metrics
	otelMetrics *observability.OTelMetrics
	tracer      trace.Tracer
}

// Option configures a Validator
type Option func(*Validator)

// WithLogger sets the logger used for run summaries
func WithLogger(logger *observability.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// WithMetrics records runs in Prometheus
func WithMetrics(metrics *observability.Metrics) Option {
	return func(v *Validator) { v.metrics = metrics }
}

// WithOTelMetrics records runs as OpenTelemetry metrics
func WithOTelMetrics(metrics *observability.OTelMetrics) Option {
	return func(v *Validator) { v.otelMetrics = metrics }
}

// WithTracer sets the tracer; the global dml tracer is used by default
func WithTracer(tracer trace.Tracer) Option {
	return func(v *Validator) { v.tracer = tracer }
}

// NewValidator creates a validator for the given catalog.
// A nil config means DefaultConfig.
func NewValidator(catalog *directive.Catalog, config *Config, opts ...Option) *Validator {
	if config == nil {
		config = DefaultConfig()
	}

	v := &Validator{
		catalog: catalog,
		config:  config,
		logger:  observability.NewLogger(observability.InfoLevel, io.Discard),
		tracer:  observability.Tracer(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Catalog returns the catalog the validator runs
func (v *Validator) Catalog() *directive.Catalog {
	return v.catalog
}

// Validate checks every directive in dm and enriches the nodes whose
// directives are valid. Models come first, each followed by its fields,
// then enums; errors are reported in that order.
//
// The returned error is only non-nil when ctx is canceled; directive
// problems are reported in Result.Errors.
func (v *Validator) Validate(ctx context.Context, dm *dml.Datamodel) (*Result, error) {
	start := time.Now()
	runID := uuid.New()

	ctx, span := v.tracer.Start(ctx, "dml.validate", trace.WithAttributes(
		attribute.String("dml.run_id", runID.String()),
		attribute.Int("dml.models", len(dm.Models)),
		attribute.Int("dml.enums", len(dm.Enums)),
	))
	defer span.End()

	schema := dml.NewSnapshot(dm)
	nodes := dm.Nodes()

	var (
		perNode []directive.Errors
		err     error
	)
	if workers := v.config.workers(); workers > 1 {
		perNode, err = v.validateParallel(ctx, nodes, schema, workers)
	} else {
		perNode, err = v.validateSequential(ctx, nodes, schema)
	}

	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation canceled")
		v.metrics.RecordValidation(StatusCanceled, duration)
		v.otelMetrics.RecordValidation(ctx, StatusCanceled, duration)
		return nil, fmt.Errorf("validation canceled: %w", err)
	}

	result := &Result{
		RunID:     runID,
		Datamodel: dm,
		Duration:  duration,
		Nodes:     make(map[string]int),
	}
	for i, errs := range perNode {
		result.Nodes[nodes[i].Kind().String()]++
		result.Errors = append(result.Errors, errs...)
	}
	result.Valid = len(result.Errors) == 0

	v.record(ctx, span, result)
	return result, nil
}

// ValidateSource parses src and validates the result. Syntax errors are
// returned as *parser.SyntaxError.
func (v *Validator) ValidateSource(ctx context.Context, src string) (*Result, error) {
	dm, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	return v.Validate(ctx, dm)
}

// validateSequential returns one entry per visited node. With FailFast it
// stops after the first node that has errors.
func (v *Validator) validateSequential(ctx context.Context, nodes []dml.Node, schema *dml.Snapshot) ([]directive.Errors, error) {
	out := make([]directive.Errors, 0, len(nodes))
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		errs := v.catalog.ValidateNode(node, schema)
		out = append(out, errs)
		if v.config.Validation.FailFast && len(errs) > 0 {
			break
		}
	}
	return out, nil
}

// validateParallel validates nodes on a bounded pool. Each node only reads
// the snapshot and writes its own enrichment state.
func (v *Validator) validateParallel(ctx context.Context, nodes []dml.Node, schema *dml.Snapshot, workers int) ([]directive.Errors, error) {
	out := make([]directive.Errors, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = v.catalog.ValidateNode(node, schema)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Validator) record(ctx context.Context, span trace.Span, result *Result) {
	status := StatusValid
	if !result.Valid {
		status = StatusInvalid
	}

	for kind, n := range result.Nodes {
		v.metrics.RecordNodes(kind, n)
	}
	for _, e := range result.Errors {
		v.metrics.RecordDirectiveError(e.Kind, e.Directive, string(e.Code))
		v.otelMetrics.RecordDirectiveError(ctx, e.Kind, e.Directive, string(e.Code))
	}
	v.metrics.RecordValidation(status, result.Duration)
	v.otelMetrics.RecordValidation(ctx, status, result.Duration)

	span.SetAttributes(
		attribute.Int("dml.errors", len(result.Errors)),
		attribute.Bool("dml.valid", result.Valid),
	)
	if !result.Valid {
		span.SetStatus(codes.Error, fmt.Sprintf("%d directive errors", len(result.Errors)))
	}

	logger := observability.UpdateLoggerWithTraceContext(ctx, v.logger).WithFields(map[string]interface{}{
		"run_id":      result.RunID.String(),
		"valid":       result.Valid,
		"errors":      len(result.Errors),
		"duration_ms": result.Duration.Milliseconds(),
	})
	if result.Valid {
		logger.Info("Datamodel validated")
		return
	}
	logger.Warn("Datamodel has directive errors")
	for _, e := range result.Errors {
		logger.WithFields(map[string]interface{}{
			"directive": e.Directive,
			"node":      e.Node,
			"code":      string(e.Code),
		}).Debug(e.Message)
	}
}
