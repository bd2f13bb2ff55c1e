package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/directive/builtin"
	"github.com/platinummonkey/dml/pkg/dml"
	"github.com/platinummonkey/dml/pkg/dml/parser"
	"github.com/platinummonkey/dml/pkg/observability"
)

const validSchema = `
model User @db("users") {
  id    Int    @primary
  email String @unique
  role  Role   @default(ADMIN)
}
enum Role { ADMIN USER }
`

const brokenSchema = `
model A @madeup {
  x Int @unique(1) @zzz
}
model B @embedded {
  id Int @primary
}
enum E @db("e") { X }
`

func parse(t *testing.T, src string) *dml.Datamodel {
	t.Helper()
	dm, err := parser.ParseString(src)
	require.NoError(t, err)
	return dm
}

func TestValidate_Valid(t *testing.T) {
	v := NewValidator(builtin.NewCatalog(), nil)

	result, err := v.Validate(context.Background(), parse(t, validSchema))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, map[string]int{"model": 1, "field": 3, "enum": 1}, result.Nodes)

	user := result.Datamodel.FindModel("User")
	assert.Equal(t, "users", user.DatabaseName)
	assert.True(t, user.FindField("id").IsID)
	assert.True(t, user.FindField("email").IsUnique)
}

func TestValidate_ErrorOrder(t *testing.T) {
	v := NewValidator(builtin.NewCatalog(), nil)

	result, err := v.Validate(context.Background(), parse(t, brokenSchema))
	require.NoError(t, err)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 5)

	got := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		got[i] = fmt.Sprintf("%s %s @%s %s", e.Kind, e.Node, e.Directive, e.Code)
	}
	assert.Equal(t, []string{
		"model A @madeup unknown_directive",
		"field A.x @unique unexpected_argument",
		"field A.x @zzz unknown_directive",
		"model B @embedded conflict",
		"enum E @db unknown_directive",
	}, got)

	var errs directive.Errors
	require.True(t, errors.As(result.Err(), &errs))
	assert.Len(t, errs, 5)

	// B.id is valid on its own and is still enriched
	assert.True(t, result.Datamodel.FindModel("B").FindField("id").IsID)
	assert.False(t, result.Datamodel.FindModel("B").IsEmbedded)
}

func TestValidate_FailFast(t *testing.T) {
	for _, concurrency := range []int{1, 8} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			config := DefaultConfig()
			config.Validation.FailFast = true
			config.Validation.Concurrency = concurrency
			v := NewValidator(builtin.NewCatalog(), config)

			dm := parse(t, brokenSchema)
			result, err := v.Validate(context.Background(), dm)
			require.NoError(t, err)

			require.Len(t, result.Errors, 1)
			assert.Equal(t, "madeup", result.Errors[0].Directive)
			assert.Equal(t, map[string]int{"model": 1}, result.Nodes)
			assert.False(t, dm.FindModel("B").FindField("id").IsID, "nodes after the failure are not visited")
		})
	}
}

// largeSchema builds n models mixing valid and invalid directives
func largeSchema(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "model M%d @db(\"m%d\") {\n", i, i)
		fmt.Fprintf(&sb, "  id Int @primary @sequence(\"seq_%d\")\n", i)
		if i%3 == 0 {
			sb.WriteString("  name String @unique @default(1)\n")
		} else {
			sb.WriteString("  name String @unique @default(\"x\")\n")
		}
		if i > 0 {
			fmt.Fprintf(&sb, "  prev M%d? @relation(references: [id]) @onDelete(SET_NULL)\n", i-1)
		}
		if i%7 == 0 {
			sb.WriteString("  bad Int @madeup\n")
		}
		sb.WriteString("}\n")
	}
	sb.WriteString("enum Color { RED GREEN }\n")
	return sb.String()
}

func TestValidate_ConcurrentMatchesSequential(t *testing.T) {
	src := largeSchema(60)

	sequential := NewValidator(builtin.NewCatalog(), DefaultConfig())
	dm1 := parse(t, src)
	r1, err := sequential.Validate(context.Background(), dm1)
	require.NoError(t, err)

	config := DefaultConfig()
	config.Validation.Concurrency = 8
	parallel := NewValidator(builtin.NewCatalog(), config)
	dm2 := parse(t, src)
	r2, err := parallel.Validate(context.Background(), dm2)
	require.NoError(t, err)

	assert.NotEmpty(t, r1.Errors)
	assert.Equal(t, r1.Errors, r2.Errors)
	assert.Equal(t, r1.Nodes, r2.Nodes)

	s1, err := json.Marshal(dm1)
	require.NoError(t, err)
	s2, err := json.Marshal(dm2)
	require.NoError(t, err)
	assert.JSONEq(t, string(s1), string(s2))
}

func TestValidate_Idempotent(t *testing.T) {
	v := NewValidator(builtin.NewCatalog(), nil)
	dm := parse(t, brokenSchema+validSchema)

	first, err := v.Validate(context.Background(), dm)
	require.NoError(t, err)
	state1, err := json.Marshal(dm)
	require.NoError(t, err)

	second, err := v.Validate(context.Background(), dm)
	require.NoError(t, err)
	state2, err := json.Marshal(dm)
	require.NoError(t, err)

	assert.Equal(t, first.Errors, second.Errors)
	assert.JSONEq(t, string(state1), string(state2))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestValidate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, concurrency := range []int{1, 4} {
		config := DefaultConfig()
		config.Validation.Concurrency = concurrency
		v := NewValidator(builtin.NewCatalog(), config)

		result, err := v.Validate(ctx, parse(t, validSchema))
		assert.Nil(t, result)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestValidate_Telemetry(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	var logs bytes.Buffer
	logger := observability.NewLogger(observability.InfoLevel, &logs)

	v := NewValidator(builtin.NewCatalog(), nil,
		WithTracer(tp.Tracer("test")),
		WithMetrics(metrics),
		WithLogger(logger),
	)

	_, err := v.Validate(context.Background(), parse(t, validSchema))
	require.NoError(t, err)
	_, err = v.Validate(context.Background(), parse(t, brokenSchema))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "dml.validate", spans[0].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Contains(t, spans[1].Attributes, attribute.Int("dml.errors", 5))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ValidationRunsTotal.WithLabelValues(StatusValid)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ValidationRunsTotal.WithLabelValues(StatusInvalid)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.DirectiveErrorsTotal.WithLabelValues("field", "zzz", "unknown_directive"))+
		testutil.ToFloat64(metrics.DirectiveErrorsTotal.WithLabelValues("model", "madeup", "unknown_directive")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ValidatedNodesTotal.WithLabelValues("enum")))

	assert.Contains(t, logs.String(), "Datamodel validated")
	assert.Contains(t, logs.String(), "Datamodel has directive errors")
	assert.Contains(t, logs.String(), spans[1].SpanContext.TraceID().String())
}

func TestValidateSource(t *testing.T) {
	v := NewValidator(builtin.NewCatalog(), nil)

	result, err := v.ValidateSource(context.Background(), validSchema)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, err = v.ValidateSource(context.Background(), "model {")
	var se *parser.SyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestValidate_EmptyCatalog(t *testing.T) {
	v := NewValidator(directive.NewCatalog(), nil)

	result, err := v.Validate(context.Background(), parse(t, validSchema))
	require.NoError(t, err)

	for _, e := range result.Errors {
		assert.Equal(t, directive.CodeUnknownDirective, e.Code)
	}
	assert.Len(t, result.Errors, 4)
	assert.Same(t, v.Catalog(), v.catalog)
}
