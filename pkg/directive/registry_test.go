package directive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/dml/pkg/dml"
)

// Mock validator for testing
type mockValidator struct {
	name     string
	err      error
	enriched *[]string
}

func (m *mockValidator) Name() string {
	return m.name
}

func (m *mockValidator) Validate(node *dml.Field, args Args) error {
	return m.err
}

func (m *mockValidator) Enrich(node *dml.Field, args Args) {
	if m.enriched != nil {
		*m.enriched = append(*m.enriched, m.name)
	}
	node.DatabaseName = m.name
}

// Validator without an Enrich method
type checkOnly struct {
	name string
}

func (c checkOnly) Name() string                              { return c.name }
func (c checkOnly) Validate(node *dml.Field, args Args) error { return nil }

type modelValidator struct{ name string }

func (m modelValidator) Name() string                              { return m.name }
func (m modelValidator) Validate(node *dml.Model, args Args) error { return nil }

type enumValidator struct{ name string }

func (e enumValidator) Name() string                             { return e.name }
func (e enumValidator) Validate(node *dml.Enum, args Args) error { return nil }

func testField(directives ...string) *dml.Field {
	f := &dml.Field{Name: "email", Type: dml.TypeString, Model: "User", Pos: dml.Position{Line: 2, Column: 3}}
	for i, name := range directives {
		f.Directives = append(f.Directives, &dml.Directive{
			Name: name,
			Pos:  dml.Position{Line: 2, Column: 16 + i*10},
		})
	}
	return f
}

func emptySnapshot() *dml.Snapshot {
	return dml.NewSnapshot(&dml.Datamodel{})
}

func requireDuplicatePanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.True(t, errors.Is(err, ErrDuplicateDirective))
	}()
	fn()
}

func TestNewListValidator(t *testing.T) {
	list := NewListValidator[*dml.Field](dml.KindField)

	assert.NotNil(t, list)
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, dml.KindField, list.Kind())
	assert.Empty(t, list.Names())
}

func TestListValidator_Add(t *testing.T) {
	list := NewListValidator[*dml.Field](dml.KindField).
		Add(&mockValidator{name: "unique"}).
		Add(checkOnly{name: "db"})

	assert.Equal(t, 2, list.Len())
	assert.Equal(t, []string{"db", "unique"}, list.Names())

	v, ok := list.Lookup("unique")
	assert.True(t, ok)
	assert.Equal(t, "unique", v.Name())

	_, ok = list.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestListValidator_AddDuplicatePanics(t *testing.T) {
	t.Run("field", func(t *testing.T) {
		list := NewListValidator[*dml.Field](dml.KindField).Add(checkOnly{name: "db"})
		requireDuplicatePanic(t, func() { list.Add(&mockValidator{name: "db"}) })
		assert.Equal(t, 1, list.Len())
	})

	t.Run("model", func(t *testing.T) {
		list := NewListValidator[*dml.Model](dml.KindModel).Add(modelValidator{name: "embedded"})
		requireDuplicatePanic(t, func() { list.Add(modelValidator{name: "embedded"}) })
	})

	t.Run("enum", func(t *testing.T) {
		list := NewListValidator[*dml.Enum](dml.KindEnum).Add(enumValidator{name: "x"})
		requireDuplicatePanic(t, func() { list.Add(enumValidator{name: "x"}) })
	})
}

func TestListValidator_UnknownDirective(t *testing.T) {
	var enriched []string
	list := NewListValidator[*dml.Field](dml.KindField).
		Add(&mockValidator{name: "unique", enriched: &enriched})

	field := testField("madeup")
	errs := list.Validate(field, emptySnapshot())

	require.Len(t, errs, 1)
	assert.Equal(t, CodeUnknownDirective, errs[0].Code)
	assert.Equal(t, "madeup", errs[0].Directive)
	assert.Equal(t, "User.email", errs[0].Node)
	assert.Equal(t, "field", errs[0].Kind)
	assert.Equal(t, field.Directives[0].Pos, errs[0].Pos)
	assert.Contains(t, errs[0].Error(), "madeup")
	assert.Empty(t, enriched)
	assert.Empty(t, field.DatabaseName)
}

func TestListValidator_FailSlow(t *testing.T) {
	var enriched []string
	list := NewListValidator[*dml.Field](dml.KindField).
		Add(&mockValidator{name: "a", enriched: &enriched}).
		Add(&mockValidator{name: "b", err: errors.New("b is broken"), enriched: &enriched}).
		Add(&mockValidator{name: "c", enriched: &enriched})

	field := testField("a", "b", "madeup", "c")
	errs := list.Validate(field, emptySnapshot())

	require.Len(t, errs, 2)
	assert.Equal(t, "b", errs[0].Directive)
	assert.Equal(t, "madeup", errs[1].Directive)
	assert.Equal(t, []string{"a", "c"}, enriched)
	assert.Equal(t, "c", field.DatabaseName)
}

func TestListValidator_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
		wantMsg  string
	}{
		{"plain error", errors.New("bad value"), CodeInvalidArgument, "bad value"},
		{"coded error", Errorf(CodeTypeMismatch, "wrong type %s", "Int"), CodeTypeMismatch, "wrong type Int"},
		{"wrapped coded error", fmt.Errorf("outer: %w", Errorf(CodeConflict, "clash")), CodeConflict, "clash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewListValidator[*dml.Field](dml.KindField).Add(&mockValidator{name: "x", err: tt.err})

			errs := list.Validate(testField("x"), emptySnapshot())

			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantCode, errs[0].Code)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
			assert.Equal(t, "x", errs[0].Directive)
		})
	}
}

func TestListValidator_SharedErrorNotMutated(t *testing.T) {
	shared := Errorf(CodeInvalidArgument, "shared")
	list := NewListValidator[*dml.Field](dml.KindField).Add(&mockValidator{name: "x", err: shared})

	errs := list.Validate(testField("x"), emptySnapshot())

	require.Len(t, errs, 1)
	assert.Empty(t, shared.Directive)
	assert.Empty(t, shared.Node)
}

func TestListValidator_EmptyRegistry(t *testing.T) {
	list := NewListValidator[*dml.Enum](dml.KindEnum)
	enum := &dml.Enum{
		Name: "Role",
		Directives: []*dml.Directive{
			{Name: "db"},
			{Name: "anything"},
		},
	}

	errs := list.Validate(enum, emptySnapshot())

	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, CodeUnknownDirective, e.Code)
		assert.Equal(t, "enum", e.Kind)
		assert.Equal(t, "Role", e.Node)
	}
}

func TestListValidator_NoDirectives(t *testing.T) {
	list := NewListValidator[*dml.Field](dml.KindField).Add(&mockValidator{name: "x"})

	errs := list.Validate(testField(), emptySnapshot())

	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestListValidator_EnricherOptional(t *testing.T) {
	list := NewListValidator[*dml.Field](dml.KindField).Add(checkOnly{name: "db"})
	field := testField("db")

	errs := list.Validate(field, emptySnapshot())

	assert.Empty(t, errs)
	assert.Empty(t, field.DatabaseName)
}

func TestListValidator_Idempotent(t *testing.T) {
	list := NewListValidator[*dml.Field](dml.KindField).
		Add(&mockValidator{name: "a"}).
		Add(&mockValidator{name: "b", err: errors.New("nope")})

	field := testField("a", "b", "madeup")
	first := list.Validate(field, emptySnapshot())
	stateAfterFirst := *field

	second := list.Validate(field, emptySnapshot())

	assert.Equal(t, first, second)
	assert.Equal(t, stateAfterFirst, *field)
}

func TestListValidator_RegistrationOrderIndependent(t *testing.T) {
	validators := func() []Validator[*dml.Field] {
		return []Validator[*dml.Field]{
			&mockValidator{name: "a"},
			&mockValidator{name: "b", err: Errorf(CodeConflict, "b fails")},
			checkOnly{name: "c"},
		}
	}

	forward := NewListValidator[*dml.Field](dml.KindField)
	for _, v := range validators() {
		forward.Add(v)
	}
	backward := NewListValidator[*dml.Field](dml.KindField)
	vs := validators()
	for i := len(vs) - 1; i >= 0; i-- {
		backward.Add(vs[i])
	}

	f1 := testField("c", "b", "a", "zzz")
	f2 := testField("c", "b", "a", "zzz")

	assert.Equal(t, forward.Validate(f1, emptySnapshot()), backward.Validate(f2, emptySnapshot()))
	assert.Equal(t, *f1, *f2)
	assert.Equal(t, forward.Names(), backward.Names())
}

func TestErrors(t *testing.T) {
	var none Errors
	assert.NoError(t, none.Err())
	assert.Equal(t, "", none.Error())

	one := Errors{{Code: CodeUnknownDirective, Directive: "madeup", Kind: "field", Node: "User.email", Message: "unknown directive @madeup", Pos: dml.Position{Line: 2, Column: 16}}}
	assert.Equal(t, "2:16: @madeup on field User.email: unknown directive @madeup", one.Error())
	assert.Error(t, one.Err())

	two := append(one, &Error{Code: CodeConflict, Message: "clash"})
	assert.Contains(t, two.Error(), "2 directive errors")
	assert.Equal(t, []Code{CodeUnknownDirective, CodeConflict}, two.Codes())

	var target Errors
	assert.True(t, errors.As(two.Err(), &target))
	assert.Len(t, target, 2)
}

// schemaReader resolves the field type through the snapshot
type schemaReader struct{ sawSchema *bool }

func (s schemaReader) Name() string { return "target" }
func (s schemaReader) Validate(node *dml.Field, args Args) error {
	*s.sawSchema = args.Schema != nil
	if !args.Schema.IsModel(node.Type) {
		return Errorf(CodeInvalidTarget, "%s is not a model", node.Type)
	}
	return nil
}

func TestListValidator_NilSchema(t *testing.T) {
	var sawSchema bool
	list := NewListValidator[*dml.Field](dml.KindField).Add(schemaReader{sawSchema: &sawSchema})

	var errs Errors
	require.NotPanics(t, func() { errs = list.Validate(testField("target"), nil) })
	assert.True(t, sawSchema)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidTarget, errs[0].Code)
}
