package directive

import (
	"fmt"
	"sort"

	"github.com/platinummonkey/dml/pkg/dml"
)

// Validator checks one directive on nodes of kind T
type Validator[T dml.Node] interface {
	Name() string
	Validate(node T, args Args) error
}

// Enricher is implemented by validators that record the directive's
// effect on the node. Enrich only runs after Validate returned nil.
type Enricher[T dml.Node] interface {
	Enrich(node T, args Args)
}

// ListValidator holds the validators for one node kind, keyed by
// directive name. Add is meant for construction time; Validate may be
// called from many goroutines once the list is built.
type ListValidator[T dml.Node] struct {
	kind       dml.NodeKind
	validators map[string]Validator[T]
}

// NewListValidator creates an empty validator list for the given kind
func NewListValidator[T dml.Node](kind dml.NodeKind) *ListValidator[T] {
	return &ListValidator[T]{
		kind:       kind,
		validators: make(map[string]Validator[T]),
	}
}

// Add registers v under v.Name(). Registering a name twice is a
// programming error and panics with ErrDuplicateDirective.
func (l *ListValidator[T]) Add(v Validator[T]) *ListValidator[T] {
	name := v.Name()
	if _, exists := l.validators[name]; exists {
		panic(fmt.Errorf("%w: @%s is already registered for %s", ErrDuplicateDirective, name, l.kind))
	}
	l.validators[name] = v
	return l
}

// Kind returns the node kind this list validates
func (l *ListValidator[T]) Kind() dml.NodeKind {
	return l.kind
}

// Lookup returns the validator registered under name
func (l *ListValidator[T]) Lookup(name string) (Validator[T], bool) {
	v, ok := l.validators[name]
	return v, ok
}

// Names returns the registered directive names, sorted
func (l *ListValidator[T]) Names() []string {
	names := make([]string, 0, len(l.validators))
	for name := range l.validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered validators
func (l *ListValidator[T]) Len() int {
	return len(l.validators)
}

// Validate runs every directive attached to node through its validator.
// All directives are visited; each failing one contributes exactly one
// error and is not enriched. A nil schema is treated as an empty datamodel.
func (l *ListValidator[T]) Validate(node T, schema *dml.Snapshot) Errors {
	if schema == nil {
		schema = dml.NewSnapshot(&dml.Datamodel{})
	}

	var errs Errors

	for _, d := range node.DirectiveList() {
		v, ok := l.validators[d.Name]
		if !ok {
			errs = append(errs, l.annotate(node, d, Errorf(CodeUnknownDirective, "unknown directive @%s", d.Name)))
			continue
		}

		args := Args{Directive: d, Schema: schema}
		if err := v.Validate(node, args); err != nil {
			errs = append(errs, l.annotate(node, d, asError(err)))
			continue
		}

		if e, ok := v.(Enricher[T]); ok {
			e.Enrich(node, args)
		}
	}

	return errs
}

func (l *ListValidator[T]) annotate(node T, d *dml.Directive, e *Error) *Error {
	e.Directive = d.Name
	e.Kind = l.kind.String()
	e.Node = node.Identity()
	if e.Pos.Line == 0 {
		e.Pos = d.Pos
	}
	return e
}
