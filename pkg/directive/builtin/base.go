package builtin

import (
	"strings"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// BaseValidator provides common functionality for builtin validators
type BaseValidator struct {
	DirectiveName        string
	DirectiveDescription string
}

func (b *BaseValidator) Name() string        { return b.DirectiveName }
func (b *BaseValidator) Description() string { return b.DirectiveDescription }

func stringValue(v dml.Value) (string, error) {
	s, err := v.AsString()
	if err != nil {
		return "", directive.Errorf(directive.CodeTypeMismatch, "%v", err)
	}
	return s, nil
}

func intValue(v dml.Value) (int, error) {
	n, err := v.AsInt()
	if err != nil {
		return 0, directive.Errorf(directive.CodeTypeMismatch, "%v", err)
	}
	return n, nil
}

// constantValue accepts a bare identifier from the allowed set
func constantValue(v dml.Value, allowed ...string) (string, error) {
	c, err := v.AsConstant()
	if err != nil {
		return "", directive.Errorf(directive.CodeTypeMismatch, "%v", err)
	}
	for _, a := range allowed {
		if c == a {
			return c, nil
		}
	}
	return "", directive.Errorf(directive.CodeInvalidArgument, "must be one of %s, got %s", strings.Join(allowed, ", "), c)
}

// isRelation reports whether the field points at another model
func isRelation(field *dml.Field, args directive.Args) bool {
	return args.Schema != nil && args.Schema.IsModel(field.Type)
}

// hasDirective reports whether the field itself carries the named directive
func hasDirective(field *dml.Field, name string) bool {
	for _, d := range field.Directives {
		if d.Name == name {
			return true
		}
	}
	return false
}
