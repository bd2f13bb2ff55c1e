package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// SequenceValidator handles @sequence(name, initialValue?, allocationSize?)
type SequenceValidator struct {
	BaseValidator
}

// NewSequenceValidator creates a @sequence validator
func NewSequenceValidator() *SequenceValidator {
	return &SequenceValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "sequence",
			DirectiveDescription: "Backs an Int field with a database sequence",
		},
	}
}

func (v *SequenceValidator) Validate(field *dml.Field, args directive.Args) error {
	if _, err := v.parse(args); err != nil {
		return err
	}
	if field.Type != dml.TypeInt {
		return directive.Errorf(directive.CodeTypeMismatch, "sequence needs an Int field, not %s", field.Type)
	}
	if field.IsList() {
		return directive.Errorf(directive.CodeInvalidTarget, "sequence cannot back a list")
	}
	return nil
}

func (v *SequenceValidator) Enrich(field *dml.Field, args directive.Args) {
	if seq, err := v.parse(args); err == nil {
		field.Sequence = seq
	}
}

func (v *SequenceValidator) parse(args directive.Args) (*dml.Sequence, error) {
	if err := args.Only("name", "initialValue", "allocationSize"); err != nil {
		return nil, err
	}

	value, err := args.Require("name", 0)
	if err != nil {
		return nil, err
	}
	name, err := stringValue(value)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, directive.Errorf(directive.CodeInvalidArgument, "name must not be empty")
	}

	seq := &dml.Sequence{Name: name, InitialValue: 1, AllocationSize: 1}

	if value, ok := args.Value("initialValue", 1); ok {
		if seq.InitialValue, err = intValue(value); err != nil {
			return nil, err
		}
	}

	if value, ok := args.Value("allocationSize", 2); ok {
		if seq.AllocationSize, err = intValue(value); err != nil {
			return nil, err
		}
		if seq.AllocationSize <= 0 {
			return nil, directive.Errorf(directive.CodeInvalidArgument, "allocationSize must be positive, got %d", seq.AllocationSize)
		}
	}

	return seq, nil
}
