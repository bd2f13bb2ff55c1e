package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// PrimaryValidator handles @primary(strategy?), which marks a field as the
// model's identifier
type PrimaryValidator struct {
	BaseValidator
}

// NewPrimaryValidator creates a @primary validator
func NewPrimaryValidator() *PrimaryValidator {
	return &PrimaryValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "primary",
			DirectiveDescription: "Marks the field as the primary identifier",
		},
	}
}

func (v *PrimaryValidator) Validate(field *dml.Field, args directive.Args) error {
	strategy, err := v.parse(args)
	if err != nil {
		return err
	}

	if field.Arity != dml.Required {
		return directive.Errorf(directive.CodeInvalidTarget, "primary field must be required, not %s", field.Arity)
	}

	switch field.Type {
	case dml.TypeID, dml.TypeInt, dml.TypeString:
	default:
		return directive.Errorf(directive.CodeTypeMismatch, "primary field must be ID, Int or String, not %s", field.Type)
	}

	if strategy == dml.IDStrategySequence {
		if field.Type != dml.TypeInt {
			return directive.Errorf(directive.CodeTypeMismatch, "strategy SEQUENCE needs an Int field, not %s", field.Type)
		}
		if !hasDirective(field, "sequence") {
			return directive.Errorf(directive.CodeMissingArgument, "strategy SEQUENCE needs a @sequence directive on the field")
		}
	}

	return nil
}

func (v *PrimaryValidator) Enrich(field *dml.Field, args directive.Args) {
	if strategy, err := v.parse(args); err == nil {
		field.IsID = true
		field.IDStrategy = strategy
	}
}

func (v *PrimaryValidator) parse(args directive.Args) (dml.IDStrategy, error) {
	if err := args.Only("strategy"); err != nil {
		return "", err
	}
	value, ok := args.Value("strategy", 0)
	if !ok {
		return dml.IDStrategyAuto, nil
	}
	s, err := constantValue(value,
		string(dml.IDStrategyAuto),
		string(dml.IDStrategyNone),
		string(dml.IDStrategySequence),
	)
	if err != nil {
		return "", err
	}
	return dml.IDStrategy(s), nil
}
