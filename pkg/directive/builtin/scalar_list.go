package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// ScalarListValidator handles @scalarList(strategy)
type ScalarListValidator struct {
	BaseValidator
}

// NewScalarListValidator creates a @scalarList validator
func NewScalarListValidator() *ScalarListValidator {
	return &ScalarListValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "scalarList",
			DirectiveDescription: "Chooses how a list of scalars is stored",
		},
	}
}

func (v *ScalarListValidator) Validate(field *dml.Field, args directive.Args) error {
	if _, err := v.parse(args); err != nil {
		return err
	}
	if !field.IsList() {
		return directive.Errorf(directive.CodeInvalidTarget, "field must be a list")
	}
	if !dml.IsScalarType(field.Type) && !args.Schema.IsEnum(field.Type) {
		return directive.Errorf(directive.CodeInvalidTarget, "field must be a list of scalars or enums, not %s", field.Type)
	}
	return nil
}

func (v *ScalarListValidator) Enrich(field *dml.Field, args directive.Args) {
	if strategy, err := v.parse(args); err == nil {
		field.ScalarListStrategy = strategy
	}
}

func (v *ScalarListValidator) parse(args directive.Args) (dml.ScalarListStrategy, error) {
	if err := args.Only("strategy"); err != nil {
		return "", err
	}
	value, err := args.Require("strategy", 0)
	if err != nil {
		return "", err
	}
	s, err := constantValue(value, string(dml.ScalarListRelation), string(dml.ScalarListEmbedded))
	if err != nil {
		return "", err
	}
	return dml.ScalarListStrategy(s), nil
}
