package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// OnDeleteValidator handles @onDelete(action)
type OnDeleteValidator struct {
	BaseValidator
}

// NewOnDeleteValidator creates an @onDelete validator
func NewOnDeleteValidator() *OnDeleteValidator {
	return &OnDeleteValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "onDelete",
			DirectiveDescription: "Chooses what happens to related records on delete",
		},
	}
}

func (v *OnDeleteValidator) Validate(field *dml.Field, args directive.Args) error {
	action, err := v.parse(args)
	if err != nil {
		return err
	}
	if !isRelation(field, args) {
		return directive.Errorf(directive.CodeInvalidTarget, "field type %s is not a model", field.Type)
	}
	if action == dml.OnDeleteSetNull && !field.IsOptional() {
		return directive.Errorf(directive.CodeConflict, "SET_NULL needs an optional field")
	}
	return nil
}

func (v *OnDeleteValidator) Enrich(field *dml.Field, args directive.Args) {
	if action, err := v.parse(args); err == nil {
		field.OnDelete = action
	}
}

func (v *OnDeleteValidator) parse(args directive.Args) (dml.OnDeleteStrategy, error) {
	if err := args.Only("action"); err != nil {
		return "", err
	}
	value, err := args.Require("action", 0)
	if err != nil {
		return "", err
	}
	action, err := constantValue(value, string(dml.OnDeleteCascade), string(dml.OnDeleteSetNull))
	if err != nil {
		return "", err
	}
	return dml.OnDeleteStrategy(action), nil
}
