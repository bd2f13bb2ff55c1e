package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// UniqueValidator handles @unique
type UniqueValidator struct {
	BaseValidator
}

// NewUniqueValidator creates a @unique validator
func NewUniqueValidator() *UniqueValidator {
	return &UniqueValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "unique",
			DirectiveDescription: "Requires every value of the field to be distinct",
		},
	}
}

func (v *UniqueValidator) Validate(field *dml.Field, args directive.Args) error {
	if err := args.Only(); err != nil {
		return err
	}
	if field.IsList() {
		return directive.Errorf(directive.CodeInvalidTarget, "list fields cannot be unique")
	}
	if isRelation(field, args) {
		return directive.Errorf(directive.CodeInvalidTarget, "relation fields cannot be unique")
	}
	return nil
}

func (v *UniqueValidator) Enrich(field *dml.Field, args directive.Args) {
	field.IsUnique = true
}
