package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// EmbeddedValidator handles @embedded on models stored inside their parent
type EmbeddedValidator struct {
	BaseValidator
}

// NewEmbeddedValidator creates an @embedded validator
func NewEmbeddedValidator() *EmbeddedValidator {
	return &EmbeddedValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "embedded",
			DirectiveDescription: "Stores the model inside its parent record",
		},
	}
}

func (v *EmbeddedValidator) Validate(model *dml.Model, args directive.Args) error {
	if err := args.Only(); err != nil {
		return err
	}
	shape, ok := args.Schema.Model(model.Name)
	if !ok {
		return nil
	}
	for _, f := range shape.Fields() {
		if f.HasDirective("primary") {
			return directive.Errorf(directive.CodeConflict, "embedded model cannot have a primary field (%s)", f.Name)
		}
	}
	return nil
}

func (v *EmbeddedValidator) Enrich(model *dml.Model, args directive.Args) {
	model.IsEmbedded = true
}
