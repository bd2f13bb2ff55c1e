package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// RelationValidator handles @relation(name?, references?)
type RelationValidator struct {
	BaseValidator
}

// NewRelationValidator creates a @relation validator
func NewRelationValidator() *RelationValidator {
	return &RelationValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "relation",
			DirectiveDescription: "Names a relation and the fields it references",
		},
	}
}

func (v *RelationValidator) Validate(field *dml.Field, args directive.Args) error {
	info, err := v.parse(field, args)
	if err != nil {
		return err
	}

	target, ok := args.Schema.Model(field.Type)
	if !ok {
		return directive.Errorf(directive.CodeInvalidTarget, "field type %s is not a model", field.Type)
	}
	for _, ref := range info.References {
		if _, ok := target.Field(ref); !ok {
			return directive.Errorf(directive.CodeUnresolvedReference, "model %s has no field %s", target.Name, ref)
		}
	}
	return nil
}

func (v *RelationValidator) Enrich(field *dml.Field, args directive.Args) {
	if info, err := v.parse(field, args); err == nil {
		field.Relation = info
	}
}

func (v *RelationValidator) parse(field *dml.Field, args directive.Args) (*dml.RelationInfo, error) {
	if err := args.Only("name", "references"); err != nil {
		return nil, err
	}

	info := &dml.RelationInfo{To: field.Type}

	if value, ok := args.Value("name", 0); ok {
		name, err := stringValue(value)
		if err != nil {
			return nil, err
		}
		info.Name = name
	}

	if value, ok := args.Value("references", 1); ok {
		elems, err := value.AsList()
		if err != nil {
			return nil, directive.Errorf(directive.CodeTypeMismatch, "%v", err)
		}
		for _, elem := range elems {
			switch elem.Kind {
			case dml.ValueConstant, dml.ValueString:
				info.References = append(info.References, elem.Raw)
			default:
				return nil, directive.Errorf(directive.CodeTypeMismatch, "references must be field names, got %s", elem.String())
			}
		}
	}

	return info, nil
}
