package builtin

import (
	"encoding/json"
	"time"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// DefaultValidator handles @default(value)
type DefaultValidator struct {
	BaseValidator
}

// NewDefaultValidator creates a @default validator
func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{
		BaseValidator: BaseValidator{
			DirectiveName:        "default",
			DirectiveDescription: "Sets the value used when none is given",
		},
	}
}

func (v *DefaultValidator) Validate(field *dml.Field, args directive.Args) error {
	value, err := v.parse(args)
	if err != nil {
		return err
	}
	if field.IsList() {
		return directive.Errorf(directive.CodeInvalidTarget, "list fields cannot have a default")
	}
	if isRelation(field, args) {
		return directive.Errorf(directive.CodeInvalidTarget, "relation fields cannot have a default")
	}
	return checkDefault(field.Type, value, args.Schema)
}

func (v *DefaultValidator) Enrich(field *dml.Field, args directive.Args) {
	if value, err := v.parse(args); err == nil {
		field.DefaultValue = &value
	}
}

func (v *DefaultValidator) parse(args directive.Args) (dml.Value, error) {
	if err := args.Only("value"); err != nil {
		return dml.Value{}, err
	}
	return args.Require("value", 0)
}

// checkDefault reports whether value can be stored in a field of typeName
func checkDefault(typeName string, value dml.Value, schema *dml.Snapshot) error {
	var err error

	switch typeName {
	case dml.TypeString, dml.TypeID:
		_, err = value.AsString()
	case dml.TypeInt:
		_, err = value.AsInt()
	case dml.TypeFloat:
		_, err = value.AsFloat()
	case dml.TypeBoolean:
		_, err = value.AsBool()
	case dml.TypeDateTime:
		var s string
		if s, err = value.AsString(); err == nil {
			if _, perr := time.Parse(time.RFC3339, s); perr != nil {
				return directive.Errorf(directive.CodeInvalidArgument, "%q is not an RFC3339 timestamp", s)
			}
		}
	case dml.TypeJSON:
		var s string
		if s, err = value.AsString(); err == nil && !json.Valid([]byte(s)) {
			return directive.Errorf(directive.CodeInvalidArgument, "%q is not valid JSON", s)
		}
	default:
		enum, ok := schema.Enum(typeName)
		if !ok {
			return directive.Errorf(directive.CodeUnresolvedReference, "unknown type %s", typeName)
		}
		var member string
		if member, err = value.AsConstant(); err == nil && !enum.HasValue(member) {
			return directive.Errorf(directive.CodeUnresolvedReference, "%s is not a value of enum %s", member, typeName)
		}
	}

	if err != nil {
		return directive.Errorf(directive.CodeTypeMismatch, "default for %s field: %v", typeName, err)
	}
	return nil
}
