package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// namedNode is a node whose storage name can be overridden
type namedNode interface {
	dml.Node
	SetDatabaseName(name string)
}

// DBValidator handles @db(name), which overrides the storage name of a
// field or a model
type DBValidator[T namedNode] struct {
	BaseValidator
}

// NewDBValidator creates a @db validator for nodes of type T
func NewDBValidator[T namedNode]() *DBValidator[T] {
	return &DBValidator[T]{
		BaseValidator: BaseValidator{
			DirectiveName:        "db",
			DirectiveDescription: "Overrides the database name",
		},
	}
}

func (v *DBValidator[T]) Validate(node T, args directive.Args) error {
	_, err := v.parse(args)
	return err
}

func (v *DBValidator[T]) Enrich(node T, args directive.Args) {
	if name, err := v.parse(args); err == nil {
		node.SetDatabaseName(name)
	}
}

func (v *DBValidator[T]) parse(args directive.Args) (string, error) {
	if err := args.Only("name"); err != nil {
		return "", err
	}
	value, err := args.Require("name", 0)
	if err != nil {
		return "", err
	}
	name, err := stringValue(value)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", directive.Errorf(directive.CodeInvalidArgument, "name must not be empty")
	}
	return name, nil
}
