package directive

import (
	"fmt"

	"github.com/platinummonkey/dml/pkg/dml"
)

// Catalog bundles the validator lists for every node kind
type Catalog struct {
	Fields *ListValidator[*dml.Field]
	Models *ListValidator[*dml.Model]
	Enums  *ListValidator[*dml.Enum]
}

// NewCatalog creates a catalog with empty lists
func NewCatalog() *Catalog {
	return &Catalog{
		Fields: NewListValidator[*dml.Field](dml.KindField),
		Models: NewListValidator[*dml.Model](dml.KindModel),
		Enums:  NewListValidator[*dml.Enum](dml.KindEnum),
	}
}

// Names returns the registered directive names per node kind
func (c *Catalog) Names() map[string][]string {
	return map[string][]string{
		dml.KindField.String(): c.Fields.Names(),
		dml.KindModel.String(): c.Models.Names(),
		dml.KindEnum.String():  c.Enums.Names(),
	}
}

// ValidateNode dispatches node to the list for its kind. A node that is not
// a *dml.Field, *dml.Model or *dml.Enum gets one invalid_target error per
// attached directive.
func (c *Catalog) ValidateNode(node dml.Node, schema *dml.Snapshot) Errors {
	switch n := node.(type) {
	case *dml.Field:
		return c.Fields.Validate(n, schema)
	case *dml.Model:
		return c.Models.Validate(n, schema)
	case *dml.Enum:
		return c.Enums.Validate(n, schema)
	default:
		var errs Errors
		for _, d := range node.DirectiveList() {
			errs = append(errs, &Error{
				Code:      CodeInvalidTarget,
				Directive: d.Name,
				Kind:      node.Kind().String(),
				Node:      node.Identity(),
				Message:   fmt.Sprintf("unsupported node type %T", node),
				Pos:       d.Pos,
			})
		}
		return errs
	}
}
