package builtin

import (
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
)

// NewFieldDirectives returns the builtin field directives
func NewFieldDirectives() *directive.ListValidator[*dml.Field] {
	return directive.NewListValidator[*dml.Field](dml.KindField).
		Add(NewDBValidator[*dml.Field]()).
		Add(NewPrimaryValidator()).
		Add(NewScalarListValidator()).
		Add(NewSequenceValidator()).
		Add(NewUniqueValidator()).
		Add(NewDefaultValidator()).
		Add(NewRelationValidator()).
		Add(NewOnDeleteValidator())
}

// NewModelDirectives returns the builtin model directives
func NewModelDirectives() *directive.ListValidator[*dml.Model] {
	return directive.NewListValidator[*dml.Model](dml.KindModel).
		Add(NewDBValidator[*dml.Model]()).
		Add(NewEmbeddedValidator())
}

// NewEnumDirectives returns the builtin enum directives. There are none
// yet; every directive on an enum is reported as unknown.
func NewEnumDirectives() *directive.ListValidator[*dml.Enum] {
	return directive.NewListValidator[*dml.Enum](dml.KindEnum)
}

// NewCatalog returns the builtin directives for every node kind
func NewCatalog() *directive.Catalog {
	return &directive.Catalog{
		Fields: NewFieldDirectives(),
		Models: NewModelDirectives(),
		Enums:  NewEnumDirectives(),
	}
}
