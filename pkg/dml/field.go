package dml

import "fmt"

// Arity describes how many values a field holds
type Arity int

const (
	Required Arity = iota
	Optional
	List
)

var arityNames = []string{"required", "optional", "list"}

func (a Arity) String() string {
	if a < 0 || int(a) >= len(arityNames) {
		return "unknown"
	}
	return arityNames[a]
}

// MarshalText renders the arity by name in JSON output
func (a Arity) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses an arity name
func (a *Arity) UnmarshalText(text []byte) error {
	for i := Required; i <= List; i++ {
		if i.String() == string(text) {
			*a = i
			return nil
		}
	}
	return fmt.Errorf("unknown arity %q", text)
}

// Built-in scalar type names
const (
	TypeString   = "String"
	TypeInt      = "Int"
	TypeFloat    = "Float"
	TypeBoolean  = "Boolean"
	TypeDateTime = "DateTime"
	TypeID       = "ID"
	TypeJSON     = "Json"
)

var scalarTypes = map[string]bool{
	TypeString:   true,
	TypeInt:      true,
	TypeFloat:    true,
	TypeBoolean:  true,
	TypeDateTime: true,
	TypeID:       true,
	TypeJSON:     true,
}

// IsScalarType reports whether name is a built-in scalar type
func IsScalarType(name string) bool {
	return scalarTypes[name]
}

// IDStrategy controls how primary identifiers are generated
type IDStrategy string

const (
	IDStrategyNone     IDStrategy = "NONE"
	IDStrategyAuto     IDStrategy = "AUTO"
	IDStrategySequence IDStrategy = "SEQUENCE"
)

// ScalarListStrategy controls how scalar lists are stored
type ScalarListStrategy string

const (
	ScalarListNone     ScalarListStrategy = ""
	ScalarListRelation ScalarListStrategy = "RELATION"
	ScalarListEmbedded ScalarListStrategy = "EMBEDDED"
)

// OnDeleteStrategy controls what happens to related records on delete
type OnDeleteStrategy string

const (
	OnDeleteNone    OnDeleteStrategy = ""
	OnDeleteCascade OnDeleteStrategy = "CASCADE"
	OnDeleteSetNull OnDeleteStrategy = "SET_NULL"
)

// Sequence describes a database sequence backing a field
type Sequence struct {
	Name           string `json:"name"`
	InitialValue   int    `json:"initialValue"`
	AllocationSize int    `json:"allocationSize"`
}

// RelationInfo describes the target of a relation field
type RelationInfo struct {
	To         string   `json:"to"`
	Name       string   `json:"name,omitempty"`
	References []string `json:"references,omitempty"`
}

// Field is a single member of a model
type Field struct {
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	Arity      Arity        `json:"arity"`
	Directives []*Directive `json:"directives,omitempty"`
	Pos        Position     `json:"pos"`

	// Model is the name of the declaring model
	Model string `json:"-"`

	// Set by directive enrichment
	DatabaseName       string             `json:"databaseName,omitempty"`
	IsUnique           bool               `json:"isUnique,omitempty"`
	IsID               bool               `json:"isId,omitempty"`
	IDStrategy         IDStrategy         `json:"idStrategy,omitempty"`
	Sequence           *Sequence          `json:"sequence,omitempty"`
	ScalarListStrategy ScalarListStrategy `json:"scalarListStrategy,omitempty"`
	DefaultValue       *Value             `json:"defaultValue,omitempty"`
	Relation           *RelationInfo      `json:"relation,omitempty"`
	OnDelete           OnDeleteStrategy   `json:"onDelete,omitempty"`
}

func (f *Field) Kind() NodeKind              { return KindField }
func (f *Field) Position() Position          { return f.Pos }
func (f *Field) DirectiveList() []*Directive { return f.Directives }

// Identity returns Model.field, or just the field name when detached
func (f *Field) Identity() string {
	if f.Model == "" {
		return f.Name
	}
	return f.Model + "." + f.Name
}

// SetDatabaseName records the storage name of the field
func (f *Field) SetDatabaseName(name string) { f.DatabaseName = name }

// IsList reports whether the field holds a list of values
func (f *Field) IsList() bool { return f.Arity == List }

// IsOptional reports whether the field may be absent
func (f *Field) IsOptional() bool { return f.Arity == Optional }

// Reset clears enrichment state
func (f *Field) Reset() {
	f.DatabaseName = ""
	f.IsUnique = false
	f.IsID = false
	f.IDStrategy = ""
	f.Sequence = nil
	f.ScalarListStrategy = ScalarListNone
	f.DefaultValue = nil
	f.Relation = nil
	f.OnDelete = OnDeleteNone
}
