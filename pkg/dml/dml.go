package dml

// Position represents a position in the schema source
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// NodeKind identifies the kind of schema element a directive is attached to
type NodeKind int

const (
	KindField NodeKind = iota
	KindModel
	KindEnum
)

func (k NodeKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindModel:
		return "model"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Node is a schema element that can carry directives
type Node interface {
	Kind() NodeKind
	Identity() string
	Position() Position
	DirectiveList() []*Directive
}

// Datamodel is the parsed representation of a whole schema
type Datamodel struct {
	Models []*Model `json:"models"`
	Enums  []*Enum  `json:"enums"`
}

// FindModel returns the model with the given name
func (d *Datamodel) FindModel(name string) *Model {
	for _, m := range d.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindEnum returns the enum with the given name
func (d *Datamodel) FindEnum(name string) *Enum {
	for _, e := range d.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Nodes returns every directive-carrying node in declaration order:
// each model followed by its fields, then the enums.
func (d *Datamodel) Nodes() []Node {
	nodes := make([]Node, 0, len(d.Models)+len(d.Enums))
	for _, m := range d.Models {
		nodes = append(nodes, m)
		for _, f := range m.Fields {
			nodes = append(nodes, f)
		}
	}
	for _, e := range d.Enums {
		nodes = append(nodes, e)
	}
	return nodes
}

// Reset clears the enrichment state of every node
func (d *Datamodel) Reset() {
	for _, m := range d.Models {
		m.Reset()
		for _, f := range m.Fields {
			f.Reset()
		}
	}
}

// Model is a record type declared with the model keyword
type Model struct {
	Name       string       `json:"name"`
	Fields     []*Field     `json:"fields"`
	Directives []*Directive `json:"directives,omitempty"`
	Pos        Position     `json:"pos"`

	// Set by directive enrichment
	DatabaseName string `json:"databaseName,omitempty"`
	IsEmbedded   bool   `json:"isEmbedded,omitempty"`
}

func (m *Model) Kind() NodeKind              { return KindModel }
func (m *Model) Identity() string            { return m.Name }
func (m *Model) Position() Position          { return m.Pos }
func (m *Model) DirectiveList() []*Directive { return m.Directives }

// SetDatabaseName records the storage name of the model
func (m *Model) SetDatabaseName(name string) { m.DatabaseName = name }

// FindField returns the field with the given name
func (m *Model) FindField(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Reset clears enrichment state
func (m *Model) Reset() {
	m.DatabaseName = ""
	m.IsEmbedded = false
}

// Enum is an enumeration declared with the enum keyword
type Enum struct {
	Name       string       `json:"name"`
	Values     []*EnumValue `json:"values"`
	Directives []*Directive `json:"directives,omitempty"`
	Pos        Position     `json:"pos"`
}

func (e *Enum) Kind() NodeKind              { return KindEnum }
func (e *Enum) Identity() string            { return e.Name }
func (e *Enum) Position() Position          { return e.Pos }
func (e *Enum) DirectiveList() []*Directive { return e.Directives }

// HasValue reports whether name is one of the enum's values
func (e *Enum) HasValue(name string) bool {
	for _, v := range e.Values {
		if v.Name == name {
			return true
		}
	}
	return false
}

// EnumValue is a single member of an enum
type EnumValue struct {
	Name string   `json:"name"`
	Pos  Position `json:"pos"`
}
