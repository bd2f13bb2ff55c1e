package dml

// Snapshot is a frozen structural copy of a Datamodel.
//
// Validators resolve other nodes (relation targets, enum members) through a
// Snapshot taken before any enrichment runs, so lookups never observe
// partially enriched state and may be shared across goroutines. A nil
// Snapshot behaves like one of an empty datamodel.
type Snapshot struct {
	models map[string]*ModelShape
	enums  map[string]*EnumShape
}

// ModelShape is the read-only view of a model
type ModelShape struct {
	Name       string
	Directives []string
	fields     map[string]*FieldShape
	order      []string
}

// Field returns the named field shape
func (m *ModelShape) Field(name string) (*FieldShape, bool) {
	if m == nil {
		return nil, false
	}
	f, ok := m.fields[name]
	return f, ok
}

// Fields returns the field shapes in declaration order
func (m *ModelShape) Fields() []*FieldShape {
	out := make([]*FieldShape, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.fields[name])
	}
	return out
}

// FieldShape is the read-only view of a field
type FieldShape struct {
	Name       string
	Type       string
	Arity      Arity
	Directives []string
}

// HasDirective reports whether a directive with the given name is attached
func (f *FieldShape) HasDirective(name string) bool {
	for _, d := range f.Directives {
		if d == name {
			return true
		}
	}
	return false
}

// EnumShape is the read-only view of an enum
type EnumShape struct {
	Name   string
	values map[string]bool
}

// HasValue reports whether name is a member of the enum
func (e *EnumShape) HasValue(name string) bool {
	return e.values[name]
}

// NewSnapshot copies the structure of dm
func NewSnapshot(dm *Datamodel) *Snapshot {
	s := &Snapshot{
		models: make(map[string]*ModelShape, len(dm.Models)),
		enums:  make(map[string]*EnumShape, len(dm.Enums)),
	}

	for _, m := range dm.Models {
		ms := &ModelShape{
			Name:       m.Name,
			Directives: directiveNames(m.Directives),
			fields:     make(map[string]*FieldShape, len(m.Fields)),
			order:      make([]string, 0, len(m.Fields)),
		}
		for _, f := range m.Fields {
			ms.fields[f.Name] = &FieldShape{
				Name:       f.Name,
				Type:       f.Type,
				Arity:      f.Arity,
				Directives: directiveNames(f.Directives),
			}
			ms.order = append(ms.order, f.Name)
		}
		s.models[m.Name] = ms
	}

	for _, e := range dm.Enums {
		es := &EnumShape{Name: e.Name, values: make(map[string]bool, len(e.Values))}
		for _, v := range e.Values {
			es.values[v.Name] = true
		}
		s.enums[e.Name] = es
	}

	return s
}

func directiveNames(ds []*Directive) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return names
}

// Model returns the named model shape
func (s *Snapshot) Model(name string) (*ModelShape, bool) {
	if s == nil {
		return nil, false
	}
	m, ok := s.models[name]
	return m, ok
}

// Enum returns the named enum shape
func (s *Snapshot) Enum(name string) (*EnumShape, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.enums[name]
	return e, ok
}

// Field returns the shape of model.field
func (s *Snapshot) Field(model, field string) (*FieldShape, bool) {
	m, ok := s.Model(model)
	if !ok {
		return nil, false
	}
	return m.Field(field)
}

// IsModel reports whether typeName names a model
func (s *Snapshot) IsModel(typeName string) bool {
	_, ok := s.Model(typeName)
	return ok
}

// IsEnum reports whether typeName names an enum
func (s *Snapshot) IsEnum(typeName string) bool {
	_, ok := s.Enum(typeName)
	return ok
}

// IsScalar reports whether typeName is a built-in scalar
func (s *Snapshot) IsScalar(typeName string) bool {
	return IsScalarType(typeName)
}
