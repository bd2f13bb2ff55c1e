package dml

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the lexical kind of a directive argument value
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBoolean
	ValueConstant
	ValueList
)

var valueKindNames = []string{"string", "number", "boolean", "constant", "list"}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindNames) {
		return "unknown"
	}
	return valueKindNames[k]
}

// MarshalText renders the kind by name in JSON output
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name
func (k *ValueKind) UnmarshalText(text []byte) error {
	for i := ValueString; i <= ValueList; i++ {
		if i.String() == string(text) {
			*k = i
			return nil
		}
	}
	return fmt.Errorf("unknown value kind %q", text)
}

// Value is a literal passed to a directive.
// Raw holds the unquoted text for scalars; Elems holds list members.
type Value struct {
	Kind  ValueKind `json:"kind"`
	Raw   string    `json:"raw,omitempty"`
	Elems []Value   `json:"elems,omitempty"`
	Pos   Position  `json:"pos"`
}

// String renders the value the way it would appear in a schema
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Raw)
	case ValueList:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.Raw
	}
}

func (v Value) mismatch(want ValueKind) error {
	return fmt.Errorf("expected %s but got %s %s", want, v.Kind, v.String())
}

// AsString returns the value of a string literal
func (v Value) AsString() (string, error) {
	if v.Kind != ValueString {
		return "", v.mismatch(ValueString)
	}
	return v.Raw, nil
}

// AsInt returns the value of an integer literal
func (v Value) AsInt() (int, error) {
	if v.Kind != ValueNumber {
		return 0, v.mismatch(ValueNumber)
	}
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		return 0, fmt.Errorf("expected integer but got %s", v.Raw)
	}
	return n, nil
}

// AsFloat returns the value of a numeric literal
func (v Value) AsFloat() (float64, error) {
	if v.Kind != ValueNumber {
		return 0, v.mismatch(ValueNumber)
	}
	f, err := strconv.ParseFloat(v.Raw, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number but got %s", v.Raw)
	}
	return f, nil
}

// AsBool returns the value of a boolean literal
func (v Value) AsBool() (bool, error) {
	if v.Kind != ValueBoolean {
		return false, v.mismatch(ValueBoolean)
	}
	return v.Raw == "true", nil
}

// AsConstant returns the name of a bare identifier
func (v Value) AsConstant() (string, error) {
	if v.Kind != ValueConstant {
		return "", v.mismatch(ValueConstant)
	}
	return v.Raw, nil
}

// AsList returns the members of a list literal
func (v Value) AsList() ([]Value, error) {
	if v.Kind != ValueList {
		return nil, v.mismatch(ValueList)
	}
	return v.Elems, nil
}

// Argument is a single, optionally named, directive argument
type Argument struct {
	Name  string   `json:"name,omitempty"`
	Value Value    `json:"value"`
	Pos   Position `json:"pos"`
}

// Directive is an annotation such as @unique or @default(value: 1)
type Directive struct {
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments,omitempty"`
	Pos       Position   `json:"pos"`
}

// String renders the directive the way it would appear in a schema
func (d *Directive) String() string {
	if len(d.Arguments) == 0 {
		return "@" + d.Name
	}
	parts := make([]string, len(d.Arguments))
	for i, a := range d.Arguments {
		if a.Name != "" {
			parts[i] = a.Name + ": " + a.Value.String()
		} else {
			parts[i] = a.Value.String()
		}
	}
	return "@" + d.Name + "(" + strings.Join(parts, ", ") + ")"
}
