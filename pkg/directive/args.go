package directive

import (
	"github.com/platinummonkey/dml/pkg/dml"
)

// Args is what a validator receives for one attached directive
type Args struct {
	Directive *dml.Directive
	Schema    *dml.Snapshot
}

// Len returns the number of arguments
func (a Args) Len() int {
	return len(a.Directive.Arguments)
}

// Value returns the argument with the given name, or the positional
// argument at index pos when no argument carries that name.
// Pass pos < 0 to disable the positional fallback.
func (a Args) Value(name string, pos int) (dml.Value, bool) {
	for _, arg := range a.Directive.Arguments {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	if pos < 0 || pos >= len(a.Directive.Arguments) {
		return dml.Value{}, false
	}
	arg := a.Directive.Arguments[pos]
	if arg.Name != "" {
		return dml.Value{}, false
	}
	return arg.Value, true
}

// Require is Value but fails with a missing_argument error
func (a Args) Require(name string, pos int) (dml.Value, error) {
	v, ok := a.Value(name, pos)
	if !ok {
		return dml.Value{}, Errorf(CodeMissingArgument, "missing argument %q", name)
	}
	return v, nil
}

// Only checks that the directive uses no names outside allowed, names no
// argument twice, and passes at most len(allowed) arguments.
// Positional arguments map onto allowed in order.
func (a Args) Only(allowed ...string) error {
	if len(a.Directive.Arguments) > len(allowed) {
		if len(allowed) == 0 {
			return Errorf(CodeUnexpectedArgument, "takes no arguments")
		}
		return Errorf(CodeUnexpectedArgument, "takes at most %d argument(s), got %d", len(allowed), len(a.Directive.Arguments))
	}

	seen := make(map[string]bool, len(a.Directive.Arguments))
	for i, arg := range a.Directive.Arguments {
		name := arg.Name
		if name == "" {
			name = allowed[i]
		} else if !contains(allowed, name) {
			return Errorf(CodeUnexpectedArgument, "unknown argument %q", name)
		}
		if seen[name] {
			return Errorf(CodeUnexpectedArgument, "argument %q given more than once", name)
		}
		seen[name] = true
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
