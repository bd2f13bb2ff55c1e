package directive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/platinummonkey/dml/pkg/dml"
)

// ErrDuplicateDirective is the panic value (wrapped) raised when two
// validators with the same name are added to one registry.
var ErrDuplicateDirective = errors.New("duplicate directive validator")

// Code classifies a directive error
type Code string

const (
	CodeUnknownDirective    Code = "unknown_directive"
	CodeInvalidArgument     Code = "invalid_argument"
	CodeMissingArgument     Code = "missing_argument"
	CodeUnexpectedArgument  Code = "unexpected_argument"
	CodeTypeMismatch        Code = "type_mismatch"
	CodeUnresolvedReference Code = "unresolved_reference"
	CodeInvalidTarget       Code = "invalid_target"
	CodeConflict            Code = "conflict"
)

// Error describes a single directive that failed validation
type Error struct {
	Code      Code         `json:"code"`
	Directive string       `json:"directive"`
	Kind      string       `json:"kind"`
	Node      string       `json:"node"`
	Message   string       `json:"message"`
	Pos       dml.Position `json:"pos"`
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Pos.Line > 0 {
		fmt.Fprintf(&sb, "%d:%d: ", e.Pos.Line, e.Pos.Column)
	}
	if e.Directive != "" {
		fmt.Fprintf(&sb, "@%s", e.Directive)
	}
	if e.Node != "" {
		fmt.Fprintf(&sb, " on %s %s", e.Kind, e.Node)
	}
	if sb.Len() > 0 {
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// Errorf creates an error with the given code.
// The registry fills in directive, node and position.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Errors is an ordered list of directive errors
type Errors []*Error

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return ""
	case 1:
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d directive errors:\n\t%s", len(es), strings.Join(msgs, "\n\t"))
}

// Err returns the list as an error, or nil when empty
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// Codes returns the code of every error in order
func (es Errors) Codes() []Code {
	codes := make([]Code, len(es))
	for i, e := range es {
		codes[i] = e.Code
	}
	return codes
}

// asError converts whatever a validator returned into an *Error
func asError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		copied := *de
		return &copied
	}
	return &Error{Code: CodeInvalidArgument, Message: err.Error()}
}
