package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/dml/pkg/directive"
)

func TestDBValidator_Enrich(t *testing.T) {
	dm, errs := run(t, `model User @db("users") { email String @db(name: "mail") }`)
	require.Empty(t, errs)

	assert.Equal(t, "users", dm.FindModel("User").DatabaseName)
	assert.Equal(t, "mail", field(dm, "User", "email").DatabaseName)
}

func TestDBValidator(t *testing.T) {
	runCases(t, []validatorCase{
		{"positional", `model A { x Int @db("x_col") }`, "", ""},
		{"named", `model A { x Int @db(name: "x_col") }`, "", ""},
		{"model", `model A @db(name: "as") { x Int }`, "", ""},
		{"missing", `model A { x Int @db }`, directive.CodeMissingArgument, `"name"`},
		{"empty", `model A { x Int @db("") }`, directive.CodeInvalidArgument, "must not be empty"},
		{"number", `model A { x Int @db(1) }`, directive.CodeTypeMismatch, "expected string"},
		{"extra", `model A { x Int @db("a", "b") }`, directive.CodeUnexpectedArgument, "at most 1"},
		{"unknown name", `model A { x Int @db(table: "a") }`, directive.CodeUnexpectedArgument, `"table"`},
		{"model missing", `model A @db { x Int }`, directive.CodeMissingArgument, `"name"`},
	})
}
