package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/dml/pkg/directive"
)

func TestUniqueValidator_Enrich(t *testing.T) {
	dm, errs := run(t, `model A { email String @unique }`)
	require.Empty(t, errs)

	assert.True(t, field(dm, "A", "email").IsUnique)
}

func TestUniqueValidator(t *testing.T) {
	runCases(t, []validatorCase{
		{"optional", `model A { email String? @unique }`, "", ""},
		{"list", `model A { tags String[] @unique }`, directive.CodeInvalidTarget, "list"},
		{"relation", "model A { b B @unique }\nmodel B { x Int }", directive.CodeInvalidTarget, "relation"},
		{"arguments", `model A { email String @unique(true) }`, directive.CodeUnexpectedArgument, "takes no arguments"},
	})
}
