package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/dml/pkg/directive"
)

func TestEmbeddedValidator_Enrich(t *testing.T) {
	dm, errs := run(t, `model Address @embedded @db("addresses") { street String }`)
	require.Empty(t, errs)

	address := dm.FindModel("Address")
	assert.True(t, address.IsEmbedded)
	assert.Equal(t, "addresses", address.DatabaseName)
}

func TestEmbeddedValidator(t *testing.T) {
	runCases(t, []validatorCase{
		{"primary field", `model Address @embedded { id Int @primary }`, directive.CodeConflict, "primary field (id)"},
		{"arguments", `model Address @embedded(true) { street String }`, directive.CodeUnexpectedArgument, "takes no arguments"},
	})
}
