package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
	"github.com/platinummonkey/dml/pkg/dml/parser"
)

// run parses src and validates every node against the builtin catalog
func run(t *testing.T, src string) (*dml.Datamodel, directive.Errors) {
	t.Helper()

	dm, err := parser.ParseString(src)
	require.NoError(t, err)

	catalog := NewCatalog()
	snap := dml.NewSnapshot(dm)

	var errs directive.Errors
	for _, node := range dm.Nodes() {
		errs = append(errs, catalog.ValidateNode(node, snap)...)
	}
	return dm, errs
}

type validatorCase struct {
	name     string
	src      string
	wantCode directive.Code
	wantMsg  string
}

func runCases(t *testing.T, cases []validatorCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := run(t, tt.src)
			if tt.wantCode == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.wantCode, errs[0].Code)
			assert.Contains(t, errs[0].Message, tt.wantMsg)
		})
	}
}

func field(dm *dml.Datamodel, model, name string) *dml.Field {
	return dm.FindModel(model).FindField(name)
}
