package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/dml/pkg/dml"
)

const blogSchema = `
// Blog schema
model User @db(name: "users") {
  id       Int      @primary(strategy: SEQUENCE) @sequence(name: "user_seq", initialValue: 1, allocationSize: 100)
  email    String   @unique
  nickname String?
  role     Role     @default(USER)
  tags     String[] @scalarList(strategy: RELATION)
  posts    Post[]
}

model Post {
  id     ID     @primary
  author: User  @relation(name: "PostAuthor", references: [id]) @onDelete(CASCADE)
  score  Float  @default(value: 1.5)
  draft  Boolean @default(true)
}

/* embedded types */
model Address @embedded {
  street String
}

enum Role {
  ADMIN, USER
  GUEST
}
`

func TestParse_BlogSchema(t *testing.T) {
	dm, err := ParseString(blogSchema)
	require.NoError(t, err)

	require.Len(t, dm.Models, 3)
	require.Len(t, dm.Enums, 1)

	user := dm.Models[0]
	assert.Equal(t, "User", user.Name)
	require.Len(t, user.Directives, 1)
	assert.Equal(t, "db", user.Directives[0].Name)
	assert.Equal(t, `@db(name: "users")`, user.Directives[0].String())
	require.Len(t, user.Fields, 6)

	id := user.Fields[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, "Int", id.Type)
	assert.Equal(t, dml.Required, id.Arity)
	assert.Equal(t, "User.id", id.Identity())
	require.Len(t, id.Directives, 2)
	assert.Equal(t, "primary", id.Directives[0].Name)
	assert.Equal(t, "sequence", id.Directives[1].Name)
	require.Len(t, id.Directives[1].Arguments, 3)
	assert.Equal(t, "allocationSize", id.Directives[1].Arguments[2].Name)
	assert.Equal(t, dml.ValueNumber, id.Directives[1].Arguments[2].Value.Kind)

	assert.Equal(t, dml.Optional, user.FindField("nickname").Arity)
	assert.Empty(t, user.FindField("nickname").Directives)
	assert.Equal(t, dml.List, user.FindField("tags").Arity)
	assert.Equal(t, dml.List, user.FindField("posts").Arity)

	role := user.FindField("role")
	require.Len(t, role.Directives, 1)
	assert.Equal(t, dml.ValueConstant, role.Directives[0].Arguments[0].Value.Kind)
	assert.Empty(t, role.Directives[0].Arguments[0].Name)

	post := dm.FindModel("Post")
	author := post.FindField("author")
	require.NotNil(t, author)
	assert.Equal(t, "User", author.Type)
	require.Len(t, author.Directives, 2)
	refs := author.Directives[0].Arguments[1].Value
	assert.Equal(t, dml.ValueList, refs.Kind)
	require.Len(t, refs.Elems, 1)
	assert.Equal(t, "id", refs.Elems[0].Raw)

	assert.Equal(t, dml.ValueBoolean, post.FindField("draft").Directives[0].Arguments[0].Value.Kind)

	address := dm.FindModel("Address")
	require.Len(t, address.Directives, 1)
	assert.Equal(t, "embedded", address.Directives[0].Name)

	enum := dm.Enums[0]
	assert.Equal(t, "Role", enum.Name)
	require.Len(t, enum.Values, 3)
	assert.Equal(t, "GUEST", enum.Values[2].Name)
}

func TestParse_Positions(t *testing.T) {
	dm, err := ParseString("model User {\n  email String @unique\n}")
	require.NoError(t, err)

	field := dm.Models[0].Fields[0]
	assert.Equal(t, dml.Position{Line: 2, Column: 3, Offset: 15}, field.Pos)
	assert.Equal(t, 2, field.Directives[0].Pos.Line)
	assert.Equal(t, 16, field.Directives[0].Pos.Column)
}

func TestParse_EnumDirectives(t *testing.T) {
	dm, err := ParseString(`enum Color @db("colors") { RED GREEN }`)
	require.NoError(t, err)

	require.Len(t, dm.Enums[0].Directives, 1)
	assert.Equal(t, "db", dm.Enums[0].Directives[0].Name)
}

func TestParse_EmptyArguments(t *testing.T) {
	dm, err := ParseString(`model A { id Int @primary() }`)
	require.NoError(t, err)

	assert.Empty(t, dm.Models[0].Fields[0].Directives[0].Arguments)
}

func TestParse_Empty(t *testing.T) {
	dm, err := ParseString("  // nothing here\n")
	require.NoError(t, err)
	assert.Empty(t, dm.Models)
	assert.Empty(t, dm.Enums)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"unknown declaration", "type User {}", "unexpected token 'type'"},
		{"missing model name", "model {}", "expected model name"},
		{"missing brace", "model User id Int }", "expected '{'"},
		{"unterminated model", "model User { id Int", "unterminated model User"},
		{"missing field type", "model User { id @unique }", "expected field type"},
		{"unclosed list type", "model User { tags String[ }", "expected ']'"},
		{"bad directive name", "model User { id Int @(1) }", "expected directive name"},
		{"unclosed arguments", "model User { id Int @db(name: \"x\" }", "expected ')'"},
		{"bad value", "model User { id Int @db(name: }) }", "expected value"},
		{"duplicate model", "model A { id Int }\nmodel A { id Int }", `"A" is already declared`},
		{"duplicate model and enum", "model A { id Int }\nenum A { X }", `"A" is already declared`},
		{"duplicate field", "model A { id Int\n id String }", `field "id" is already declared`},
		{"duplicate enum value", "enum E { X X }", `value "X" is already declared`},
		{"lexical error", "model A { id Int @db(\"open) }", "unterminated string"},
		{"stray character", "model A { id Int # }", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, se.Error(), tt.wantMsg)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.dml")
	require.NoError(t, os.WriteFile(good, []byte("model A { id Int }"), 0644))
	dm, err := ParseFile(good)
	require.NoError(t, err)
	assert.Len(t, dm.Models, 1)

	bad := filepath.Join(dir, "bad.dml")
	require.NoError(t, os.WriteFile(bad, []byte("model {"), 0644))
	_, err = ParseFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad+":1:7")

	_, err = ParseFile(filepath.Join(dir, "missing.dml"))
	assert.Error(t, err)
}
