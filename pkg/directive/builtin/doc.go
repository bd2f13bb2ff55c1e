// Package builtin provides the default directive validators.
//
// Field directives: @db, @primary, @scalarList, @sequence, @unique, @default,
// @relation and @onDelete. Model directives: @db and @embedded. Enums have
// no builtin directives.
//
// Each validator checks its arguments and its target in Validate and records
// the result on the node in Enrich. Cross-node checks (relation targets, enum
// members, embedded models) read the schema snapshot passed in Args.
package builtin
