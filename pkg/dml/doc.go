// Package dml holds the in-memory data model that schema directives decorate.
//
// # Overview
//
// A Datamodel is a list of models (each with fields) and enums. Every model,
// field and enum may carry directives such as @unique or @db(name: "users").
// The parser fills in names, types and raw directives; the directive
// validators in pkg/directive then check those directives and enrich the
// nodes in place (DatabaseName, IsUnique, DefaultValue and so on).
//
// # Snapshots
//
// NewSnapshot takes a structural copy of a Datamodel before validation starts.
// Cross-node lookups go through the snapshot, never through the live nodes.
//
//	snap := dml.NewSnapshot(dm)
//	if shape, ok := snap.Field("User", "id"); ok {
//		fmt.Println(shape.Type)
//	}
//
// # Related Packages
//
//   - pkg/dml/parser: Schema text to Datamodel
//   - pkg/directive: Directive registries and dispatch
//   - pkg/validator: Whole-schema validation pass
package dml
