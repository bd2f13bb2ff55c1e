// Package directive provides the pluggable validation framework for schema
// directives.
//
// # Overview
//
// Every node kind (field, model, enum) owns a ListValidator: a registry
// mapping a directive name to the Validator that understands it. Running a
// node through its list checks every attached directive:
//
//   - a directive with no registered validator yields an unknown_directive error
//   - a validator returning an error yields exactly one error for that directive
//   - a validator that succeeds and implements Enricher records its effect on the node
//
// Validation is fail-slow within a node; all errors are collected.
//
// # Registering Validators
//
//	fields := directive.NewListValidator[*dml.Field](dml.KindField).
//		Add(myValidator{})
//
// Adding two validators with the same name panics with ErrDuplicateDirective.
// Registration order never affects results.
//
// # Errors
//
// Validators return Errorf(code, ...) to pick an error code. Any other error
// is reported as invalid_argument. The list fills in directive, node and
// position before returning.
//
// # Related Packages
//
//   - pkg/directive/builtin: the default catalog
//   - pkg/validator: runs a catalog over a whole datamodel
package directive
