// Package validator runs a directive catalog over a whole datamodel.
//
// A run takes a snapshot of the datamodel, visits every model, each of its
// fields, then every enum, and collects the directive errors in that order:
//
//	v := validator.NewValidator(builtin.NewCatalog(), config,
//		validator.WithLogger(logger),
//		validator.WithMetrics(metrics),
//	)
//	result, err := v.Validate(ctx, dm)
//	if err != nil {
//		return err // canceled
//	}
//	if !result.Valid {
//		fmt.Println(result.Errors)
//	}
//
// # Configuration
//
// Options are read from dml.yaml:
//
//	version: v1
//	validation:
//	  fail_fast: false
//	  concurrency: 4
//
// With concurrency above 1 nodes are validated on a bounded errgroup and the
// results are merged in declaration order, so output matches a sequential
// run. fail_fast stops at the first node with errors and always runs
// sequentially.
package validator
