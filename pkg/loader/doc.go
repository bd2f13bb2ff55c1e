// Package loader owns the schema a dml-server process serves.
//
// A Loader reads the schema file, parses it and runs the validator over
// it. The last schema without directive errors is published through
// Current, which is safe to call from any goroutine:
//
//	l := loader.NewLoader("datamodel.dml", v, logger, metrics)
//	if _, err := l.Load(ctx); err != nil {
//		var schemaErr *loader.SchemaError
//		if errors.As(err, &schemaErr) {
//			// directive errors in schemaErr.Errors
//		}
//	}
//	go l.Watch(ctx)
//
// Watch reloads on file changes; a reload that fails keeps serving the
// previous schema.
package loader
