// Package cli implements the dml command-line tool.
//
// validate checks the directives of one or more schema files and exits
// non-zero when any file has errors:
//
//	dml validate datamodel.dml
//	dml validate -format json -config ./dml.yaml a.dml b.dml
//	dml validate -fail-fast -concurrency 4 datamodel.dml
//
// Flags go before the file names. Without -config, dml.yaml is searched
// for next to the first file.
//
// directives prints the built-in catalog:
//
//	dml directives
//	dml directives -kind field
package cli
