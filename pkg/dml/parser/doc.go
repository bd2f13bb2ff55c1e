// Package parser turns schema source text into a dml.Datamodel.
//
// The grammar is small:
//
//	model User @db(name: "users") {
//	  id    Int     @primary @sequence(name: "user_seq")
//	  email String  @unique
//	  posts Post[]
//	  bio   String?
//	}
//
//	enum Role { ADMIN USER }
//
// Directives are attached verbatim; checking them is the job of
// pkg/directive. Syntax errors are returned as *SyntaxError and stop parsing.
package parser
