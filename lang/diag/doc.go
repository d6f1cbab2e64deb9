// Package diag defines the structured diagnostics shared by every stage of
// the quill front-end.
//
// Each [Error] carries the [Phase] that raised it, a source position, and a
// [Code] from a numeric catalog grouped by thousands:
//
//	1xxx lexer
//	2xxx parser
//	3xxx illegal operation
//	4xxx unsupported
//	5xxx wrong usage
//	6xxx wrong type
//	7xxx duplication
//	8xxx invalid assignment
//	9xxx runtime
//
// The catalog is checked when the package is initialized: codes must be
// strictly ascending and each must lie within its group.
//
// Stages report through a [Reporter]. The lexer batches its diagnostics into
// a [Collector]; the parser and resolver stop at their first error.
package diag
