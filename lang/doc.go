// Package lang is the front-end pipeline of quill: it lexes, parses and
// resolves a source text into a [Program].
//
// # Pipeline
//
//	tokens, comments := lexer     // lang/lexer
//	statements       := parser    // lang/parser
//	locals           := resolver  // lang/resolver
//
// [Compile] runs the three stages in order and stops at the first stage
// that fails. Lexical errors are reported as a batch; parsing and resolving
// stop at the first error. Every error is a diagnostic from lang/diag
// carrying its phase, position and catalog code.
//
//	prog, err := lang.Compile(ctx, src,
//	    lang.WithModules(registry),
//	    lang.WithLogger(logger),
//	)
//	if err != nil {
//	    fmt.Fprint(os.Stderr, diag.Render(src, err))
//	}
//
// # Resolution
//
// The resolver records, for each variable reference, assignment, this and
// super expression bound in a local scope, the number of scopes between the
// reference and its declaration. These distances are kept in the program's
// [Locals], keyed by node identity. Expressions absent from Locals refer to
// globals.
//
// An [Environment] is the interpreter state the resolver writes to: it
// stores distances in a Locals and answers module questions from a
// [Modules] source such as a module.Registry.
//
// # Caching
//
// A [Cache] compiles each distinct source once. Sources are keyed by their
// xxh3 hash and concurrent compiles of the same source share one run.
// Cached programs must not be modified.
//
// # Output
//
// A program can be written as S-expressions, JSON or YAML with
// [Program.Format], and its token stream with [Program.FormatTokens].
package lang
