package lang

import (
	"iter"

	"github.com/ardnew/quill/lang/ast"
)

// Locals is the resolution side table: the scope distance of each resolved
// expression, keyed by node identity. Two syntactically identical
// expressions are distinct keys.
//
// Entries are written once during resolution. A Locals held by a compiled
// [Program] is read-only and safe for concurrent reads.
type Locals struct {
	depth map[ast.Expression]int
}

// NewLocals returns an empty side table.
func NewLocals() *Locals {
	return &Locals{depth: make(map[ast.Expression]int)}
}

// Depth returns the distance recorded for expr. A false result means expr
// refers to a global.
func (l *Locals) Depth(expr ast.Expression) (int, bool) {
	if l == nil {
		return 0, false
	}

	d, ok := l.depth[expr]

	return d, ok
}

// Len returns the number of resolved expressions.
func (l *Locals) Len() int {
	if l == nil {
		return 0
	}

	return len(l.depth)
}

// All iterates over every resolved expression and its distance, in no
// particular order.
func (l *Locals) All() iter.Seq2[ast.Expression, int] {
	return func(yield func(ast.Expression, int) bool) {
		if l == nil {
			return
		}

		for e, d := range l.depth {
			if !yield(e, d) {
				return
			}
		}
	}
}

// record stores depth for expr unless expr already has one. It reports
// whether the entry was written.
func (l *Locals) record(expr ast.Expression, depth int) bool {
	if _, ok := l.depth[expr]; ok {
		return false
	}

	l.depth[expr] = depth

	return true
}
