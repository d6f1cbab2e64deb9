package parser

import (
	"fmt"
	"sync"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

// Operand parses the operand of an expression layer: for operator parsers
// the next-higher precedence layer, for value parsers a full expression.
type Operand func() (ast.Expression, error)

// ExpressionParser recognizes one expression production.
type ExpressionParser interface {
	// Produces lists the node kinds the parser may return.
	Produces() []ast.Kind
	// Value reports whether the production can stand alone as a primary
	// expression, as opposed to combining other expressions.
	Value() bool
	Parse(p *Parser, next Operand) (ast.Expression, error)
}

// ValueParser is an [ExpressionParser] selected by the current token.
type ValueParser interface {
	ExpressionParser
	Accepts(p *Parser) bool
}

// StatementParser recognizes one statement production. Statement parsers
// are registered under the token type that starts the production.
type StatementParser interface {
	Produces() []ast.Kind
	// Accepts confirms the production when the leading token alone is
	// ambiguous, e.g. "fun" starting a declaration or an anonymous function.
	Accepts(p *Parser) bool
	Parse(p *Parser) (ast.Statement, error)
}

// Registry holds the node parsers a [Parser] composes. Operator parsers are
// chained from lowest to highest precedence; value parsers are tried in
// order at the primary layer.
//
// A Registry is immutable and safe for concurrent use.
type Registry struct {
	statements map[token.Type]StatementParser
	operators  []ExpressionParser
	values     []ValueParser
}

// NewRegistry validates and returns a registry. The operator chain and the
// value list must be non-empty, every parser must produce only known node
// kinds of the right category, and operator and value parsers must report
// [ExpressionParser.Value] accordingly.
func NewRegistry(
	operators []ExpressionParser,
	values []ValueParser,
	statements map[token.Type]StatementParser,
) (*Registry, error) {
	if len(operators) == 0 {
		return nil, registryError("empty operator chain")
	}

	if len(values) == 0 {
		return nil, registryError("no value parsers")
	}

	for i, op := range operators {
		if op.Value() {
			return nil, registryError(fmt.Sprintf("value parser %T in operator chain at %d", op, i))
		}

		if err := checkKinds(op, op.Produces(), ast.Kind.IsExpression); err != nil {
			return nil, err
		}
	}

	for _, v := range values {
		if !v.Value() {
			return nil, registryError(fmt.Sprintf("operator parser %T in value list", v))
		}

		if err := checkKinds(v, v.Produces(), ast.Kind.IsExpression); err != nil {
			return nil, err
		}
	}

	for _, s := range statements {
		if err := checkKinds(s, s.Produces(), ast.Kind.IsStatement); err != nil {
			return nil, err
		}
	}

	r := &Registry{
		operators:  append([]ExpressionParser(nil), operators...),
		values:     append([]ValueParser(nil), values...),
		statements: make(map[token.Type]StatementParser, len(statements)),
	}

	for t, s := range statements {
		r.statements[t] = s
	}

	return r, nil
}

func checkKinds(parser any, kinds []ast.Kind, ok func(ast.Kind) bool) error {
	if len(kinds) == 0 {
		return registryError(fmt.Sprintf("%T produces no nodes", parser))
	}

	for _, k := range kinds {
		if !ok(k) {
			return diag.New(diag.PhaseParsing, token.Position{}, diag.UnsupportedNodeKind,
				fmt.Sprintf("%d from %T", k, parser))
		}
	}

	return nil
}

func registryError(what string) error {
	return diag.New(diag.PhaseParsing, token.Position{}, diag.Internal, what)
}

// Operators returns the operator chain, lowest precedence first.
func (r *Registry) Operators() []ExpressionParser {
	return append([]ExpressionParser(nil), r.operators...)
}

// Values returns the value parsers in the order they are tried.
func (r *Registry) Values() []ValueParser {
	return append([]ValueParser(nil), r.values...)
}

// Statements returns a copy of the statement parsers by leading token.
func (r *Registry) Statements() map[token.Type]StatementParser {
	m := make(map[token.Type]StatementParser, len(r.statements))
	for t, s := range r.statements {
		m[t] = s
	}

	return m
}

// Produces returns every node kind some registered parser may produce.
func (r *Registry) Produces() map[ast.Kind]bool {
	kinds := make(map[ast.Kind]bool)

	for _, op := range r.operators {
		for _, k := range op.Produces() {
			kinds[k] = true
		}
	}

	for _, v := range r.values {
		for _, k := range v.Produces() {
			kinds[k] = true
		}
	}

	for _, s := range r.statements {
		for _, k := range s.Produces() {
			kinds[k] = true
		}
	}

	return kinds
}

// DefaultOperators returns the built-in operator chain, lowest precedence
// first.
func DefaultOperators() []ExpressionParser {
	return []ExpressionParser{
		Assignment(),
		Elvis(),
		Ternary(),
		Bitwise(),
		Logical(),
		Equality(),
		Range(),
		CompoundAssignment(),
		PrefixCall(),
		Comparison(),
		Additive(),
		Multiplicative(),
		InfixCall(),
		Unary(),
		Postfix(),
	}
}

// DefaultValues returns the built-in value parsers. The complex-expression
// parser comes last and accepts anything, reporting a missing expression
// when nothing else matched.
func DefaultValues() []ValueParser {
	return []ValueParser{
		Literal(),
		Identifier(),
		This(),
		Super(),
		Grouping(),
		Array(),
		Complex(),
	}
}

// DefaultStatements returns the built-in statement parsers.
func DefaultStatements() map[token.Type]StatementParser {
	return map[token.Type]StatementParser{
		token.LeftBrace: BlockStatement(),
		token.Break:     BreakStatement(),
		token.Class:     ClassStatement(),
		token.Continue:  ContinueStatement(),
		token.Do:        DoWhileStatement(),
		token.For:       ForStatement(),
		token.Fun:       FunctionStatement(),
		token.If:        IfStatement(),
		token.Import:    ImportStatement(),
		token.Return:    ReturnStatement(),
		token.Switch:    SwitchStatement(),
		token.Test:      TestStatement(),
		token.Val:       VarStatement(),
		token.Var:       VarStatement(),
		token.While:     WhileStatement(),
	}
}

// DefaultRegistry returns the shared registry of built-in node parsers.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(DefaultOperators(), DefaultValues(), DefaultStatements())
	if err != nil {
		panic(err)
	}

	return r
})
