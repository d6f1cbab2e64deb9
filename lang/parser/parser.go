package parser

import (
	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

const (
	// MaxArguments is the largest number of arguments a call may pass.
	MaxArguments = 8
	// MaxParameters is the largest number of parameters a function may
	// declare.
	MaxParameters = 8
	// DefaultMaxDepth bounds the nesting of statements, expressions and blocks.
	DefaultMaxDepth = 256
)

// Parser is a cursor over a token sequence. Node parsers drive it through
// the primitives [Parser.Match], [Parser.Check], [Parser.Peek],
// [Parser.Previous], [Parser.Advance] and [Parser.Consume].
//
// A Parser is single-use and not safe for concurrent use.
type Parser struct {
	reg      *Registry
	tokReg   *token.Registry
	tokens   []token.Token
	operands []Operand
	current  int
	depth    int
	maxDepth int
}

// Option configures a [Parser].
type Option func(*Parser)

// WithRegistry parses with the node parsers in r instead of
// [DefaultRegistry].
func WithRegistry(r *Registry) Option {
	return func(p *Parser) {
		if r != nil {
			p.reg = r
		}
	}
}

// WithTokenRegistry resolves operator families with r instead of
// [token.Default]. It must be the registry the tokens were scanned with.
func WithTokenRegistry(r *token.Registry) Option {
	return func(p *Parser) {
		if r != nil {
			p.tokReg = r
		}
	}
}

// WithMaxDepth bounds statement, expression and block nesting. Values
// below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// New returns a parser over tokens. The sequence should end with
// [token.EOF]; one is appended if missing.
func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{
		reg:      DefaultRegistry(),
		tokReg:   token.Default(),
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	if n := len(p.tokens); n == 0 || p.tokens[n-1].Type != token.EOF {
		var at token.Position
		if n > 0 {
			at = p.tokens[n-1].Pos
		}

		p.tokens = append(p.tokens[:n:n], token.New(token.EOF, "", nil, at))
	}

	p.operands = make([]Operand, len(p.reg.operators)+1)
	for i := range p.reg.operators {
		p.operands[i] = func() (ast.Expression, error) { return p.layer(i + 1) }
	}

	p.operands[len(p.reg.operators)] = p.primary

	return p
}

// Parse parses tokens into statements, stopping at the first error.
func Parse(tokens []token.Token, opts ...Option) ([]ast.Statement, error) {
	return New(tokens, opts...).Parse()
}

// Parse parses every statement up to EOF. The returned error is a
// [*diag.Error] in phase PARSING.
func (p *Parser) Parse() ([]ast.Statement, error) {
	var stmts []ast.Statement

	v := p.Validator()

	for !p.AtEnd() {
		before := p.current

		s, err := p.Statement()
		if err != nil {
			return nil, err
		}

		if err := v.Progress(before); err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
	}

	return stmts, nil
}

// Expression parses a complete expression starting at the lowest
// precedence layer.
func (p *Parser) Expression() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	return p.layer(0)
}

// Statement parses one statement, dispatching on the leading token.
// Tokens with no statement parser start an expression statement.
func (p *Parser) Statement() (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if sp, ok := p.reg.statements[p.Peek().Type]; ok && sp.Accepts(p) {
		return sp.Parse(p)
	}

	return p.expressionStatement()
}

// Block parses statements up to and including the closing brace. The
// opening brace must already be consumed.
func (p *Parser) Block() ([]ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	stmts := []ast.Statement{}

	for !p.Check(token.RightBrace) && !p.AtEnd() {
		s, err := p.Statement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
	}

	if _, err := p.Consume(token.RightBrace, "'}' after block"); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	e, err := p.Expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.Consume(token.Semicolon, "';' after expression"); err != nil {
		return nil, err
	}

	return &ast.ExpressionStmt{Expression: e}, nil
}

func (p *Parser) layer(i int) (ast.Expression, error) {
	if i >= len(p.reg.operators) {
		return p.primary()
	}

	return p.reg.operators[i].Parse(p, p.operands[i])
}

// primary tries each value parser in registration order.
func (p *Parser) primary() (ast.Expression, error) {
	for _, v := range p.reg.values {
		if v.Accepts(p) {
			return v.Parse(p, p.Expression)
		}
	}

	return nil, p.Error(p.Peek(), diag.ExpectExpression)
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.Error(p.Peek(), diag.MaxDepthExceeded, p.maxDepth)
	}

	return nil
}

func (p *Parser) leave() { p.depth-- }

// Match consumes the current token if it has one of the given types.
func (p *Parser) Match(types ...token.Type) bool {
	for _, t := range types {
		if p.Check(t) {
			p.Advance()

			return true
		}
	}

	return false
}

// Check reports whether the current token has type t. It never matches
// past EOF.
func (p *Parser) Check(t token.Type) bool {
	if p.AtEnd() {
		return t == token.EOF
	}

	return p.Peek().Type == t
}

// CheckNext reports whether the token after the current one has type t.
func (p *Parser) CheckNext(t token.Type) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}

	return p.tokens[p.current+1].Type == t
}

// Peek returns the current token without consuming it.
func (p *Parser) Peek() token.Token { return p.tokens[p.current] }

// Previous returns the most recently consumed token.
func (p *Parser) Previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}

	return p.tokens[p.current-1]
}

// Advance consumes and returns the current token. At EOF it stays put.
func (p *Parser) Advance() token.Token {
	if !p.AtEnd() {
		p.current++
	}

	return p.Previous()
}

// AtEnd reports whether the cursor is at EOF.
func (p *Parser) AtEnd() bool { return p.tokens[p.current].Type == token.EOF }

// Consume consumes a token of type t or fails with "Expect <what>.".
func (p *Parser) Consume(t token.Type, what string) (token.Token, error) {
	return p.Validator().Expect(t, what)
}

// Error returns a parse diagnostic positioned at tok.
func (p *Parser) Error(tok token.Token, code diag.Code, args ...any) *diag.Error {
	return diag.At(diag.PhaseParsing, tok, code, args...)
}

// Validator returns the step validator bound to p.
func (p *Parser) Validator() StepValidator { return StepValidator{p: p} }

// TokenRegistry returns the registry the tokens were scanned with.
func (p *Parser) TokenRegistry() *token.Registry { return p.tokReg }
