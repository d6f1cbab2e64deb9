package parser

import (
	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

// statement adapts a parse function to [StatementParser].
type statement struct {
	accepts func(p *Parser) bool
	parse   func(p *Parser) (ast.Statement, error)
	kinds   []ast.Kind
}

func (s *statement) Produces() []ast.Kind { return s.kinds }

func (s *statement) Accepts(p *Parser) bool {
	if s.accepts == nil {
		return true
	}

	return s.accepts(p)
}

func (s *statement) Parse(p *Parser) (ast.Statement, error) { return s.parse(p) }

func terminate(p *Parser, what string) error {
	_, err := p.Consume(token.Semicolon, "';' after "+what)

	return err
}

// parenthesized parses ( expression ) following the keyword named by after.
func parenthesized(p *Parser, after, what string) (ast.Expression, error) {
	if _, err := p.Consume(token.LeftParen, "'(' after "+after); err != nil {
		return nil, err
	}

	e, err := p.Expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.Consume(token.RightParen, "')' after "+what); err != nil {
		return nil, err
	}

	return e, nil
}

// BlockStatement parses { statements }.
func BlockStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindBlockStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			brace := p.Advance()

			stmts, err := p.Block()
			if err != nil {
				return nil, err
			}

			return &ast.BlockStmt{Statements: stmts, Brace: brace}, nil
		},
	}
}

// BreakStatement parses break;.
func BreakStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindBreakStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()
			if err := terminate(p, "'break'"); err != nil {
				return nil, err
			}

			return &ast.BreakStmt{Keyword: keyword}, nil
		},
	}
}

// ContinueStatement parses continue;.
func ContinueStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindContinueStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()
			if err := terminate(p, "'continue'"); err != nil {
				return nil, err
			}

			return &ast.ContinueStmt{Keyword: keyword}, nil
		},
	}
}

// ClassStatement parses a class declaration with an optional superclass,
// at most one constructor and any number of methods.
func ClassStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindClassStmt},
		parse: parseClass,
	}
}

func parseClass(p *Parser) (ast.Statement, error) {
	p.Advance()

	name, err := p.Consume(token.Identifier, "class name")
	if err != nil {
		return nil, err
	}

	c := &ast.ClassStmt{Name: name, Methods: []*ast.FunctionStmt{}}

	if p.Match(token.Extends) {
		super, err := p.Consume(token.Identifier, "superclass name")
		if err != nil {
			return nil, err
		}

		c.Superclass = &ast.VariableExpr{Name: super}
	}

	if _, err := p.Consume(token.LeftBrace, "'{' before class body"); err != nil {
		return nil, err
	}

	for !p.Check(token.RightBrace) && !p.AtEnd() {
		switch {
		case p.Match(token.Constructor):
			keyword := p.Previous()
			if c.Constructor != nil {
				return nil, p.Error(keyword, diag.DuplicateConstructor, name.Lexeme)
			}

			params, body, err := functionTail(p, "'constructor'", "constructor")
			if err != nil {
				return nil, err
			}

			c.Constructor = &ast.FunctionStmt{Name: keyword, Params: params, Body: body}

		case p.Match(token.Fun):
			method, err := p.Consume(token.Identifier, "method name")
			if err != nil {
				return nil, err
			}

			params, body, err := functionTail(p, "method name", "method")
			if err != nil {
				return nil, err
			}

			c.Methods = append(c.Methods, &ast.FunctionStmt{Name: method, Params: params, Body: body})

		default:
			_, err := p.Validator().ExpectOneOf("'fun' or 'constructor' in class body",
				token.Fun, token.Constructor)

			return nil, err
		}
	}

	if _, err := p.Consume(token.RightBrace, "'}' after class body"); err != nil {
		return nil, err
	}

	return c, nil
}

// DoWhileStatement parses do statement while (condition);.
func DoWhileStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindDoWhileStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()

			body, err := p.Statement()
			if err != nil {
				return nil, err
			}

			if _, err := p.Consume(token.While, "'while' after do body"); err != nil {
				return nil, err
			}

			cond, err := parenthesized(p, "'while'", "condition")
			if err != nil {
				return nil, err
			}

			if err := terminate(p, "do-while condition"); err != nil {
				return nil, err
			}

			return &ast.DoWhileStmt{Keyword: keyword, Body: body, Condition: cond}, nil
		},
	}
}

// ForStatement parses both for (init; cond; incr) body and
// for (x in iterable) body.
func ForStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindForStmt, ast.KindForEachStmt},
		parse: parseFor,
	}
}

func parseFor(p *Parser) (ast.Statement, error) {
	keyword := p.Advance()

	if _, err := p.Consume(token.LeftParen, "'(' after 'for'"); err != nil {
		return nil, err
	}

	if p.Check(token.Identifier) && p.CheckNext(token.In) {
		return finishForEach(p)
	}

	var (
		init ast.Statement
		err  error
	)

	switch {
	case p.Match(token.Semicolon):
	case p.Check(token.Var), p.Check(token.Val):
		init, err = p.Statement()
	default:
		init, err = p.expressionStatement()
	}

	if err != nil {
		return nil, err
	}

	s := &ast.ForStmt{Keyword: keyword, Initializer: init}

	if !p.Check(token.Semicolon) {
		if s.Condition, err = p.Expression(); err != nil {
			return nil, err
		}
	}

	if err := terminate(p, "loop condition"); err != nil {
		return nil, err
	}

	if !p.Check(token.RightParen) {
		if s.Increment, err = p.Expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.Consume(token.RightParen, "')' after for clauses"); err != nil {
		return nil, err
	}

	if s.Body, err = p.Statement(); err != nil {
		return nil, err
	}

	return s, nil
}

func finishForEach(p *Parser) (ast.Statement, error) {
	variable := p.Advance()
	p.Advance()

	iterable, err := p.Expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.Consume(token.RightParen, "')' after for-each iterable"); err != nil {
		return nil, err
	}

	body, err := p.Statement()
	if err != nil {
		return nil, err
	}

	return &ast.ForEachStmt{Variable: variable, Iterable: iterable, Body: body}, nil
}

// FunctionStatement parses a named function declaration. "fun" followed by
// anything but a name is left to the expression parsers.
func FunctionStatement() StatementParser {
	return &statement{
		kinds:   []ast.Kind{ast.KindFunctionStmt},
		accepts: func(p *Parser) bool { return p.CheckNext(token.Identifier) },
		parse: func(p *Parser) (ast.Statement, error) {
			p.Advance()

			name, err := p.Consume(token.Identifier, "function name")
			if err != nil {
				return nil, err
			}

			params, body, err := functionTail(p, "function name", "function")
			if err != nil {
				return nil, err
			}

			return &ast.FunctionStmt{Name: name, Params: params, Body: body}, nil
		},
	}
}

// IfStatement parses if (condition) then, with an optional else branch.
func IfStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindIfStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()

			cond, err := parenthesized(p, "'if'", "if condition")
			if err != nil {
				return nil, err
			}

			s := &ast.IfStmt{Keyword: keyword, Condition: cond}

			if s.Then, err = p.Statement(); err != nil {
				return nil, err
			}

			if p.Match(token.Else) {
				if s.Else, err = p.Statement(); err != nil {
					return nil, err
				}
			}

			return s, nil
		},
	}
}

// ImportStatement parses import name; and import name as alias;.
func ImportStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindImportStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()

			name, err := p.Consume(token.Identifier, "module name after 'import'")
			if err != nil {
				return nil, err
			}

			s := &ast.ImportStmt{Keyword: keyword, Name: name}

			if p.Match(token.As) {
				alias, err := p.Consume(token.Identifier, "alias after 'as'")
				if err != nil {
					return nil, err
				}

				s.Alias = &alias
			}

			if err := terminate(p, "import"); err != nil {
				return nil, err
			}

			return s, nil
		},
	}
}

// ReturnStatement parses return; and return value;.
func ReturnStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindReturnStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			s := &ast.ReturnStmt{Keyword: p.Advance()}

			if !p.Check(token.Semicolon) {
				var err error
				if s.Value, err = p.Expression(); err != nil {
					return nil, err
				}
			}

			if err := terminate(p, "return value"); err != nil {
				return nil, err
			}

			return s, nil
		},
	}
}

// SwitchStatement parses switch (subject) { case v: ... default: ... }.
// Each branch runs up to the next case, default or closing brace.
func SwitchStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindSwitchStmt},
		parse: parseSwitch,
	}
}

func parseSwitch(p *Parser) (ast.Statement, error) {
	keyword := p.Advance()

	subject, err := parenthesized(p, "'switch'", "switch subject")
	if err != nil {
		return nil, err
	}

	if _, err := p.Consume(token.LeftBrace, "'{' before switch body"); err != nil {
		return nil, err
	}

	s := &ast.SwitchStmt{Keyword: keyword, Subject: subject, Cases: []*ast.Case{}}

	for !p.Check(token.RightBrace) && !p.AtEnd() {
		switch {
		case p.Match(token.Case):
			c := &ast.Case{Keyword: p.Previous()}

			if c.Value, err = p.Expression(); err != nil {
				return nil, err
			}

			if _, err := p.Consume(token.Colon, "':' after case value"); err != nil {
				return nil, err
			}

			if c.Body, err = caseBody(p); err != nil {
				return nil, err
			}

			s.Cases = append(s.Cases, c)

		case p.Match(token.DefaultCase):
			c := &ast.Case{Keyword: p.Previous()}
			if s.Default != nil {
				return nil, p.Error(c.Keyword, diag.DuplicateDefault)
			}

			if _, err := p.Consume(token.Colon, "':' after 'default'"); err != nil {
				return nil, err
			}

			if c.Body, err = caseBody(p); err != nil {
				return nil, err
			}

			s.Default = c

		default:
			_, err := p.Validator().ExpectOneOf("'case' or 'default' in switch body",
				token.Case, token.DefaultCase)

			return nil, err
		}
	}

	if _, err := p.Consume(token.RightBrace, "'}' after switch body"); err != nil {
		return nil, err
	}

	return s, nil
}

func caseBody(p *Parser) ([]ast.Statement, error) {
	stmts := []ast.Statement{}

	for !p.Check(token.Case) && !p.Check(token.DefaultCase) &&
		!p.Check(token.RightBrace) && !p.AtEnd() {
		s, err := p.Statement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
	}

	return stmts, nil
}

// TestStatement parses test "name" { body }.
func TestStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindTestStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()

			name, err := p.Consume(token.String, "test name")
			if err != nil {
				return nil, err
			}

			if _, err := p.Consume(token.LeftBrace, "'{' before test body"); err != nil {
				return nil, err
			}

			body, err := p.Block()
			if err != nil {
				return nil, err
			}

			return &ast.TestStmt{Keyword: keyword, Name: name, Body: body}, nil
		},
	}
}

// VarStatement parses var and val declarations. A val must be initialized.
func VarStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindVarStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()

			name, err := p.Consume(token.Identifier, "variable name")
			if err != nil {
				return nil, err
			}

			s := &ast.VarStmt{Keyword: keyword, Name: name, Final: keyword.Type == token.Val}

			if p.Match(token.Equal) {
				if s.Initializer, err = p.Expression(); err != nil {
					return nil, err
				}
			} else if s.Final {
				return nil, p.Error(name, diag.UninitializedValue, name.Lexeme)
			}

			if err := terminate(p, "variable declaration"); err != nil {
				return nil, err
			}

			return s, nil
		},
	}
}

// WhileStatement parses while (condition) body.
func WhileStatement() StatementParser {
	return &statement{
		kinds: []ast.Kind{ast.KindWhileStmt},
		parse: func(p *Parser) (ast.Statement, error) {
			keyword := p.Advance()

			cond, err := parenthesized(p, "'while'", "condition")
			if err != nil {
				return nil, err
			}

			body, err := p.Statement()
			if err != nil {
				return nil, err
			}

			return &ast.WhileStmt{Keyword: keyword, Condition: cond, Body: body}, nil
		},
	}
}
