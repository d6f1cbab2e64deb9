package parser

import (
	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

// value adapts a pair of functions to [ValueParser].
type value struct {
	accepts func(p *Parser) bool
	parse   func(p *Parser, next Operand) (ast.Expression, error)
	kinds   []ast.Kind
}

func (v *value) Produces() []ast.Kind { return v.kinds }

func (*value) Value() bool { return true }

func (v *value) Accepts(p *Parser) bool { return v.accepts(p) }

func (v *value) Parse(p *Parser, next Operand) (ast.Expression, error) {
	return v.parse(p, next)
}

// leading accepts when the current token has any of types.
func leading(types ...token.Type) func(*Parser) bool {
	return func(p *Parser) bool {
		for _, t := range types {
			if p.Check(t) {
				return true
			}
		}

		return false
	}
}

// Literal parses number, string, character, boolean and null literals.
func Literal() ValueParser {
	return &value{
		kinds:   []ast.Kind{ast.KindLiteral},
		accepts: leading(token.Number, token.String, token.Char, token.True, token.False, token.Null),
		parse: func(p *Parser, _ Operand) (ast.Expression, error) {
			tok := p.Advance()

			return &ast.LiteralExpr{Token: tok, Value: tok.Literal}, nil
		},
	}
}

// Identifier parses a variable reference, or an element read when the name
// is followed by '['.
func Identifier() ValueParser {
	return &value{
		kinds:   []ast.Kind{ast.KindVariable, ast.KindArrayGet},
		accepts: leading(token.Identifier),
		parse: func(p *Parser, _ Operand) (ast.Expression, error) {
			v := &ast.VariableExpr{Name: p.Advance()}

			if p.Match(token.LeftBracket) {
				return finishIndex(p, v)
			}

			return v, nil
		},
	}
}

// This parses the receiver keyword.
func This() ValueParser {
	return &value{
		kinds:   []ast.Kind{ast.KindThis},
		accepts: leading(token.This),
		parse: func(p *Parser, _ Operand) (ast.Expression, error) {
			return &ast.ThisExpr{Keyword: p.Advance()}, nil
		},
	}
}

// Super parses super.method.
func Super() ValueParser {
	return &value{
		kinds:   []ast.Kind{ast.KindSuper},
		accepts: leading(token.Super),
		parse: func(p *Parser, _ Operand) (ast.Expression, error) {
			keyword := p.Advance()

			if _, err := p.Consume(token.Dot, "'.' after 'super'"); err != nil {
				return nil, err
			}

			method, err := p.Consume(token.Identifier, "superclass method name")
			if err != nil {
				return nil, err
			}

			return &ast.SuperExpr{Keyword: keyword, Method: method}, nil
		},
	}
}

// Grouping parses a parenthesized expression.
func Grouping() ValueParser {
	return &value{
		kinds:   []ast.Kind{ast.KindGrouping},
		accepts: leading(token.LeftParen),
		parse: func(p *Parser, next Operand) (ast.Expression, error) {
			paren := p.Advance()

			e, err := next()
			if err != nil {
				return nil, err
			}

			if _, err := p.Consume(token.RightParen, "')' after expression"); err != nil {
				return nil, err
			}

			return &ast.GroupingExpr{Expression: e, Paren: paren}, nil
		},
	}
}

// Array parses array literals, allowing a trailing comma, and
// comprehensions of the form [yield for x in xs if cond else otherwise].
func Array() ValueParser {
	return &value{
		kinds:   []ast.Kind{ast.KindArray, ast.KindComprehension},
		accepts: leading(token.LeftBracket),
		parse:   parseArray,
	}
}

func parseArray(p *Parser, next Operand) (ast.Expression, error) {
	bracket := p.Advance()

	if p.Match(token.RightBracket) {
		return &ast.ArrayExpr{Elements: []ast.Expression{}, Bracket: bracket}, nil
	}

	first, err := next()
	if err != nil {
		return nil, err
	}

	if p.Match(token.For) {
		return finishComprehension(p, next, bracket, first)
	}

	elems := []ast.Expression{first}

	for p.Match(token.Comma) {
		if p.Check(token.RightBracket) {
			break
		}

		e, err := next()
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)
	}

	if _, err := p.Consume(token.RightBracket, "']' after array elements"); err != nil {
		return nil, err
	}

	return &ast.ArrayExpr{Elements: elems, Bracket: bracket}, nil
}

func finishComprehension(
	p *Parser, next Operand, bracket token.Token, yield ast.Expression,
) (ast.Expression, error) {
	variable, err := p.Consume(token.Identifier, "loop variable after 'for'")
	if err != nil {
		return nil, err
	}

	if _, err := p.Consume(token.In, "'in' after loop variable"); err != nil {
		return nil, err
	}

	c := &ast.ComprehensionExpr{Yield: yield, Variable: variable, Bracket: bracket}

	if c.Iterable, err = next(); err != nil {
		return nil, err
	}

	if p.Match(token.If) {
		if c.Condition, err = next(); err != nil {
			return nil, err
		}

		if p.Match(token.Else) {
			if c.Otherwise, err = next(); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.Consume(token.RightBracket, "']' after comprehension"); err != nil {
		return nil, err
	}

	return c, nil
}

// Complex parses the remaining primary forms. It accepts any token and so
// must be registered last: anonymous functions are recognized, anything
// else is reported as a missing expression.
func Complex() ValueParser {
	return &value{
		kinds:   []ast.Kind{ast.KindFunction},
		accepts: func(*Parser) bool { return true },
		parse: func(p *Parser, _ Operand) (ast.Expression, error) {
			if !p.Match(token.Fun) {
				return nil, p.Error(p.Peek(), diag.ExpectExpression)
			}

			keyword := p.Previous()

			params, body, err := functionTail(p, "'fun'", "function")
			if err != nil {
				return nil, err
			}

			return &ast.FunctionExpr{Keyword: keyword, Params: params, Body: body}, nil
		},
	}
}

// functionTail parses a parameter list and body. after names what the
// opening parenthesis follows; kind names the body in messages.
func functionTail(p *Parser, after, kind string) ([]token.Token, []ast.Statement, error) {
	if _, err := p.Consume(token.LeftParen, "'(' after "+after); err != nil {
		return nil, nil, err
	}

	v := p.Validator()
	params := []token.Token{}

	if !p.Check(token.RightParen) {
		for {
			if err := v.Limit(len(params), MaxParameters, diag.TooManyParameters); err != nil {
				return nil, nil, err
			}

			param, err := p.Consume(token.Identifier, "parameter name")
			if err != nil {
				return nil, nil, err
			}

			params = append(params, param)

			if !p.Match(token.Comma) {
				break
			}
		}
	}

	if _, err := p.Consume(token.RightParen, "')' after parameters"); err != nil {
		return nil, nil, err
	}

	if _, err := p.Consume(token.LeftBrace, "'{' before "+kind+" body"); err != nil {
		return nil, nil, err
	}

	body, err := p.Block()
	if err != nil {
		return nil, nil, err
	}

	return params, body, nil
}
