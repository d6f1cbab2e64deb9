package parser

import (
	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

// infix parses a left-associative layer: operands from the next layer
// joined by any of ops.
type infix struct {
	build func(left ast.Expression, op token.Token, right ast.Expression) ast.Expression
	ops   []token.Type
	kind  ast.Kind
}

func (x *infix) Produces() []ast.Kind { return []ast.Kind{x.kind} }

func (*infix) Value() bool { return false }

func (x *infix) Parse(p *Parser, next Operand) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.Match(x.ops...) {
		op := p.Previous()

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = x.build(left, op, right)
	}

	return left, nil
}

// Binary returns a left-associative layer producing [ast.BinaryExpr] for
// the given operators.
func Binary(ops ...token.Type) ExpressionParser {
	return &infix{
		kind: ast.KindBinary,
		ops:  ops,
		build: func(l ast.Expression, op token.Token, r ast.Expression) ast.Expression {
			return &ast.BinaryExpr{Left: l, Operator: op, Right: r}
		},
	}
}

// Equality parses == and !=.
func Equality() ExpressionParser { return Binary(token.BangEqual, token.EqualEqual) }

// Comparison parses < <= > >= and is.
func Comparison() ExpressionParser {
	return Binary(token.Greater, token.GreaterEqual, token.Less, token.LessEqual, token.Is)
}

// Additive parses + and -.
func Additive() ExpressionParser { return Binary(token.Minus, token.Plus) }

// Multiplicative parses * / % and **.
func Multiplicative() ExpressionParser {
	return Binary(token.Star, token.Slash, token.Percent, token.Power)
}

// Bitwise parses & | ^ << and >>.
func Bitwise() ExpressionParser {
	return &infix{
		kind: ast.KindBitwise,
		ops:  []token.Type{token.Ampersand, token.Pipe, token.Caret, token.ShiftLeft, token.ShiftRight},
		build: func(l ast.Expression, op token.Token, r ast.Expression) ast.Expression {
			return &ast.BitwiseExpr{Left: l, Operator: op, Right: r}
		},
	}
}

// Logical parses && || and or.
func Logical() ExpressionParser {
	return &infix{
		kind: ast.KindLogical,
		ops:  []token.Type{token.AndAnd, token.OrOr, token.And, token.Or},
		build: func(l ast.Expression, op token.Token, r ast.Expression) ast.Expression {
			return &ast.LogicalExpr{Left: l, Operator: op, Right: r}
		},
	}
}

// Range parses from..to.
func Range() ExpressionParser {
	return &infix{
		kind: ast.KindRange,
		ops:  []token.Type{token.DotDot},
		build: func(l ast.Expression, op token.Token, r ast.Expression) ast.Expression {
			return &ast.RangeExpr{From: l, Operator: op, To: r}
		},
	}
}

// Elvis parses a ?: b.
func Elvis() ExpressionParser {
	return &infix{
		kind: ast.KindElvis,
		ops:  []token.Type{token.Elvis},
		build: func(l ast.Expression, op token.Token, r ast.Expression) ast.Expression {
			return &ast.ElvisExpr{Left: l, Operator: op, Right: r}
		},
	}
}

type assignment struct{}

// Assignment parses right-associative assignment. The target is checked
// after the right-hand side is parsed: only variables, element accesses and
// property accesses can be assigned.
func Assignment() ExpressionParser { return assignment{} }

func (assignment) Produces() []ast.Kind {
	return []ast.Kind{ast.KindAssign, ast.KindArraySet, ast.KindSet}
}

func (assignment) Value() bool { return false }

func (a assignment) Parse(p *Parser, next Operand) (ast.Expression, error) {
	target, err := next()
	if err != nil {
		return nil, err
	}

	if !p.Match(token.Equal) {
		return target, nil
	}

	equals := p.Previous()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	value, err := a.Parse(p, next)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case *ast.VariableExpr:
		return &ast.AssignExpr{Name: t.Name, Value: value}, nil
	case *ast.ArrayGetExpr:
		return &ast.ArraySetExpr{Array: t.Array, Index: t.Index, Value: value, Bracket: t.Bracket}, nil
	case *ast.GetExpr:
		return &ast.SetExpr{Object: t.Object, Name: t.Name, Value: value}, nil
	}

	return nil, p.Error(equals, diag.InvalidAssignmentTarget)
}

// assignable reports whether e may be the target of an assignment.
func assignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.VariableExpr, *ast.ArrayGetExpr, *ast.GetExpr:
		return true
	}

	return false
}

type compoundAssignment struct{}

// CompoundAssignment parses += -= *= /= %= &= |= ^= <<= and >>=, or
// whatever compound assignments the token registry defines.
func CompoundAssignment() ExpressionParser { return compoundAssignment{} }

func (compoundAssignment) Produces() []ast.Kind { return []ast.Kind{ast.KindCompoundAssign} }

func (compoundAssignment) Value() bool { return false }

func (compoundAssignment) Parse(p *Parser, next Operand) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	ops := p.TokenRegistry().CompoundAssignments()

	for p.Match(ops...) {
		op := p.Previous()

		right, err := next()
		if err != nil {
			return nil, err
		}

		if !assignable(left) {
			return nil, p.Error(op, diag.InvalidAssignmentTarget)
		}

		left = &ast.CompoundAssignExpr{Target: left, Operator: op, Value: right}
	}

	return left, nil
}

type ternary struct{}

// Ternary parses right-associative condition ? then : otherwise.
func Ternary() ExpressionParser { return ternary{} }

func (ternary) Produces() []ast.Kind { return []ast.Kind{ast.KindTernary} }

func (ternary) Value() bool { return false }

func (t ternary) Parse(p *Parser, next Operand) (ast.Expression, error) {
	cond, err := next()
	if err != nil {
		return nil, err
	}

	if !p.Match(token.Question) {
		return cond, nil
	}

	question := p.Previous()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	then, err := t.Parse(p, next)
	if err != nil {
		return nil, err
	}

	if _, err := p.Consume(token.Colon, "':' after then branch of conditional"); err != nil {
		return nil, err
	}

	otherwise, err := t.Parse(p, next)
	if err != nil {
		return nil, err
	}

	return &ast.TernaryExpr{Condition: cond, Question: question, Then: then, Otherwise: otherwise}, nil
}

type prefixCall struct{}

// PrefixCall parses f <| x as a call of f with the single argument x.
func PrefixCall() ExpressionParser { return prefixCall{} }

func (prefixCall) Produces() []ast.Kind { return []ast.Kind{ast.KindCall} }

func (prefixCall) Value() bool { return false }

func (prefixCall) Parse(p *Parser, next Operand) (ast.Expression, error) {
	callee, err := next()
	if err != nil {
		return nil, err
	}

	for p.Match(token.PipeLeft) {
		op := p.Previous()

		arg, err := next()
		if err != nil {
			return nil, err
		}

		callee = &ast.CallExpr{Callee: callee, Paren: op, Arguments: []ast.Expression{arg}}
	}

	return callee, nil
}

type infixCall struct{}

// InfixCall parses a `f` b as a call of f with the arguments a and b.
func InfixCall() ExpressionParser { return infixCall{} }

func (infixCall) Produces() []ast.Kind { return []ast.Kind{ast.KindCall} }

func (infixCall) Value() bool { return false }

func (infixCall) Parse(p *Parser, next Operand) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.Match(token.Backtick) {
		tick := p.Previous()

		name, err := p.Consume(token.Identifier, "function name after '`'")
		if err != nil {
			return nil, err
		}

		if _, err := p.Consume(token.Backtick, "'`' after infix function name"); err != nil {
			return nil, err
		}

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &ast.CallExpr{
			Callee:    &ast.VariableExpr{Name: name},
			Paren:     tick,
			Arguments: []ast.Expression{left, right},
		}
	}

	return left, nil
}

type unary struct{}

// Unary parses right-associative prefix - ! and ~.
func Unary() ExpressionParser { return unary{} }

func (unary) Produces() []ast.Kind { return []ast.Kind{ast.KindUnary} }

func (unary) Value() bool { return false }

func (u unary) Parse(p *Parser, next Operand) (ast.Expression, error) {
	if !p.Match(token.Bang, token.Minus, token.Tilde) {
		return next()
	}

	op := p.Previous()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	right, err := u.Parse(p, next)
	if err != nil {
		return nil, err
	}

	return &ast.UnaryExpr{Operator: op, Right: right}, nil
}

type postfix struct{}

// Postfix parses calls, property reads and element reads following a
// primary expression.
func Postfix() ExpressionParser { return postfix{} }

func (postfix) Produces() []ast.Kind {
	return []ast.Kind{ast.KindCall, ast.KindGet, ast.KindArrayGet}
}

func (postfix) Value() bool { return false }

func (postfix) Parse(p *Parser, next Operand) (ast.Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.Match(token.LeftParen):
			expr, err = finishCall(p, expr)
		case p.Match(token.Dot):
			var name token.Token

			name, err = p.Consume(token.Identifier, "property name after '.'")
			expr = &ast.GetExpr{Object: expr, Name: name}
		case p.Match(token.LeftBracket):
			expr, err = finishIndex(p, expr)
		default:
			return expr, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// finishCall parses an argument list after its opening parenthesis.
func finishCall(p *Parser, callee ast.Expression) (ast.Expression, error) {
	paren := p.Previous()
	v := p.Validator()

	args := []ast.Expression{}

	if !p.Check(token.RightParen) {
		for {
			if err := v.Limit(len(args), MaxArguments, diag.TooManyArguments); err != nil {
				return nil, err
			}

			arg, err := p.Expression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.Match(token.Comma) {
				break
			}
		}
	}

	if _, err := p.Consume(token.RightParen, "')' after arguments"); err != nil {
		return nil, err
	}

	return &ast.CallExpr{Callee: callee, Paren: paren, Arguments: args}, nil
}

// finishIndex parses an index after its opening bracket.
func finishIndex(p *Parser, array ast.Expression) (ast.Expression, error) {
	bracket := p.Previous()

	index, err := p.Expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.Consume(token.RightBracket, "']' after index"); err != nil {
		return nil, err
	}

	return &ast.ArrayGetExpr{Array: array, Index: index, Bracket: bracket}, nil
}
