package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/quill/lang/token"
)

// Sprint renders node as an S-expression, e.g. "(+ 1 (* 2 3))".
func Sprint(node Node) string {
	var p printer

	p.node(node)

	return p.String()
}

// Fprint writes each statement as an S-expression on its own line.
func Fprint(w io.Writer, stmts []Statement) error {
	for _, s := range stmts {
		if _, err := fmt.Fprintln(w, Sprint(s)); err != nil {
			return err
		}
	}

	return nil
}

// printer builds S-expressions. Its visit methods never fail.
type printer struct {
	strings.Builder
}

// nilPart renders an absent optional child.
const nilPart = "_"

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.WriteString(nilPart)
	case Expression:
		p.expr(n)
	case Statement:
		p.stmt(n)
	}
}

func (p *printer) expr(e Expression) {
	if e == nil {
		p.WriteString(nilPart)

		return
	}

	_ = e.Accept(p)
}

func (p *printer) stmt(s Statement) {
	if s == nil {
		p.WriteString(nilPart)

		return
	}

	_ = s.Accept(p)
}

// sexpr writes "(head part...)". Parts may be strings, tokens, nodes or
// statement lists.
func (p *printer) sexpr(head string, parts ...any) {
	p.WriteByte('(')
	p.WriteString(head)

	for _, part := range parts {
		p.WriteByte(' ')
		p.part(part)
	}

	p.WriteByte(')')
}

func (p *printer) part(part any) {
	switch v := part.(type) {
	case string:
		p.WriteString(v)
	case token.Token:
		p.WriteString(v.Lexeme)
	case []token.Token:
		p.WriteByte('(')

		for i, t := range v {
			if i > 0 {
				p.WriteByte(' ')
			}

			p.WriteString(t.Lexeme)
		}

		p.WriteByte(')')
	case []Statement:
		for i, s := range v {
			if i > 0 {
				p.WriteByte(' ')
			}

			p.stmt(s)
		}
	case []Expression:
		for i, e := range v {
			if i > 0 {
				p.WriteByte(' ')
			}

			p.expr(e)
		}
	case Expression:
		p.expr(v)
	case Statement:
		p.stmt(v)
	default:
		p.WriteString(nilPart)
	}
}

func (p *printer) VisitArrayExpr(e *ArrayExpr) error {
	if len(e.Elements) == 0 {
		p.WriteString("(array)")

		return nil
	}

	p.sexpr("array", e.Elements)

	return nil
}

func (p *printer) VisitArrayGetExpr(e *ArrayGetExpr) error {
	p.sexpr("[]", e.Array, e.Index)

	return nil
}

func (p *printer) VisitArraySetExpr(e *ArraySetExpr) error {
	p.sexpr("[]=", e.Array, e.Index, e.Value)

	return nil
}

func (p *printer) VisitAssignExpr(e *AssignExpr) error {
	p.sexpr("=", e.Name, e.Value)

	return nil
}

func (p *printer) VisitBinaryExpr(e *BinaryExpr) error {
	p.sexpr(e.Operator.Lexeme, e.Left, e.Right)

	return nil
}

func (p *printer) VisitBitwiseExpr(e *BitwiseExpr) error {
	p.sexpr(e.Operator.Lexeme, e.Left, e.Right)

	return nil
}

func (p *printer) VisitCallExpr(e *CallExpr) error {
	parts := append([]any{e.Callee}, exprParts(e.Arguments)...)
	p.sexpr("call", parts...)

	return nil
}

func (p *printer) VisitComprehensionExpr(e *ComprehensionExpr) error {
	var b printer

	b.sexpr("for", e.Variable, e.Iterable)

	parts := []any{e.Yield, b.String()}

	if e.Condition != nil {
		var c printer

		c.sexpr("if", e.Condition)
		parts = append(parts, c.String())
	}

	if e.Otherwise != nil {
		var o printer

		o.sexpr("else", e.Otherwise)
		parts = append(parts, o.String())
	}

	p.sexpr("comprehension", parts...)

	return nil
}

func (p *printer) VisitCompoundAssignExpr(e *CompoundAssignExpr) error {
	p.sexpr(e.Operator.Lexeme, e.Target, e.Value)

	return nil
}

func (p *printer) VisitElvisExpr(e *ElvisExpr) error {
	p.sexpr("?:", e.Left, e.Right)

	return nil
}

func (p *printer) VisitFunctionExpr(e *FunctionExpr) error {
	p.sexprList("fun "+paramList(e.Params), e.Body)

	return nil
}

func (p *printer) VisitGetExpr(e *GetExpr) error {
	p.sexpr(".", e.Object, e.Name)

	return nil
}

func (p *printer) VisitGroupingExpr(e *GroupingExpr) error {
	p.sexpr("group", e.Expression)

	return nil
}

func (p *printer) VisitLiteralExpr(e *LiteralExpr) error {
	p.WriteString(FormatLiteral(e.Value))

	return nil
}

func (p *printer) VisitLogicalExpr(e *LogicalExpr) error {
	p.sexpr(e.Operator.Lexeme, e.Left, e.Right)

	return nil
}

func (p *printer) VisitRangeExpr(e *RangeExpr) error {
	p.sexpr("..", e.From, e.To)

	return nil
}

func (p *printer) VisitSetExpr(e *SetExpr) error {
	p.sexpr(".=", e.Object, e.Name, e.Value)

	return nil
}

func (p *printer) VisitSuperExpr(e *SuperExpr) error {
	p.sexpr("super", e.Method)

	return nil
}

func (p *printer) VisitTernaryExpr(e *TernaryExpr) error {
	p.sexpr("?", e.Condition, e.Then, e.Otherwise)

	return nil
}

func (p *printer) VisitThisExpr(*ThisExpr) error {
	p.WriteString("this")

	return nil
}

func (p *printer) VisitUnaryExpr(e *UnaryExpr) error {
	p.sexpr(e.Operator.Lexeme, e.Right)

	return nil
}

func (p *printer) VisitVariableExpr(e *VariableExpr) error {
	p.WriteString(e.Name.Lexeme)

	return nil
}

func (p *printer) VisitBlockStmt(s *BlockStmt) error {
	p.sexprList("block", s.Statements)

	return nil
}

func (p *printer) VisitBreakStmt(*BreakStmt) error {
	p.WriteString("(break)")

	return nil
}

func (p *printer) VisitClassStmt(s *ClassStmt) error {
	parts := []any{s.Name}

	if s.Superclass != nil {
		parts = append(parts, "(extends "+s.Superclass.Name.Lexeme+")")
	}

	if s.Constructor != nil {
		var c printer

		c.sexprList("constructor "+paramList(s.Constructor.Params), s.Constructor.Body)
		parts = append(parts, c.String())
	}

	for _, m := range s.Methods {
		parts = append(parts, Statement(m))
	}

	p.sexpr("class", parts...)

	return nil
}

func (p *printer) VisitContinueStmt(*ContinueStmt) error {
	p.WriteString("(continue)")

	return nil
}

func (p *printer) VisitDoWhileStmt(s *DoWhileStmt) error {
	p.sexpr("do", s.Body, s.Condition)

	return nil
}

func (p *printer) VisitExpressionStmt(s *ExpressionStmt) error {
	p.sexpr(";", s.Expression)

	return nil
}

func (p *printer) VisitForStmt(s *ForStmt) error {
	p.sexpr("for", s.Initializer, s.Condition, s.Increment, s.Body)

	return nil
}

func (p *printer) VisitForEachStmt(s *ForEachStmt) error {
	p.sexpr("foreach", s.Variable, s.Iterable, s.Body)

	return nil
}

func (p *printer) VisitFunctionStmt(s *FunctionStmt) error {
	p.sexprList("fun "+s.Name.Lexeme+" "+paramList(s.Params), s.Body)

	return nil
}

func (p *printer) VisitIfStmt(s *IfStmt) error {
	if s.Else == nil {
		p.sexpr("if", s.Condition, s.Then)

		return nil
	}

	p.sexpr("if", s.Condition, s.Then, s.Else)

	return nil
}

func (p *printer) VisitImportStmt(s *ImportStmt) error {
	if s.Alias != nil {
		p.sexpr("import", s.Name, "as", *s.Alias)

		return nil
	}

	p.sexpr("import", s.Name)

	return nil
}

func (p *printer) VisitReturnStmt(s *ReturnStmt) error {
	if s.Value == nil {
		p.WriteString("(return)")

		return nil
	}

	p.sexpr("return", s.Value)

	return nil
}

func (p *printer) VisitSwitchStmt(s *SwitchStmt) error {
	parts := []any{s.Subject}

	for _, c := range s.Cases {
		var b printer

		b.sexprList("case "+Sprint(c.Value), c.Body)
		parts = append(parts, b.String())
	}

	if s.Default != nil {
		var b printer

		b.sexprList("default", s.Default.Body)
		parts = append(parts, b.String())
	}

	p.sexpr("switch", parts...)

	return nil
}

func (p *printer) VisitTestStmt(s *TestStmt) error {
	p.sexprList("test "+s.Name.Lexeme, s.Body)

	return nil
}

func (p *printer) VisitVarStmt(s *VarStmt) error {
	head := "var"
	if s.Final {
		head = "val"
	}

	if s.Initializer == nil {
		p.sexpr(head, s.Name)

		return nil
	}

	p.sexpr(head, s.Name, s.Initializer)

	return nil
}

func (p *printer) VisitWhileStmt(s *WhileStmt) error {
	p.sexpr("while", s.Condition, s.Body)

	return nil
}

// sexprList is sexpr for a head followed by a possibly empty statement list.
func (p *printer) sexprList(head string, stmts []Statement) {
	if len(stmts) == 0 {
		p.sexpr(head)

		return
	}

	p.sexpr(head, stmts)
}

func exprParts(exprs []Expression) []any {
	parts := make([]any, len(exprs))
	for i, e := range exprs {
		parts[i] = e
	}

	return parts
}

func paramList(params []token.Token) string {
	names := make([]string, len(params))
	for i, t := range params {
		names[i] = t.Lexeme
	}

	return "(" + strings.Join(names, " ") + ")"
}

// FormatLiteral renders a literal value the way it would be written in
// source.
func FormatLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case rune:
		return strconv.QuoteRune(v)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}

		return s
	default:
		return fmt.Sprint(v)
	}
}
