package ast

import "github.com/ardnew/quill/lang/token"

// ToMap converts node to nested maps and slices of native Go values,
// suitable for JSON or YAML encoding. Every map has a "kind" key naming the
// node type and a "pos" key with its position.
func ToMap(node Node) map[string]any {
	var m mapper

	switch n := node.(type) {
	case Expression:
		return m.expr(n)
	case Statement:
		return m.stmt(n)
	}

	return nil
}

// ToMaps converts a statement list with [ToMap].
func ToMaps(stmts []Statement) []any {
	var m mapper

	return m.stmts(stmts)
}

// mapper converts nodes to maps. Each visit method stores its result in out.
type mapper struct {
	out map[string]any
}

func (m *mapper) expr(e Expression) map[string]any {
	if e == nil {
		return nil
	}

	var sub mapper

	_ = e.Accept(&sub)

	return sub.out
}

func (m *mapper) stmt(s Statement) map[string]any {
	if s == nil {
		return nil
	}

	var sub mapper

	_ = s.Accept(&sub)

	return sub.out
}

func (m *mapper) exprs(es []Expression) []any {
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = m.expr(e)
	}

	return out
}

func (m *mapper) stmts(ss []Statement) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = m.stmt(s)
	}

	return out
}

// set starts the map for n and adds the given key/value pairs.
func (m *mapper) set(n Node, kv ...any) {
	m.out = map[string]any{
		"kind": n.Kind().String(),
		"pos":  n.Pos().String(),
	}

	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)

		switch v := kv[i+1].(type) {
		case nil:
		case map[string]any:
			if v != nil {
				m.out[key] = v
			}
		default:
			m.out[key] = v
		}
	}
}

func names(tokens []token.Token) []any {
	out := make([]any, len(tokens))
	for i, t := range tokens {
		out[i] = t.Lexeme
	}

	return out
}

func (m *mapper) VisitArrayExpr(e *ArrayExpr) error {
	m.set(e, "elements", m.exprs(e.Elements))

	return nil
}

func (m *mapper) VisitArrayGetExpr(e *ArrayGetExpr) error {
	m.set(e, "array", m.expr(e.Array), "index", m.expr(e.Index))

	return nil
}

func (m *mapper) VisitArraySetExpr(e *ArraySetExpr) error {
	m.set(e, "array", m.expr(e.Array), "index", m.expr(e.Index), "value", m.expr(e.Value))

	return nil
}

func (m *mapper) VisitAssignExpr(e *AssignExpr) error {
	m.set(e, "name", e.Name.Lexeme, "value", m.expr(e.Value))

	return nil
}

func (m *mapper) VisitBinaryExpr(e *BinaryExpr) error {
	m.set(e, "operator", e.Operator.Lexeme, "left", m.expr(e.Left), "right", m.expr(e.Right))

	return nil
}

func (m *mapper) VisitBitwiseExpr(e *BitwiseExpr) error {
	m.set(e, "operator", e.Operator.Lexeme, "left", m.expr(e.Left), "right", m.expr(e.Right))

	return nil
}

func (m *mapper) VisitCallExpr(e *CallExpr) error {
	m.set(e, "callee", m.expr(e.Callee), "arguments", m.exprs(e.Arguments))

	return nil
}

func (m *mapper) VisitComprehensionExpr(e *ComprehensionExpr) error {
	m.set(e,
		"yield", m.expr(e.Yield),
		"variable", e.Variable.Lexeme,
		"iterable", m.expr(e.Iterable),
		"condition", m.expr(e.Condition),
		"otherwise", m.expr(e.Otherwise),
	)

	return nil
}

func (m *mapper) VisitCompoundAssignExpr(e *CompoundAssignExpr) error {
	m.set(e, "operator", e.Operator.Lexeme, "target", m.expr(e.Target), "value", m.expr(e.Value))

	return nil
}

func (m *mapper) VisitElvisExpr(e *ElvisExpr) error {
	m.set(e, "left", m.expr(e.Left), "right", m.expr(e.Right))

	return nil
}

func (m *mapper) VisitFunctionExpr(e *FunctionExpr) error {
	m.set(e, "params", names(e.Params), "body", m.stmts(e.Body))

	return nil
}

func (m *mapper) VisitGetExpr(e *GetExpr) error {
	m.set(e, "object", m.expr(e.Object), "name", e.Name.Lexeme)

	return nil
}

func (m *mapper) VisitGroupingExpr(e *GroupingExpr) error {
	m.set(e, "expression", m.expr(e.Expression))

	return nil
}

func (m *mapper) VisitLiteralExpr(e *LiteralExpr) error {
	m.set(e)
	m.out["value"] = literalValue(e.Value)

	return nil
}

func (m *mapper) VisitLogicalExpr(e *LogicalExpr) error {
	m.set(e, "operator", e.Operator.Lexeme, "left", m.expr(e.Left), "right", m.expr(e.Right))

	return nil
}

func (m *mapper) VisitRangeExpr(e *RangeExpr) error {
	m.set(e, "from", m.expr(e.From), "to", m.expr(e.To))

	return nil
}

func (m *mapper) VisitSetExpr(e *SetExpr) error {
	m.set(e, "object", m.expr(e.Object), "name", e.Name.Lexeme, "value", m.expr(e.Value))

	return nil
}

func (m *mapper) VisitSuperExpr(e *SuperExpr) error {
	m.set(e, "method", e.Method.Lexeme)

	return nil
}

func (m *mapper) VisitTernaryExpr(e *TernaryExpr) error {
	m.set(e,
		"condition", m.expr(e.Condition),
		"then", m.expr(e.Then),
		"otherwise", m.expr(e.Otherwise),
	)

	return nil
}

func (m *mapper) VisitThisExpr(e *ThisExpr) error {
	m.set(e)

	return nil
}

func (m *mapper) VisitUnaryExpr(e *UnaryExpr) error {
	m.set(e, "operator", e.Operator.Lexeme, "right", m.expr(e.Right))

	return nil
}

func (m *mapper) VisitVariableExpr(e *VariableExpr) error {
	m.set(e, "name", e.Name.Lexeme)

	return nil
}

func (m *mapper) VisitBlockStmt(s *BlockStmt) error {
	m.set(s, "statements", m.stmts(s.Statements))

	return nil
}

func (m *mapper) VisitBreakStmt(s *BreakStmt) error {
	m.set(s)

	return nil
}

func (m *mapper) VisitClassStmt(s *ClassStmt) error {
	methods := make([]any, len(s.Methods))
	for i, fn := range s.Methods {
		methods[i] = m.stmt(fn)
	}

	var super, ctor any

	if s.Superclass != nil {
		super = s.Superclass.Name.Lexeme
	}

	if s.Constructor != nil {
		ctor = m.stmt(s.Constructor)
	}

	m.set(s, "name", s.Name.Lexeme, "superclass", super, "constructor", ctor, "methods", methods)

	return nil
}

func (m *mapper) VisitContinueStmt(s *ContinueStmt) error {
	m.set(s)

	return nil
}

func (m *mapper) VisitDoWhileStmt(s *DoWhileStmt) error {
	m.set(s, "body", m.stmt(s.Body), "condition", m.expr(s.Condition))

	return nil
}

func (m *mapper) VisitExpressionStmt(s *ExpressionStmt) error {
	m.set(s, "expression", m.expr(s.Expression))

	return nil
}

func (m *mapper) VisitForStmt(s *ForStmt) error {
	m.set(s,
		"initializer", m.stmt(s.Initializer),
		"condition", m.expr(s.Condition),
		"increment", m.expr(s.Increment),
		"body", m.stmt(s.Body),
	)

	return nil
}

func (m *mapper) VisitForEachStmt(s *ForEachStmt) error {
	m.set(s, "variable", s.Variable.Lexeme, "iterable", m.expr(s.Iterable), "body", m.stmt(s.Body))

	return nil
}

func (m *mapper) VisitFunctionStmt(s *FunctionStmt) error {
	m.set(s, "name", s.Name.Lexeme, "params", names(s.Params), "body", m.stmts(s.Body))

	return nil
}

func (m *mapper) VisitIfStmt(s *IfStmt) error {
	m.set(s, "condition", m.expr(s.Condition), "then", m.stmt(s.Then), "else", m.stmt(s.Else))

	return nil
}

func (m *mapper) VisitImportStmt(s *ImportStmt) error {
	var alias any
	if s.Alias != nil {
		alias = s.Alias.Lexeme
	}

	m.set(s, "name", s.Name.Lexeme, "alias", alias)

	return nil
}

func (m *mapper) VisitReturnStmt(s *ReturnStmt) error {
	m.set(s, "value", m.expr(s.Value))

	return nil
}

func (m *mapper) VisitSwitchStmt(s *SwitchStmt) error {
	cases := make([]any, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = map[string]any{
			"value": m.expr(c.Value),
			"body":  m.stmts(c.Body),
		}
	}

	var def any
	if s.Default != nil {
		def = m.stmts(s.Default.Body)
	}

	m.set(s, "subject", m.expr(s.Subject), "cases", cases, "default", def)

	return nil
}

func (m *mapper) VisitTestStmt(s *TestStmt) error {
	m.set(s, "name", s.Name.Literal, "body", m.stmts(s.Body))

	return nil
}

func (m *mapper) VisitVarStmt(s *VarStmt) error {
	m.set(s, "name", s.Name.Lexeme, "final", s.Final, "initializer", m.expr(s.Initializer))

	return nil
}

func (m *mapper) VisitWhileStmt(s *WhileStmt) error {
	m.set(s, "condition", m.expr(s.Condition), "body", m.stmt(s.Body))

	return nil
}

// literalValue maps literal values to types every encoder understands.
func literalValue(v any) any {
	if r, ok := v.(rune); ok {
		return string(r)
	}

	return v
}
