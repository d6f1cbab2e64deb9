package ast

import "github.com/ardnew/quill/lang/token"

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	// Pos returns the position of the token that best identifies the node
	// in diagnostics.
	Pos() token.Position
}

// Expression is a node that produces a value. Expressions are compared by
// identity: two syntactically equal expressions are distinct nodes.
type Expression interface {
	Node
	Accept(v ExprVisitor) error
	exprNode()
}

type (
	// ArrayExpr is an array literal: [a, b, c].
	ArrayExpr struct {
		Elements []Expression
		Bracket  token.Token
	}

	// ArrayGetExpr reads an element: array[index].
	ArrayGetExpr struct {
		Array   Expression
		Index   Expression
		Bracket token.Token
	}

	// ArraySetExpr writes an element: array[index] = value.
	ArraySetExpr struct {
		Array   Expression
		Index   Expression
		Value   Expression
		Bracket token.Token
	}

	// AssignExpr assigns to a variable: name = value.
	AssignExpr struct {
		Value Expression
		Name  token.Token
	}

	// BinaryExpr is an arithmetic, comparison or equality operation.
	BinaryExpr struct {
		Left     Expression
		Right    Expression
		Operator token.Token
	}

	// BitwiseExpr is one of & | ^ << >>.
	BitwiseExpr struct {
		Left     Expression
		Right    Expression
		Operator token.Token
	}

	// CallExpr calls Callee with Arguments. Prefix calls (f <| x) and infix
	// calls (a `f` b) produce CallExpr too.
	CallExpr struct {
		Callee    Expression
		Arguments []Expression
		Paren     token.Token
	}

	// ComprehensionExpr builds an array from an iterable:
	//
	//	[yield for variable in iterable if condition else otherwise]
	//
	// Condition and Otherwise are optional. Without Otherwise, elements
	// failing Condition are skipped.
	ComprehensionExpr struct {
		Yield     Expression
		Iterable  Expression
		Condition Expression
		Otherwise Expression
		Variable  token.Token
		Bracket   token.Token
	}

	// CompoundAssignExpr updates Target through the base operator of
	// Operator: target += value.
	CompoundAssignExpr struct {
		Target   Expression
		Value    Expression
		Operator token.Token
	}

	// ElvisExpr yields Left unless it is null, else Right: a ?: b.
	ElvisExpr struct {
		Left     Expression
		Right    Expression
		Operator token.Token
	}

	// FunctionExpr is an anonymous function: fun (a, b) { ... }.
	FunctionExpr struct {
		Params  []token.Token
		Body    []Statement
		Keyword token.Token
	}

	// GetExpr reads a property: object.name.
	GetExpr struct {
		Object Expression
		Name   token.Token
	}

	// GroupingExpr is a parenthesized expression.
	GroupingExpr struct {
		Expression Expression
		Paren      token.Token
	}

	// LiteralExpr is a number, string, character, boolean or null.
	LiteralExpr struct {
		Value any
		Token token.Token
	}

	// LogicalExpr is a short-circuiting && || and or.
	LogicalExpr struct {
		Left     Expression
		Right    Expression
		Operator token.Token
	}

	// RangeExpr is an inclusive range: from..to.
	RangeExpr struct {
		From     Expression
		To       Expression
		Operator token.Token
	}

	// SetExpr writes a property: object.name = value.
	SetExpr struct {
		Object Expression
		Value  Expression
		Name   token.Token
	}

	// SuperExpr refers to a superclass method: super.method.
	SuperExpr struct {
		Keyword token.Token
		Method  token.Token
	}

	// TernaryExpr is condition ? then : otherwise.
	TernaryExpr struct {
		Condition Expression
		Then      Expression
		Otherwise Expression
		Question  token.Token
	}

	// ThisExpr refers to the receiver of a method.
	ThisExpr struct {
		Keyword token.Token
	}

	// UnaryExpr is a prefix - ! or ~.
	UnaryExpr struct {
		Right    Expression
		Operator token.Token
	}

	// VariableExpr reads a variable.
	VariableExpr struct {
		Name token.Token
	}
)

func (*ArrayExpr) Kind() Kind          { return KindArray }
func (*ArrayGetExpr) Kind() Kind       { return KindArrayGet }
func (*ArraySetExpr) Kind() Kind       { return KindArraySet }
func (*AssignExpr) Kind() Kind         { return KindAssign }
func (*BinaryExpr) Kind() Kind         { return KindBinary }
func (*BitwiseExpr) Kind() Kind        { return KindBitwise }
func (*CallExpr) Kind() Kind           { return KindCall }
func (*ComprehensionExpr) Kind() Kind  { return KindComprehension }
func (*CompoundAssignExpr) Kind() Kind { return KindCompoundAssign }
func (*ElvisExpr) Kind() Kind          { return KindElvis }
func (*FunctionExpr) Kind() Kind       { return KindFunction }
func (*GetExpr) Kind() Kind            { return KindGet }
func (*GroupingExpr) Kind() Kind       { return KindGrouping }
func (*LiteralExpr) Kind() Kind        { return KindLiteral }
func (*LogicalExpr) Kind() Kind        { return KindLogical }
func (*RangeExpr) Kind() Kind          { return KindRange }
func (*SetExpr) Kind() Kind            { return KindSet }
func (*SuperExpr) Kind() Kind          { return KindSuper }
func (*TernaryExpr) Kind() Kind        { return KindTernary }
func (*ThisExpr) Kind() Kind           { return KindThis }
func (*UnaryExpr) Kind() Kind          { return KindUnary }
func (*VariableExpr) Kind() Kind       { return KindVariable }

func (e *ArrayExpr) Pos() token.Position          { return e.Bracket.Pos }
func (e *ArrayGetExpr) Pos() token.Position       { return e.Bracket.Pos }
func (e *ArraySetExpr) Pos() token.Position       { return e.Bracket.Pos }
func (e *AssignExpr) Pos() token.Position         { return e.Name.Pos }
func (e *BinaryExpr) Pos() token.Position         { return e.Operator.Pos }
func (e *BitwiseExpr) Pos() token.Position        { return e.Operator.Pos }
func (e *CallExpr) Pos() token.Position           { return e.Paren.Pos }
func (e *ComprehensionExpr) Pos() token.Position  { return e.Bracket.Pos }
func (e *CompoundAssignExpr) Pos() token.Position { return e.Operator.Pos }
func (e *ElvisExpr) Pos() token.Position          { return e.Operator.Pos }
func (e *FunctionExpr) Pos() token.Position       { return e.Keyword.Pos }
func (e *GetExpr) Pos() token.Position            { return e.Name.Pos }
func (e *GroupingExpr) Pos() token.Position       { return e.Paren.Pos }
func (e *LiteralExpr) Pos() token.Position        { return e.Token.Pos }
func (e *LogicalExpr) Pos() token.Position        { return e.Operator.Pos }
func (e *RangeExpr) Pos() token.Position          { return e.Operator.Pos }
func (e *SetExpr) Pos() token.Position            { return e.Name.Pos }
func (e *SuperExpr) Pos() token.Position          { return e.Keyword.Pos }
func (e *TernaryExpr) Pos() token.Position        { return e.Question.Pos }
func (e *ThisExpr) Pos() token.Position           { return e.Keyword.Pos }
func (e *UnaryExpr) Pos() token.Position          { return e.Operator.Pos }
func (e *VariableExpr) Pos() token.Position       { return e.Name.Pos }

func (*ArrayExpr) exprNode()          {}
func (*ArrayGetExpr) exprNode()       {}
func (*ArraySetExpr) exprNode()       {}
func (*AssignExpr) exprNode()         {}
func (*BinaryExpr) exprNode()         {}
func (*BitwiseExpr) exprNode()        {}
func (*CallExpr) exprNode()           {}
func (*ComprehensionExpr) exprNode()  {}
func (*CompoundAssignExpr) exprNode() {}
func (*ElvisExpr) exprNode()          {}
func (*FunctionExpr) exprNode()       {}
func (*GetExpr) exprNode()            {}
func (*GroupingExpr) exprNode()       {}
func (*LiteralExpr) exprNode()        {}
func (*LogicalExpr) exprNode()        {}
func (*RangeExpr) exprNode()          {}
func (*SetExpr) exprNode()            {}
func (*SuperExpr) exprNode()          {}
func (*TernaryExpr) exprNode()        {}
func (*ThisExpr) exprNode()           {}
func (*UnaryExpr) exprNode()          {}
func (*VariableExpr) exprNode()       {}

func (e *ArrayExpr) Accept(v ExprVisitor) error          { return v.VisitArrayExpr(e) }
func (e *ArrayGetExpr) Accept(v ExprVisitor) error       { return v.VisitArrayGetExpr(e) }
func (e *ArraySetExpr) Accept(v ExprVisitor) error       { return v.VisitArraySetExpr(e) }
func (e *AssignExpr) Accept(v ExprVisitor) error         { return v.VisitAssignExpr(e) }
func (e *BinaryExpr) Accept(v ExprVisitor) error         { return v.VisitBinaryExpr(e) }
func (e *BitwiseExpr) Accept(v ExprVisitor) error        { return v.VisitBitwiseExpr(e) }
func (e *CallExpr) Accept(v ExprVisitor) error           { return v.VisitCallExpr(e) }
func (e *ComprehensionExpr) Accept(v ExprVisitor) error  { return v.VisitComprehensionExpr(e) }
func (e *CompoundAssignExpr) Accept(v ExprVisitor) error { return v.VisitCompoundAssignExpr(e) }
func (e *ElvisExpr) Accept(v ExprVisitor) error          { return v.VisitElvisExpr(e) }
func (e *FunctionExpr) Accept(v ExprVisitor) error       { return v.VisitFunctionExpr(e) }
func (e *GetExpr) Accept(v ExprVisitor) error            { return v.VisitGetExpr(e) }
func (e *GroupingExpr) Accept(v ExprVisitor) error       { return v.VisitGroupingExpr(e) }
func (e *LiteralExpr) Accept(v ExprVisitor) error        { return v.VisitLiteralExpr(e) }
func (e *LogicalExpr) Accept(v ExprVisitor) error        { return v.VisitLogicalExpr(e) }
func (e *RangeExpr) Accept(v ExprVisitor) error          { return v.VisitRangeExpr(e) }
func (e *SetExpr) Accept(v ExprVisitor) error            { return v.VisitSetExpr(e) }
func (e *SuperExpr) Accept(v ExprVisitor) error          { return v.VisitSuperExpr(e) }
func (e *TernaryExpr) Accept(v ExprVisitor) error        { return v.VisitTernaryExpr(e) }
func (e *ThisExpr) Accept(v ExprVisitor) error           { return v.VisitThisExpr(e) }
func (e *UnaryExpr) Accept(v ExprVisitor) error          { return v.VisitUnaryExpr(e) }
func (e *VariableExpr) Accept(v ExprVisitor) error       { return v.VisitVariableExpr(e) }
