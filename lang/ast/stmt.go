package ast

import "github.com/ardnew/quill/lang/token"

// Statement is a node executed for effect.
type Statement interface {
	Node
	Accept(v StmtVisitor) error
	stmtNode()
}

type (
	// BlockStmt is a braced statement list with its own scope.
	BlockStmt struct {
		Statements []Statement
		Brace      token.Token
	}

	// BreakStmt leaves the innermost loop or switch.
	BreakStmt struct {
		Keyword token.Token
	}

	// ClassStmt declares a class. Superclass is nil for base classes and
	// Constructor is nil when the class declares none.
	ClassStmt struct {
		Superclass  *VariableExpr
		Constructor *FunctionStmt
		Methods     []*FunctionStmt
		Name        token.Token
	}

	// ContinueStmt starts the next iteration of the innermost loop.
	ContinueStmt struct {
		Keyword token.Token
	}

	// DoWhileStmt runs Body, then repeats while Condition holds.
	DoWhileStmt struct {
		Body      Statement
		Condition Expression
		Keyword   token.Token
	}

	// ExpressionStmt evaluates an expression for effect.
	ExpressionStmt struct {
		Expression Expression
	}

	// ForStmt is a C-style loop. Initializer, Condition and Increment are
	// each optional.
	ForStmt struct {
		Initializer Statement
		Condition   Expression
		Increment   Expression
		Body        Statement
		Keyword     token.Token
	}

	// ForEachStmt iterates Variable over Iterable.
	ForEachStmt struct {
		Iterable Expression
		Body     Statement
		Variable token.Token
	}

	// FunctionStmt declares a named function, method or constructor.
	FunctionStmt struct {
		Params []token.Token
		Body   []Statement
		Name   token.Token
	}

	// IfStmt is a conditional. Else is nil when absent.
	IfStmt struct {
		Condition Expression
		Then      Statement
		Else      Statement
		Keyword   token.Token
	}

	// ImportStmt binds an external module, optionally under Alias.
	ImportStmt struct {
		Name    token.Token
		Alias   *token.Token
		Keyword token.Token
	}

	// ReturnStmt leaves the enclosing function. Value is nil for a bare
	// return.
	ReturnStmt struct {
		Value   Expression
		Keyword token.Token
	}

	// SwitchStmt selects the first case equal to Subject. Default is nil
	// when the switch has no default branch.
	SwitchStmt struct {
		Subject Expression
		Cases   []*Case
		Default *Case
		Keyword token.Token
	}

	// TestStmt declares a named test body.
	TestStmt struct {
		Body    []Statement
		Name    token.Token
		Keyword token.Token
	}

	// VarStmt declares a variable. Final marks val declarations, which must
	// be initialized and may not be reassigned.
	VarStmt struct {
		Initializer Expression
		Name        token.Token
		Keyword     token.Token
		Final       bool
	}

	// WhileStmt repeats Body while Condition holds.
	WhileStmt struct {
		Condition Expression
		Body      Statement
		Keyword   token.Token
	}
)

// Case is one branch of a [SwitchStmt]. Value is nil for the default
// branch.
type Case struct {
	Value   Expression
	Body    []Statement
	Keyword token.Token
}

// Identifier returns the name the import is bound to.
func (s *ImportStmt) Identifier() token.Token {
	if s.Alias != nil {
		return *s.Alias
	}

	return s.Name
}

func (*BlockStmt) Kind() Kind      { return KindBlockStmt }
func (*BreakStmt) Kind() Kind      { return KindBreakStmt }
func (*ClassStmt) Kind() Kind      { return KindClassStmt }
func (*ContinueStmt) Kind() Kind   { return KindContinueStmt }
func (*DoWhileStmt) Kind() Kind    { return KindDoWhileStmt }
func (*ExpressionStmt) Kind() Kind { return KindExpressionStmt }
func (*ForStmt) Kind() Kind        { return KindForStmt }
func (*ForEachStmt) Kind() Kind    { return KindForEachStmt }
func (*FunctionStmt) Kind() Kind   { return KindFunctionStmt }
func (*IfStmt) Kind() Kind         { return KindIfStmt }
func (*ImportStmt) Kind() Kind     { return KindImportStmt }
func (*ReturnStmt) Kind() Kind     { return KindReturnStmt }
func (*SwitchStmt) Kind() Kind     { return KindSwitchStmt }
func (*TestStmt) Kind() Kind       { return KindTestStmt }
func (*VarStmt) Kind() Kind        { return KindVarStmt }
func (*WhileStmt) Kind() Kind      { return KindWhileStmt }

func (s *BlockStmt) Pos() token.Position      { return s.Brace.Pos }
func (s *BreakStmt) Pos() token.Position      { return s.Keyword.Pos }
func (s *ClassStmt) Pos() token.Position      { return s.Name.Pos }
func (s *ContinueStmt) Pos() token.Position   { return s.Keyword.Pos }
func (s *DoWhileStmt) Pos() token.Position    { return s.Keyword.Pos }
func (s *ExpressionStmt) Pos() token.Position { return s.Expression.Pos() }
func (s *ForStmt) Pos() token.Position        { return s.Keyword.Pos }
func (s *ForEachStmt) Pos() token.Position    { return s.Variable.Pos }
func (s *FunctionStmt) Pos() token.Position   { return s.Name.Pos }
func (s *IfStmt) Pos() token.Position         { return s.Keyword.Pos }
func (s *ImportStmt) Pos() token.Position     { return s.Name.Pos }
func (s *ReturnStmt) Pos() token.Position     { return s.Keyword.Pos }
func (s *SwitchStmt) Pos() token.Position     { return s.Keyword.Pos }
func (s *TestStmt) Pos() token.Position       { return s.Name.Pos }
func (s *VarStmt) Pos() token.Position        { return s.Name.Pos }
func (s *WhileStmt) Pos() token.Position      { return s.Keyword.Pos }

func (*BlockStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()      {}
func (*ClassStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*DoWhileStmt) stmtNode()    {}
func (*ExpressionStmt) stmtNode() {}
func (*ForStmt) stmtNode()        {}
func (*ForEachStmt) stmtNode()    {}
func (*FunctionStmt) stmtNode()   {}
func (*IfStmt) stmtNode()         {}
func (*ImportStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()     {}
func (*SwitchStmt) stmtNode()     {}
func (*TestStmt) stmtNode()       {}
func (*VarStmt) stmtNode()        {}
func (*WhileStmt) stmtNode()      {}

func (s *BlockStmt) Accept(v StmtVisitor) error      { return v.VisitBlockStmt(s) }
func (s *BreakStmt) Accept(v StmtVisitor) error      { return v.VisitBreakStmt(s) }
func (s *ClassStmt) Accept(v StmtVisitor) error      { return v.VisitClassStmt(s) }
func (s *ContinueStmt) Accept(v StmtVisitor) error   { return v.VisitContinueStmt(s) }
func (s *DoWhileStmt) Accept(v StmtVisitor) error    { return v.VisitDoWhileStmt(s) }
func (s *ExpressionStmt) Accept(v StmtVisitor) error { return v.VisitExpressionStmt(s) }
func (s *ForStmt) Accept(v StmtVisitor) error        { return v.VisitForStmt(s) }
func (s *ForEachStmt) Accept(v StmtVisitor) error    { return v.VisitForEachStmt(s) }
func (s *FunctionStmt) Accept(v StmtVisitor) error   { return v.VisitFunctionStmt(s) }
func (s *IfStmt) Accept(v StmtVisitor) error         { return v.VisitIfStmt(s) }
func (s *ImportStmt) Accept(v StmtVisitor) error     { return v.VisitImportStmt(s) }
func (s *ReturnStmt) Accept(v StmtVisitor) error     { return v.VisitReturnStmt(s) }
func (s *SwitchStmt) Accept(v StmtVisitor) error     { return v.VisitSwitchStmt(s) }
func (s *TestStmt) Accept(v StmtVisitor) error       { return v.VisitTestStmt(s) }
func (s *VarStmt) Accept(v StmtVisitor) error        { return v.VisitVarStmt(s) }
func (s *WhileStmt) Accept(v StmtVisitor) error      { return v.VisitWhileStmt(s) }
