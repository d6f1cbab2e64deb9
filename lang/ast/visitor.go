package ast

// ExprVisitor has one method per expression kind. A visitor that stops
// early returns a non-nil error, which Accept passes back to the caller.
type ExprVisitor interface {
	VisitArrayExpr(e *ArrayExpr) error
	VisitArrayGetExpr(e *ArrayGetExpr) error
	VisitArraySetExpr(e *ArraySetExpr) error
	VisitAssignExpr(e *AssignExpr) error
	VisitBinaryExpr(e *BinaryExpr) error
	VisitBitwiseExpr(e *BitwiseExpr) error
	VisitCallExpr(e *CallExpr) error
	VisitComprehensionExpr(e *ComprehensionExpr) error
	VisitCompoundAssignExpr(e *CompoundAssignExpr) error
	VisitElvisExpr(e *ElvisExpr) error
	VisitFunctionExpr(e *FunctionExpr) error
	VisitGetExpr(e *GetExpr) error
	VisitGroupingExpr(e *GroupingExpr) error
	VisitLiteralExpr(e *LiteralExpr) error
	VisitLogicalExpr(e *LogicalExpr) error
	VisitRangeExpr(e *RangeExpr) error
	VisitSetExpr(e *SetExpr) error
	VisitSuperExpr(e *SuperExpr) error
	VisitTernaryExpr(e *TernaryExpr) error
	VisitThisExpr(e *ThisExpr) error
	VisitUnaryExpr(e *UnaryExpr) error
	VisitVariableExpr(e *VariableExpr) error
}

// StmtVisitor has one method per statement kind.
type StmtVisitor interface {
	VisitBlockStmt(s *BlockStmt) error
	VisitBreakStmt(s *BreakStmt) error
	VisitClassStmt(s *ClassStmt) error
	VisitContinueStmt(s *ContinueStmt) error
	VisitDoWhileStmt(s *DoWhileStmt) error
	VisitExpressionStmt(s *ExpressionStmt) error
	VisitForStmt(s *ForStmt) error
	VisitForEachStmt(s *ForEachStmt) error
	VisitFunctionStmt(s *FunctionStmt) error
	VisitIfStmt(s *IfStmt) error
	VisitImportStmt(s *ImportStmt) error
	VisitReturnStmt(s *ReturnStmt) error
	VisitSwitchStmt(s *SwitchStmt) error
	VisitTestStmt(s *TestStmt) error
	VisitVarStmt(s *VarStmt) error
	VisitWhileStmt(s *WhileStmt) error
}

// Visitor visits both expressions and statements.
type Visitor interface {
	ExprVisitor
	StmtVisitor
}
