package ast

// Kind enumerates the concrete node types. The set is closed: adding a node
// means adding a Kind, a visitor method, and printer cases, and the package
// tests fail until all three exist.
type Kind uint8

// Expression kinds.
const (
	KindInvalid Kind = iota

	KindArray
	KindArrayGet
	KindArraySet
	KindAssign
	KindBinary
	KindBitwise
	KindCall
	KindComprehension
	KindCompoundAssign
	KindElvis
	KindFunction
	KindGet
	KindGrouping
	KindLiteral
	KindLogical
	KindRange
	KindSet
	KindSuper
	KindTernary
	KindThis
	KindUnary
	KindVariable

	numExprKinds
)

// Statement kinds.
const (
	KindBlockStmt Kind = numExprKinds + iota
	KindBreakStmt
	KindClassStmt
	KindContinueStmt
	KindDoWhileStmt
	KindExpressionStmt
	KindForStmt
	KindForEachStmt
	KindFunctionStmt
	KindIfStmt
	KindImportStmt
	KindReturnStmt
	KindSwitchStmt
	KindTestStmt
	KindVarStmt
	KindWhileStmt

	numKinds
)

var kindNames = [numKinds]string{
	KindInvalid: "Invalid",

	KindArray:          "ArrayExpr",
	KindArrayGet:       "ArrayGetExpr",
	KindArraySet:       "ArraySetExpr",
	KindAssign:         "AssignExpr",
	KindBinary:         "BinaryExpr",
	KindBitwise:        "BitwiseExpr",
	KindCall:           "CallExpr",
	KindComprehension:  "ComprehensionExpr",
	KindCompoundAssign: "CompoundAssignExpr",
	KindElvis:          "ElvisExpr",
	KindFunction:       "FunctionExpr",
	KindGet:            "GetExpr",
	KindGrouping:       "GroupingExpr",
	KindLiteral:        "LiteralExpr",
	KindLogical:        "LogicalExpr",
	KindRange:          "RangeExpr",
	KindSet:            "SetExpr",
	KindSuper:          "SuperExpr",
	KindTernary:        "TernaryExpr",
	KindThis:           "ThisExpr",
	KindUnary:          "UnaryExpr",
	KindVariable:       "VariableExpr",

	KindBlockStmt:      "BlockStmt",
	KindBreakStmt:      "BreakStmt",
	KindClassStmt:      "ClassStmt",
	KindContinueStmt:   "ContinueStmt",
	KindDoWhileStmt:    "DoWhileStmt",
	KindExpressionStmt: "ExpressionStmt",
	KindForStmt:        "ForStmt",
	KindForEachStmt:    "ForEachStmt",
	KindFunctionStmt:   "FunctionStmt",
	KindIfStmt:         "IfStmt",
	KindImportStmt:     "ImportStmt",
	KindReturnStmt:     "ReturnStmt",
	KindSwitchStmt:     "SwitchStmt",
	KindTestStmt:       "TestStmt",
	KindVarStmt:        "VarStmt",
	KindWhileStmt:      "WhileStmt",
}

// String returns the Go type name of the node kind.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}

	return "Invalid"
}

// IsValid reports whether k names a node type.
func (k Kind) IsValid() bool { return k > KindInvalid && k < numKinds }

// IsExpression reports whether k is an expression kind.
func (k Kind) IsExpression() bool { return k > KindInvalid && k < numExprKinds }

// IsStatement reports whether k is a statement kind.
func (k Kind) IsStatement() bool { return k >= KindBlockStmt && k < numKinds }

// ExpressionKinds returns every expression kind in declaration order.
func ExpressionKinds() []Kind {
	kinds := make([]Kind, 0, numExprKinds-1)
	for k := KindInvalid + 1; k < numExprKinds; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

// StatementKinds returns every statement kind in declaration order.
func StatementKinds() []Kind {
	kinds := make([]Kind, 0, numKinds-KindBlockStmt)
	for k := KindBlockStmt; k < numKinds; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}
