package token

// Type identifies a lexical category. Built-in types are the constants below;
// a [Registry] may append further types after [NumBuiltin].
type Type uint16

// Built-in token types.
const (
	Invalid Type = iota
	EOF

	// Literals and identifiers.
	Identifier
	Number
	String
	Char
	True
	False
	Null

	// Punctuation pairs and separators.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Dot
	Semicolon
	Colon
	Backtick

	// Arithmetic.
	Plus
	Minus
	Star
	Slash
	Percent
	Power

	// Bitwise.
	Ampersand
	Pipe
	Caret
	Tilde
	ShiftLeft
	ShiftRight

	// Conditions.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	AndAnd
	OrOr
	And
	Or
	Is
	Question
	Elvis

	// Compound assignment.
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PercentEqual
	AmpersandEqual
	PipeEqual
	CaretEqual
	ShiftLeftEqual
	ShiftRightEqual

	// Ranges and application.
	DotDot
	PipeLeft

	// Control flow.
	If
	Else
	Switch
	Case
	DefaultCase
	Return
	Break
	Continue

	// Loops.
	While
	Do
	For
	In

	// Objects and declarations.
	Var
	Val
	Fun
	Class
	Extends
	Constructor
	This
	Super
	Import
	As
	Test

	// NumBuiltin is the number of built-in token types. Registry extensions
	// are assigned types starting at this value.
	NumBuiltin
)

// Family groups token types for parser dispatch convenience.
// It has no semantic effect beyond lookup.
type Family uint8

const (
	FamilyBase       Family = iota // base
	FamilyArithmetic               // arithmetic
	FamilyBitwise                  // bitwise
	FamilyCondition                // condition
	FamilyControl                  // control
	FamilyLiteral                  // literal
	FamilyLoop                     // loop
	FamilyObject                   // object
)

var familyNames = [...]string{
	FamilyBase:       "base",
	FamilyArithmetic: "arithmetic",
	FamilyBitwise:    "bitwise",
	FamilyCondition:  "condition",
	FamilyControl:    "control",
	FamilyLiteral:    "literal",
	FamilyLoop:       "loop",
	FamilyObject:     "object",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}

	return "unknown"
}

// Info describes a token type: its name, canonical surface representation,
// family, and for compound assignments, the operator it assigns with.
type Info struct {
	// Name is the identifier used in diagnostics and dumps (e.g. "PLUS_EQUAL").
	Name string
	// Repr is the canonical source text. It is empty for types whose lexeme
	// varies (identifiers, literals, EOF).
	Repr string
	// AssignsWith is the base operator of a compound assignment, or
	// [Invalid] when the type is not a compound assignment.
	AssignsWith Type
	Family      Family
	// Keyword marks word-like representations matched against identifiers
	// rather than scanned as operators.
	Keyword bool
}

// IsCompoundAssignment reports whether the type decomposes into an
// assignment through another operator.
func (i Info) IsCompoundAssignment() bool { return i.AssignsWith != Invalid }

func kw(name, repr string, family Family) Info {
	return Info{Name: name, Repr: repr, Family: family, Keyword: true}
}

func op(name, repr string, family Family) Info {
	return Info{Name: name, Repr: repr, Family: family}
}

func compound(name, repr string, base Type) Info {
	return Info{Name: name, Repr: repr, Family: FamilyArithmetic, AssignsWith: base}
}

// builtin is indexed by Type.
var builtin = [NumBuiltin]Info{
	Invalid: op("INVALID", "", FamilyBase),
	EOF:     op("EOF", "", FamilyBase),

	Identifier: op("IDENTIFIER", "", FamilyLiteral),
	Number:     op("NUMBER", "", FamilyLiteral),
	String:     op("STRING", "", FamilyLiteral),
	Char:       op("CHAR", "", FamilyLiteral),
	True:       kw("TRUE", "true", FamilyLiteral),
	False:      kw("FALSE", "false", FamilyLiteral),
	Null:       kw("NULL", "null", FamilyLiteral),

	LeftParen:    op("LEFT_PAREN", "(", FamilyBase),
	RightParen:   op("RIGHT_PAREN", ")", FamilyBase),
	LeftBrace:    op("LEFT_BRACE", "{", FamilyBase),
	RightBrace:   op("RIGHT_BRACE", "}", FamilyBase),
	LeftBracket:  op("LEFT_BRACKET", "[", FamilyBase),
	RightBracket: op("RIGHT_BRACKET", "]", FamilyBase),
	Comma:        op("COMMA", ",", FamilyBase),
	Dot:          op("DOT", ".", FamilyObject),
	Semicolon:    op("SEMICOLON", ";", FamilyBase),
	Colon:        op("COLON", ":", FamilyBase),
	Backtick:     op("BACKTICK", "`", FamilyBase),

	Plus:    op("PLUS", "+", FamilyArithmetic),
	Minus:   op("MINUS", "-", FamilyArithmetic),
	Star:    op("STAR", "*", FamilyArithmetic),
	Slash:   op("SLASH", "/", FamilyArithmetic),
	Percent: op("PERCENT", "%", FamilyArithmetic),
	Power:   op("POWER", "**", FamilyArithmetic),

	Ampersand:  op("AMPERSAND", "&", FamilyBitwise),
	Pipe:       op("PIPE", "|", FamilyBitwise),
	Caret:      op("CARET", "^", FamilyBitwise),
	Tilde:      op("TILDE", "~", FamilyBitwise),
	ShiftLeft:  op("SHIFT_LEFT", "<<", FamilyBitwise),
	ShiftRight: op("SHIFT_RIGHT", ">>", FamilyBitwise),

	Bang:         op("BANG", "!", FamilyCondition),
	BangEqual:    op("BANG_EQUAL", "!=", FamilyCondition),
	Equal:        op("EQUAL", "=", FamilyBase),
	EqualEqual:   op("EQUAL_EQUAL", "==", FamilyCondition),
	Greater:      op("GREATER", ">", FamilyCondition),
	GreaterEqual: op("GREATER_EQUAL", ">=", FamilyCondition),
	Less:         op("LESS", "<", FamilyCondition),
	LessEqual:    op("LESS_EQUAL", "<=", FamilyCondition),
	AndAnd:       op("AND_AND", "&&", FamilyCondition),
	OrOr:         op("OR_OR", "||", FamilyCondition),
	And:          kw("AND", "and", FamilyCondition),
	Or:           kw("OR", "or", FamilyCondition),
	Is:           kw("IS", "is", FamilyCondition),
	Question:     op("QUESTION", "?", FamilyCondition),
	Elvis:        op("ELVIS", "?:", FamilyCondition),

	PlusEqual:       compound("PLUS_EQUAL", "+=", Plus),
	MinusEqual:      compound("MINUS_EQUAL", "-=", Minus),
	StarEqual:       compound("STAR_EQUAL", "*=", Star),
	SlashEqual:      compound("SLASH_EQUAL", "/=", Slash),
	PercentEqual:    compound("PERCENT_EQUAL", "%=", Percent),
	AmpersandEqual:  compound("AMPERSAND_EQUAL", "&=", Ampersand),
	PipeEqual:       compound("PIPE_EQUAL", "|=", Pipe),
	CaretEqual:      compound("CARET_EQUAL", "^=", Caret),
	ShiftLeftEqual:  compound("SHIFT_LEFT_EQUAL", "<<=", ShiftLeft),
	ShiftRightEqual: compound("SHIFT_RIGHT_EQUAL", ">>=", ShiftRight),

	DotDot:   op("DOT_DOT", "..", FamilyLoop),
	PipeLeft: op("PIPE_LEFT", "<|", FamilyObject),

	If:          kw("IF", "if", FamilyControl),
	Else:        kw("ELSE", "else", FamilyControl),
	Switch:      kw("SWITCH", "switch", FamilyControl),
	Case:        kw("CASE", "case", FamilyControl),
	DefaultCase: kw("DEFAULT", "default", FamilyControl),
	Return:      kw("RETURN", "return", FamilyControl),
	Break:       kw("BREAK", "break", FamilyControl),
	Continue:    kw("CONTINUE", "continue", FamilyControl),

	While: kw("WHILE", "while", FamilyLoop),
	Do:    kw("DO", "do", FamilyLoop),
	For:   kw("FOR", "for", FamilyLoop),
	In:    kw("IN", "in", FamilyLoop),

	Var:         kw("VAR", "var", FamilyObject),
	Val:         kw("VAL", "val", FamilyObject),
	Fun:         kw("FUN", "fun", FamilyObject),
	Class:       kw("CLASS", "class", FamilyObject),
	Extends:     kw("EXTENDS", "extends", FamilyObject),
	Constructor: kw("CONSTRUCTOR", "constructor", FamilyObject),
	This:        kw("THIS", "this", FamilyObject),
	Super:       kw("SUPER", "super", FamilyObject),
	Import:      kw("IMPORT", "import", FamilyObject),
	As:          kw("AS", "as", FamilyObject),
	Test:        kw("TEST", "test", FamilyControl),
}

// String returns the name of a built-in type. Extension types are named by
// the [Registry] that defines them.
func (t Type) String() string {
	if t < NumBuiltin {
		return builtin[t].Name
	}

	return Default().Info(t).Name
}
