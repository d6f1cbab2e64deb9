package diag

import (
	"fmt"
	"slices"
)

// Code identifies a diagnostic message in the catalog. Codes are grouped by
// thousands; see [Group].
//
// A Code is itself an error so that errors.Is can match any [*Error]
// carrying it:
//
//	if errors.Is(err, diag.InvalidAssignmentTarget) { ... }
type Code int

// Group is the thousands digit of a [Code].
type Group int

const (
	GroupLexer             Group = 1 + iota // lexer
	GroupParser                             // parser
	GroupIllegalOperation                   // illegal-operation
	GroupUnsupported                        // unsupported
	GroupWrongUsage                         // wrong-usage
	GroupWrongType                          // wrong-type
	GroupDuplication                        // duplication
	GroupInvalidAssignment                  // invalid-assignment
	GroupRuntime                            // runtime
)

var groupNames = [...]string{
	GroupLexer:             "lexer",
	GroupParser:            "parser",
	GroupIllegalOperation:  "illegal-operation",
	GroupUnsupported:       "unsupported",
	GroupWrongUsage:        "wrong-usage",
	GroupWrongType:         "wrong-type",
	GroupDuplication:       "duplication",
	GroupInvalidAssignment: "invalid-assignment",
	GroupRuntime:           "runtime",
}

func (g Group) String() string {
	if g > 0 && int(g) < len(groupNames) {
		return groupNames[g]
	}

	return "unknown"
}

// Lexer diagnostics.
const (
	UnexpectedCharacter Code = 1001 + iota
	UnterminatedString
	UnterminatedChar
	InvalidCharLiteral
	UnterminatedComment
	InvalidNumber
	InvalidEscape
)

// Parser diagnostics.
const (
	ExpectToken Code = 2001 + iota
	ExpectExpression
	TooManyArguments
	TooManyParameters
	UnexpectedToken
	MaxDepthExceeded
)

// Illegal operations.
const (
	ReturnFromTopLevel Code = 3001 + iota
	ReturnFromInitializer
	BreakOutsideLoop
	ContinueOutsideLoop
	ThisOutsideClass
	SuperOutsideClass
	SuperWithoutSuperclass
)

// Unsupported constructs.
const (
	UnsupportedNodeKind Code = 4001 + iota
	UnsupportedOperator
)

// Wrong usage.
const (
	ReadInOwnInitializer Code = 5001 + iota
	InheritFromSelf
	UnknownModule
	UninitializedValue
)

// Wrong types.
const (
	SuperclassNotClass Code = 6001 + iota
)

// Duplications.
const (
	AlreadyDeclared Code = 7001 + iota
	DuplicateConstructor
	DuplicateDefault
)

// Invalid assignments.
const (
	InvalidAssignmentTarget Code = 8001 + iota
	AssignToFinal
)

// Runtime and internal failures.
const (
	Internal Code = 9001 + iota
	Cancelled
)

type entry struct {
	template string
	code     Code
	group    Group
}

// catalog is ordered by code.
var catalog = []entry{
	{code: UnexpectedCharacter, group: GroupLexer, template: "Unexpected character %q."},
	{code: UnterminatedString, group: GroupLexer, template: "Unterminated string."},
	{code: UnterminatedChar, group: GroupLexer, template: "Unterminated character literal."},
	{code: InvalidCharLiteral, group: GroupLexer, template: "Character literal must contain exactly one character."},
	{code: UnterminatedComment, group: GroupLexer, template: "Unterminated block comment."},
	{code: InvalidNumber, group: GroupLexer, template: "Invalid number literal %q."},
	{code: InvalidEscape, group: GroupLexer, template: "Invalid escape sequence '\\%c'."},

	{code: ExpectToken, group: GroupParser, template: "Expect %s."},
	{code: ExpectExpression, group: GroupParser, template: "Expect expression."},
	{code: TooManyArguments, group: GroupParser, template: "Can't have more than %d arguments."},
	{code: TooManyParameters, group: GroupParser, template: "Can't have more than %d parameters."},
	{code: UnexpectedToken, group: GroupParser, template: "Unexpected %s."},
	{code: MaxDepthExceeded, group: GroupParser, template: "Nesting exceeds maximum depth of %d."},

	{code: ReturnFromTopLevel, group: GroupIllegalOperation, template: "Can't return from top-level code."},
	{code: ReturnFromInitializer, group: GroupIllegalOperation, template: "Can't return a value from an initializer."},
	{code: BreakOutsideLoop, group: GroupIllegalOperation, template: "Can't use 'break' outside of a loop or switch."},
	{code: ContinueOutsideLoop, group: GroupIllegalOperation, template: "Can't use 'continue' outside of a loop."},
	{code: ThisOutsideClass, group: GroupIllegalOperation, template: "Can't use 'this' outside of a class."},
	{code: SuperOutsideClass, group: GroupIllegalOperation, template: "Can't use 'super' outside of a class."},
	{code: SuperWithoutSuperclass, group: GroupIllegalOperation, template: "Can't use 'super' in a class with no superclass."},

	{code: UnsupportedNodeKind, group: GroupUnsupported, template: "Unsupported node kind %s."},
	{code: UnsupportedOperator, group: GroupUnsupported, template: "Unsupported operator %s in %s."},

	{code: ReadInOwnInitializer, group: GroupWrongUsage, template: "Can't read local variable '%s' in its own initializer."},
	{code: InheritFromSelf, group: GroupWrongUsage, template: "A class can't inherit from itself: '%s'."},
	{code: UnknownModule, group: GroupWrongUsage, template: "Unknown module '%s'."},
	{code: UninitializedValue, group: GroupWrongUsage, template: "Value '%s' must be initialized."},

	{code: SuperclassNotClass, group: GroupWrongType, template: "Superclass '%s' is not a class."},

	{code: AlreadyDeclared, group: GroupDuplication, template: "Variable '%s' is already declared in this scope."},
	{code: DuplicateConstructor, group: GroupDuplication, template: "Class '%s' already declares a constructor."},
	{code: DuplicateDefault, group: GroupDuplication, template: "Switch already has a 'default' branch."},

	{code: InvalidAssignmentTarget, group: GroupInvalidAssignment, template: "Invalid assignment target."},
	{code: AssignToFinal, group: GroupInvalidAssignment, template: "Can't reassign %s '%s'."},

	{code: Internal, group: GroupRuntime, template: "Internal error: %s."},
	{code: Cancelled, group: GroupRuntime, template: "Compilation cancelled: %v."},
}

//nolint:gochecknoinits
func init() {
	if err := verifyCatalog(catalog); err != nil {
		panic(err)
	}
}

// verifyCatalog checks that codes are strictly ascending and that each
// code's thousands digit matches its declared group.
func verifyCatalog(entries []entry) error {
	for i, e := range entries {
		if e.code.Group() != e.group {
			return fmt.Errorf("diagnostic %d: declared in group %s but numbered in group %s",
				e.code, e.group, e.code.Group())
		}

		if i > 0 && e.code <= entries[i-1].code {
			return fmt.Errorf("diagnostic %d: out of order after %d",
				e.code, entries[i-1].code)
		}
	}

	return nil
}

func lookup(c Code) (entry, bool) {
	i, ok := slices.BinarySearchFunc(catalog, c, func(e entry, c Code) int {
		return int(e.code - c)
	})
	if !ok {
		return entry{}, false
	}

	return catalog[i], true
}

// Group returns the group c belongs to.
func (c Code) Group() Group { return Group(c / 1000) }

// Template returns the message template of c, or the empty string when c is
// not in the catalog.
func (c Code) Template() string {
	e, _ := lookup(c)

	return e.template
}

// Format expands the template of c with args.
func (c Code) Format(args ...any) string {
	e, ok := lookup(c)
	if !ok {
		return fmt.Sprintf("diagnostic %d", int(c))
	}

	if len(args) == 0 {
		return e.template
	}

	return fmt.Sprintf(e.template, args...)
}

// Error implements error so a Code can serve as an errors.Is target.
func (c Code) Error() string { return c.String() }

func (c Code) String() string { return fmt.Sprintf("Q%04d", int(c)) }

// Codes returns all catalogued codes in ascending order.
func Codes() []Code {
	codes := make([]Code, len(catalog))
	for i, e := range catalog {
		codes[i] = e.code
	}

	return codes
}
