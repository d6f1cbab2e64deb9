package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/lexer"
	"github.com/ardnew/quill/lang/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()

	tokens, _, err := lexer.Scan(src)
	if err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}

	return tokens
}

func sprint(stmts []ast.Statement) string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = ast.Sprint(s)
	}

	return strings.Join(lines, "\n")
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3;", "(; (+ 1 (* 2 3)))"},
		{"1 - 2 - 3;", "(; (- (- 1 2) 3))"},
		{"2 ** 3 * 4;", "(; (* (** 2 3) 4))"},
		{"(1 + 2) * 3;", "(; (* (group (+ 1 2)) 3))"},
		{"a = b = 1;", "(; (= a (= b 1)))"},
		{"a ? b : c ? d : e;", "(; (? a b (? c d e)))"},
		{"a ?: b;", "(; (?: a b))"},
		{"-!x;", "(; (- (! x)))"},
		{"~x;", "(; (~ x))"},
		{"a and b or c;", "(; (or (and a b) c))"},
		{"a && b || c;", "(; (|| (&& a b) c))"},
		{"a & b == c;", "(; (& a (== b c)))"},
		{"a << 1 | b;", "(; (| (<< a 1) b))"},
		{"a is B;", "(; (is a B))"},
		{"a < b != c >= d;", "(; (!= (< a b) (>= c d)))"},
		{"1..10;", "(; (.. 1 10))"},
		{"x += 1;", "(; (+= x 1))"},
		{"o.f -= 2;", "(; (-= (. o f) 2))"},
		{"arr[0] <<= 1;", "(; (<<= ([] arr 0) 1))"},
		{"f <| 1 + 2;", "(; (call f (+ 1 2)))"},
		{"f <| g <| x;", "(; (call (call f g) x))"},
		{"a `max` b;", "(; (call max a b))"},
		{"a.b.c(1, 2)[0];", "(; ([] (call (. (. a b) c) 1 2) 0))"},
		{"f()();", "(; (call (call f)))"},
		{"arr[0] = 1;", "(; ([]= arr 0 1))"},
		{"m[i][j] = 1;", "(; ([]= ([] m i) j 1))"},
		{"o.f = 1;", "(; (.= o f 1))"},
		{"[1, 2, 3,];", "(; (array 1 2 3))"},
		{"[];", "(; (array))"},
		{"[x * 2 for x in xs];", "(; (comprehension (* x 2) (for x xs)))"},
		{
			"[x for x in xs if x > 1 else 0];",
			"(; (comprehension x (for x xs) (if (> x 1)) (else 0)))",
		},
		{"super.m();", "(; (call (super m)))"},
		{"this;", "(; this)"},
		{`"s";`, `(; "s")`},
		{"'c';", "(; 'c')"},
		{"null;", "(; null)"},
		{"true;", "(; true)"},
		{"1.5;", "(; 1.5)"},
		{"fun (a) { return a; };", "(; (fun (a) (return a)))"},
		{"fun () {}();", "(; (call (fun ())))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmts, err := Parse(scan(t, tt.src))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got := sprint(stmts); got != tt.want {
				t.Errorf("Parse() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var x = 1;", "(var x 1)"},
		{"var x;", "(var x)"},
		{"val y = 2;", "(val y 2)"},
		{"{ }", "(block)"},
		{"{ a; { b; } }", "(block (; a) (block (; b)))"},
		{"if (a) b; else c;", "(if a (; b) (; c))"},
		{"if (a) if (b) c; else d;", "(if a (if b (; c) (; d)))"},
		{"while (a) { b; }", "(while a (block (; b)))"},
		{"do x; while (y);", "(do (; x) y)"},
		{"for (var i = 0; i < 3; i += 1) x;", "(for (var i 0) (< i 3) (+= i 1) (; x))"},
		{"for (i = 0; ; ) x;", "(for (; (= i 0)) _ _ (; x))"},
		{"for (;;) {}", "(for _ _ _ (block))"},
		{"for (x in xs) y;", "(foreach x xs (; y))"},
		{"for (x in 1..3) {}", "(foreach x (.. 1 3) (block))"},
		{"fun f(a, b) { return a + b; }", "(fun f (a b) (return (+ a b)))"},
		{"fun f() {}", "(fun f ())"},
		{
			"class B extends A { constructor(x) { this.x = x; } fun m() { return super.m(); } }",
			"(class B (extends A) (constructor (x) (; (.= this x x))) (fun m () (return (call (super m)))))",
		},
		{"class A {}", "(class A)"},
		{"import math;", "(import math)"},
		{"import math as m;", "(import math as m)"},
		{"return;", "(return)"},
		{"return 1;", "(return 1)"},
		{"break;", "(break)"},
		{"continue;", "(continue)"},
		{
			"switch (x) { case 1: a; case 2: default: b; c; }",
			"(switch x (case 1 (; a)) (case 2) (default (; b) (; c)))",
		},
		{`test "adds" { 1 + 1; }`, `(test "adds" (; (+ 1 1)))`},
		{"a; b;", "(; a)\n(; b)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmts, err := Parse(scan(t, tt.src))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got := sprint(stmts); got != tt.want {
				t.Errorf("Parse() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		line int
		col  int
	}{
		{"literal target", "1 = 2;", diag.InvalidAssignmentTarget, 1, 3},
		{"call target", "f() = 2;", diag.InvalidAssignmentTarget, 1, 5},
		{"compound literal target", "1 += 2;", diag.InvalidAssignmentTarget, 1, 3},
		{"missing operand", "a + ;", diag.ExpectExpression, 1, 5},
		{"missing semicolon", "a\nb;", diag.ExpectToken, 2, 1},
		{"unclosed group", "(1;", diag.ExpectToken, 1, 3},
		{"unclosed call", "f(1;", diag.ExpectToken, 1, 4},
		{"ternary without colon", "a ? b c;", diag.ExpectToken, 1, 7},
		{"infix call without closing tick", "a `f b;", diag.ExpectToken, 1, 6},
		{"variable name", "var 1;", diag.ExpectToken, 1, 5},
		{"uninitialized val", "val x;", diag.UninitializedValue, 1, 5},
		{"nine arguments", "f(1,2,3,4,5,6,7,8,9);", diag.TooManyArguments, 1, 19},
		{"nine parameters", "fun f(a,b,c,d,e,g,h,i,j) {}", diag.TooManyParameters, 1, 23},
		{"nine lambda parameters", "fun (a,b,c,d,e,g,h,i,j) {};", diag.TooManyParameters, 1, 22},
		{
			"second constructor",
			"class A { constructor() {} constructor() {} }",
			diag.DuplicateConstructor, 1, 28,
		},
		{"class member", "class A { var x; }", diag.ExpectToken, 1, 11},
		{"second default", "switch (x) { default: default: }", diag.DuplicateDefault, 1, 23},
		{"switch member", "switch (x) { a; }", diag.ExpectToken, 1, 14},
		{"unclosed block", "{ a;", diag.ExpectToken, 1, 5},
		{"test name", "test t {}", diag.ExpectToken, 1, 6},
		{"import alias", "import m as;", diag.ExpectToken, 1, 12},
		{"do without while", "do x; y;", diag.ExpectToken, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(scan(t, tt.src))
			if !errors.Is(err, tt.code) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.src, err, tt.code)
			}

			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *diag.Error", err)
			}

			if de.Phase != diag.PhaseParsing {
				t.Errorf("Phase = %v", de.Phase)
			}

			if de.Pos.Line != tt.line || de.Pos.Column != tt.col {
				t.Errorf("Pos = %v, want %d:%d", de.Pos, tt.line, tt.col)
			}
		})
	}
}

func TestParse_Limits(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"eight arguments", "f(1,2,3,4,5,6,7,8);"},
		{"eight parameters", "fun f(a,b,c,d,e,g,h,i) {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(scan(t, tt.src)); err != nil {
				t.Errorf("Parse(%q) error = %v", tt.src, err)
			}
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	nest := func(prefix string, n int, rest string) string {
		return strings.Repeat(prefix, n) + rest
	}

	tests := []struct {
		name  string
		src   string
		limit int
		fail  bool
	}{
		{"grouping", "((1));", 4, false},
		{"deep grouping", "((((1))));", 4, true},
		{"bang", "!!x;", 8, false},
		{"deep bang", nest("!", 50, "x;"), 8, true},
		{"deep negation", nest("-", 50, "x;"), 8, true},
		{"if", "if (x) if (x) x;", 8, false},
		{"deep if", nest("if (x) ", 50, "x;"), 8, true},
		{"deep while", nest("while (x) ", 50, "x;"), 8, true},
		{"assignment", "a = b = 1;", 8, false},
		{"deep assignment", nest("x = ", 50, "1;"), 8, true},
		{"ternary", "a ? b ? 1 : 2 : 3;", 8, false},
		{"deep ternary", nest("x ? ", 50, "1") + strings.Repeat(" : 2", 50) + ";", 8, true},
		{"deep blocks", nest("{", DefaultMaxDepth+1, strings.Repeat("}", DefaultMaxDepth+1)), 0, true},
		{"very deep if", nest("if (x) ", 10_000, "x;"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(scan(t, tt.src), WithMaxDepth(tt.limit))

			if !tt.fail {
				if err != nil {
					t.Fatalf("Parse() error = %v", err)
				}

				return
			}

			if !errors.Is(err, diag.MaxDepthExceeded) {
				t.Fatalf("Parse() error = %v, want %v", err, diag.MaxDepthExceeded)
			}

			limit := tt.limit
			if limit == 0 {
				limit = DefaultMaxDepth
			}

			if want := fmt.Sprintf("maximum depth of %d", limit); !strings.Contains(err.Error(), want) {
				t.Errorf("error = %q, want %q", err, want)
			}
		})
	}
}

func TestParse_AppendsEOF(t *testing.T) {
	stmts, err := Parse(nil)
	if err != nil || len(stmts) != 0 {
		t.Errorf("Parse(nil) = %v, %v", stmts, err)
	}

	at := token.Position{Offset: 0, Line: 1, Column: 1}
	tokens := []token.Token{
		token.New(token.Identifier, "a", nil, at),
		token.New(token.Semicolon, ";", nil, token.Position{Offset: 1, Line: 1, Column: 2}),
	}

	stmts, err = Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}

	if got := sprint(stmts); got != "(; a)" {
		t.Errorf("Parse() = %s", got)
	}

	if len(tokens) != 2 {
		t.Errorf("caller's tokens modified: %d", len(tokens))
	}
}

func TestDefaultRegistry_Produces(t *testing.T) {
	kinds := DefaultRegistry().Produces()

	for _, k := range ast.ExpressionKinds() {
		if !kinds[k] {
			t.Errorf("no parser produces %v", k)
		}
	}

	for _, k := range ast.StatementKinds() {
		// Expression statements are the parser's fallback.
		if k != ast.KindExpressionStmt && !kinds[k] {
			t.Errorf("no parser produces %v", k)
		}
	}
}

// stall is a statement parser that never consumes a token.
type stall struct{}

func (stall) Produces() []ast.Kind { return []ast.Kind{ast.KindBreakStmt} }

func (stall) Accepts(*Parser) bool { return true }

func (stall) Parse(*Parser) (ast.Statement, error) { return &ast.BreakStmt{}, nil }

// misfiled claims to produce an expression kind from a statement parser.
type misfiled struct{ stall }

func (misfiled) Produces() []ast.Kind { return []ast.Kind{ast.KindBinary} }

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name       string
		operators  []ExpressionParser
		values     []ValueParser
		statements map[token.Type]StatementParser
		want       diag.Code
	}{
		{
			name:   "no operators",
			values: DefaultValues(),
			want:   diag.Internal,
		},
		{
			name:      "no values",
			operators: DefaultOperators(),
			want:      diag.Internal,
		},
		{
			name:      "value in operator chain",
			operators: []ExpressionParser{Additive(), Literal()},
			values:    DefaultValues(),
			want:      diag.Internal,
		},
		{
			name:       "statement producing expression",
			operators:  DefaultOperators(),
			values:     DefaultValues(),
			statements: map[token.Type]StatementParser{token.Break: misfiled{}},
			want:       diag.UnsupportedNodeKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.operators, tt.values, tt.statements)
			if r != nil || !errors.Is(err, tt.want) {
				t.Errorf("NewRegistry() = %v, %v; want %v", r, err, tt.want)
			}
		})
	}
}

func TestRegistry_Custom(t *testing.T) {
	r, err := NewRegistry(
		[]ExpressionParser{Additive(), Postfix()},
		DefaultValues(),
		DefaultStatements(),
	)
	if err != nil {
		t.Fatal(err)
	}

	stmts, err := Parse(scan(t, "1 + f(2);"), WithRegistry(r))
	if err != nil {
		t.Fatal(err)
	}

	if got := sprint(stmts); got != "(; (+ 1 (call f 2)))" {
		t.Errorf("Parse() = %s", got)
	}

	if _, err := Parse(scan(t, "1 * 2;"), WithRegistry(r)); !errors.Is(err, diag.ExpectToken) {
		t.Errorf("unregistered operator error = %v", err)
	}
}

func TestParse_NoProgress(t *testing.T) {
	r, err := NewRegistry(
		DefaultOperators(),
		DefaultValues(),
		map[token.Type]StatementParser{token.Identifier: stall{}},
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Parse(scan(t, "a;"), WithRegistry(r)); !errors.Is(err, diag.Internal) {
		t.Errorf("error = %v, want %v", err, diag.Internal)
	}
}

func TestStepValidator_Found(t *testing.T) {
	_, err := Parse(scan(t, "(1 2"))

	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error = %v", err)
	}

	var found string

	for _, a := range de.Attrs() {
		if a.Key == "found" {
			found = a.Value.String()
		}
	}

	if found != `"2"` {
		t.Errorf("found = %q", found)
	}
}
