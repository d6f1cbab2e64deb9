package ast

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ardnew/quill/lang/token"
)

func tok(t token.Type, lexeme string) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Pos: token.Position{Line: 1, Column: 1}}
}

func num(v int64) *LiteralExpr {
	return &LiteralExpr{Token: tok(token.Number, ""), Value: v}
}

func ident(name string) *VariableExpr {
	return &VariableExpr{Name: tok(token.Identifier, name)}
}

// samples holds one node of every kind.
func samples() []Node {
	x := ident("x")

	return []Node{
		&ArrayExpr{},
		&ArrayGetExpr{Array: x, Index: num(0)},
		&ArraySetExpr{Array: x, Index: num(0), Value: num(1)},
		&AssignExpr{Name: x.Name, Value: num(1)},
		&BinaryExpr{Left: num(1), Operator: tok(token.Plus, "+"), Right: num(2)},
		&BitwiseExpr{Left: num(1), Operator: tok(token.Ampersand, "&"), Right: num(2)},
		&CallExpr{Callee: x},
		&ComprehensionExpr{Yield: x, Variable: x.Name, Iterable: ident("xs")},
		&CompoundAssignExpr{Target: x, Operator: tok(token.PlusEqual, "+="), Value: num(1)},
		&ElvisExpr{Left: x, Right: num(0)},
		&FunctionExpr{},
		&GetExpr{Object: x, Name: tok(token.Identifier, "f")},
		&GroupingExpr{Expression: x},
		&LiteralExpr{},
		&LogicalExpr{Left: x, Operator: tok(token.And, "and"), Right: x},
		&RangeExpr{From: num(1), To: num(2)},
		&SetExpr{Object: x, Name: tok(token.Identifier, "f"), Value: num(1)},
		&SuperExpr{Method: tok(token.Identifier, "m")},
		&TernaryExpr{Condition: x, Then: num(1), Otherwise: num(2)},
		&ThisExpr{},
		&UnaryExpr{Operator: tok(token.Minus, "-"), Right: x},
		x,

		&BlockStmt{},
		&BreakStmt{},
		&ClassStmt{Name: tok(token.Identifier, "A")},
		&ContinueStmt{},
		&DoWhileStmt{Body: &BlockStmt{}, Condition: x},
		&ExpressionStmt{Expression: x},
		&ForStmt{Body: &BlockStmt{}},
		&ForEachStmt{Variable: x.Name, Iterable: ident("xs"), Body: &BlockStmt{}},
		&FunctionStmt{Name: tok(token.Identifier, "f")},
		&IfStmt{Condition: x, Then: &BlockStmt{}},
		&ImportStmt{Name: tok(token.Identifier, "math")},
		&ReturnStmt{},
		&SwitchStmt{Subject: x},
		&TestStmt{Name: tok(token.String, `"t"`)},
		&VarStmt{Name: x.Name},
		&WhileStmt{Condition: x, Body: &BlockStmt{}},
	}
}

func TestKinds_Exhaustive(t *testing.T) {
	covered := make(map[Kind]bool)

	for _, n := range samples() {
		k := n.Kind()
		if covered[k] {
			t.Errorf("kind %v sampled twice", k)
		}

		covered[k] = true

		if got := reflect.TypeOf(n).Elem().Name(); got != k.String() {
			t.Errorf("%s.Kind() = %v", got, k)
		}
	}

	for _, k := range append(ExpressionKinds(), StatementKinds()...) {
		if !covered[k] {
			t.Errorf("kind %v has no sample node", k)
		}
	}
}

func TestVisitors_Exhaustive(t *testing.T) {
	tests := []struct {
		name    string
		visitor reflect.Type
		kinds   []Kind
	}{
		{"ExprVisitor", reflect.TypeFor[ExprVisitor](), ExpressionKinds()},
		{"StmtVisitor", reflect.TypeFor[StmtVisitor](), StatementKinds()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.visitor.NumMethod() != len(tt.kinds) {
				t.Errorf("%d methods for %d kinds", tt.visitor.NumMethod(), len(tt.kinds))
			}

			for _, k := range tt.kinds {
				if _, ok := tt.visitor.MethodByName("Visit" + k.String()); !ok {
					t.Errorf("missing Visit%s", k)
				}
			}
		})
	}
}

func TestKind_Classification(t *testing.T) {
	for _, k := range ExpressionKinds() {
		if !k.IsExpression() || k.IsStatement() || !k.IsValid() {
			t.Errorf("%v misclassified", k)
		}
	}

	for _, k := range StatementKinds() {
		if k.IsExpression() || !k.IsStatement() || !k.IsValid() {
			t.Errorf("%v misclassified", k)
		}
	}

	if KindInvalid.IsValid() || Kind(255).IsValid() {
		t.Error("invalid kinds reported valid")
	}
}

func TestToMap_AllKinds(t *testing.T) {
	for _, n := range samples() {
		m := ToMap(n)
		if m == nil {
			t.Errorf("ToMap(%v) = nil", n.Kind())

			continue
		}

		if m["kind"] != n.Kind().String() {
			t.Errorf("ToMap(%v)[kind] = %v", n.Kind(), m["kind"])
		}
	}
}

func TestToMap_Nested(t *testing.T) {
	e := &BinaryExpr{
		Left:     num(1),
		Operator: tok(token.Plus, "+"),
		Right:    &LiteralExpr{Token: tok(token.Null, "null")},
	}

	m := ToMap(e)

	left, ok := m["left"].(map[string]any)
	if !ok || left["value"] != int64(1) {
		t.Errorf("left = %#v", m["left"])
	}

	right, ok := m["right"].(map[string]any)
	if !ok {
		t.Fatalf("right = %#v", m["right"])
	}

	if v, ok := right["value"]; !ok || v != nil {
		t.Errorf("null literal value = %#v, %v", v, ok)
	}
}

func TestSprint(t *testing.T) {
	x := ident("x")
	call := &CallExpr{Callee: ident("f"), Arguments: []Expression{num(1), x}}

	tests := []struct {
		node Node
		want string
	}{
		{
			node: &BinaryExpr{
				Left:     num(1),
				Operator: tok(token.Plus, "+"),
				Right:    &BinaryExpr{Left: num(2), Operator: tok(token.Star, "*"), Right: num(3)},
			},
			want: "(+ 1 (* 2 3))",
		},
		{node: call, want: "(call f 1 x)"},
		{node: &LiteralExpr{Value: "a\"b"}, want: `"a\"b"`},
		{node: &LiteralExpr{Value: 'c'}, want: "'c'"},
		{node: &LiteralExpr{Value: 2.0}, want: "2.0"},
		{node: &LiteralExpr{Value: nil}, want: "null"},
		{node: &VarStmt{Name: x.Name, Final: true, Initializer: num(1)}, want: "(val x 1)"},
		{node: &ForStmt{Body: &BlockStmt{}}, want: "(for _ _ _ (block))"},
		{
			node: &ComprehensionExpr{
				Yield:     x,
				Variable:  x.Name,
				Iterable:  ident("xs"),
				Condition: x,
				Otherwise: num(0),
			},
			want: "(comprehension x (for x xs) (if x) (else 0))",
		},
		{
			node: &ClassStmt{
				Name:       tok(token.Identifier, "B"),
				Superclass: ident("A"),
				Methods: []*FunctionStmt{{
					Name:   tok(token.Identifier, "m"),
					Params: []token.Token{x.Name},
					Body:   []Statement{&ReturnStmt{Value: x}},
				}},
			},
			want: "(class B (extends A) (fun m (x) (return x)))",
		},
		{
			node: &SwitchStmt{
				Subject: x,
				Cases:   []*Case{{Value: num(1), Body: []Statement{&BreakStmt{}}}},
				Default: &Case{},
			},
			want: "(switch x (case 1 (break)) (default))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Sprint(tt.node); got != tt.want {
				t.Errorf("Sprint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFprint(t *testing.T) {
	var b strings.Builder

	stmts := []Statement{
		&ExpressionStmt{Expression: ident("a")},
		&ImportStmt{Name: tok(token.Identifier, "m"), Alias: &token.Token{Lexeme: "n"}},
	}

	if err := Fprint(&b, stmts); err != nil {
		t.Fatal(err)
	}

	want := "(; a)\n(import m as n)\n"
	if b.String() != want {
		t.Errorf("Fprint() = %q, want %q", b.String(), want)
	}
}

func TestImportStmt_Identifier(t *testing.T) {
	s := &ImportStmt{Name: tok(token.Identifier, "math")}
	if s.Identifier().Lexeme != "math" {
		t.Errorf("Identifier() = %q", s.Identifier().Lexeme)
	}

	alias := tok(token.Identifier, "m")
	s.Alias = &alias

	if s.Identifier().Lexeme != "m" {
		t.Errorf("aliased Identifier() = %q", s.Identifier().Lexeme)
	}
}
