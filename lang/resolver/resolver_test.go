package resolver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/lexer"
	"github.com/ardnew/quill/lang/parser"
)

// recorder is a State that keeps resolutions in the order they were made.
type recorder struct {
	modules map[string]bool
	entries []string
	seen    map[ast.Expression]bool
}

func newRecorder(modules ...string) *recorder {
	r := &recorder{modules: make(map[string]bool), seen: make(map[ast.Expression]bool)}
	for _, m := range modules {
		r.modules[m] = true
	}

	return r
}

func (r *recorder) HasModule(name string) bool { return r.modules[name] }

func (r *recorder) Resolve(expr ast.Expression, depth int) {
	var name string

	switch e := expr.(type) {
	case *ast.VariableExpr:
		name = e.Name.Lexeme
	case *ast.AssignExpr:
		name = "=" + e.Name.Lexeme
	case *ast.ThisExpr:
		name = "this"
	case *ast.SuperExpr:
		name = "super"
	}

	if r.seen[expr] {
		name = "twice:" + name
	}

	r.seen[expr] = true
	r.entries = append(r.entries, fmt.Sprintf("%s:%d", name, depth))
}

// suggesting also proposes module names.
type suggesting struct{ *recorder }

func (suggesting) Suggest(string) []string { return []string{"math", "maths"} }

func parse(t *testing.T, src string) []ast.Statement {
	t.Helper()

	tokens, _, err := lexer.Scan(src)
	if err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}

	stmts, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}

	return stmts
}

func TestResolve_Distances(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"enclosing block", "{ var x = 1; { var y = x; } }", []string{"x:1"}},
		{"global", "var g = 1; { g; }", nil},
		{"parameter", "fun f(a) { return a; }", []string{"a:0"}},
		{"assignment", "{ var a; a = 1; }", []string{"=a:0"}},
		{"closure", "fun f(a) { return fun () { return a; }; }", []string{"a:1"}},
		{"comprehension", "[x for x in xs];", []string{"x:1"}},
		{
			"comprehension frames",
			"{ var xs = 1; [x + xs for x in xs if x else xs]; }",
			[]string{"xs:0", "x:1", "xs:2", "x:1", "xs:2"},
		},
		{"comprehension does not leak", "{ [x for x in xs]; x; }", []string{"x:1"}},
		{"this in method", "class A { fun m() { return this; } }", []string{"this:1"}},
		{
			"super in method",
			"class A {} class B extends A { fun m() { return super.m(); } }",
			[]string{"super:2"},
		},
		{
			"local superclass",
			"{ class A {} class B extends A { fun m() { return this; } } }",
			[]string{"A:0", "this:1"},
		},
		{"constructor", "class A { constructor(x) { this.x = x; } }", []string{"x:0", "this:1"}},
		{
			"for",
			"for (var i = 0; i < 3; i += 1) { i; }",
			[]string{"i:0", "i:0", "i:1"},
		},
		{"foreach", "for (x in xs) { x; }", []string{"x:1"}},
		{
			"switch branches",
			"{ var v = 1; switch (v) { case 1: v; default: var w = v; w; } }",
			[]string{"v:0", "v:1", "v:1", "w:0"},
		},
		{"test body", `{ var a = 1; test "t" { a; } }`, []string{"a:1"}},
		{"import alias", "{ import math as m; m; }", []string{"m:0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder("math")

			if err := Resolve(rec, parse(t, tt.src)); err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if !slices.Equal(rec.entries, tt.want) {
				t.Errorf("resolutions = %v, want %v", rec.entries, tt.want)
			}
		})
	}
}

func TestResolve_Accepts(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"shadowing", "{ var x = 1; { var x = 2; } }"},
		{"global redeclaration", "var x = 1; var x = 2;"},
		{"initializer reads outer", "{ var x = 1; var y = x; }"},
		{"global self reference", "var x = x;"},
		{"return in function", "fun f() { return 1; }"},
		{"bare return in constructor", "class A { constructor() { return; } }"},
		{"return in test", `test "t" { return; }`},
		{"break in while", "while (true) break;"},
		{"break in switch", "switch (1) { case 1: break; }"},
		{"break in for", "for (;;) { break; }"},
		{"continue in do", "do { continue; } while (false);"},
		{"continue in switch in loop", "while (true) { switch (1) { default: continue; } }"},
		{"distinct superclass", "class B {} class A extends B {}"},
		{"known module", "import math;"},
		{"shadowed value", "{ val x = 1; { var x = 2; x = 3; } }"},
		{"variable reassignment", "var x = 1; x = 2; x += 3;"},
		{"parameter reassignment", "fun f(a) { a = 1; }"},
		{"property of value", "val o = 1; o.f = 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Resolve(newRecorder("math"), parse(t, tt.src)); err != nil {
				t.Errorf("Resolve(%q) error = %v", tt.src, err)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"duplicate", "{ var x = 1; var x = 2; }", diag.AlreadyDeclared, "Variable 'x' is already declared in this scope."},
		{"duplicate parameter", "fun f(a, a) {}", diag.AlreadyDeclared, ""},
		{"own initializer", "{ var x = x; }", diag.ReadInOwnInitializer, "Can't read local variable 'x' in its own initializer."},
		{"top-level return", "return;", diag.ReturnFromTopLevel, "Can't return from top-level code."},
		{"constructor value", "class A { constructor() { return 1; } }", diag.ReturnFromInitializer, ""},
		{"break", "break;", diag.BreakOutsideLoop, "Can't use 'break' outside of a loop or switch."},
		{"break in function in loop", "while (true) { fun f() { break; } }", diag.BreakOutsideLoop, ""},
		{"continue", "continue;", diag.ContinueOutsideLoop, "Can't use 'continue' outside of a loop."},
		{"continue in switch", "switch (1) { default: continue; }", diag.ContinueOutsideLoop, ""},
		{"this", "this;", diag.ThisOutsideClass, ""},
		{"this in function", "fun f() { return this; }", diag.ThisOutsideClass, ""},
		{"super", "super.m();", diag.SuperOutsideClass, ""},
		{"super without superclass", "class A { fun m() { super.m(); } }", diag.SuperWithoutSuperclass, ""},
		{"self inheritance", "class A extends A {}", diag.InheritFromSelf, "A class can't inherit from itself: 'A'."},
		{"superclass not class", "var B = 1; class A extends B {}", diag.SuperclassNotClass, ""},
		{"unknown module", "import nope;", diag.UnknownModule, "Unknown module 'nope'."},
		{"assign value", "val x = 1; x = 2;", diag.AssignToFinal, "Can't reassign value 'x'."},
		{"compound assign value", "{ val x = 1; x += 1; }", diag.AssignToFinal, ""},
		{"assign function", "fun f() {} f = 1;", diag.AssignToFinal, "Can't reassign function 'f'."},
		{"assign class", "class A {} A = 1;", diag.AssignToFinal, "Can't reassign class 'A'."},
		{"assign module", "import math; math = 1;", diag.AssignToFinal, "Can't reassign module 'math'."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(newRecorder("math"))

			err := r.Resolve(parse(t, tt.src))
			if !errors.Is(err, tt.code) {
				t.Fatalf("Resolve(%q) error = %v, want %v", tt.src, err, tt.code)
			}

			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *diag.Error", err)
			}

			if de.Phase != diag.PhaseResolving {
				t.Errorf("Phase = %v", de.Phase)
			}

			if !de.Pos.IsValid() {
				t.Errorf("Pos = %v", de.Pos)
			}

			if tt.msg != "" && de.Message() != tt.msg {
				t.Errorf("Message() = %q, want %q", de.Message(), tt.msg)
			}

			if r.Depth() != 0 {
				t.Errorf("Depth() = %d after failure", r.Depth())
			}
		})
	}
}

func TestResolve_ErrorPosition(t *testing.T) {
	err := Resolve(newRecorder(), parse(t, "{\n  var x = 1;\n  var x = 2;\n}"))

	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error = %v", err)
	}

	if de.Pos.Line != 3 || de.Pos.Column != 7 {
		t.Errorf("Pos = %v, want 3:7", de.Pos)
	}

	if !strings.HasPrefix(de.Error(), "RESOLVING error at 3:7: ") {
		t.Errorf("Error() = %q", de.Error())
	}
}

func TestResolve_Suggestion(t *testing.T) {
	err := Resolve(suggesting{newRecorder()}, parse(t, "import mat;"))

	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error = %v", err)
	}

	var got string

	for _, a := range de.Attrs() {
		if a.Key == "suggestion" {
			got = a.Value.String()
		}
	}

	if got != "math, maths" {
		t.Errorf("suggestion = %q", got)
	}
}

func TestResolve_Reporter(t *testing.T) {
	var c diag.Collector

	err := Resolve(newRecorder(), parse(t, "break; continue;"), WithReporter(&c))
	if err == nil {
		t.Fatal("Resolve() error = nil")
	}

	if c.Len() != 1 {
		t.Errorf("reported %d errors, want 1", c.Len())
	}

	if err := Resolve(newRecorder(), parse(t, "var a = 1;"), WithReporter(&c)); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 1 {
		t.Errorf("reported %d errors after success", c.Len())
	}
}

func TestResolve_Identity(t *testing.T) {
	rec := newRecorder()

	// Two syntactically identical references resolve independently.
	if err := Resolve(rec, parse(t, "{ var x = 1; x; { x; } }")); err != nil {
		t.Fatal(err)
	}

	want := []string{"x:0", "x:1"}
	if !slices.Equal(rec.entries, want) {
		t.Errorf("resolutions = %v, want %v", rec.entries, want)
	}
}
