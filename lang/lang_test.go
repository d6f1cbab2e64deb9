package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/pkg"
)

// modules is a fixed module set that also suggests names.
type modules []string

func (m modules) HasModule(name string) bool {
	for _, n := range m {
		if n == name {
			return true
		}
	}

	return false
}

func (m modules) Suggest(name string) []string {
	var out []string

	for _, n := range m {
		if strings.HasPrefix(n, name) {
			out = append(out, n)
		}
	}

	return out
}

func TestCompile(t *testing.T) {
	src := "// globals\nvar a = 1;\n{ var b = a; b = b + 1; }\n"

	prog, err := Compile(t.Context(), src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if prog.Source != src {
		t.Errorf("Source = %q", prog.Source)
	}

	if n := len(prog.Tokens); n == 0 || prog.Tokens[n-1].Type != token.EOF {
		t.Errorf("Tokens do not end with EOF: %v", prog.Tokens)
	}

	if len(prog.Comments) != 1 {
		t.Errorf("Comments = %v, want 1", prog.Comments)
	}

	if len(prog.Statements) != 2 {
		t.Fatalf("Statements = %d, want 2", len(prog.Statements))
	}

	// b (assign target), b (read) resolve locally; a is global.
	if prog.Locals.Len() != 2 {
		t.Errorf("Locals.Len() = %d, want 2", prog.Locals.Len())
	}

	for e, d := range prog.Locals.All() {
		if d != 0 {
			t.Errorf("depth(%s) = %d, want 0", ast.Sprint(e), d)
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		phase  diag.Phase
		code   diag.Code
		count  int
		tokens bool
		stmts  bool
	}{
		{"lexing", "var a = @;\nvar b = #;", diag.PhaseLexing, diag.UnexpectedCharacter, 2, true, false},
		{"parsing", "var = 1;", diag.PhaseParsing, diag.ExpectToken, 1, true, false},
		{"resolving", "return;", diag.PhaseResolving, diag.ReturnFromTopLevel, 1, true, true},
		{"unknown module", "import nope;", diag.PhaseResolving, diag.UnknownModule, 1, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c diag.Collector

			prog, err := Compile(t.Context(), tt.src, WithReporter(&c))
			if !errors.Is(err, tt.code) {
				t.Fatalf("Compile() error = %v, want %v", err, tt.code)
			}

			var de *diag.Error
			if !errors.As(err, &de) || de.Phase != tt.phase {
				t.Errorf("error phase = %v, want %v", de, tt.phase)
			}

			if c.Len() != tt.count {
				t.Errorf("reported %d diagnostics, want %d", c.Len(), tt.count)
			}

			if prog == nil {
				t.Fatal("Compile() returned no partial program")
			}

			if got := len(prog.Tokens) > 0; got != tt.tokens {
				t.Errorf("has tokens = %v, want %v", got, tt.tokens)
			}

			if got := len(prog.Statements) > 0; got != tt.stmts {
				t.Errorf("has statements = %v, want %v", got, tt.stmts)
			}
		})
	}
}

func TestCompile_Modules(t *testing.T) {
	mods := modules{"math", "maths"}

	if _, err := Compile(t.Context(), "import math; import maths as m;", WithModules(mods)); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	_, err := Compile(t.Context(), "import mat;", WithModules(mods))

	var de *diag.Error
	if !errors.As(err, &de) || de.Code != diag.UnknownModule {
		t.Fatalf("Compile() error = %v", err)
	}

	var suggestion string

	for _, a := range de.Attrs() {
		if a.Key == "suggestion" {
			suggestion = a.Value.String()
		}
	}

	if suggestion != "math, maths" {
		t.Errorf("suggestion = %q", suggestion)
	}
}

func TestCompile_MaxDepth(t *testing.T) {
	_, err := Compile(t.Context(), "((((1))));", WithMaxDepth(3))
	if !errors.Is(err, diag.MaxDepthExceeded) {
		t.Errorf("Compile() error = %v, want %v", err, diag.MaxDepthExceeded)
	}
}

func TestCompile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	prog, err := Compile(ctx, "var a = 1;")
	if prog != nil {
		t.Errorf("Compile() program = %v, want nil", prog)
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}

	if !errors.Is(err, diag.Cancelled) {
		t.Errorf("Compile() error = %v, want %v", err, diag.Cancelled)
	}
}

func TestCompile_Logger(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	if _, err := Compile(t.Context(), "var a = 1;", WithLogger(logger)); err != nil {
		t.Fatal(err)
	}

	for _, msg := range []string{"lex complete", "parse complete", "resolve complete"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, buf.String())
		}
	}
}

func TestCompileReader(t *testing.T) {
	prog, err := CompileReader(t.Context(), strings.NewReader("val x = 1;"))
	if err != nil {
		t.Fatalf("CompileReader() error = %v", err)
	}

	if len(prog.Statements) != 1 {
		t.Errorf("Statements = %d, want 1", len(prog.Statements))
	}

	_, err = CompileReader(t.Context(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("CompileReader() error = %v, want %v", err, pkg.ErrReadInput)
	}
}

func TestLocals(t *testing.T) {
	a := &ast.VariableExpr{Name: token.New(token.Identifier, "x", nil, token.Position{Line: 1, Column: 1})}
	b := &ast.VariableExpr{Name: a.Name}

	l := NewLocals()

	if !l.record(a, 1) || l.record(a, 2) {
		t.Error("record() is not write-once")
	}

	if d, ok := l.Depth(a); !ok || d != 1 {
		t.Errorf("Depth(a) = %d, %v", d, ok)
	}

	if _, ok := l.Depth(b); ok {
		t.Error("Depth(b) found an entry for an identical but distinct node")
	}

	var nilLocals *Locals
	if _, ok := nilLocals.Depth(a); ok || nilLocals.Len() != 0 {
		t.Error("nil Locals is not empty")
	}

	for range nilLocals.All() {
		t.Error("nil Locals yielded an entry")
	}
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment(nil, nil)

	if env.HasModule("math") {
		t.Error("HasModule() = true without modules")
	}

	if env.Suggest("math") != nil {
		t.Error("Suggest() != nil without modules")
	}

	if env.Locals() == nil {
		t.Error("Locals() = nil")
	}

	e := &ast.ThisExpr{}
	env.Resolve(e, 3)

	if d, _ := env.Locals().Depth(e); d != 3 {
		t.Errorf("Depth() = %d, want 3", d)
	}
}
