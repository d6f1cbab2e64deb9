package repl

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

// Session accumulates the statements accepted so far. Each submission is
// compiled together with everything before it, so later input may refer to
// earlier declarations.
type Session struct {
	opts    []lang.Option
	modules []string
	source  string
	prog    *lang.Program
}

// NewSession returns an empty session. Modules are the importable module
// names offered for completion; opts configure every compile.
func NewSession(modules []string, opts ...lang.Option) *Session {
	return &Session{
		opts:    opts,
		modules: slices.Clone(modules),
	}
}

// EvalError is a rejected submission. Source is the text that was compiled,
// which the diagnostic positions refer to.
type EvalError struct {
	Source string
	Err    error
}

func (e *EvalError) Error() string { return e.Err.Error() }

func (e *EvalError) Unwrap() error { return e.Err }

// Render formats the diagnostics with their source snippets.
func (e *EvalError) Render() string {
	return strings.TrimRight(diag.Render(e.Source, e.Err), "\n")
}

// Eval compiles input after the session source. On success input becomes
// part of the session and the statements it added are returned. Input
// without a trailing ";" or "}" is retried as a statement when it fails
// to compile as written.
func (s *Session) Eval(ctx context.Context, input string) ([]ast.Statement, error) {
	candidate := s.source + input + "\n"

	prog, err := lang.Compile(ctx, candidate, s.opts...)
	if err != nil && needsTerminator(input) {
		retry := s.source + input + ";\n"

		if p, e := lang.Compile(ctx, retry, s.opts...); e == nil {
			candidate, prog, err = retry, p, nil
		}
	}

	if err != nil {
		return nil, &EvalError{Source: candidate, Err: err}
	}

	n := len(s.statements())
	s.source, s.prog = candidate, prog

	return prog.Statements[n:], nil
}

// Check compiles src on its own without changing the session.
func (s *Session) Check(ctx context.Context, src string) error {
	if _, err := lang.Compile(ctx, src, s.opts...); err != nil {
		return &EvalError{Source: src, Err: err}
	}

	return nil
}

// Replace compiles src and, on success, makes it the session source.
func (s *Session) Replace(ctx context.Context, src string) error {
	prog, err := lang.Compile(ctx, src, s.opts...)
	if err != nil {
		return &EvalError{Source: src, Err: err}
	}

	s.source, s.prog = src, prog

	return nil
}

// Reset discards every accepted statement.
func (s *Session) Reset() { s.source, s.prog = "", nil }

// Source returns the accepted source text.
func (s *Session) Source() string { return s.source }

// Modules returns the importable module names.
func (s *Session) Modules() []string { return slices.Clone(s.modules) }

// Tokens writes the token stream of the accepted source.
func (s *Session) Tokens(ctx context.Context, w io.Writer) error {
	if s.prog == nil {
		return nil
	}

	return s.prog.FormatTokens(ctx, w, lang.FormatText, 0)
}

func (s *Session) statements() []ast.Statement {
	if s.prog == nil {
		return nil
	}

	return s.prog.Statements
}

// Declaration is a top-level name introduced by the session.
type Declaration struct {
	Name   string
	Kind   string
	Params []string
	// Members are method names of a class.
	Members []string
}

// Declarations returns the top-level declarations in source order. A name
// declared twice is reported once, at its latest declaration.
func (s *Session) Declarations() []Declaration {
	var decls []Declaration

	for _, stmt := range s.statements() {
		d, ok := declaration(stmt)
		if !ok {
			continue
		}

		decls = slices.DeleteFunc(decls, func(o Declaration) bool {
			return o.Name == d.Name
		})
		decls = append(decls, d)
	}

	return decls
}

// Lookup returns the latest top-level declaration of name.
func (s *Session) Lookup(name string) (Declaration, bool) {
	decls := s.Declarations()

	i := slices.IndexFunc(decls, func(d Declaration) bool { return d.Name == name })
	if i < 0 {
		return Declaration{}, false
	}

	return decls[i], true
}

// Names returns the declared top-level names.
func (s *Session) Names() []string {
	decls := s.Declarations()
	names := make([]string, len(decls))

	for i, d := range decls {
		names[i] = d.Name
	}

	return names
}

// Method returns the parameters of method on the class declared as class.
func (s *Session) Method(class, method string) ([]string, bool) {
	for _, stmt := range slices.Backward(s.statements()) {
		c, ok := stmt.(*ast.ClassStmt)
		if !ok || c.Name.Lexeme != class {
			continue
		}

		for _, m := range c.Methods {
			if m.Name.Lexeme == method {
				return paramNames(m.Params), true
			}
		}

		return nil, false
	}

	return nil, false
}

func declaration(stmt ast.Statement) (Declaration, bool) {
	switch st := stmt.(type) {
	case *ast.VarStmt:
		d := Declaration{Name: st.Name.Lexeme, Kind: "var"}
		if st.Final {
			d.Kind = "val"
		}

		if fn, ok := st.Initializer.(*ast.FunctionExpr); ok {
			d.Params = paramNames(fn.Params)
		}

		return d, true

	case *ast.FunctionStmt:
		return Declaration{
			Name:   st.Name.Lexeme,
			Kind:   "fun",
			Params: paramNames(st.Params),
		}, true

	case *ast.ClassStmt:
		d := Declaration{Name: st.Name.Lexeme, Kind: "class"}
		if st.Constructor != nil {
			d.Params = paramNames(st.Constructor.Params)
		}

		for _, m := range st.Methods {
			d.Members = append(d.Members, m.Name.Lexeme)
		}

		return d, true

	case *ast.ImportStmt:
		name := st.Name.Lexeme
		if st.Alias != nil {
			name = st.Alias.Lexeme
		}

		return Declaration{Name: name, Kind: "import"}, true
	}

	return Declaration{}, false
}

func paramNames(params []token.Token) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}

	return names
}

// needsTerminator reports whether input lacks a statement terminator.
func needsTerminator(input string) bool {
	input = strings.TrimSpace(input)

	return input != "" &&
		!strings.HasSuffix(input, ";") &&
		!strings.HasSuffix(input, "}")
}
