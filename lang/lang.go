package lang

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/klauspost/readahead"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/lexer"
	"github.com/ardnew/quill/lang/parser"
	"github.com/ardnew/quill/lang/resolver"
	"github.com/ardnew/quill/lang/token"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/pkg"
)

// Program is the result of compiling one source text.
//
// When compilation fails, the program holds the output of every stage that
// completed: tokens after a parse error, statements after a resolve error.
type Program struct {
	Source     string
	Tokens     []token.Token
	Comments   []token.Comment
	Statements []ast.Statement
	Locals     *Locals
}

type config struct {
	logger   log.Logger
	reporter diag.Reporter
	modules  Modules
	tokens   *token.Registry
	parsers  *parser.Registry
	maxDepth int
}

// Option configures compilation.
type Option func(*config)

// WithLogger sets the logger that receives trace records for each stage.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithReporter forwards every diagnostic to rep as it is found.
func WithReporter(rep diag.Reporter) Option {
	return func(c *config) {
		if rep != nil {
			c.reporter = rep
		}
	}
}

// WithModules sets the modules that import statements may name.
func WithModules(m Modules) Option {
	return func(c *config) { c.modules = m }
}

// WithTokenRegistry scans and parses with r instead of [token.Default].
func WithTokenRegistry(r *token.Registry) Option {
	return func(c *config) { c.tokens = r }
}

// WithParserRegistry parses with r instead of [parser.DefaultRegistry].
func WithParserRegistry(r *parser.Registry) Option {
	return func(c *config) { c.parsers = r }
}

// WithMaxDepth bounds expression and block nesting.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

func makeConfig(opts ...Option) config {
	c := config{
		reporter: diag.Discard,
		maxDepth: parser.DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Compile lexes, parses and resolves source. The returned error is a
// [diag.List] of lexical errors, a single [*diag.Error] from the parser or
// resolver, or a [diag.Cancelled] diagnostic wrapping the context's error
// if ctx ends before a stage starts.
func Compile(ctx context.Context, source string, opts ...Option) (*Program, error) {
	return makeConfig(opts...).compile(ctx, source)
}

// CompileReader reads all of r and compiles it.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	source, err := read(r)
	if err != nil {
		return nil, err
	}

	return Compile(ctx, source, opts...)
}

// read drains r through an asynchronous read-ahead buffer.
func read(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", pkg.ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

func (c config) compile(ctx context.Context, source string) (*Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(diag.PhaseLexing, err)
	}

	prog := &Program{Source: source, Locals: NewLocals()}

	start := time.Now()
	lex := lexer.New(source,
		lexer.WithRegistry(c.tokens),
		lexer.WithReporter(c.reporter),
	)
	prog.Tokens, prog.Comments = lex.ScanTokens()

	c.logger.TraceContext(ctx, "lex complete",
		slog.Int("tokens", len(prog.Tokens)),
		slog.Int("comments", len(prog.Comments)),
		slog.Int("errors", len(lex.Errors())),
		slog.Duration("elapsed", time.Since(start)),
	)

	if err := lex.Err(); err != nil {
		return prog, err
	}

	if err := ctx.Err(); err != nil {
		return prog, cancelled(diag.PhaseParsing, err)
	}

	start = time.Now()

	stmts, err := parser.Parse(prog.Tokens,
		parser.WithRegistry(c.parsers),
		parser.WithTokenRegistry(c.tokens),
		parser.WithMaxDepth(c.maxDepth),
	)

	c.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(stmts)),
		slog.Bool("ok", err == nil),
		slog.Duration("elapsed", time.Since(start)),
	)

	if err != nil {
		c.reporter.Report(diag.AsError(err))

		return prog, err
	}

	prog.Statements = stmts

	if err := ctx.Err(); err != nil {
		return prog, cancelled(diag.PhaseResolving, err)
	}

	start = time.Now()
	env := NewEnvironment(prog.Locals, c.modules)
	err = resolver.Resolve(env, stmts, resolver.WithReporter(c.reporter))

	c.logger.TraceContext(ctx, "resolve complete",
		slog.Int("locals", prog.Locals.Len()),
		slog.Bool("ok", err == nil),
		slog.Duration("elapsed", time.Since(start)),
	)

	return prog, err
}

func cancelled(phase diag.Phase, err error) *diag.Error {
	return diag.New(phase, token.Position{}, diag.Cancelled, err).Wrap(err)
}
