package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/lang/lexer"
	"github.com/ardnew/quill/pkg"
)

// Tokens prints the token stream and comments of each source.
type Tokens struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format." short:"f"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output." short:"i"`

	Files []string `arg:"" help:"Source files or '-' for stdin." name:"file" optional:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := lang.ParseFormat(t.Format)
	if err != nil {
		return err
	}

	srcs, err := readSources(t.Files)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	var failed int

	for _, src := range srcs {
		tokens, comments, err := lexer.Scan(src.text)
		if err != nil {
			failed++

			writeDiagnostics(w, src, err)

			continue
		}

		prog := &lang.Program{
			Source:   src.text,
			Tokens:   tokens,
			Comments: comments,
		}

		if err := prog.FormatTokens(ctx, w, format, t.Indent); err != nil {
			return ErrOutput.With(slog.String("source", src.name)).Wrap(err)
		}
	}

	if failed > 0 {
		return pkg.ErrCompile.Wrapf("%d of %d files", failed, len(srcs))
	}

	return nil
}

// AST prints the parsed and resolved tree of each source.
type AST struct {
	Format string `default:"sexpr" enum:"sexpr,json,yaml" help:"Output format." short:"f"`
	Indent int    `default:"2"                            help:"Indent width for JSON and YAML output." short:"i"`

	Files []string `arg:"" help:"Source files or '-' for stdin." name:"file" optional:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := lang.ParseFormat(a.Format)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	srcs, err := readSources(a.Files)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	opts := compileOptions(reg)

	var failed int

	for _, src := range srcs {
		prog, err := lang.Compile(ctx, src.text, opts...)
		if err != nil {
			failed++

			writeDiagnostics(w, src, err)

			continue
		}

		if err := prog.Format(ctx, w, format, a.Indent); err != nil {
			return ErrOutput.With(slog.String("source", src.name)).Wrap(err)
		}
	}

	if failed > 0 {
		return pkg.ErrCompile.Wrapf("%d of %d files", failed, len(srcs))
	}

	return nil
}
