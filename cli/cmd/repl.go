package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/quill/cli/cmd/repl"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/pkg"
)

// Repl starts an interactive session. Named files are compiled into the
// session before the prompt opens.
type Repl struct {
	Files []string `arg:"" help:"Source files to preload." name:"file" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	session := repl.NewSession(reg.Names(), compileOptions(reg)...)

	if len(r.Files) > 0 {
		if err := r.preload(ctx, session); err != nil {
			return err
		}
	}

	cacheDir := os.TempDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cacheDir = dir
		}
	}

	return repl.Run(ctx, cacheDir, session, log.Default())
}

// preload compiles each file into session in order. Diagnostics of the
// first file that fails are written to stdout.
func (r *Repl) preload(ctx context.Context, session *repl.Session) error {
	srcs, err := readSources(r.Files)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, src := range srcs {
		if err := session.Check(ctx, src.text); err != nil {
			writeDiagnostics(w, src, errors.Unwrap(err))

			return pkg.ErrCompile.Wrapf("preload %s", src.name)
		}

		stmts, err := session.Eval(ctx, src.text)
		if err != nil {
			var ee *repl.EvalError
			if errors.As(err, &ee) {
				writeDiagnostics(w, source{name: src.name, text: ee.Source}, ee.Err)
			}

			return pkg.ErrCompile.Wrapf("preload %s", src.name)
		}

		log.DebugContext(ctx, "preloaded source",
			slog.String("source", src.name),
			slog.Int("statements", len(stmts)),
		)
	}

	return nil
}
