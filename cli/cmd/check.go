package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/pkg"
)

// Check lexes, parses and resolves each source and reports every
// diagnostic. It fails if any source has an error.
type Check struct {
	Jobs  int  `default:"0" help:"Maximum number of sources checked concurrently (0 uses GOMAXPROCS)." short:"j"`
	Quiet bool `            help:"Only print diagnostics."                                          short:"q"`

	Files []string `arg:"" help:"Source files or '-' for stdin." name:"file" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	srcs, err := readSources(c.Files)
	if err != nil {
		return err
	}

	cache := lang.NewCache(compileOptions(reg)...)

	results, err := check(ctx, cache, srcs, c.Jobs)
	if err != nil {
		return err
	}

	return report(stdout(ctx), srcs, results, c.Quiet)
}

// check compiles srcs concurrently, at most jobs at a time, and returns one
// result per source in source order. Only cancellation is returned as an
// error; compile failures are carried in the results.
func check(
	ctx context.Context,
	cache *lang.Cache,
	srcs []source,
	jobs int,
) ([]diag.Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var results diag.Results

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, src := range srcs {
		g.Go(func() error {
			start := time.Now()

			prog, err := cache.Compile(gctx, src.text)

			r := diag.Result{
				Err:     err,
				Source:  src.name,
				Elapsed: time.Since(start),
			}

			if prog != nil {
				r.Statements = len(prog.Statements)
			}

			log.TraceContext(gctx, "checked source",
				slog.String("source", src.name),
				slog.Bool("ok", r.OK()),
				slog.Duration("elapsed", r.Elapsed),
			)

			if errors.Is(err, diag.Cancelled) {
				return err
			}

			results.Collect(r)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := results.All()
	order := make(map[string]int, len(srcs))

	for i, src := range srcs {
		order[src.name] = i
	}

	slices.SortStableFunc(all, func(a, b diag.Result) int {
		return order[a.Source] - order[b.Source]
	})

	return all, nil
}

// report writes a summary line or the diagnostics of each result and
// returns an error naming how many sources failed.
func report(w io.Writer, srcs []source, results []diag.Result, quiet bool) error {
	text := make(map[string]string, len(srcs))

	for _, src := range srcs {
		text[src.name] = src.text
	}

	var failed int

	for _, r := range results {
		if r.OK() {
			if !quiet {
				writeResult(w, r)
			}

			continue
		}

		failed++

		writeDiagnostics(w, source{name: r.Source, text: text[r.Source]}, r.Err)
	}

	if failed > 0 {
		return pkg.ErrCompile.Wrapf("%d of %d files", failed, len(results))
	}

	return nil
}
