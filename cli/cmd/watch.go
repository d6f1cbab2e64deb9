package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// maxWatchRevisions bounds the cached revisions kept per watched file.
const maxWatchRevisions = 8

// Watch re-runs check whenever one of its sources is written.
type Watch struct {
	Jobs     int           `default:"0"     help:"Maximum number of sources checked concurrently (0 uses GOMAXPROCS)." short:"j"`
	Debounce time.Duration `default:"100ms" help:"Quiet period after a write before checking again."`

	Files []string `arg:"" help:"Source files." name:"file" type:"existingfile"`
}

// Run executes the watch command. It returns when ctx is cancelled.
func (c *Watch) Run(ctx context.Context) error {
	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	watched, err := c.paths()
	if err != nil {
		return ErrWatch.Wrap(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, which drops a watch on the file
	// itself, so watch the containing directories and filter by name.
	dirs := make(map[string]struct{})

	for path := range watched {
		dir := filepath.Dir(path)
		if _, ok := dirs[dir]; ok {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			return ErrWatch.With(slog.String("dir", dir)).Wrap(err)
		}

		dirs[dir] = struct{}{}
	}

	cache := lang.NewCache(compileOptions(reg)...)
	w := stdout(ctx)

	run := func() {
		// Every edit adds an entry.
		if cache.Len() > maxWatchRevisions*len(watched) {
			cache.Clear()
		}

		srcs, err := readSources(c.Files)
		if err != nil {
			log.WarnContext(ctx, "read sources", slog.Any("error", err))

			return
		}

		results, err := check(ctx, cache, srcs, c.Jobs)
		if err != nil {
			return
		}

		if err := report(w, srcs, results, false); err != nil {
			fmt.Fprintln(w, errorStyle.Render(err.Error()))
		}
	}

	run()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, ok := watched[filepath.Clean(ev.Name)]; !ok ||
				!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			log.TraceContext(ctx, "source changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			if timer == nil {
				timer = time.NewTimer(c.Debounce)
			} else {
				timer.Reset(c.Debounce)
			}

			pending = timer.C

		case <-pending:
			pending = nil

			fmt.Fprintln(w, noteStyle.Render("--- "+time.Now().Format(time.TimeOnly)))
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

// paths returns the absolute path of every watched file.
func (c *Watch) paths() (map[string]struct{}, error) {
	watched := make(map[string]struct{}, len(c.Files))

	for _, name := range c.Files {
		if name == stdinSource {
			return nil, fmt.Errorf("cannot watch %s", stdinName)
		}

		abs, err := filepath.Abs(name)
		if err != nil {
			return nil, err
		}

		watched[filepath.Clean(abs)] = struct{}{}
	}

	return watched, nil
}
