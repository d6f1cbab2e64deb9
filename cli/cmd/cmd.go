package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/module"
	"github.com/ardnew/quill/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type modulesKey struct{}

// Modules selects the module manifest and the language version used to
// decide which modules are importable.
type Modules struct {
	// Manifest is the path to the module manifest. An empty path yields an
	// empty registry.
	Manifest string
	// Version is the language version checked against module requirements.
	Version string
	// Required reports whether a missing manifest is an error. It is false
	// when Manifest is the default path under the configuration directory.
	Required bool
}

// WithModules returns a new context.Context containing the module settings
// used by commands that compile sources.
func WithModules(ctx context.Context, m Modules) context.Context {
	return context.WithValue(ctx, modulesKey{}, m)
}

func modulesFrom(ctx context.Context) Modules {
	m, _ := ctx.Value(modulesKey{}).(Modules)

	return m
}

// loadRegistry builds the module registry selected by [WithModules].
func loadRegistry(ctx context.Context) (*module.Registry, error) {
	m := modulesFrom(ctx)

	opts := []module.Option{module.WithLogger(log.Default())}

	if m.Version != "" {
		v, err := module.ParseVersion(m.Version)
		if err != nil {
			return nil, err
		}

		opts = append(opts, module.WithLangVersion(v))
	}

	if m.Manifest == "" {
		return module.New(ctx, nil, opts...)
	}

	if _, err := os.Stat(m.Manifest); errors.Is(err, fs.ErrNotExist) &&
		!m.Required {
		log.DebugContext(ctx, "module manifest not found",
			slog.String("path", m.Manifest),
		)

		return module.New(ctx, nil, opts...)
	}

	return module.LoadFile(ctx, m.Manifest, opts...)
}

// compileOptions returns the pipeline options shared by every command.
func compileOptions(reg *module.Registry, opts ...lang.Option) []lang.Option {
	return append(
		[]lang.Option{
			lang.WithLogger(log.Default()),
			lang.WithModules(reg),
		},
		opts...,
	)
}

// source is one named input.
type source struct {
	name string
	text string
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the display name of stdin in diagnostics.
const stdinName = "<stdin>"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// readSources reads every named source once, in order.
//
// Paths naming the same file (by device and inode, after resolving
// symlinks) are read once. All occurrences of "-" are replaced with a single
// stdin source placed last so it reads after all regular files. An empty
// list reads stdin.
func readSources(names []string) ([]source, error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	srcs := make([]source, 0, len(names))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, name := range names {
		if name == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		text, ok, err := readUniqueFile(name, seen)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		if ok {
			srcs = append(srcs, source{name: name, text: text})
		}
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	if _, ok := seen[stdinKey]; ok {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, pkg.ErrReadStdin.Wrap(err)
		}

		srcs = append(srcs, source{name: stdinName, text: string(data)})
	}

	return srcs, nil
}

// readUniqueFile reads the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates, in which
// case ok is false.
func readUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (text string, ok bool, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return "", false, nil
		}

		seen[key] = struct{}{}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", false, err
	}

	return string(data), true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
