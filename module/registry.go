package module

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/expr-lang/expr"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/pkg"
)

// MaxSuggestions bounds the names returned by [Registry.Suggest].
const MaxSuggestions = 3

// Registry is the set of modules available to import.
type Registry struct {
	modules map[string]Module
	names   []string
}

type config struct {
	version *semver.Version
	env     map[string]any
	paths   []string
	logger  log.Logger
}

// Option configures how a [Registry] is built.
type Option func(*config)

// WithLangVersion sets the language version that module requires
// constraints are checked against. Without it, constraints are only
// validated.
func WithLangVersion(v *semver.Version) Option {
	return func(c *config) { c.version = v }
}

// WithEnv adds variables to the environment that when predicates are
// evaluated in, replacing any of the same name.
func WithEnv(vars map[string]any) Option {
	return func(c *config) { maps.Copy(c.env, vars) }
}

// WithSearchPath appends directories searched for module files.
func WithSearchPath(dirs ...string) Option {
	return func(c *config) { c.paths = append(c.paths, dirs...) }
}

// WithLogger sets the logger that records why modules are unavailable.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// ParseVersion parses a language version.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, pkg.ErrVersion.Wrapf("%q: %w", s, err)
	}

	return v, nil
}

// New builds a registry from the given modules. Modules whose requirements
// are not met are left out; malformed constraints or predicates are errors.
func New(ctx context.Context, modules []Module, opts ...Option) (*Registry, error) {
	if err := (Manifest{Modules: modules}).Validate(); err != nil {
		return nil, err
	}

	cfg := config{env: defaultEnv()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.version != nil {
		cfg.env["version"] = cfg.version.String()
	}

	dirs := slices.Concat(cfg.paths, SearchPath())
	reg := &Registry{modules: make(map[string]Module, len(modules))}

	for _, mod := range modules {
		ok, reason, err := cfg.available(&mod, dirs)
		if err != nil {
			return nil, err
		}

		if !ok {
			cfg.logger.DebugContext(ctx, "module unavailable",
				slog.String("module", mod.Name),
				slog.String("reason", reason),
			)

			continue
		}

		cfg.logger.TraceContext(ctx, "module registered",
			slog.String("module", mod.Name),
			slog.String("location", mod.Location),
		)

		reg.modules[mod.Name] = mod
	}

	reg.names = slices.Sorted(maps.Keys(reg.modules))

	return reg, nil
}

// Load decodes a manifest from r and builds its registry. Relative
// manifest paths are taken relative to the working directory.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Registry, error) {
	m, err := Decode(ctx, r)
	if err != nil {
		return nil, err
	}

	return New(ctx, m.Modules, append([]Option{WithSearchPath(m.Paths...)}, opts...)...)
}

// LoadFile reads the manifest at name. Relative manifest paths are taken
// relative to the manifest's directory.
func LoadFile(ctx context.Context, name string, opts ...Option) (*Registry, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}
	defer f.Close()

	m, err := Decode(ctx, f)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(name)
	paths := make([]string, len(m.Paths))

	for i, p := range m.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}

		paths[i] = p
	}

	return New(ctx, m.Modules, append([]Option{WithSearchPath(paths...)}, opts...)...)
}

// available decides whether mod can be imported, filling in its location.
func (c *config) available(mod *Module, dirs []string) (bool, string, error) {
	if mod.Requires != "" {
		con, err := semver.NewConstraint(mod.Requires)
		if err != nil {
			return false, "", pkg.ErrVersion.Wrapf("module %q requires %q: %w", mod.Name, mod.Requires, err)
		}

		if c.version != nil && !con.Check(c.version) {
			return false, "requires " + mod.Requires, nil
		}
	}

	if mod.When != "" {
		ok, err := evaluate(mod.When, c.env)
		if err != nil {
			return false, "", pkg.ErrPredicate.Wrapf("module %q: %w", mod.Name, err)
		}

		if !ok {
			return false, "when " + mod.When, nil
		}
	}

	if mod.Path != "" {
		loc, ok := locate(mod.Path, dirs)
		if !ok {
			return false, "file not found: " + mod.Path, nil
		}

		mod.Location = loc
	}

	return true, "", nil
}

// evaluate compiles and runs a boolean predicate.
func evaluate(source string, env map[string]any) (bool, error) {
	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, err
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}

	ok, _ := out.(bool)

	return ok, nil
}

// defaultEnv describes the host to when predicates.
func defaultEnv() map[string]any {
	vars := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	return map[string]any{
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
		"version": strings.TrimSpace(pkg.Version),
		"env":     vars,
	}
}

// HasModule reports whether name can be imported.
func (r *Registry) HasModule(name string) bool {
	if r == nil {
		return false
	}

	_, ok := r.modules[name]

	return ok
}

// Lookup returns the module registered as name.
func (r *Registry) Lookup(name string) (Module, bool) {
	if r == nil {
		return Module{}, false
	}

	mod, ok := r.modules[name]

	return mod, ok
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	return slices.Clone(r.names)
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.names)
}

// Suggest returns up to [MaxSuggestions] registered names that fuzzily
// match name, best match first.
func (r *Registry) Suggest(name string) []string {
	if r.Len() == 0 || name == "" {
		return nil
	}

	matches := fuzzy.Find(name, r.names)
	if len(matches) == 0 {
		return nil
	}

	out := make([]string, 0, min(len(matches), MaxSuggestions))
	for _, m := range matches[:cap(out)] {
		out = append(out, m.Str)
	}

	return out
}
