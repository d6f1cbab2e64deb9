package lang

import (
	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/resolver"
)

// Modules answers whether a module can be imported.
type Modules interface {
	HasModule(name string) bool
}

// Environment is the interpreter state written by the resolver. Distances
// go into a [Locals]; module questions go to a [Modules] source.
type Environment struct {
	locals  *Locals
	modules Modules
}

var (
	_ resolver.State     = (*Environment)(nil)
	_ resolver.Suggester = (*Environment)(nil)
)

// NewEnvironment returns an environment recording into locals. A nil
// modules knows no module.
func NewEnvironment(locals *Locals, modules Modules) *Environment {
	if locals == nil {
		locals = NewLocals()
	}

	return &Environment{locals: locals, modules: modules}
}

// Locals returns the side table the environment records into.
func (e *Environment) Locals() *Locals { return e.locals }

// HasModule implements [resolver.State].
func (e *Environment) HasModule(name string) bool {
	return e.modules != nil && e.modules.HasModule(name)
}

// Resolve implements [resolver.State].
func (e *Environment) Resolve(expr ast.Expression, depth int) {
	e.locals.record(expr, depth)
}

// Suggest implements [resolver.Suggester] when the module source can
// suggest names, and returns nil otherwise.
func (e *Environment) Suggest(name string) []string {
	if s, ok := e.modules.(resolver.Suggester); ok {
		return s.Suggest(name)
	}

	return nil
}
