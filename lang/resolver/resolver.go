package resolver

import (
	"log/slog"
	"strings"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

// State is the interpreter capability the resolver writes to. It owns the
// module registry and the side table of scope distances.
type State interface {
	// HasModule reports whether name can be imported.
	HasModule(name string) bool
	// Resolve records that expr refers to a binding depth frames outward
	// from the innermost frame at the point of reference.
	Resolve(expr ast.Expression, depth int)
}

// Suggester is optionally implemented by a [State] to propose module names
// close to an unknown one.
type Suggester interface {
	Suggest(name string) []string
}

// Resolver is a single depth-first pass that binds variable references to
// scope distances and enforces the static rules of the language. It is
// single-use and not safe for concurrent use.
type Resolver struct {
	state   State
	rep     diag.Reporter
	scopes  []frame
	globals frame
	nesting
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithReporter also sends the failing diagnostic, if any, to rep.
func WithReporter(rep diag.Reporter) Option {
	return func(r *Resolver) {
		if rep != nil {
			r.rep = rep
		}
	}
}

// New returns a resolver recording into state.
func New(state State, opts ...Option) *Resolver {
	r := &Resolver{
		state:   state,
		rep:     diag.Discard,
		globals: make(frame),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve resolves stmts against state, stopping at the first error.
func Resolve(state State, stmts []ast.Statement, opts ...Option) error {
	return New(state, opts...).Resolve(stmts)
}

// Resolve resolves a program. The returned error is a [*diag.Error] in phase
// RESOLVING.
func (r *Resolver) Resolve(stmts []ast.Statement) error {
	if err := r.statements(stmts); err != nil {
		de := diag.AsError(err)
		r.rep.Report(de)

		return de
	}

	return nil
}

// Depth returns the number of open scope frames.
func (r *Resolver) Depth() int { return len(r.scopes) }

func (r *Resolver) statements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := r.statement(s); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) statement(s ast.Statement) error {
	if s == nil {
		return nil
	}

	return s.Accept(r)
}

func (r *Resolver) expression(e ast.Expression) error {
	if e == nil {
		return nil
	}

	return e.Accept(r)
}

func (r *Resolver) expressions(exprs []ast.Expression) error {
	for _, e := range exprs {
		if err := r.expression(e); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) fail(tok token.Token, code diag.Code, args ...any) *diag.Error {
	return diag.At(diag.PhaseResolving, tok, code, args...)
}

func (r *Resolver) begin() { r.scopes = append(r.scopes, make(frame)) }

func (r *Resolver) end() { r.scopes = r.scopes[:len(r.scopes)-1] }

// innermost returns the current frame, or nil at top level.
func (r *Resolver) innermost() frame {
	if len(r.scopes) == 0 {
		return nil
	}

	return r.scopes[len(r.scopes)-1]
}

// declare adds name to the innermost frame, not yet ready. Top-level names
// are globals and may be redeclared.
func (r *Resolver) declare(name token.Token, kind declKind) error {
	f := r.innermost()
	if f == nil {
		r.globals[name.Lexeme] = &binding{kind: kind, ready: true}

		return nil
	}

	if _, ok := f[name.Lexeme]; ok {
		return r.fail(name, diag.AlreadyDeclared, name.Lexeme)
	}

	f[name.Lexeme] = &binding{kind: kind}

	return nil
}

// define marks name ready in the innermost frame.
func (r *Resolver) define(name token.Token) {
	if f := r.innermost(); f != nil {
		if b, ok := f[name.Lexeme]; ok {
			b.ready = true
		}
	}
}

// implicit binds a name the language provides, such as "this".
func (r *Resolver) implicit(name string) {
	r.innermost()[name] = &binding{kind: declImplicit, ready: true}
}

// lookup finds the nearest binding of name, falling back to globals.
// depth is -1 for globals and unknown names.
func (r *Resolver) lookup(name string) (b *binding, depth int) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name]; ok {
			return b, len(r.scopes) - 1 - i
		}
	}

	return r.globals[name], -1
}

// local records the distance to name's declaring frame. Names found in no
// frame are globals and get no entry.
func (r *Resolver) local(expr ast.Expression, name token.Token) {
	if _, depth := r.lookup(name.Lexeme); depth >= 0 {
		r.state.Resolve(expr, depth)
	}
}

// assignable fails when name is bound to something final.
func (r *Resolver) assignable(name token.Token) error {
	if b, _ := r.lookup(name.Lexeme); b != nil && b.final() {
		return r.fail(name, diag.AssignToFinal, b.kind, name.Lexeme)
	}

	return nil
}

// resolveFunction resolves a function body in a fresh frame holding its
// parameters. Loop and switch context does not cross function boundaries.
func (r *Resolver) resolveFunction(params []token.Token, body []ast.Statement, kind functionType) error {
	saved := r.nesting
	defer func() { r.nesting = saved }()

	r.function = kind
	r.scope = scopeNone
	r.inLoop = false

	r.begin()
	defer r.end()

	for _, p := range params {
		if err := r.declare(p, declParameter); err != nil {
			return err
		}

		r.define(p)
	}

	return r.statements(body)
}

// loop resolves body as the body of a loop.
func (r *Resolver) loop(body ast.Statement) error {
	saved := r.nesting
	defer func() { r.nesting = saved }()

	r.scope = scopeLoop
	r.inLoop = true

	return r.statement(body)
}

func (r *Resolver) VisitBlockStmt(s *ast.BlockStmt) error {
	r.begin()
	defer r.end()

	return r.statements(s.Statements)
}

func (r *Resolver) VisitBreakStmt(s *ast.BreakStmt) error {
	if r.scope == scopeNone {
		return r.fail(s.Keyword, diag.BreakOutsideLoop)
	}

	return nil
}

func (r *Resolver) VisitClassStmt(s *ast.ClassStmt) error {
	saved := r.class
	defer func() { r.class = saved }()

	r.class = classPlain

	if err := r.declare(s.Name, declClass); err != nil {
		return err
	}

	r.define(s.Name)

	if s.Superclass != nil {
		super := s.Superclass.Name
		if super.Lexeme == s.Name.Lexeme {
			return r.fail(super, diag.InheritFromSelf, s.Name.Lexeme)
		}

		if b, _ := r.lookup(super.Lexeme); b != nil && b.kind != declClass {
			return r.fail(super, diag.SuperclassNotClass, super.Lexeme)
		}

		r.class = classSub

		if err := r.expression(s.Superclass); err != nil {
			return err
		}

		r.begin()
		defer r.end()

		r.implicit("super")
	}

	r.begin()
	defer r.end()

	r.implicit("this")

	for _, m := range s.Methods {
		if err := r.resolveFunction(m.Params, m.Body, functionMethod); err != nil {
			return err
		}
	}

	if c := s.Constructor; c != nil {
		if err := r.resolveFunction(c.Params, c.Body, functionInitializer); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) VisitContinueStmt(s *ast.ContinueStmt) error {
	if !r.inLoop {
		return r.fail(s.Keyword, diag.ContinueOutsideLoop)
	}

	return nil
}

func (r *Resolver) VisitDoWhileStmt(s *ast.DoWhileStmt) error {
	if err := r.loop(s.Body); err != nil {
		return err
	}

	return r.expression(s.Condition)
}

func (r *Resolver) VisitExpressionStmt(s *ast.ExpressionStmt) error {
	return r.expression(s.Expression)
}

func (r *Resolver) VisitForStmt(s *ast.ForStmt) error {
	r.begin()
	defer r.end()

	if err := r.statement(s.Initializer); err != nil {
		return err
	}

	if err := r.expression(s.Condition); err != nil {
		return err
	}

	if err := r.expression(s.Increment); err != nil {
		return err
	}

	return r.loop(s.Body)
}

func (r *Resolver) VisitForEachStmt(s *ast.ForEachStmt) error {
	if err := r.expression(s.Iterable); err != nil {
		return err
	}

	r.begin()
	defer r.end()

	if err := r.declare(s.Variable, declVariable); err != nil {
		return err
	}

	r.define(s.Variable)

	return r.loop(s.Body)
}

func (r *Resolver) VisitFunctionStmt(s *ast.FunctionStmt) error {
	if err := r.declare(s.Name, declFunction); err != nil {
		return err
	}

	r.define(s.Name)

	return r.resolveFunction(s.Params, s.Body, functionPlain)
}

func (r *Resolver) VisitIfStmt(s *ast.IfStmt) error {
	if err := r.expression(s.Condition); err != nil {
		return err
	}

	if err := r.statement(s.Then); err != nil {
		return err
	}

	return r.statement(s.Else)
}

func (r *Resolver) VisitImportStmt(s *ast.ImportStmt) error {
	if !r.state.HasModule(s.Name.Lexeme) {
		err := r.fail(s.Name, diag.UnknownModule, s.Name.Lexeme)

		if sg, ok := r.state.(Suggester); ok {
			if names := sg.Suggest(s.Name.Lexeme); len(names) > 0 {
				err = err.With(slog.String("suggestion", strings.Join(names, ", ")))
			}
		}

		return err
	}

	id := s.Identifier()
	if err := r.declare(id, declModule); err != nil {
		return err
	}

	r.define(id)

	return nil
}

func (r *Resolver) VisitReturnStmt(s *ast.ReturnStmt) error {
	if r.function == functionNone {
		return r.fail(s.Keyword, diag.ReturnFromTopLevel)
	}

	if s.Value == nil {
		return nil
	}

	if r.function == functionInitializer {
		return r.fail(s.Keyword, diag.ReturnFromInitializer)
	}

	return r.expression(s.Value)
}

func (r *Resolver) VisitSwitchStmt(s *ast.SwitchStmt) error {
	if err := r.expression(s.Subject); err != nil {
		return err
	}

	saved := r.scope
	defer func() { r.scope = saved }()

	r.scope = scopeSwitch

	for _, c := range s.Cases {
		if err := r.expression(c.Value); err != nil {
			return err
		}

		if err := r.branch(c.Body); err != nil {
			return err
		}
	}

	if s.Default != nil {
		return r.branch(s.Default.Body)
	}

	return nil
}

// branch resolves a switch branch in its own frame.
func (r *Resolver) branch(body []ast.Statement) error {
	r.begin()
	defer r.end()

	return r.statements(body)
}

func (r *Resolver) VisitTestStmt(s *ast.TestStmt) error {
	return r.resolveFunction(nil, s.Body, functionTest)
}

func (r *Resolver) VisitVarStmt(s *ast.VarStmt) error {
	kind := declVariable
	if s.Final {
		kind = declValue
	}

	if err := r.declare(s.Name, kind); err != nil {
		return err
	}

	if err := r.expression(s.Initializer); err != nil {
		return err
	}

	r.define(s.Name)

	return nil
}

func (r *Resolver) VisitWhileStmt(s *ast.WhileStmt) error {
	if err := r.expression(s.Condition); err != nil {
		return err
	}

	return r.loop(s.Body)
}

func (r *Resolver) VisitArrayExpr(e *ast.ArrayExpr) error {
	return r.expressions(e.Elements)
}

func (r *Resolver) VisitArrayGetExpr(e *ast.ArrayGetExpr) error {
	return r.expressions([]ast.Expression{e.Array, e.Index})
}

func (r *Resolver) VisitArraySetExpr(e *ast.ArraySetExpr) error {
	return r.expressions([]ast.Expression{e.Value, e.Array, e.Index})
}

func (r *Resolver) VisitAssignExpr(e *ast.AssignExpr) error {
	if err := r.expression(e.Value); err != nil {
		return err
	}

	if err := r.assignable(e.Name); err != nil {
		return err
	}

	r.local(e, e.Name)

	return nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.BinaryExpr) error {
	return r.expressions([]ast.Expression{e.Left, e.Right})
}

func (r *Resolver) VisitBitwiseExpr(e *ast.BitwiseExpr) error {
	return r.expressions([]ast.Expression{e.Left, e.Right})
}

func (r *Resolver) VisitCallExpr(e *ast.CallExpr) error {
	if err := r.expression(e.Callee); err != nil {
		return err
	}

	return r.expressions(e.Arguments)
}

// VisitComprehensionExpr resolves the iterable in the enclosing scope, then
// opens one frame for the loop variable and a nested one for the yield,
// condition and otherwise expressions.
func (r *Resolver) VisitComprehensionExpr(e *ast.ComprehensionExpr) error {
	if err := r.expression(e.Iterable); err != nil {
		return err
	}

	r.begin()
	defer r.end()

	if err := r.declare(e.Variable, declVariable); err != nil {
		return err
	}

	r.define(e.Variable)

	r.begin()
	defer r.end()

	return r.expressions([]ast.Expression{e.Yield, e.Condition, e.Otherwise})
}

func (r *Resolver) VisitCompoundAssignExpr(e *ast.CompoundAssignExpr) error {
	if v, ok := e.Target.(*ast.VariableExpr); ok {
		if err := r.assignable(v.Name); err != nil {
			return err
		}
	}

	return r.expressions([]ast.Expression{e.Target, e.Value})
}

func (r *Resolver) VisitElvisExpr(e *ast.ElvisExpr) error {
	return r.expressions([]ast.Expression{e.Left, e.Right})
}

func (r *Resolver) VisitFunctionExpr(e *ast.FunctionExpr) error {
	return r.resolveFunction(e.Params, e.Body, functionPlain)
}

func (r *Resolver) VisitGetExpr(e *ast.GetExpr) error {
	return r.expression(e.Object)
}

func (r *Resolver) VisitGroupingExpr(e *ast.GroupingExpr) error {
	return r.expression(e.Expression)
}

func (r *Resolver) VisitLiteralExpr(*ast.LiteralExpr) error { return nil }

func (r *Resolver) VisitLogicalExpr(e *ast.LogicalExpr) error {
	return r.expressions([]ast.Expression{e.Left, e.Right})
}

func (r *Resolver) VisitRangeExpr(e *ast.RangeExpr) error {
	return r.expressions([]ast.Expression{e.From, e.To})
}

func (r *Resolver) VisitSetExpr(e *ast.SetExpr) error {
	return r.expressions([]ast.Expression{e.Value, e.Object})
}

func (r *Resolver) VisitSuperExpr(e *ast.SuperExpr) error {
	switch r.class {
	case classNone:
		return r.fail(e.Keyword, diag.SuperOutsideClass)
	case classPlain:
		return r.fail(e.Keyword, diag.SuperWithoutSuperclass)
	}

	r.local(e, e.Keyword)

	return nil
}

func (r *Resolver) VisitTernaryExpr(e *ast.TernaryExpr) error {
	return r.expressions([]ast.Expression{e.Condition, e.Then, e.Otherwise})
}

func (r *Resolver) VisitThisExpr(e *ast.ThisExpr) error {
	if r.class == classNone {
		return r.fail(e.Keyword, diag.ThisOutsideClass)
	}

	r.local(e, e.Keyword)

	return nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.UnaryExpr) error {
	return r.expression(e.Right)
}

func (r *Resolver) VisitVariableExpr(e *ast.VariableExpr) error {
	if f := r.innermost(); f != nil {
		if b, ok := f[e.Name.Lexeme]; ok && !b.ready {
			return r.fail(e.Name, diag.ReadInOwnInitializer, e.Name.Lexeme)
		}
	}

	r.local(e, e.Name)

	return nil
}
