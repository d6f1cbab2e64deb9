package resolver

// functionType is the kind of function body being resolved.
type functionType uint8

const (
	functionNone functionType = iota
	functionPlain
	functionMethod
	functionInitializer
	functionTest
)

// classType is the kind of class body being resolved.
type classType uint8

const (
	classNone classType = iota
	classPlain
	classSub
)

// scopeType is the innermost breakable construct.
type scopeType uint8

const (
	scopeNone scopeType = iota
	scopeLoop
	scopeSwitch
)

// declKind is what a name was declared as. It selects the noun in
// reassignment errors and identifies class names for superclass checks.
type declKind uint8

const (
	declVariable declKind = iota
	declValue
	declParameter
	declFunction
	declClass
	declModule
	declImplicit
)

func (k declKind) String() string {
	switch k {
	case declValue:
		return "value"
	case declParameter:
		return "parameter"
	case declFunction:
		return "function"
	case declClass:
		return "class"
	case declModule:
		return "module"
	case declImplicit:
		return "receiver"
	default:
		return "variable"
	}
}

type binding struct {
	kind  declKind
	ready bool
}

// final reports whether the name may not be assigned after declaration.
func (b *binding) final() bool {
	switch b.kind {
	case declValue, declFunction, declClass, declModule, declImplicit:
		return true
	}

	return false
}

// frame is one lexical scope: names declared in it and their readiness.
type frame map[string]*binding

// nesting is the state saved and restored around function, class,
// loop and switch bodies.
type nesting struct {
	function functionType
	class    classType
	scope    scopeType
	inLoop   bool
}
