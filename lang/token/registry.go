package token

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Registry is an immutable table of token types. The lexer consults it for
// keywords and operator representations, so adding a type to a registry
// extends the language without touching the scanner.
//
// A Registry is safe for concurrent use once constructed.
type Registry struct {
	infos    []Info
	keywords map[string]Type
	// operators maps the first rune of each operator representation to the
	// candidate types, longest representation first.
	operators map[rune][]Type
	families  map[Family][]Type
}

// Default returns the shared registry of built-in token types.
var Default = sync.OnceValue(func() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}

	return r
})

// NewRegistry returns a registry holding the built-in types followed by the
// given extensions, which are assigned consecutive types starting at
// [NumBuiltin] in argument order.
//
// An extension must have a name and a representation, and its representation
// must not collide with an existing type. Keyword extensions must be
// identifier-shaped; operator extensions must not start with a letter, digit,
// or quote.
func NewRegistry(extra ...Info) (*Registry, error) {
	r := &Registry{
		infos:     make([]Info, 0, int(NumBuiltin)+len(extra)),
		keywords:  make(map[string]Type),
		operators: make(map[rune][]Type),
		families:  make(map[Family][]Type),
	}

	for _, info := range builtin {
		if _, err := r.add(info); err != nil {
			return nil, err
		}
	}

	for _, info := range extra {
		if err := validateExtension(info); err != nil {
			return nil, err
		}

		if _, err := r.add(info); err != nil {
			return nil, err
		}
	}

	for first, types := range r.operators {
		slices.SortStableFunc(types, func(a, b Type) int {
			return cmp.Compare(len(r.infos[b].Repr), len(r.infos[a].Repr))
		})
		r.operators[first] = types
	}

	return r, nil
}

func validateExtension(info Info) error {
	if info.Name == "" || info.Repr == "" {
		return fmt.Errorf("token extension %q: name and representation required",
			info.Name)
	}

	first, _ := utf8.DecodeRuneInString(info.Repr)

	if info.Keyword {
		for i, r := range info.Repr {
			if (i == 0 && !IsIdentifierStart(r)) || !IsIdentifierPart(r) {
				return fmt.Errorf("token extension %q: keyword %q is not an identifier",
					info.Name, info.Repr)
			}
		}

		return nil
	}

	if IsIdentifierStart(first) || unicode.IsDigit(first) ||
		first == '"' || first == '\'' {
		return fmt.Errorf("token extension %q: operator %q has an invalid first character",
			info.Name, info.Repr)
	}

	return nil
}

func (r *Registry) add(info Info) (Type, error) {
	t := Type(len(r.infos))

	if info.Repr != "" {
		if prev, ok := r.Lookup(info.Repr); ok {
			return Invalid, fmt.Errorf("token %s: representation %q already defined by %s",
				info.Name, info.Repr, r.infos[prev].Name)
		}
	}

	r.infos = append(r.infos, info)
	r.families[info.Family] = append(r.families[info.Family], t)

	switch {
	case info.Repr == "":
	case info.Keyword:
		r.keywords[info.Repr] = t
	default:
		first, _ := utf8.DecodeRuneInString(info.Repr)
		r.operators[first] = append(r.operators[first], t)
	}

	return t, nil
}

// Len returns the number of types in the registry.
func (r *Registry) Len() int { return len(r.infos) }

// Info returns the description of t. Unknown types yield an [Info] named
// after their numeric value.
func (r *Registry) Info(t Type) Info {
	if int(t) < len(r.infos) {
		return r.infos[t]
	}

	return Info{Name: "TYPE(" + strconv.Itoa(int(t)) + ")"}
}

// Name returns the name of t.
func (r *Registry) Name(t Type) string { return r.Info(t).Name }

// Keyword returns the keyword type spelled by word.
func (r *Registry) Keyword(word string) (Type, bool) {
	t, ok := r.keywords[word]

	return t, ok
}

// Lookup returns the type whose canonical representation is repr.
func (r *Registry) Lookup(repr string) (Type, bool) {
	if t, ok := r.keywords[repr]; ok {
		return t, true
	}

	first, _ := utf8.DecodeRuneInString(repr)
	for _, t := range r.operators[first] {
		if r.infos[t].Repr == repr {
			return t, true
		}
	}

	return Invalid, false
}

// Operators returns the operator types whose representation starts with
// first, longest representation first.
func (r *Registry) Operators(first rune) []Type {
	return r.operators[first]
}

// Family returns an iterator over the types in family f, in type order.
func (r *Registry) Family(f Family) iter.Seq[Type] {
	return slices.Values(r.families[f])
}

// AssignsWith returns the base operator of compound-assignment type t.
func (r *Registry) AssignsWith(t Type) (Type, bool) {
	info := r.Info(t)

	return info.AssignsWith, info.IsCompoundAssignment()
}

// CompoundAssignments returns all compound-assignment types.
func (r *Registry) CompoundAssignments() []Type {
	var types []Type

	for t, info := range r.infos {
		if info.IsCompoundAssignment() {
			types = append(types, Type(t))
		}
	}

	return types
}

// Keywords returns the keyword representations in sorted order.
func (r *Registry) Keywords() []string {
	words := make([]string, 0, len(r.keywords))
	for w := range r.keywords {
		words = append(words, w)
	}

	slices.Sort(words)

	return words
}

// IsIdentifierStart reports whether r may begin an identifier.
func IsIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsIdentifierPart reports whether r may continue an identifier.
func IsIdentifierPart(r rune) bool {
	return IsIdentifierStart(r) || unicode.IsDigit(r)
}
