package token

import (
	"slices"
	"testing"
)

func TestRegistry_Default_Lookup(t *testing.T) {
	tests := []struct {
		repr string
		want Type
	}{
		{"+", Plus},
		{"+=", PlusEqual},
		{"?:", Elvis},
		{"..", DotDot},
		{"<<=", ShiftLeftEqual},
		{"<|", PipeLeft},
		{"class", Class},
		{"val", Val},
		{"is", Is},
		{"case", Case},
		{"default", DefaultCase},
	}

	r := Default()

	for _, tt := range tests {
		t.Run(tt.repr, func(t *testing.T) {
			got, ok := r.Lookup(tt.repr)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.repr)
			}

			if got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.repr, got, tt.want)
			}
		})
	}
}

func TestRegistry_Operators_LongestFirst(t *testing.T) {
	ops := Default().Operators('<')
	if len(ops) < 4 {
		t.Fatalf("expected at least 4 operators starting with '<', got %d", len(ops))
	}

	if ops[0] != ShiftLeftEqual {
		t.Errorf("first candidate = %v, want %v", ops[0], ShiftLeftEqual)
	}

	if ops[len(ops)-1] != Less {
		t.Errorf("last candidate = %v, want %v", ops[len(ops)-1], Less)
	}
}

func TestRegistry_AssignsWith(t *testing.T) {
	r := Default()

	for _, ct := range r.CompoundAssignments() {
		base, ok := r.AssignsWith(ct)
		if !ok {
			t.Errorf("%v: expected compound assignment", ct)

			continue
		}

		if r.Info(ct).Repr != r.Info(base).Repr+"=" {
			t.Errorf("%v assigns with %v, representation mismatch", ct, base)
		}
	}

	if _, ok := r.AssignsWith(Plus); ok {
		t.Error("PLUS should not be a compound assignment")
	}

	if got := len(r.CompoundAssignments()); got != 10 {
		t.Errorf("expected 10 compound assignments, got %d", got)
	}
}

func TestRegistry_Families(t *testing.T) {
	loops := slices.Collect(Default().Family(FamilyLoop))

	for _, want := range []Type{While, Do, For, In, DotDot} {
		if !slices.Contains(loops, want) {
			t.Errorf("loop family missing %v", want)
		}
	}

	if slices.Contains(loops, If) {
		t.Error("loop family should not contain IF")
	}
}

func TestNewRegistry_Extensions(t *testing.T) {
	r, err := NewRegistry(
		Info{Name: "UNLESS", Repr: "unless", Family: FamilyControl, Keyword: true},
		Info{Name: "ARROW", Repr: "->", Family: FamilyBase},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	unless, ok := r.Keyword("unless")
	if !ok || unless != NumBuiltin {
		t.Errorf("unless = %v, %v; want %v", unless, ok, NumBuiltin)
	}

	arrow, ok := r.Lookup("->")
	if !ok || arrow != NumBuiltin+1 {
		t.Errorf("arrow = %v, %v; want %v", arrow, ok, NumBuiltin+1)
	}

	if r.Name(arrow) != "ARROW" {
		t.Errorf("Name(arrow) = %q", r.Name(arrow))
	}

	// "->" must be tried before "-" and "-=".
	ops := r.Operators('-')
	if !slices.Contains(ops, arrow) || ops[len(ops)-1] != Minus {
		t.Errorf("unexpected '-' candidates %v", ops)
	}

	if _, ok := Default().Keyword("unless"); ok {
		t.Error("extension leaked into default registry")
	}
}

func TestNewRegistry_RejectsInvalidExtensions(t *testing.T) {
	tests := []struct {
		name string
		info Info
	}{
		{"duplicate keyword", Info{Name: "X", Repr: "class", Keyword: true}},
		{"duplicate operator", Info{Name: "X", Repr: "+="}},
		{"missing repr", Info{Name: "X"}},
		{"missing name", Info{Repr: "@@"}},
		{"keyword not identifier", Info{Name: "X", Repr: "a-b", Keyword: true}},
		{"operator starts with letter", Info{Name: "X", Repr: "x>"}},
		{"operator starts with quote", Info{Name: "X", Repr: "\"!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.info); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPosition_String(t *testing.T) {
	if got := (Position{}).String(); got != "outside source" {
		t.Errorf("zero position = %q", got)
	}

	if got := (Position{Line: 3, Column: 7}).String(); got != "3:7" {
		t.Errorf("position = %q", got)
	}
}
