package diag

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/quill/lang/token"
)

func TestCatalog_Verified(t *testing.T) {
	if err := verifyCatalog(catalog); err != nil {
		t.Fatalf("catalog: %v", err)
	}

	codes := Codes()
	if len(codes) != len(catalog) {
		t.Fatalf("Codes() returned %d codes, want %d", len(codes), len(catalog))
	}

	for _, c := range codes {
		if c.Template() == "" {
			t.Errorf("%v: empty template", c)
		}
	}
}

func TestVerifyCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []entry
	}{
		{
			name: "wrong group",
			entries: []entry{
				{code: 2001, group: GroupLexer, template: "x"},
			},
		},
		{
			name: "descending",
			entries: []entry{
				{code: 1002, group: GroupLexer, template: "x"},
				{code: 1001, group: GroupLexer, template: "y"},
			},
		},
		{
			name: "duplicate",
			entries: []entry{
				{code: 1001, group: GroupLexer, template: "x"},
				{code: 1001, group: GroupLexer, template: "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyCatalog(tt.entries); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCode_Format(t *testing.T) {
	tests := []struct {
		code Code
		args []any
		want string
	}{
		{InvalidAssignmentTarget, nil, "Invalid assignment target."},
		{TooManyArguments, []any{8}, "Can't have more than 8 arguments."},
		{InheritFromSelf, []any{"A"}, "A class can't inherit from itself: 'A'."},
		{ReadInOwnInitializer, []any{"x"}, "Can't read local variable 'x' in its own initializer."},
		{Code(1999), nil, "diagnostic 1999"},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.Format(tt.args...); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCode_Group(t *testing.T) {
	if g := AlreadyDeclared.Group(); g != GroupDuplication {
		t.Errorf("AlreadyDeclared.Group() = %v", g)
	}

	if s := GroupInvalidAssignment.String(); s != "invalid-assignment" {
		t.Errorf("GroupInvalidAssignment = %q", s)
	}
}

func TestError_Is(t *testing.T) {
	err := New(PhaseParsing, token.Position{Line: 1, Column: 3}, InvalidAssignmentTarget)

	if !errors.Is(err, InvalidAssignmentTarget) {
		t.Error("errors.Is(err, code) = false")
	}

	if errors.Is(err, AlreadyDeclared) {
		t.Error("errors.Is matched a different code")
	}

	wrapped := fmt.Errorf("compile: %w", err)
	if !errors.Is(wrapped, InvalidAssignmentTarget) {
		t.Error("errors.Is through fmt.Errorf = false")
	}

	var de *Error
	if !errors.As(wrapped, &de) || de.Phase != PhaseParsing {
		t.Errorf("errors.As = %v", de)
	}
}

func TestError_Error(t *testing.T) {
	err := New(PhaseResolving, token.Position{Line: 2, Column: 5}, ReturnFromTopLevel)
	want := "RESOLVING error at 2:5: Can't return from top-level code."

	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	outside := New(PhaseParsing, token.Position{}, ExpectExpression)
	if !strings.Contains(outside.Error(), "outside source") {
		t.Errorf("Error() = %q, want outside source", outside.Error())
	}
}

func TestError_WithDoesNotMutate(t *testing.T) {
	base := New(PhaseLexing, token.Position{Line: 1, Column: 1}, UnexpectedCharacter, '@')
	_ = base.With(slog.String("k", "v"))

	if len(base.Attrs()) != 0 {
		t.Error("With mutated receiver")
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("AsError(nil) != nil")
	}

	cause := errors.New("boom")
	de := AsError(cause)

	if de.Code != Internal || !errors.Is(de, cause) {
		t.Errorf("AsError(foreign) = %v", de)
	}
}

func TestCollector_Concurrent(t *testing.T) {
	var (
		c  Collector
		wg sync.WaitGroup
	)

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			c.Report(New(PhaseLexing, token.Position{Line: i + 1, Column: 1}, UnexpectedCharacter, '#'))
		}()
	}

	wg.Wait()

	if c.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", c.Len())
	}

	err := c.Err()
	if !errors.Is(err, UnexpectedCharacter) {
		t.Errorf("Err() does not match code: %v", err)
	}

	c.Reset()

	if c.HasErrors() || c.Err() != nil {
		t.Error("Reset did not clear collector")
	}
}

func TestResults(t *testing.T) {
	var rs Results

	rs.Collect(Result{Source: "a.q", Statements: 3})
	rs.Collect(Result{Source: "b.q", Err: New(PhaseParsing, token.Position{}, ExpectExpression)})

	if got := len(rs.All()); got != 2 {
		t.Errorf("All() = %d results", got)
	}

	failed := rs.Failed()
	if len(failed) != 1 || failed[0].Source != "b.q" {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestSnippet(t *testing.T) {
	src := "var a = 1;\nvar b = +;\n"

	got := Snippet(src, token.Position{Line: 2, Column: 10})
	want := "  2 | var b = +;\n" + strings.Repeat(" ", 15) + "^\n"

	if got != want {
		t.Errorf("Snippet() =\n%q\nwant\n%q", got, want)
	}

	if Snippet(src, token.Position{}) != "" {
		t.Error("Snippet outside source not empty")
	}

	if Snippet(src, token.Position{Line: 9, Column: 1}) != "" {
		t.Error("Snippet past end not empty")
	}
}

func TestRender_List(t *testing.T) {
	src := "@ #"
	list := List{
		New(PhaseLexing, token.Position{Line: 1, Column: 1}, UnexpectedCharacter, '@'),
		New(PhaseLexing, token.Position{Line: 1, Column: 3}, UnexpectedCharacter, '#'),
	}

	out := Render(src, list)
	if strings.Count(out, "^") != 2 {
		t.Errorf("Render() =\n%s", out)
	}
}
