package pkg

import (
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "quill"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Expected Description to be non-empty")
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this package.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if Version != string(buf) {
		t.Errorf("Expected Version to be %q, got %q", buf, Version)
	}

	if strings.TrimSpace(Version) == "" {
		t.Error("Expected Version to be non-empty")
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	expectedName := "ardnew"
	expectedEmail := "andrew@ardnew.com"

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == expectedName && a.Email == expectedEmail
	}) {
		t.Errorf("Expected Author to contain %q, %q", expectedName, expectedEmail)
	}
}

func TestAuthorStruct(t *testing.T) {
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestError_Wrap(t *testing.T) {
	err := ErrReadInput.Wrap(io.ErrUnexpectedEOF)

	if got, want := err.Error(), "failed to read input: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrReadInput) {
		t.Error("errors.Is(err, ErrReadInput) = false")
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is(err, io.ErrUnexpectedEOF) = false")
	}

	if errors.Is(err, ErrReadStdin) {
		t.Error("errors.Is(err, ErrReadStdin) = true")
	}

	// Wrapping must not alias the sentinel's backing array.
	_ = ErrReadInput.Wrap(io.EOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("sentinel wrap aliased a previous result")
	}
}

func TestError_Wrapf(t *testing.T) {
	err := ErrInvalidFormat.Wrapf("%q (valid: %s)", "xml", "json, yaml")

	want := `invalid format: "xml" (valid: json, yaml)`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestMakeError(t *testing.T) {
	if e := MakeError(); e != nil {
		t.Errorf("MakeError() = %v, want nil", e)
	}

	if e := MakeError(nil, nil); e != nil {
		t.Errorf("MakeError(nil, nil) = %v, want nil", e)
	}

	inner := errors.New("inner")
	e := MakeError(inner, errors.New("outer"))

	if len(e) != 2 || e[0] != inner {
		t.Errorf("MakeError() = %#v", e)
	}
}

func TestUnwrapErrors(t *testing.T) {
	base := errors.New("base")
	joined := errors.Join(base, io.EOF)

	chain := UnwrapErrors(joined)
	if len(chain) != 3 {
		t.Fatalf("UnwrapErrors() len = %d, want 3", len(chain))
	}

	if chain[0] != base || chain[1] != io.EOF {
		t.Errorf("UnwrapErrors() = %v", chain)
	}

	if UnwrapErrors(nil) != nil {
		t.Error("UnwrapErrors(nil) != nil")
	}
}
