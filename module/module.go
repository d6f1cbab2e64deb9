package module

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/quill/lang/lexer"
	"github.com/ardnew/quill/lang/token"
	"github.com/ardnew/quill/pkg"
)

// Module describes one importable module.
type Module struct {
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Path is a source file relative to a search directory. Modules without
	// a path are provided by the host and need no file.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Requires is a semantic version constraint on the language version.
	Requires string `json:"requires,omitempty" yaml:"requires,omitempty"`

	// When is an expr-lang predicate deciding availability.
	When string `json:"when,omitempty" yaml:"when,omitempty"`

	// Location is the file found for Path.
	Location string `json:"-" yaml:"-"`
}

// Manifest is the decoded form of a module manifest file.
type Manifest struct {
	Paths   []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	Modules []Module `json:"modules"         yaml:"modules"`
}

// Decode reads a manifest from r and validates its entries.
// An empty document decodes to an empty manifest.
func Decode(ctx context.Context, r io.Reader) (Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())

	err := dec.DecodeContext(ctx, &m)
	if err != nil && !errors.Is(err, io.EOF) {
		return Manifest{}, pkg.ErrManifest.Wrap(err)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}

	return m, nil
}

// Encode writes the manifest to w as YAML.
func (m Manifest) Encode(ctx context.Context, w io.Writer, indent int) error {
	b, err := yaml.MarshalContext(ctx, m, yaml.Indent(indent))
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(b)

	return err
}

// Validate reports the first entry that is unnamed, not an identifier, or
// named more than once.
func (m Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Modules))

	for i, mod := range m.Modules {
		switch {
		case mod.Name == "":
			return pkg.ErrManifest.Wrapf("module %d has no name", i)
		case !IsName(mod.Name):
			return pkg.ErrManifest.Wrapf("module name %q is not an identifier", mod.Name)
		case seen[mod.Name]:
			return pkg.ErrManifest.Wrapf("module %q declared more than once", mod.Name)
		}

		seen[mod.Name] = true
	}

	return nil
}

// IsName reports whether s lexes as exactly one identifier, which is the
// form an import statement accepts.
func IsName(s string) bool {
	tokens, _, err := lexer.Scan(s)
	if err != nil || len(tokens) != 2 {
		return false
	}

	return tokens[0].Type == token.Identifier && tokens[0].Lexeme == s
}

func (m Module) String() string {
	if m.Location != "" {
		return fmt.Sprintf("%s (%s)", m.Name, m.Location)
	}

	return m.Name
}
