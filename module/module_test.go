package module

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/quill/pkg"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		paths   int
		wantErr error
	}{
		{
			name: "modules and paths",
			input: `
paths: [lib, vendor]
modules:
  - name: math
    description: numeric helpers
  - name: strings
    path: strings.ql
    requires: ">= 0.1.0"
`,
			want:  []string{"math", "strings"},
			paths: 2,
		},
		{name: "empty document", input: ""},
		{name: "no modules", input: "modules: []\n"},
		{name: "unknown field", input: "modules:\n  - name: a\n    bogus: 1\n", wantErr: pkg.ErrManifest},
		{name: "missing name", input: "modules:\n  - path: a.ql\n", wantErr: pkg.ErrManifest},
		{name: "duplicate", input: "modules:\n  - name: a\n  - name: a\n", wantErr: pkg.ErrManifest},
		{name: "not an identifier", input: "modules:\n  - name: 1abc\n", wantErr: pkg.ErrManifest},
		{name: "keyword", input: "modules:\n  - name: class\n", wantErr: pkg.ErrManifest},
		{name: "malformed", input: "modules: [\n", wantErr: pkg.ErrManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(t.Context(), strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if len(m.Modules) != len(tt.want) {
				t.Fatalf("Decode() modules = %v, want %v", m.Modules, tt.want)
			}

			for i, name := range tt.want {
				if m.Modules[i].Name != name {
					t.Errorf("Modules[%d].Name = %q, want %q", i, m.Modules[i].Name, name)
				}
			}

			if len(m.Paths) != tt.paths {
				t.Errorf("Paths = %v, want %d entries", m.Paths, tt.paths)
			}
		})
	}
}

func TestManifest_Encode(t *testing.T) {
	in := Manifest{
		Paths:   []string{"lib"},
		Modules: []Module{{Name: "math"}, {Name: "io", When: `os != "js"`}},
	}

	var buf bytes.Buffer
	if err := in.Encode(t.Context(), &buf, 2); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	out, err := Decode(t.Context(), &buf)
	if err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, buf.String())
	}

	if len(out.Modules) != 2 || out.Modules[1].When != in.Modules[1].When {
		t.Errorf("Decode(Encode()) = %+v", out)
	}
}

func TestIsName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"math", true},
		{"_private", true},
		{"io2", true},
		{"", false},
		{"2io", false},
		{"a b", false},
		{" math", false},
		{"fun", false},
		{"a.b", false},
		{"a-b", false},
	}

	for _, tt := range tests {
		if got := IsName(tt.in); got != tt.want {
			t.Errorf("IsName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModule_String(t *testing.T) {
	if got := (Module{Name: "math"}).String(); got != "math" {
		t.Errorf("String() = %q", got)
	}

	if got := (Module{Name: "m", Location: "/lib/m.ql"}).String(); got != "m (/lib/m.ql)" {
		t.Errorf("String() = %q", got)
	}
}
