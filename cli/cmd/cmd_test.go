package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/pkg"
)

// withOutput returns a context whose kong context writes command output
// to the returned buffer.
func withOutput(ctx context.Context) (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer

	ktx := &kong.Context{Kong: &kong.Kong{Stdout: &buf, Stderr: &buf}}

	return WithContext(ctx, ktx), &buf
}

// writeFiles creates each named file under a temp directory and returns
// their paths in the given order.
func writeFiles(t *testing.T, files ...string) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, len(files)/2)

	for i := 0; i+1 < len(files); i += 2 {
		path := filepath.Join(dir, files[i])
		if err := os.WriteFile(path, []byte(files[i+1]), 0o600); err != nil {
			t.Fatal(err)
		}

		paths = append(paths, path)
	}

	return paths
}

// pipeStdin replaces os.Stdin with a pipe carrying content until the test
// ends.
func pipeStdin(t *testing.T, content string) {
	t.Helper()

	oldStdin := os.Stdin
	t.Cleanup(func() { os.Stdin = oldStdin })

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdin = r

	go func() {
		defer w.Close()

		io.WriteString(w, content)
	}()
}

func names(srcs []source) []string {
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = filepath.Base(s.name)
	}

	return out
}

func TestReadSources(t *testing.T) {
	paths := writeFiles(t, "a.q", "var a;", "b.q", "var b;")

	srcs, err := readSources([]string{paths[0], paths[1]})
	if err != nil {
		t.Fatal(err)
	}

	if len(srcs) != 2 || srcs[0].text != "var a;" || srcs[1].text != "var b;" {
		t.Errorf("readSources() = %+v", srcs)
	}

	if srcs[0].name != paths[0] {
		t.Errorf("name = %q, want %q", srcs[0].name, paths[0])
	}
}

func TestReadSources_Duplicates(t *testing.T) {
	paths := writeFiles(t, "a.q", "var a;")
	dir := filepath.Dir(paths[0])

	link := filepath.Join(dir, "link.q")
	if err := os.Symlink(paths[0], link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	srcs, err := readSources([]string{paths[0], "a.q", link, paths[0]})
	if err != nil {
		t.Fatal(err)
	}

	if len(srcs) != 1 {
		t.Errorf("readSources() read %d sources, want 1: %v", len(srcs), names(srcs))
	}
}

func TestReadSources_StdinLast(t *testing.T) {
	paths := writeFiles(t, "a.q", "var a;")
	pipeStdin(t, "var s;")

	srcs, err := readSources([]string{"-", paths[0], "-"})
	if err != nil {
		t.Fatal(err)
	}

	if len(srcs) != 2 {
		t.Fatalf("readSources() = %v", names(srcs))
	}

	if srcs[1].name != stdinName || srcs[1].text != "var s;" {
		t.Errorf("last source = %+v, want stdin", srcs[1])
	}
}

func TestReadSources_DefaultStdin(t *testing.T) {
	pipeStdin(t, "1;")

	srcs, err := readSources(nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(srcs) != 1 || srcs[0].name != stdinName || srcs[0].text != "1;" {
		t.Errorf("readSources(nil) = %+v", srcs)
	}
}

func TestReadSources_Missing(t *testing.T) {
	_, err := readSources([]string{filepath.Join(t.TempDir(), "missing.q")})
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("readSources() error = %v, want %v", err, pkg.ErrReadInput)
	}
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()

	manifest := filepath.Join(dir, "modules.yaml")
	data := "modules:\n  - name: math\n  - name: net\n    requires: \">= 2.0\"\n"

	if err := os.WriteFile(manifest, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		modules Modules
		want    []string
		wantErr error
	}{
		{"none", Modules{}, nil, nil},
		{"all", Modules{Manifest: manifest}, []string{"math", "net"}, nil},
		{"version", Modules{Manifest: manifest, Version: "1.0.0"}, []string{"math"}, nil},
		{"default missing", Modules{Manifest: filepath.Join(dir, "none.yaml")}, nil, nil},
		{
			"required missing",
			Modules{Manifest: filepath.Join(dir, "none.yaml"), Required: true},
			nil,
			pkg.ErrReadInput,
		},
		{"bad version", Modules{Version: "one"}, nil, pkg.ErrVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithModules(t.Context(), tt.modules)

			reg, err := loadRegistry(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("loadRegistry() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			got := reg.Names()
			if len(got) != len(tt.want) {
				t.Fatalf("Names() = %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Names() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
