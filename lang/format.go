package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/lang/token"
	"github.com/ardnew/quill/pkg"
)

// Format selects how a program or its tokens are written.
type Format int

const (
	// FormatSExpr writes one S-expression per statement.
	FormatSExpr Format = iota
	// FormatText writes one token per line.
	FormatText
	// FormatJSON writes JSON.
	FormatJSON
	// FormatYAML writes YAML.
	FormatYAML
)

var formatNames = [...]string{"sexpr", "text", "json", "yaml"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return "Format(" + fmt.Sprint(int(f)) + ")"
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}

	return 0, pkg.ErrInvalidFormat.Wrapf("%q (valid: %s)", s, strings.Join(formatNames[:], ", "))
}

// Format writes the program's statements to w as S-expressions, JSON or
// YAML. Indent applies to JSON and YAML; zero selects compact output.
func (p *Program) Format(ctx context.Context, w io.Writer, format Format, indent int) error {
	switch format {
	case FormatSExpr:
		return ast.Fprint(w, p.Statements)
	case FormatJSON:
		return writeJSON(w, p.ToMap(), indent)
	case FormatYAML:
		return writeYAML(ctx, w, p.ToMap(), indent)
	default:
		return pkg.ErrInvalidFormat.Wrapf("%s (valid: sexpr, json, yaml)", format)
	}
}

// FormatTokens writes the program's tokens and comments to w as text,
// JSON or YAML.
func (p *Program) FormatTokens(ctx context.Context, w io.Writer, format Format, indent int) error {
	switch format {
	case FormatText:
		return p.writeTokenText(w)
	case FormatJSON:
		return writeJSON(w, p.TokenMap(), indent)
	case FormatYAML:
		return writeYAML(ctx, w, p.TokenMap(), indent)
	default:
		return pkg.ErrInvalidFormat.Wrapf("%s (valid: text, json, yaml)", format)
	}
}

// ToMap returns the statements and comments as native Go values.
func (p *Program) ToMap() map[string]any {
	return map[string]any{
		"statements": ast.ToMaps(p.Statements),
		"comments":   p.comments(),
	}
}

// TokenMap returns the tokens and comments as native Go values.
func (p *Program) TokenMap() map[string]any {
	tokens := make([]any, len(p.Tokens))

	for i, t := range p.Tokens {
		m := map[string]any{
			"type":   t.Type.String(),
			"lexeme": t.Lexeme,
			"line":   t.Pos.Line,
			"column": t.Pos.Column,
		}

		if t.Literal != nil {
			m["literal"] = ast.FormatLiteral(t.Literal)
		}

		tokens[i] = m
	}

	return map[string]any{
		"tokens":   tokens,
		"comments": p.comments(),
	}
}

func (p *Program) comments() []any {
	out := make([]any, len(p.Comments))

	for i, c := range p.Comments {
		out[i] = map[string]any{
			"text":   c.Text,
			"line":   c.Pos.Line,
			"column": c.Pos.Column,
			"block":  c.Block,
		}
	}

	return out
}

func (p *Program) writeTokenText(w io.Writer) error {
	for _, t := range p.Tokens {
		if _, err := fmt.Fprintf(w, "%-8s %-14s %s\n", t.Pos, t.Type, tokenText(t)); err != nil {
			return err
		}
	}

	for _, c := range p.Comments {
		if _, err := fmt.Fprintf(w, "%-8s %-14s %q\n", c.Pos, "COMMENT", c.Text); err != nil {
			return err
		}
	}

	return nil
}

func tokenText(t token.Token) string {
	if t.Literal != nil {
		return t.Lexeme + " = " + ast.FormatLiteral(t.Literal)
	}

	return t.Lexeme
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
