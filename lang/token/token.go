// Package token defines the lexical vocabulary of quill: token types and
// their families, the immutable [Token] record produced by the lexer, and the
// [Registry] that maps surface representations to types.
package token

import (
	"log/slog"
	"strconv"
)

// Position locates a token in source text. Line and Column are 1-based;
// a zero Line means the position lies outside any source.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether p refers to a location in source text.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "outside source"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements [slog.LogValuer].
func (p Position) LogValue() slog.Value {
	if !p.IsValid() {
		return slog.StringValue(p.String())
	}

	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Token is a lexeme scanned from source. Tokens are values and are never
// modified after the lexer creates them.
type Token struct {
	// Literal holds the decoded value of literal tokens: int64 or float64
	// for numbers, string for strings, rune for characters, bool for true
	// and false. It is nil otherwise.
	Literal any
	Lexeme  string
	Pos     Position
	Type    Type
}

// New returns a token of type t at pos.
func New(t Type, lexeme string, literal any, pos Position) Token {
	return Token{Type: t, Lexeme: lexeme, Literal: literal, Pos: pos}
}

// Synthetic returns a token of type t spelled by its canonical
// representation, positioned like at. The parser uses synthetic tokens to
// name operators implied by other tokens.
func Synthetic(t Type, at Token) Token {
	return Token{Type: t, Lexeme: Default().Info(t).Repr, Pos: at.Pos}
}

// Is reports whether the token has one of the given types.
func (t Token) Is(types ...Type) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}

	return false
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of file"
	}

	return strconv.Quote(t.Lexeme)
}

// LogValue implements [slog.LogValuer].
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", t.Type.String()),
		slog.String("lexeme", t.Lexeme),
		slog.Any("pos", t.Pos),
	)
}

// Comment is source commentary captured outside the token stream.
type Comment struct {
	Text  string   `json:"text"  yaml:"text"`
	Pos   Position `json:"pos"   yaml:"pos"`
	Block bool     `json:"block" yaml:"block"`
}
