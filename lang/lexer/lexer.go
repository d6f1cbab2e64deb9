// Package lexer converts quill source text into tokens.
//
// Scanning is table-driven: keywords and operators come from a
// [token.Registry], so extending the registry extends the lexer. Comments
// are captured out of band and never appear in the token stream.
//
// Lexical errors are reported and scanning continues, so one call can
// surface several of them. An unterminated string or character literal is
// the exception: it is reported and ends the scan. The token sequence always
// ends with [token.EOF].
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

const eof = -1

// Lexer scans one source text. A Lexer is single-use and not safe for
// concurrent use; create one per source.
type Lexer struct {
	reg      *token.Registry
	rep      diag.Reporter
	src      string
	tokens   []token.Token
	comments []token.Comment
	errs     diag.List

	start   token.Position // position of the lexeme being scanned
	off     int            // byte offset of the next rune
	line    int
	col     int
	stopped bool
}

// Option configures a [Lexer].
type Option func(*Lexer)

// WithRegistry scans with r instead of [token.Default].
func WithRegistry(r *token.Registry) Option {
	return func(l *Lexer) {
		if r != nil {
			l.reg = r
		}
	}
}

// WithReporter forwards every diagnostic to rep as it is found.
func WithReporter(rep diag.Reporter) Option {
	return func(l *Lexer) { l.rep = rep }
}

// New returns a lexer for src.
func New(src string, opts ...Option) *Lexer {
	l := &Lexer{
		reg:  token.Default(),
		rep:  diag.Discard,
		src:  src,
		line: 1,
		col:  1,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Scan lexes src and returns its tokens, comments and the batch of lexical
// errors, if any.
func Scan(src string, opts ...Option) ([]token.Token, []token.Comment, error) {
	l := New(src, opts...)
	tokens, comments := l.ScanTokens()

	return tokens, comments, l.Err()
}

// ScanTokens scans the whole source. Diagnostics go to the configured
// reporter and are also available from [Lexer.Err].
func (l *Lexer) ScanTokens() ([]token.Token, []token.Comment) {
	for !l.stopped && !l.atEnd() {
		l.mark()
		l.scanToken()
	}

	l.mark()
	l.tokens = append(l.tokens, token.New(token.EOF, "", nil, l.start))

	return l.tokens, l.comments
}

// Err returns the lexical errors found so far, or nil.
func (l *Lexer) Err() error { return l.errs.Err() }

// Errors returns the lexical errors found so far.
func (l *Lexer) Errors() diag.List { return l.errs }

func (l *Lexer) scanToken() {
	r := l.advance()

	switch {
	case unicode.IsSpace(r):
		return
	case r == '/' && l.peek() == '/':
		l.lineComment()
	case r == '/' && l.peek() == '*':
		l.blockComment()
	case r == '"':
		l.string()
	case r == '\'':
		l.char()
	case r >= '0' && r <= '9':
		l.number()
	case token.IsIdentifierStart(r):
		l.identifier()
	default:
		l.operator(r)
	}
}

func (l *Lexer) lineComment() {
	for c := l.peek(); c != '\n' && c != eof; c = l.peek() {
		l.advance()
	}

	l.comments = append(l.comments, token.Comment{Text: l.lexeme(), Pos: l.start})
}

func (l *Lexer) blockComment() {
	l.advance() // '*'

	for {
		switch l.peek() {
		case eof:
			l.report(diag.UnterminatedComment)

			return
		case '*':
			l.advance()

			if l.peek() == '/' {
				l.advance()
				l.comments = append(l.comments,
					token.Comment{Text: l.lexeme(), Pos: l.start, Block: true})

				return
			}
		default:
			l.advance()
		}
	}
}

func (l *Lexer) string() {
	var b strings.Builder

	for {
		switch r := l.advance(); r {
		case eof:
			l.fatal(diag.UnterminatedString)

			return
		case '"':
			l.emit(token.String, b.String())

			return
		case '\\':
			if e, ok := l.escape(); ok {
				b.WriteRune(e)
			} else if l.stopped {
				l.fatal(diag.UnterminatedString)

				return
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (l *Lexer) char() {
	var runes []rune

	for {
		switch r := l.peek(); r {
		case eof, '\n':
			l.fatal(diag.UnterminatedChar)

			return
		case '\'':
			l.advance()

			if len(runes) != 1 {
				l.report(diag.InvalidCharLiteral)

				return
			}

			l.emit(token.Char, runes[0])

			return
		case '\\':
			l.advance()

			if e, ok := l.escape(); ok {
				runes = append(runes, e)
			} else if l.stopped {
				l.fatal(diag.UnterminatedChar)

				return
			}
		default:
			runes = append(runes, l.advance())
		}
	}
}

// escape decodes the rune following a backslash. Unknown escapes are
// reported and dropped.
func (l *Lexer) escape() (rune, bool) {
	pos := l.pos()

	r := l.advance()
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\', '"', '\'':
		return r, true
	case eof:
		l.stopped = true

		return 0, false
	}

	l.reportAt(pos, diag.InvalidEscape, r)

	return 0, false
}

func (l *Lexer) number() {
	first := l.src[l.start.Offset]
	isFloat, prefixed := false, false

	if p := l.peek(); first == '0' && strings.ContainsRune("xXbBoO", p) {
		prefixed = true

		l.advance()
		l.digits(isHex)
	} else {
		l.digits(isDigit)

		if l.peek() == '.' && isDigit(l.peekNext()) {
			isFloat = true

			l.advance()
			l.digits(isDigit)
		}

		if p := l.peek(); p == 'e' || p == 'E' {
			n := l.peekNext()
			if isDigit(n) || ((n == '+' || n == '-') && isDigit(l.peekAt(2))) {
				isFloat = true

				l.advance()
				l.advance()
				l.digits(isDigit)
			}
		}
	}

	// A number running into an identifier ("12abc") is one bad lexeme.
	malformed := false
	for token.IsIdentifierPart(l.peek()) {
		malformed = true

		l.advance()
	}

	text := l.lexeme()
	if malformed {
		l.report(diag.InvalidNumber, text)

		return
	}

	if isFloat {
		v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			l.report(diag.InvalidNumber, text)

			return
		}

		l.emit(token.Number, v)

		return
	}

	// Unprefixed literals are decimal even with leading zeros.
	digits, base := strings.ReplaceAll(text, "_", ""), 10
	if prefixed {
		digits, base = text, 0
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		l.report(diag.InvalidNumber, text)

		return
	}

	l.emit(token.Number, v)
}

func (l *Lexer) digits(accept func(rune) bool) {
	for r := l.peek(); accept(r) || r == '_'; r = l.peek() {
		l.advance()
	}
}

func (l *Lexer) identifier() {
	for token.IsIdentifierPart(l.peek()) {
		l.advance()
	}

	text := l.lexeme()

	t, ok := l.reg.Keyword(text)
	if !ok {
		l.emit(token.Identifier, nil)

		return
	}

	switch t {
	case token.True:
		l.emit(t, true)
	case token.False:
		l.emit(t, false)
	default:
		l.emit(t, nil)
	}
}

func (l *Lexer) operator(first rune) {
	rest := l.src[l.start.Offset:]

	for _, t := range l.reg.Operators(first) {
		repr := l.reg.Info(t).Repr
		if !strings.HasPrefix(rest, repr) {
			continue
		}

		// The first rune is already consumed.
		for range utf8.RuneCountInString(repr) - 1 {
			l.advance()
		}

		l.emit(t, nil)

		return
	}

	l.report(diag.UnexpectedCharacter, first)
}

func (l *Lexer) emit(t token.Type, literal any) {
	l.tokens = append(l.tokens, token.New(t, l.lexeme(), literal, l.start))
}

func (l *Lexer) report(code diag.Code, args ...any) {
	l.reportAt(l.start, code, args...)
}

func (l *Lexer) reportAt(pos token.Position, code diag.Code, args ...any) {
	err := diag.New(diag.PhaseLexing, pos, code, args...)
	l.errs = append(l.errs, err)
	l.rep.Report(err)
}

// fatal reports code and stops scanning.
func (l *Lexer) fatal(code diag.Code) {
	l.report(code)
	l.stopped = true
}

func (l *Lexer) mark() { l.start = l.pos() }

func (l *Lexer) pos() token.Position {
	return token.Position{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *Lexer) lexeme() string { return l.src[l.start.Offset:l.off] }

func (l *Lexer) atEnd() bool { return l.off >= len(l.src) }

func (l *Lexer) advance() rune {
	if l.atEnd() {
		return eof
	}

	r, n := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += n

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) peek() rune { return l.peekAt(0) }

func (l *Lexer) peekNext() rune { return l.peekAt(1) }

// peekAt returns the rune n runes ahead without consuming anything.
func (l *Lexer) peekAt(n int) rune {
	off := l.off

	for ; n > 0 && off < len(l.src); n-- {
		_, w := utf8.DecodeRuneInString(l.src[off:])
		off += w
	}

	if off >= len(l.src) {
		return eof
	}

	r, _ := utf8.DecodeRuneInString(l.src[off:])

	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool { return r < utf8.RuneSelf && unicode.Is(unicode.ASCII_Hex_Digit, r) }
