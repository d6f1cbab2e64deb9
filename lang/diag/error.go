package diag

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/quill/lang/token"
)

// Phase names the pipeline stage that produced an [Error].
type Phase uint8

const (
	PhaseUnknown Phase = iota
	PhaseLexing
	PhaseParsing
	PhaseResolving
)

func (p Phase) String() string {
	switch p {
	case PhaseLexing:
		return "LEXING"
	case PhaseParsing:
		return "PARSING"
	case PhaseResolving:
		return "RESOLVING"
	default:
		return "UNKNOWN"
	}
}

// Error is the structured error shared by the lexer, parser and resolver.
// It carries the phase, the source position (the zero position means
// "outside source"), a catalog code and the formatted message.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	Pos   token.Position
	Code  Code
	Phase Phase
}

// New returns an error for code at pos with the catalog template expanded
// by args.
func New(phase Phase, pos token.Position, code Code, args ...any) *Error {
	return &Error{
		Phase: phase,
		Pos:   pos,
		Code:  code,
		msg:   code.Format(args...),
	}
}

// At is like [New] but positions the error at tok.
func At(phase Phase, tok token.Token, code Code, args ...any) *Error {
	return New(phase, tok.Pos, code, args...)
}

// AsError returns err as an [*Error], wrapping foreign errors in an
// [Internal] diagnostic with no position.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var de *Error
	if errors.As(err, &de) {
		return de
	}

	return New(PhaseUnknown, token.Position{}, Internal, err.Error()).Wrap(err)
}

// Message returns the formatted message without phase or position.
func (e *Error) Message() string { return e.msg }

// Error implements the error interface:
//
//	PARSING error at 3:14: Invalid assignment target.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Phase.String())
	b.WriteString(" error at ")
	b.WriteString(e.Pos.String())
	b.WriteString(": ")
	b.WriteString(e.msg)

	if e.err != nil {
		b.WriteString(": ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same diagnostic: either a [Code] equal
// to e.Code, or an [*Error] with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return e.Code == t
	case *Error:
		return t.Code != 0 && e.Code == t.Code
	}

	return false
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)
	attrs = append(attrs,
		slog.String("phase", e.Phase.String()),
		slog.String("code", e.Code.String()),
		slog.Any("pos", e.Pos),
		slog.String("error", e.msg),
	)

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns the structured attributes attached with [Error.With].
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// List is a batch of errors reported by one pass.
type List []*Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}

	return strings.Join(msgs, "\n")
}

// Unwrap exposes the batch to errors.Is/As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}

	return errs
}

// Err returns l as an error, or nil when l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}

	return l
}
