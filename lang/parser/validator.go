package parser

import (
	"log/slog"

	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/lang/token"
)

// StepValidator centralizes the checks a node parser makes between steps:
// expecting a token, bounding list lengths, and guaranteeing progress.
// Every failure is a [*diag.Error] in phase PARSING.
type StepValidator struct {
	p *Parser
}

// Expect consumes a token of type t or fails with [diag.ExpectToken]
// positioned at the current token. what completes the message
// "Expect <what>.", e.g. "')' after arguments".
func (v StepValidator) Expect(t token.Type, what string) (token.Token, error) {
	if v.p.Check(t) {
		return v.p.Advance(), nil
	}

	return token.Token{}, v.unexpected(what)
}

// ExpectOneOf consumes a token having any of types or fails like
// [StepValidator.Expect].
func (v StepValidator) ExpectOneOf(what string, types ...token.Type) (token.Token, error) {
	for _, t := range types {
		if v.p.Check(t) {
			return v.p.Advance(), nil
		}
	}

	return token.Token{}, v.unexpected(what)
}

func (v StepValidator) unexpected(what string) error {
	at := v.p.Peek()

	return v.p.Error(at, diag.ExpectToken, what).
		With(slog.String("found", at.String()))
}

// Limit fails with code, positioned at the current token, when count has
// already reached limit. Call it before parsing another list element.
func (v StepValidator) Limit(count, limit int, code diag.Code) error {
	if count < limit {
		return nil
	}

	return v.p.Error(v.p.Peek(), code, limit)
}

// Progress fails when the cursor has not moved past before. It guards
// statement loops against node parsers that accept without consuming.
func (v StepValidator) Progress(before int) error {
	if v.p.current > before {
		return nil
	}

	return v.p.Error(v.p.Peek(), diag.Internal,
		"parser made no progress at "+v.p.Peek().String())
}
