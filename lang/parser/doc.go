// Package parser turns a token sequence into statements.
//
// The grammar is not hard-coded. A [Registry] holds three kinds of node
// parser: an ordered chain of operator parsers, one per precedence layer
// from lowest to highest; an ordered list of value parsers tried at the
// primary layer; and statement parsers keyed by their leading token. Each
// operator parser receives an [Operand] that parses the next layer, so a
// layer can be inserted or replaced without touching its neighbours.
//
// Node parsers move through the tokens with the [Parser] primitives and
// report failures through its [StepValidator]. Parsing stops at the first
// error, which is always a [*diag.Error] in phase PARSING.
//
// The built-in layers, lowest first:
//
//	assignment      =                      right
//	elvis           ?:                     left
//	ternary         ? :                    right
//	bitwise         & | ^ << >>            left
//	logical         && || and or           left
//	equality        == !=                  left
//	range           ..                     left
//	compound        += -= *= ... >>=       left
//	prefix call     f <| x                 left
//	comparison      < <= > >= is           left
//	additive        + -                    left
//	multiplicative  * / % **               left
//	infix call      a `f` b                left
//	unary           - ! ~                  right
//	postfix         f(x) o.p a[i]          left
package parser
