package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee name (e.g., "add" or "Point.move")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor to find the opening paren of a function call.
	// Track nested parens so we find the correct one.
	parenDepth := 0
	openParenPos := -1

	for i := cursor - 1; i >= 0; i-- {
		ch, size := utf8.DecodeLastRuneInString(input[:i+1])

		switch ch {
		case ')':
			parenDepth++
		case '(':
			if parenDepth == 0 {
				openParenPos = i

				goto foundOpenParen
			}

			parenDepth--
		}

		// Move to start of this rune
		if i > 0 {
			i -= (size - 1)
		}
	}

foundOpenParen:
	if openParenPos == -1 {
		return functionCall{inCall: false}
	}

	// Extract function name before the '('
	// Walk backward collecting identifier characters and dots
	nameEnd := openParenPos
	nameStart := openParenPos

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])

		// Function names can include dots (for methods), letters, numbers, and
		// underscores
		if r == '.' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			nameStart -= size
		} else {
			break
		}
	}

	funcName := strings.TrimSpace(input[nameStart:nameEnd])
	if funcName == "" {
		return functionCall{inCall: false}
	}

	// Count arguments by counting commas at depth 0 in the parameter list
	argIndex := 0
	depth := 0

	for i := openParenPos + 1; i < cursor; i++ {
		ch, size := utf8.DecodeRuneInString(input[i:])

		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}

		i += size - 1
	}

	return functionCall{
		name:     funcName,
		argIndex: argIndex,
		inCall:   true,
	}
}

// getSignature retrieves the signature of a declared function, a class
// constructor, or a method written as "Class.method". Returns an empty
// signature if the callee is not found.
func getSignature(s *Session, funcName string) (signature string, params []string) {
	class, method, ok := strings.Cut(funcName, ".")
	if ok {
		if strings.Contains(method, ".") {
			return "", nil
		}

		params, ok := s.Method(class, method)
		if !ok {
			return "", nil
		}

		return formatSignature(funcName, params), params
	}

	d, ok := s.Lookup(funcName)
	if !ok || (d.Params == nil && d.Kind != "class") {
		return "", nil
	}

	return formatSignature(funcName, d.Params), d.Params
}

// formatSignature formats a function signature with parameter names.
func formatSignature(name string, params []string) string {
	return name + "(" + strings.Join(params, ", ") + ")"
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	// Parse signature: "funcName(param1, param2, ...)"
	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	closeParen := strings.LastIndex(signature, ")")
	if closeParen == -1 {
		return signatureStyle.Render(signature)
	}

	// If no parameters, just render the signature
	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	// Build the signature with highlighted current parameter
	var b strings.Builder
	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// Highlight the current parameter
		if currentArgIdx == i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
