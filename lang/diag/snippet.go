package diag

import (
	"strconv"
	"strings"

	"github.com/ardnew/quill/lang/token"
)

// Snippet renders the source line at pos followed by a caret under its
// column:
//
//	3 | var x = 1 +;
//	              ^
//
// It returns the empty string when pos is outside source or past the last
// line.
func Snippet(source string, pos token.Position) string {
	if !pos.IsValid() {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	line := strings.TrimRight(lines[pos.Line-1], "\r")
	num := strconv.Itoa(pos.Line)

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(num)
	b.WriteString(" | ")
	b.WriteString(line)
	b.WriteByte('\n')

	// 2 leading spaces + " | "
	pad := len(num) + 5
	if pos.Column > 0 {
		pad += pos.Column - 1
	}

	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString("^\n")

	return b.String()
}

// Render formats err followed by its source snippet. Errors that are not
// diagnostics, or lie outside source, render as their message only.
func Render(source string, err error) string {
	if err == nil {
		return ""
	}

	var list List

	switch e := err.(type) { //nolint:errorlint
	case List:
		list = e
	case *Error:
		list = List{e}
	default:
		list = List{AsError(err)}
	}

	var b strings.Builder

	for _, e := range list {
		b.WriteString(e.Error())
		b.WriteByte('\n')
		b.WriteString(Snippet(source, e.Pos))
	}

	return b.String()
}
