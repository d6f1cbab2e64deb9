package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/quill/lang/diag"
)

var (
	fileStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// stdout returns the command output writer of the kong context in ctx.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Kong != nil &&
		ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// writeDiagnostics renders every diagnostic in err against the source it was
// reported for, each followed by its source snippet.
func writeDiagnostics(w io.Writer, src source, err error) {
	var list diag.List

	switch e := err.(type) { //nolint:errorlint
	case diag.List:
		list = e
	case *diag.Error:
		list = diag.List{e}
	default:
		list = diag.List{diag.AsError(err)}
	}

	fmt.Fprintln(w, fileStyle.Render(src.name+":"))

	for _, e := range list {
		fmt.Fprintln(w, errorStyle.Render(e.Error()))
		fmt.Fprint(w, diag.Snippet(src.text, e.Pos))
	}
}

// writeResult prints a one-line summary of a successful check.
func writeResult(w io.Writer, r diag.Result) {
	fmt.Fprintf(w, "%s %s %s\n",
		okStyle.Render("ok"),
		r.Source,
		noteStyle.Render(fmt.Sprintf("(%d statements, %s)", r.Statements, r.Elapsed)),
	)
}
