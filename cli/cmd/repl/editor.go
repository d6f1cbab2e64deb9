package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/quill/log"
)

const defaultEditor = "vi"

// editSourceCommand implements [tea.ExecCommand] for the session
// edit-compile-retry loop. It writes the session source to a temp file, opens
// the user's editor, and compiles the result. On a compile error the user is
// prompted to re-edit; declining exits the program.
type editSourceCommand struct {
	session   *Session
	ctxFunc   func() context.Context
	newSource *string
	logger    log.Logger
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editSourceCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editSourceCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editSourceCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-compile-retry loop. It writes the session source,
// opens the editor, compiles the result, and prompts on error. If the user
// declines to re-edit, it returns [ErrEditDeclined].
func (c *editSourceCommand) Run() error {
	ctx := c.ctxFunc()

	content := c.session.Source()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "quill-repl-*.q")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// An empty file (user cleared content) cancels the edit.
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil
		}

		src := string(data)
		checkErr := c.session.Check(ctx, src)
		c.logger.TraceContext(
			ctx,
			"editor compile attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", checkErr == nil),
		)

		if checkErr == nil {
			c.newSource = &src

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\n%s\n", renderError(checkErr))
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Re-edit the failed content.
		content = src
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
