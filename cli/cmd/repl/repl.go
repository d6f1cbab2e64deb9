package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quill/lang/ast"
	"github.com/ardnew/quill/log"
)

// editSourceMsg is sent when source editing completes successfully.
type editSourceMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a compile
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for a reason other than
// a compile error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  list     List top-level declarations
  source   Print the accepted session source
  tokens   Print the token stream of the session source
  modules  List importable modules
  reset    Discard every accepted statement
  edit     Edit session source in external $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to compile it against the session
  A missing trailing ";" is added when needed
  Accepted statements are printed as S-expressions
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	session          *Session
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts the REPL on the given session.
func Run(
	ctx context.Context,
	cacheDir string,
	session *Session,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session == nil {
		return ErrNoSession
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("source_length", len(session.Source())),
		slog.Int("module_count", len(session.Modules())),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, session, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editSourceMsg:
		if err := m.session.Replace(m.ctxFunc(), msg.source); err != nil {
			return m, tea.Println(errorStyle.Render(renderError(err)))
		}

		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("declaration_count", len(m.session.Declarations())),
		)

		return m, tea.Println(resultStyle.Render("✔ session source updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled."))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hintLine() + "\n"
}

// hintLine renders the line below the input: the history position while
// browsing history, a usage hint on empty input, the signature of the call
// under the cursor, or the completion candidates.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render(
			"Type: help, list, source, edit, reset, quit (press Esc to return)",
		)
	}

	if m.mode == modeEval {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if sig, params := getSignature(m.session, call.name); sig != "" {
				return renderSignatureHint(sig, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.session, m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			m.altNavActive = false

			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.altNavActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycleCandidate(1)

	case tea.KeyShiftTab:
		return m.cycleCandidate(-1)

	case tea.KeyUp, tea.KeyDown:
		step := 1
		if msg.Type == tea.KeyUp {
			step = -1
		}

		if msg.Alt {
			return m.browseCtrlHistory(step)
		}

		return m.browseHistory(step, false)

	case tea.KeyShiftUp:
		return m.browseHistory(-1, true)

	case tea.KeyShiftDown:
		return m.browseHistory(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.altNavActive {
			m.altNavActive = false
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Check for space as "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	// Reset history index when typing
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycleCandidate substitutes the next (step 1) or previous (step -1)
// completion candidate for the current word. A sole candidate is accepted
// outright.
func (m model) cycleCandidate(step int) (model, tea.Cmd) {
	n := len(m.matches)

	switch {
	case n == 0:
		return m, nil

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.acceptCandidate()

		return m, nil

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

func (m *model) acceptCandidate() {
	m.tabActive = false
	m.suggIdx = -1
	m.matches = nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.acceptCandidate()
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	if m.mode == modeCtrl {
		// Control mode - add to history and execute command
		_, _ = m.history.WriteWithMode(input, modeCtrl)
		m.historyIdx = m.history.Len()
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	// Eval mode - add to history and evaluate
	_, _ = m.history.WriteWithMode(input, modeEval)
	m.historyIdx = m.history.Len()
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	// Echo the command
	echoCmd := tea.Println(formatCommand(input))

	stmts, err := m.session.Eval(m.ctxFunc(), input)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result", "error"),
			slog.String("error", err.Error()),
		)

		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render(renderError(err))),
		)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("result", "ok"),
		slog.Int("statement_count", len(stmts)),
	)

	if len(stmts) == 0 {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(hintStyle.Render("(no statements)")),
		)
	}

	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = ast.Sprint(stmt)
	}

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(strings.Join(lines, "\n"))),
	)
}

func (m model) executeCommand(
	input string,
) (model, tea.Cmd) {
	// Parse command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(m.helpView()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listDeclarations()))

	case "s", "source":
		src := strings.TrimRight(m.session.Source(), "\n")
		if src == "" {
			src = hintStyle.Render("(empty)")
		}

		return m, tea.Sequence(echoCmd, tea.Println(src))

	case "t", "tokens":
		var sb strings.Builder
		if err := m.session.Tokens(m.ctxFunc(), &sb); err != nil {
			return m, tea.Sequence(
				echoCmd,
				tea.Println(errorStyle.Render("error: "+err.Error())),
			)
		}

		return m, tea.Sequence(
			echoCmd,
			tea.Println(strings.TrimRight(sb.String(), "\n")),
		)

	case "m", "modules":
		mods := m.session.Modules()
		if len(mods) == 0 {
			return m, tea.Sequence(
				echoCmd,
				tea.Println(hintStyle.Render("(no modules)")),
			)
		}

		return m, tea.Sequence(echoCmd, tea.Println("  "+strings.Join(mods, "\n  ")))

	case "r", "reset":
		m.session.Reset()

		return m, tea.Sequence(
			echoCmd,
			tea.Println(resultStyle.Render("✔ session reset")),
		)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		var editCmd tea.Cmd

		m, editCmd = m.handleEdit(m.ctxFunc())

		return m, tea.Sequence(echoCmd, editCmd)

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) handleEdit(_ context.Context) (model, tea.Cmd) {
	cmd := &editSourceCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.newSource == nil {
			return editCancelledMsg{}
		}

		return editSourceMsg{source: *cmd.newSource}
	})
}

// historySeek returns the index of the nearest history entry in direction
// step (-1 or +1) from the current position that keep accepts, or -1.
func (m model) historySeek(step int, keep func(HistoryEntry) bool) int {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		if e, err := m.history.GetEntry(i); err == nil && (keep == nil || keep(e)) {
			return i
		}
	}

	return -1
}

// recall shows history entry i. With follow set the input mode switches to
// the mode the entry was recorded in.
func (m model) recall(i int, follow bool) model {
	e, err := m.history.GetEntry(i)
	if err != nil {
		return m
	}

	if follow && m.mode != e.Mode {
		m, _ = m.switchToMode(e.Mode)
	}

	m.historyIdx = i
	m.setInput(e.Line, len(e.Line))

	return m
}

func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	refreshMatches(m, false)
}

// browseHistory moves one entry through history. Unless sameMode is set it
// visits every entry and follows its mode. Stepping past the newest entry
// clears the input.
func (m model) browseHistory(step int, sameMode bool) (model, tea.Cmd) {
	var keep func(HistoryEntry) bool

	if sameMode {
		mode := m.mode
		keep = func(e HistoryEntry) bool { return e.Mode == mode }
	}

	if i := m.historySeek(step, keep); i >= 0 {
		return m.recall(i, !sameMode), nil
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("", 0)
	}

	return m, nil
}

// browseCtrlHistory moves through control commands only, from either mode.
// The input in effect before browsing began is restored once either end of
// history is passed.
func (m model) browseCtrlHistory(step int) (model, tea.Cmd) {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	ctrl := func(e HistoryEntry) bool { return e.Mode == modeCtrl }
	if i := m.historySeek(step, ctrl); i >= 0 {
		return m.recall(i, false), nil
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m, _ = m.switchToMode(m.altNavOrigMode)
	}

	m.historyIdx = m.history.Len()
	m.setInput(m.altNavOrigText, m.altNavOrigCursor)

	return m, nil
}

func (m model) helpView() string { return helpMessage() }

func (m model) listDeclarations() string {
	decls := m.session.Declarations()
	if len(decls) == 0 {
		return hintStyle.Render("(no declarations)")
	}

	lines := make([]string, len(decls))
	for i, d := range decls {
		lines[i] = formatDeclaration(d)
	}

	return strings.Join(lines, "\n")
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode stashes the input of the current mode and restores the input
// last stashed for mode.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	text, cursor := m.input.Value(), m.input.Position()

	if m.mode == modeEval {
		m.evalText, m.evalCursor = text, cursor
	} else {
		m.ctrlText, m.ctrlCursor = text, cursor
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.setInput(m.evalText, m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.setInput(m.ctrlText, m.ctrlCursor)
	}

	return m, nil
}

// renderError formats err for display, including source snippets when err
// carries compile diagnostics.
func renderError(err error) string {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Render()
	}

	return "error: " + err.Error()
}
