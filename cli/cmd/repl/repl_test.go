package repl

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quill/log"
)

func newTestModel(t *testing.T, inputs ...string) model {
	t.Helper()

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), newTestSession(t, inputs...), history, log.Default())
}

func submit(m model, input string) model {
	m.input.SetValue(input)
	m, _ = m.executeInput()

	return m
}

func TestModel_Eval(t *testing.T) {
	m := newTestModel(t)

	m = submit(m, "var a = 1")
	m = submit(m, "var = 2;")

	if got := m.session.Source(); got != "var a = 1;\n" {
		t.Errorf("Source() = %q", got)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after submit", m.input.Value())
	}

	if got := m.history.Len(); got != 2 {
		t.Errorf("history.Len() = %d, want 2", got)
	}
}

func TestModel_Commands(t *testing.T) {
	m := newTestModel(t, "var a = 1;", "fun f(x) { return x; }")
	m, _ = m.switchToMode(modeCtrl)

	if got := m.listDeclarations(); !strings.Contains(got, "a") || !strings.Contains(got, "f(x)") {
		t.Errorf("listDeclarations() = %q", got)
	}

	m = submit(m, "reset")

	if m.session.Source() != "" {
		t.Errorf("Source() = %q after reset", m.session.Source())
	}

	if got := m.listDeclarations(); !strings.Contains(got, "no declarations") {
		t.Errorf("listDeclarations() = %q", got)
	}

	m = submit(m, "quit")

	if !m.quitting {
		t.Error("quit did not stop the model")
	}

	if entry, err := m.history.GetEntry(0); err != nil || entry.Mode != modeCtrl {
		t.Errorf("GetEntry(0) = %v, %v", entry, err)
	}
}

func TestModel_ToggleMode(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("1 +")
	m, _ = m.toggleMode()

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("toggleMode() mode = %v, input = %q", m.mode, m.input.Value())
	}

	m.input.SetValue("he")
	m, _ = m.toggleMode()

	if m.mode != modeEval || m.input.Value() != "1 +" {
		t.Errorf("toggleMode() mode = %v, input = %q", m.mode, m.input.Value())
	}

	m, _ = m.toggleMode()

	if m.input.Value() != "he" {
		t.Errorf("ctrl input = %q, want he", m.input.Value())
	}
}

func TestModel_EditMessages(t *testing.T) {
	m := newTestModel(t, "var a = 1;")

	next, _ := m.Update(editSourceMsg{source: "var b = 2;\n"})
	m = next.(model)

	if got := m.session.Names(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Names() = %v after edit", got)
	}

	next, _ = m.Update(editDeclinedMsg{})
	if !next.(model).quitting {
		t.Error("declined edit did not stop the model")
	}
}

func TestModel_Tab(t *testing.T) {
	m := newTestModel(t, "var total = 1;", "var tally = 2;")

	m.input.SetValue("ta")
	m.input.SetCursor(2)
	refreshMatches(&m, false)

	if len(m.matches) == 0 {
		t.Fatal("no matches for ta")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})

	if !m.tabActive && len(m.matches) > 1 {
		t.Error("tab did not start cycling")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.input.Value() != "ta" {
		t.Errorf("Esc restored %q, want ta", m.input.Value())
	}
}

func TestRenderError(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Eval(t.Context(), "return;")
	if err == nil {
		t.Fatal("Eval() error = nil")
	}

	got := renderError(err)
	for _, want := range []string{"RESOLVING error at 1:1", "return;", "^"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderError() = %q, missing %q", got, want)
		}
	}

	if got := renderError(errors.New("boom")); got != "error: boom" {
		t.Errorf("renderError() = %q", got)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)

	for _, e := range []HistoryEntry{
		{"var a = 1;", modeEval},
		{"list", modeCtrl},
		{"var b = 2;", modeEval},
	} {
		if _, err := m.history.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	key := func(k tea.KeyType, alt bool) {
		t.Helper()

		m, _ = m.handleKey(tea.KeyMsg{Type: k, Alt: alt})
	}

	expect := func(line string, mode inputMode) {
		t.Helper()

		if got := m.input.Value(); got != line || m.mode != mode {
			t.Errorf("input = %q mode %d, want %q mode %d", got, m.mode, line, mode)
		}
	}

	key(tea.KeyUp, false)
	expect("var b = 2;", modeEval)

	key(tea.KeyUp, false)
	expect("list", modeCtrl)

	key(tea.KeyDown, false)
	key(tea.KeyDown, false)
	expect("", modeEval)

	key(tea.KeyShiftUp, false)
	expect("var b = 2;", modeEval)

	key(tea.KeyShiftUp, false)
	expect("var a = 1;", modeEval)

	m.historyIdx = m.history.Len()
	m.input.SetValue("draft")

	key(tea.KeyUp, true)
	expect("list", modeCtrl)

	key(tea.KeyUp, true)
	expect("draft", modeEval)
}
