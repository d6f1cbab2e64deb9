package repl

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/quill/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "source", "tokens", "modules", "reset", "edit", "clear", "quit",
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace, the member-access dot, and operator
// and punctuation characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^', '~',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'', '`':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Words are delimited by whitespace, dots, and
// operator/punctuation characters.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// parentPath returns the dot-separated prefix path leading up to the current
// word, considering only the contiguous member-access chain. For input
// "x + point.origin.x" with the word "x", the parent path is "point.origin".
// Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	// Walk backward from the end of the trimmed prefix. Collect characters
	// that are dots or valid identifier characters. Stop at the first
	// non-dot word boundary.
	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r == '.' {
			pos -= size

			continue
		}

		if isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:end])
}

// importContext reports whether the word at wordStart names a module, that
// is, it directly follows the import keyword.
func importContext(input string, wordStart int) bool {
	fields := strings.Fields(input[:wordStart])

	return len(fields) > 0 &&
		fields[len(fields)-1] == "import" &&
		strings.HasSuffix(input[:wordStart], " ")
}

// candidates returns the names that are valid completions at wordStart.
// After "import" they are module names. After a member access on a class
// they are its methods. Otherwise they are keywords, declared names and
// module names.
func candidates(s *Session, input string, wordStart int) []string {
	if importContext(input, wordStart) {
		return s.Modules()
	}

	if parent := parentPath(input, wordStart); parent != "" {
		if strings.Contains(parent, ".") {
			return nil
		}

		if d, ok := s.Lookup(parent); ok {
			return d.Members
		}

		return nil
	}

	names := token.Default().Keywords()
	names = append(names, s.Names()...)
	names = append(names, s.Modules()...)

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. When the current word is empty at the top level, it returns nil
// matches. When the word is empty after a dot (member access) or after
// import, it returns all candidates as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	cands []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		cands = ctrlCommands
	} else {
		cands = candidates(m.session, input, wordStart)

		// When the word is empty at the top level, don't show completions
		// (allows the hint text to be visible). After a dot or import, show
		// all candidates immediately so the user can browse them.
		if word == "" {
			browse := parentPath(input, wordStart) != "" ||
				importContext(input, wordStart)

			if !browse || len(cands) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(cands))
			for i, c := range cands {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, cands, wordStart, wordEnd
		}
	}

	if len(cands) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, cands)

	return matches, cands, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	s *Session,
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, isCallable(s, match.Str))
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	// Add "()" suffix for callables (not applied to actual completion)
	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isCallable reports whether name is a declared function, a variable bound
// to a function literal, or a class.
func isCallable(s *Session, name string) bool {
	d, ok := s.Lookup(name)
	if !ok {
		return false
	}

	return d.Kind == "fun" || d.Kind == "class" || d.Params != nil
}

// formatDeclaration renders one line of the list command.
func formatDeclaration(d Declaration) string {
	var sb strings.Builder

	sb.WriteString(d.Name)

	if d.Params != nil {
		sb.WriteString("(" + strings.Join(d.Params, ", ") + ")")
	}

	preview := d.Kind
	if len(d.Members) > 0 {
		preview = fmt.Sprintf("%s { %s }", d.Kind, strings.Join(d.Members, ", "))
	}

	return fmt.Sprintf("  %s %s", sb.String(), hintStyle.Render(preview))
}
