package log

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type prettyStyles struct {
	time, key, source, msg lipgloss.Style
	level                  map[Level]lipgloss.Style
}

func makePrettyStyles(r *lipgloss.Renderer) prettyStyles {
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return prettyStyles{
		time:   fg("8"),
		key:    fg("6"),
		source: fg("8").Italic(true),
		msg:    r.NewStyle().Bold(true),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("5"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3"),
			LevelError: fg("1").Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest named level at or below l.
func (s prettyStyles) levelStyle(l Level) lipgloss.Style {
	for _, named := range slices.Backward(levels) {
		if l >= named {
			return s.level[named]
		}
	}

	return s.level[LevelTrace]
}

// prettyHandler writes one colorized line per record:
//
//	TIME LEVEL source:line message key=value ...
//
// Colors are only emitted when the output is a terminal that supports them.
type prettyHandler struct {
	config

	mu     *sync.Mutex
	styles prettyStyles
	attrs  string
	group  string
}

func newPrettyHandler(c config) *prettyHandler {
	return &prettyHandler{
		config: c,
		mu:     new(sync.Mutex),
		styles: makePrettyStyles(lipgloss.NewRenderer(c.output)),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return Level(level) >= h.level
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			sb.WriteString(h.styles.time.Render(ts))
			sb.WriteByte(' ')
		}
	}

	level := Level(r.Level)
	sb.WriteString(h.styles.levelStyle(level).Render(
		fmt.Sprintf("%-5s", strings.ToUpper(level.String())),
	))

	if h.caller {
		if src := r.Source(); src != nil && src.File != "" {
			sb.WriteByte(' ')
			sb.WriteString(h.styles.source.Render(
				src.File + ":" + strconv.Itoa(src.Line),
			))
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(h.styles.msg.Render(r.Message))
	sb.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, h.group, a)

		return true
	})

	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.output.Write([]byte(sb.String()))

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder

	for _, a := range attrs {
		h.appendAttr(&sb, h.group, a)
	}

	c := *h
	c.attrs += sb.String()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = qualify(h.group, name)

	return &c
}

// appendAttr writes " key=value" to sb. Group values are flattened with
// dotted keys.
func (h *prettyHandler) appendAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(sb, qualify(group, a.Key), ga)
		}

		return
	}

	sb.WriteByte(' ')
	sb.WriteString(h.styles.key.Render(qualify(group, a.Key) + "="))
	sb.WriteString(formatValue(a.Value))
}

func qualify(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	}

	return group + "." + key
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}

		return s

	case slog.KindDuration:
		return v.Duration().String()

	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return strconv.Quote(err.Error())
		}
	}

	return v.String()
}
