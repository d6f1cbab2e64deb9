package log

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelWarn

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the lowercase level name, or the [slog.Level] form with an
// offset for levels between the named ones.
func (l Level) String() string {
	if l == LevelTrace {
		return "trace"
	}

	return strings.ToLower(slog.Level(l).String())
}

// Levels returns an iterator over the names of all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range levels {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively. Besides "trace" it
// accepts anything [slog.Level.UnmarshalText] does, such as "info+2".
// Unrecognized names yield [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

var formatNames = []string{FormatText: "text", FormatJSON: "json"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return "unknown"
}

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] { return slices.Values(formatNames) }

// ParseFormat parses a format name. Unrecognized names yield
// [DefaultFormat].
func ParseFormat(s string) Format {
	i := slices.Index(formatNames, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return DefaultFormat
	}

	return Format(i)
}

// FormatTime formats a record timestamp. An empty result omits the time.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is the default setting for including caller information
// in log output.
const DefaultCaller = false

// DefaultPretty is the default setting for colorized text output.
const DefaultPretty = true

// config holds the configuration of a [Logger]. A config is never modified
// once a Logger holds it; options apply to a copy.
type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// Option modifies a logger configuration.
type Option func(*config)

func makeConfig(w io.Writer, opts ...Option) config {
	c := config{
		formatTime: makeFormatTimeFunc(DefaultTimeLayout),
		level:      DefaultLevel,
		format:     DefaultFormat,
		caller:     DefaultCaller,
		pretty:     DefaultPretty,
	}

	WithOutput(w)(&c)

	return c.with(opts...)
}

// with returns a copy of c with opts applied.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// handler creates the [slog.Handler] described by c. Pretty printing only
// applies to [FormatText].
func (c config) handler() slog.Handler {
	if c.format == FormatText && c.pretty {
		return newPrettyHandler(c)
	}

	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch c.format {
	case FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case FormatText:
		return slog.NewTextHandler(c.output, opts)
	default:
		return slog.DiscardHandler
	}
}

// replaceAttr applies the configured time layout and prints levels by
// [Level] name, so that trace is "TRACE" rather than "DEBUG-4".
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			s := c.formatTime(t)
			if s == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(s)
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// WithDefaults returns an option that restores every default and writes to
// w.
func WithDefaults(w io.Writer) Option {
	return func(c *config) { *c = makeConfig(w) }
}

// WithOutput returns an option that sets the output writer. A nil writer
// discards output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel returns an option that sets the minimum log level.
// Messages below this level are discarded.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat returns an option that sets the output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout returns an option that sets the layout used to format log
// timestamps.
//
// The layout can be a named layout from the [time] package matched without
// regard to case or punctuation (for example "RFC3339" or "rfc-3339-nano"),
// one of the aliases "ms", "us" and "ns", or a custom layout passed verbatim
// to [time.Time.Format]. An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.formatTime = makeFormatTimeFunc(layout) }
}

// WithCaller returns an option that controls whether the source position of
// the logging call is included.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty returns an option that controls colorized text output.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

var timeLayout = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
	"none":        "",
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.Map(
		func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}

			return -1
		},
		strings.ToLower(layout),
	)

	if std, ok := timeLayout[key]; ok {
		layout = std
	} else if key == "" {
		layout = ""
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
