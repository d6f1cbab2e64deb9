package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger wraps [slog.Logger] with the trace level and the configuration it
// was made from. The zero Logger discards everything.
type Logger struct {
	*slog.Logger

	config
}

// Make returns a Logger writing to w.
func Make(w io.Writer, opts ...Option) Logger {
	return makeLogger(makeConfig(w, opts...))
}

func makeLogger(c config) Logger {
	return Logger{Logger: slog.New(c.handler()), config: c}
}

// Wrap returns a new Logger with opts applied on top of the configuration of
// l. Attributes added with [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	c := l.config
	if c.output == nil {
		c = makeConfig(nil)
	}

	return makeLogger(c.with(opts...))
}

// With returns a Logger that includes attrs in every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil || len(attrs) == 0 {
		return l
	}

	l.Logger = slog.New(l.Handler().WithAttrs(attrs))

	return l
}

// Level returns the minimum level logged by l.
func (l Logger) Level() Level { return l.level }

// Format returns the output format of l.
func (l Logger) Format() Format { return l.format }

// Enabled reports whether l logs records at level.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.Logger != nil && l.Logger.Enabled(ctx, slog.Level(level))
}

// log emits a record. Every exported logging function calls it directly, so
// the caller of interest is always three frames up.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	if l.caller {
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)
	r.AddAttrs(attrs...)

	_ = l.Handler().Handle(ctx, r)
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// Trace logs at [LevelTrace] with the context from [DefaultContextProvider].
// The same holds for Debug, Info, Warn and Error at their levels.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelError, msg, attrs)
}
