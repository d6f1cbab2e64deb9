// Package log is a thin layer over [log/slog] adding a trace level,
// functional options and a colorized text handler.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
//	logger.Trace("lex complete", slog.Int("tokens", 42))
//
// Every level has a context-aware method (TraceContext, DebugContext, ...)
// and a plain one that takes its context from [DefaultContextProvider].
// [Logger.With] returns a logger that adds attributes to every record.
//
// # Levels
//
// From lowest to highest: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Records below the configured level are
// dropped. The compilation pipeline reports each stage at [LevelTrace].
//
// # Formats
//
// [FormatText] (default) and [FormatJSON]. Text output is colorized with
// lipgloss unless [WithPretty] disables it; colors are only emitted when the
// output is a capable terminal.
//
// # Default Logger
//
// The package-level functions such as [Info] and [Trace] write through a
// default logger on stderr. [Config] reconfigures it and [SetDefault]
// replaces it. Both are safe for concurrent use.
package log
