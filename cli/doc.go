// Package cli contains the command line interface for quill.
//
// # Usage
//
//	quill [flags] <command> [files...]
//
// Commands:
//
//   - tokens: print the token stream of each source (text, json, yaml)
//   - ast: print the syntax tree of each source (sexpr, json, yaml)
//   - check: lex, parse and resolve each source, reporting diagnostics
//   - watch: re-run check whenever a source file changes
//   - repl: start an interactive session
//   - init: write the current flag values to the configuration file
//
// Sources are read from the named files, or from stdin when no file or "-"
// is given. check is the default command.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, for example ~/.config/quill/config.yaml. Keys are flag names:
//
//	log-level: debug
//	modules: /etc/quill/modules.yaml
//
// Command-line flags override config file values.
//
// # Modules
//
// The --modules flag names a YAML manifest listing the modules an import
// statement may name. The default manifest, modules.yaml in the
// configuration directory, is optional. --lang-version selects the language
// version checked against each module's version requirement.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logs are written to stderr. Command output and diagnostics go to stdout.
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/quill/pprof)
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o quill .
package cli
