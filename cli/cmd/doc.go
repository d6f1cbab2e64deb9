// Package cmd provides the quill subcommands: tokens, ast, check, watch and
// init. The interactive session lives in package repl.
//
// Commands read their sources from the named files, or from stdin when a
// file is "-" or none is given. Diagnostics are rendered with the offending
// source line and a caret under the reported column.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// ModulesIdentifier is the kong variable identifier containing the path
	// to the default module manifest.
	ModulesIdentifier = "modules"
)
