// Package module is the registry of modules that quill programs may import.
//
// A registry is built from a YAML manifest:
//
//	paths:
//	  - lib
//	modules:
//	  - name: math
//	    description: numeric helpers
//	  - name: strings
//	    path: strings.ql
//	    requires: ">= 0.1.0"
//	    when: os != "windows"
//
// Each entry becomes available when all of the following hold:
//
//   - requires, if set, is a semantic version constraint satisfied by the
//     language version given with [WithLangVersion];
//   - when, if set, is an expr-lang predicate that evaluates to true in the
//     environment described by [WithEnv];
//   - path, if set, names a file found in one of the search directories.
//
// Search directories are the manifest's paths (relative to the manifest),
// those given with [WithSearchPath], and the entries of the QUILL_PATH
// environment variable, in that order.
//
// A [Registry] is read-only once built and safe for concurrent use. It
// implements the module half of the resolver's interpreter state through
// [Registry.HasModule], and proposes near matches for unknown names through
// [Registry.Suggest].
package module
