// Package resolver binds variable references to lexical scope distances and
// enforces the static rules of the language.
//
// Resolution is one depth-first pass over the tree. Each block, function
// body, loop header, switch branch and class body opens a scope frame; for
// every reference found in a frame the resolver reports the number of frames
// between the reference and its declaration to [State.Resolve]. Names found
// in no frame are globals and are not reported.
//
// A class with a superclass opens a frame binding "super" around the frame
// binding "this", and every method body nests inside both. An array
// comprehension opens a frame for its loop variable and a nested frame for
// its yield, condition and otherwise expressions; the iterable is resolved
// outside both.
//
// The pass stops at the first violation and returns it as a [*diag.Error] in
// phase RESOLVING.
package resolver
