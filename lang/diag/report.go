package diag

import (
	"slices"
	"sync"
	"time"
)

// Reporter receives diagnostics. The lexer, parser and resolver report
// through a Reporter and never decide how errors are displayed.
type Reporter interface {
	Report(err *Error)
}

// ReporterFunc adapts a function to [Reporter].
type ReporterFunc func(err *Error)

// Report calls f(err).
func (f ReporterFunc) Report(err *Error) { f(err) }

// Discard is a [Reporter] that drops everything.
var Discard Reporter = ReporterFunc(func(*Error) {})

// Collector is a [Reporter] that accumulates diagnostics in report order.
// It is safe for concurrent use.
type Collector struct {
	errs List
	mu   sync.Mutex
}

// Report implements [Reporter].
func (c *Collector) Report(err *Error) {
	if err == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.errs = append(c.errs, err)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.errs)
}

// HasErrors reports whether anything was collected.
func (c *Collector) HasErrors() bool { return c.Len() > 0 }

// Errors returns a copy of the collected diagnostics.
func (c *Collector) Errors() List {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.errs)
}

// Err returns the collected diagnostics as a single error, or nil.
func (c *Collector) Err() error { return c.Errors().Err() }

// Reset discards all collected diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errs = nil
}

// Result records one run of the pipeline over a source.
type Result struct {
	Err        error
	Source     string
	Statements int
	Elapsed    time.Duration
}

// OK reports whether the run succeeded.
func (r Result) OK() bool { return r.Err == nil }

// ResultCollector receives the outcome of pipeline runs.
type ResultCollector interface {
	Collect(r Result)
}

// Results is a [ResultCollector] that keeps every result in collection
// order. It is safe for concurrent use.
type Results struct {
	list []Result
	mu   sync.Mutex
}

// Collect implements [ResultCollector].
func (rs *Results) Collect(r Result) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.list = append(rs.list, r)
}

// All returns a copy of the collected results.
func (rs *Results) All() []Result {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return slices.Clone(rs.list)
}

// Failed returns the results that carry an error.
func (rs *Results) Failed() []Result {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var failed []Result

	for _, r := range rs.list {
		if !r.OK() {
			failed = append(failed, r)
		}
	}

	return failed
}
