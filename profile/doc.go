// Package profile provides optional runtime profiling for quill.
//
// Profiling is backed by [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag. Without the tag every operation is a no-op
// and [Modes] is empty.
//
// # Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the mode, for
// example cpu.pprof. From the command line:
//
//	go build -tags pprof -o quill .
//	./quill --pprof-mode=cpu check ./scripts/*.q
//	go tool pprof ./quill ~/.cache/quill/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
