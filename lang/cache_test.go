package lang

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardnew/quill/lang/diag"
	"github.com/ardnew/quill/log"
)

func TestCache_Compile(t *testing.T) {
	c := NewCache()

	first, err := c.Compile(t.Context(), "var a = 1;")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	second, err := c.Compile(t.Context(), "var a = 1;")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if first != second {
		t.Error("identical sources compiled twice")
	}

	other, err := c.Compile(t.Context(), "var a = 2;")
	if err != nil {
		t.Fatal(err)
	}

	if other == first {
		t.Error("distinct sources share a program")
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d", c.Len())
	}

	again, err := c.Compile(t.Context(), "var a = 1;")
	if err != nil {
		t.Fatal(err)
	}

	if again == first {
		t.Error("Clear() kept a program")
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache()
	src := strings.Repeat("{ var x = 1; x = x + 1; }\n", 64)

	const n = 16

	progs := make([]*Program, n)

	var wg sync.WaitGroup

	for i := range n {
		wg.Go(func() {
			p, err := c.Compile(t.Context(), src)
			if err != nil {
				t.Error(err)
			}

			progs[i] = p
		})
	}

	wg.Wait()

	for i, p := range progs {
		if p != progs[0] {
			t.Errorf("progs[%d] differs from progs[0]", i)
		}
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_Errors(t *testing.T) {
	var reports diag.Collector

	c := NewCache(WithReporter(&reports))

	for range 3 {
		if _, err := c.Compile(t.Context(), "return;"); !errors.Is(err, diag.ReturnFromTopLevel) {
			t.Fatalf("Compile() error = %v", err)
		}
	}

	if reports.Len() != 1 {
		t.Errorf("reported %d diagnostics, want 1", reports.Len())
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := c.Compile(ctx, "var b = 1;"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Compile() error = %v", err)
	}

	if _, err := c.Compile(t.Context(), "var b = 1;"); err != nil {
		t.Errorf("cancelled compile was cached: %v", err)
	}
}

func TestCache_CompileReader(t *testing.T) {
	c := NewCache()

	a, err := c.CompileReader(t.Context(), strings.NewReader("val v = 1;"))
	if err != nil {
		t.Fatal(err)
	}

	b, err := c.Compile(t.Context(), "val v = 1;")
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("reader and string sources cached separately")
	}
}

func TestCache_Logger(t *testing.T) {
	var buf bytes.Buffer

	c := NewCache(WithLogger(log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)))

	for range 2 {
		if _, err := c.Compile(t.Context(), "1;"); err != nil {
			t.Fatal(err)
		}
	}

	out := buf.String()
	if strings.Count(out, "cache lookup") != 2 {
		t.Errorf("want 2 cache lookups:\n%s", out)
	}

	if strings.Count(out, "lex complete") != 1 {
		t.Errorf("want 1 compile:\n%s", out)
	}
}

func TestSourceKey(t *testing.T) {
	if sourceKey("a") == sourceKey("b") {
		t.Error("distinct sources share a key")
	}

	if sourceKey("a") != sourceKey("a") {
		t.Error("sourceKey is not deterministic")
	}
}

// gateHandler holds the first "lex complete" record until release is
// closed, and signals lookups for every "cache lookup" record.
type gateHandler struct {
	once    *sync.Once
	entered chan struct{}
	release chan struct{}
	lookups chan struct{}
}

func (gateHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h gateHandler) Handle(_ context.Context, r slog.Record) error {
	switch r.Message {
	case "cache lookup":
		h.lookups <- struct{}{}

	case "lex complete":
		h.once.Do(func() {
			close(h.entered)
			<-h.release
		})
	}

	return nil
}

func (h gateHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h gateHandler) WithGroup(string) slog.Handler { return h }

func TestCache_SharedCompileCancelled(t *testing.T) {
	h := gateHandler{
		once:    new(sync.Once),
		entered: make(chan struct{}),
		release: make(chan struct{}),
		lookups: make(chan struct{}, 4),
	}

	c := NewCache(WithLogger(log.Logger{Logger: slog.New(h)}))

	const src = "var a = 1;"

	type result struct {
		prog *Program
		err  error
	}

	first, second := make(chan result, 1), make(chan result, 1)
	ctx, cancel := context.WithCancel(t.Context())

	go func() {
		p, err := c.Compile(ctx, src)
		first <- result{p, err}
	}()

	<-h.lookups
	<-h.entered

	go func() {
		p, err := c.Compile(t.Context(), src)
		second <- result{p, err}
	}()

	<-h.lookups
	// Give the second caller time to join the compile in flight.
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(h.release)

	if r := <-first; !errors.Is(r.err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want %v", r.err, context.Canceled)
	}

	r := <-second
	if r.err != nil || r.prog == nil {
		t.Fatalf("live caller = %v, %v", r.prog, r.err)
	}

	if len(r.prog.Statements) != 1 {
		t.Errorf("statements = %d, want 1", len(r.prog.Statements))
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
