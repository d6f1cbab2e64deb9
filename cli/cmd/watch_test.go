package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q in:\n%s", want, out.String())
		}

		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatch_Run(t *testing.T) {
	var out syncBuffer

	ktx := &kong.Context{Kong: &kong.Kong{Stdout: &out, Stderr: &out}}
	ctx, cancel := context.WithCancel(WithContext(t.Context(), ktx))

	files := writeFiles(t, "a.q", validSource)
	done := make(chan error, 1)

	go func() {
		done <- (&Watch{Debounce: 10 * time.Millisecond, Files: files}).Run(ctx)
	}()

	waitFor(t, &out, "ok")

	if err := os.WriteFile(files[0], []byte(resolveSource), 0o600); err != nil {
		t.Fatal(err)
	}

	waitFor(t, &out, "Can't return from top-level code.")

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWatch_Stdin(t *testing.T) {
	if _, err := (&Watch{Files: []string{stdinSource}}).paths(); err == nil {
		t.Error("paths() accepted stdin")
	}
}
