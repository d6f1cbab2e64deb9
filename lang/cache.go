package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
)

// Cache compiles each distinct source once with a fixed set of options.
// It is safe for concurrent use.
//
// Diagnostics are reported only by the compile that populates an entry.
type Cache struct {
	cfg     config
	group   singleflight.Group
	entries sync.Map // key -> *entry
	size    atomic.Int64
}

type entry struct {
	prog *Program
	err  error
}

// NewCache returns an empty cache that compiles with opts.
func NewCache(opts ...Option) *Cache {
	return &Cache{cfg: makeConfig(opts...)}
}

// Compile returns the cached program for source, compiling it on first
// use. Compiles interrupted by ctx are not cached.
func (c *Cache) Compile(ctx context.Context, source string) (*Program, error) {
	key := sourceKey(source)

	value, hit := c.entries.Load(key)

	c.cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", key),
		slog.Int("source_bytes", len(source)),
		slog.Bool("cache_hit", hit),
	)

	if hit {
		e := value.(*entry) //nolint:forcetypeassert

		return e.prog, e.err
	}

	for {
		value, _, _ = c.group.Do(key, func() (any, error) {
			if v, ok := c.entries.Load(key); ok {
				return v, nil
			}

			prog, err := c.cfg.compile(ctx, source)
			e := &entry{prog: prog, err: err}

			if !interrupted(err) {
				if _, loaded := c.entries.LoadOrStore(key, e); !loaded {
					c.size.Add(1)
				}
			}

			return e, nil
		})

		e := value.(*entry) //nolint:forcetypeassert

		// A shared compile interrupted by another caller's context is retried
		// under this caller's own.
		if !interrupted(e.err) || ctx.Err() != nil {
			return e.prog, e.err
		}
	}
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// CompileReader reads all of r and compiles it through the cache.
func (c *Cache) CompileReader(ctx context.Context, r io.Reader) (*Program, error) {
	source, err := read(r)
	if err != nil {
		return nil, err
	}

	return c.Compile(ctx, source)
}

// Len returns the number of cached sources.
func (c *Cache) Len() int { return int(c.size.Load()) }

// Clear removes every cached program.
func (c *Cache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		if _, ok := c.entries.LoadAndDelete(key); ok {
			c.size.Add(-1)
		}

		return true
	})
}

// sourceKey is the 128-bit xxh3 hash of source in hex.
func sourceKey(source string) string {
	h := xxh3.HashString128(source)

	return strconv.FormatUint(h.Hi, 16) + ":" + strconv.FormatUint(h.Lo, 16)
}
