// Package id generates ULID identifiers for review records.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces lexicographically sortable ULID strings. Safe for
// concurrent use; IDs generated within the same millisecond stay strictly
// increasing.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Option is a functional option for Generator.
type Option func(*Generator)

// WithReader sets a custom entropy source. Useful for deterministic tests.
func WithReader(r io.Reader) Option {
	return func(g *Generator) {
		g.entropy = ulid.Monotonic(r, 0)
	}
}

// WithClock sets a custom time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a new ULID generator backed by crypto/rand.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate creates a new ULID string.
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	v, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		// Monotonic entropy only fails on overflow within one
		// millisecond; fall back to a fresh timestamp.
		return ulid.Make().String()
	}
	return v.String()
}

// IsValid checks whether s parses as a ULID.
func IsValid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
