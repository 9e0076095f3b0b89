// Package generator implements the monotonic minting protocol: the strategy
// that turns a clock and an RNG into a strictly increasing sequence of
// identifiers even when the clock stalls, regresses, oscillates, or jumps.
//
// This is grounded in the same increment-on-skew shape as a 48+12-bit
// monotonic UUIDv7 scalar counter: pack a candidate from the clock and RNG,
// compare it against the last emission, and fall back to last+1 whenever
// the candidate does not strictly exceed it. Here the scalar is the full
// 128-bit id.Id, and the generator is an instantiable, collaborator
// -injected type rather than a package-level singleton.
package generator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deep-rent/nulid/clock"
	"github.com/deep-rent/nulid/id"
	"github.com/deep-rent/nulid/node"
	"github.com/deep-rent/nulid/rng"
)

// nodePayloadBits is the width of the random field left in the payload once
// a 16-bit node ID is configured (60 - 16).
const nodePayloadBits = 44

const nodePayloadMask = 1<<nodePayloadBits - 1

// ErrSystemTime wraps a failure reading the configured Clock.
type ErrSystemTime struct{ Cause error }

func (e ErrSystemTime) Error() string { return "generator: system time: " + e.Cause.Error() }
func (e ErrSystemTime) Unwrap() error { return e.Cause }

// ErrOverflow wraps id.ErrOverflow, surfaced when the last-emitted
// identifier is already id.Max and cannot be incremented.
var ErrOverflow = fmt.Errorf("generator: %w", id.ErrOverflow)

// ErrMutexPoisoned indicates the generator's internal state was left in an
// indeterminate condition after a worker panicked mid-critical-section.
// Every subsequent call to Generate or Reset fails with this error; there
// is no recovery short of constructing a new Generator.
var ErrMutexPoisoned = errors.New("generator: state lock poisoned by a prior panic")

// Option configures a Generator constructed via New.
type Option func(*Generator)

// WithClock overrides the generator's time source. The default is
// clock.System().
func WithClock(c clock.Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithRng overrides the generator's random source. The default is
// rng.CSPRNG().
func WithRng(r rng.Source) Option {
	return func(g *Generator) { g.rng = r }
}

// WithNodeID configures a node discriminator. Absent a call to WithNodeID,
// the generator's full 60-bit payload is random; with it, the upper 16 bits
// of every emitted payload equal n and the remaining 44 bits are random.
func WithNodeID(n uint16) Option {
	return func(g *Generator) { g.node = node.New(n) }
}

// Generator is a stateful minter of strictly monotonic identifiers. The
// zero value is not usable; construct one with New.
type Generator struct {
	clock clock.Clock
	rng   rng.Source
	node  node.ID

	mu       sync.Mutex
	last     id.Id
	hasLast  bool
	poisoned bool
}

// New constructs a Generator. Without options it defaults to the system
// clock, a CSPRNG, and no node discriminator.
func New(opts ...Option) *Generator {
	g := &Generator{
		clock: clock.System(),
		rng:   rng.CSPRNG(),
		node:  node.None(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate mints one identifier strictly greater than every identifier this
// Generator has previously emitted. The entire read-compare-emit-store
// sequence runs under the generator's single state lock; the lock is
// poisoned if a panic escapes it, so that a half-updated state can never be
// observed by a later call.
func (g *Generator) Generate() (result id.Id, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			panic(r)
		}
	}()

	if g.poisoned {
		return id.Nil, ErrMutexPoisoned
	}

	nanos, err := g.clock.NowNanos()
	if err != nil {
		return id.Nil, ErrSystemTime{Cause: err}
	}

	word, err := g.rng.Uint64()
	if err != nil {
		return id.Nil, err
	}

	payload := g.assemble(word)
	candidate := id.FromTimeAndPayload(nanos, payload)

	var emitted id.Id
	if !g.hasLast || id.Compare(candidate, g.last) > 0 {
		emitted = candidate
	} else {
		emitted, err = g.last.Increment()
		if err != nil {
			return id.Nil, ErrOverflow
		}
	}

	g.last = emitted
	g.hasLast = true
	return emitted, nil
}

// assemble folds a 64-bit random word into a 60-bit payload, reserving the
// upper 16 bits for the node ID when one is configured.
func (g *Generator) assemble(word uint64) uint64 {
	if n, ok := g.node.Value(); ok {
		return (uint64(n) << nodePayloadBits) | (word & nodePayloadMask)
	}
	return word & (1<<60 - 1)
}

// Last returns the most recently emitted identifier, or (id.Nil, false) if
// Generate has never succeeded (or the generator was Reset since).
func (g *Generator) Last() (id.Id, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last, g.hasLast
}

// Reset clears the last-emitted cell. Intended for test scenarios only:
// identifiers emitted after a Reset may compare less than ones emitted
// before it. It returns ErrMutexPoisoned if the generator's lock was
// already poisoned by a prior panic.
func (g *Generator) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned {
		return ErrMutexPoisoned
	}
	g.last = id.Nil
	g.hasLast = false
	return nil
}

// NodeID returns the generator's configured discriminator, if any.
func (g *Generator) NodeID() (uint16, bool) {
	return g.node.Value()
}

// DriftAhead reports how far the generator's last-emitted time prefix has
// run ahead of a fresh clock reading, and whether that distance exceeds
// bound. It never blocks or errors the critical section: this is a
// report-only check meant to be polled periodically (e.g. from a
// scheduler.Tick) so an operator can notice a same-tick burst running the
// increment-on-skew branch far ahead of wall-clock time, per the open
// question in the generator's own design about bounding that drift.
func (g *Generator) DriftAhead(now clock.Clock, bound time.Duration) (time.Duration, bool) {
	last, ok := g.Last()
	if !ok {
		return 0, false
	}
	nanos, err := now.NowNanos()
	if err != nil {
		return 0, false
	}
	lastNanos := last.TimePrefix()
	if nanos >= lastNanos {
		return 0, false
	}
	drift := time.Duration(lastNanos-nanos) * time.Nanosecond
	return drift, drift > bound
}
