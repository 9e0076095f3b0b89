// Package node defines the 16-bit node discriminator that a generator may
// be configured with to guarantee pairwise-disjoint output across
// cooperating generators.
package node

// ID is the node discriminator consumed by the generator package: either
// absent (the generator's full 60-bit payload is random) or present,
// carrying a 16-bit value that occupies the payload's upper bits. Presence
// is a compile-time-like property of a generator instance: it is fixed at
// construction and never changes over the generator's lifetime, because it
// determines the payload's bit layout.
type ID struct {
	value   uint16
	present bool
}

// None returns the absent node ID: a generator configured with it assembles
// its payload entirely from random bits.
func None() ID { return ID{} }

// New returns a present node ID carrying the given 16-bit value.
func New(n uint16) ID { return ID{value: n, present: true} }

// Present reports whether this ID carries a discriminator.
func (n ID) Present() bool { return n.present }

// Value returns the 16-bit discriminator and true if present, or (0, false)
// if absent.
func (n ID) Value() (uint16, bool) {
	if !n.present {
		return 0, false
	}
	return n.value, true
}
