// Package rng provides the random source consumed by the generator
// package, along with deterministic test doubles.
package rng

import "crypto/rand"

// Source supplies the random 64-bit word the generator folds into each
// minted identifier's payload. The default CSPRNG-backed implementation is
// infallible in practice; callers who want a reproducible or adversarial
// source provide their own.
type Source interface {
	// Uint64 returns a random 64-bit word.
	Uint64() (uint64, error)
}

// Func adapts a plain function to the Source interface.
type Func func() (uint64, error)

// Uint64 calls f.
func (f Func) Uint64() (uint64, error) { return f() }

type csprng struct{}

func (csprng) Uint64() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range buf {
		v = (v << 8) | uint64(b)
	}
	return v, nil
}

// CSPRNG returns a Source backed by crypto/rand.
func CSPRNG() Source { return csprng{} }

// Constant returns a Source that always returns v, useful for testing the
// generator's increment-on-skew branch in isolation from randomness.
func Constant(v uint64) Source {
	return Func(func() (uint64, error) { return v, nil })
}

// sequence cycles through a fixed list of words, repeating the last one
// once exhausted.
type sequence struct {
	words []uint64
	i     int
}

// Sequence returns a Source that returns each of the given words in order
// on successive calls to Uint64, then repeats the final word indefinitely.
func Sequence(words ...uint64) Source {
	if len(words) == 0 {
		words = []uint64{0}
	}
	return &sequence{words: words}
}

func (s *sequence) Uint64() (uint64, error) {
	v := s.words[s.i]
	if s.i < len(s.words)-1 {
		s.i++
	}
	return v, nil
}

// Erroring returns a Source whose Uint64 always fails with err.
func Erroring(err error) Source {
	return Func(func() (uint64, error) { return 0, err })
}
