// Package clock provides the time source consumed by the generator
// package, along with test doubles for driving it through adversarial
// scenarios (stalls, regressions, oscillations, forward jumps) without
// touching the system clock.
package clock

import "time"

// Clock supplies the nanosecond timestamp the generator stamps onto each
// minted identifier. Implementations are not required to be monotonic: the
// generator's increment-on-skew protocol tolerates stalls, regressions, and
// jumps from whatever Clock it is given.
type Clock interface {
	// NowNanos returns the current time as nanoseconds since the Unix
	// epoch.
	NowNanos() (uint64, error)
}

// Func adapts a plain function to the Clock interface, mirroring the
// standard library's http.HandlerFunc idiom.
type Func func() (uint64, error)

// NowNanos calls f.
func (f Func) NowNanos() (uint64, error) { return f() }

type system struct{}

func (system) NowNanos() (uint64, error) {
	return uint64(time.Now().UnixNano()), nil
}

// System returns a Clock backed by the system's wall clock (time.Now).
// Values are truncated, not rounded, to nanoseconds.
func System() Clock { return system{} }

// Frozen returns a Clock that always reports the given time, useful for
// testing the generator's behavior under a stalled clock.
func Frozen(t time.Time) Clock {
	return Func(func() (uint64, error) {
		return uint64(t.UnixNano()), nil
	})
}

// sequence cycles through a fixed list of times, repeating the last one
// once exhausted, so a test can script an exact series of clock readings
// (a regression, an oscillation, a forward jump) across successive calls.
type sequence struct {
	times []time.Time
	i     int
}

// Sequence returns a Clock that returns each of the given times in order on
// successive calls to NowNanos, then repeats the final time indefinitely.
// Passing zero times is equivalent to Frozen(time.Time{}).
func Sequence(times ...time.Time) Clock {
	if len(times) == 0 {
		times = []time.Time{{}}
	}
	return &sequence{times: times}
}

func (s *sequence) NowNanos() (uint64, error) {
	t := s.times[s.i]
	if s.i < len(s.times)-1 {
		s.i++
	}
	return uint64(t.UnixNano()), nil
}

// Erroring returns a Clock whose NowNanos always fails with err, used to
// exercise the generator's SystemTimeError path.
func Erroring(err error) Clock {
	return Func(func() (uint64, error) { return 0, err })
}
