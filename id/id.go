// Package id defines the 128-bit identifier value minted by the generator
// package.
//
// An Id is a single 128-bit unsigned number treated as one token for
// ordering and equality, split into a time prefix (the high 68 bits,
// nanoseconds since the Unix epoch) and a payload (the low 60 bits, either
// fully random or a 16-bit node discriminator followed by 44 random bits).
// Keeping the value as one word rather than a struct of two fields means
// ordering and increment are native integer operations, not a composite
// comparator that could disagree with the textual or byte form.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/deep-rent/nulid/base32"
)

// payloadBits is the width of the payload field; the remaining 68 bits of
// the 128-bit value hold the time prefix.
const payloadBits = 60

// payloadMask isolates the low 60 bits of a uint64 payload word.
const payloadMask = 1<<payloadBits - 1

// Id is an immutable 128-bit value, stored as a big-endian byte array so
// that byte-wise comparison agrees with numeric comparison. The zero value
// is Nil, the distinguished all-zero identifier.
type Id [16]byte

// Nil is the distinguished all-zero identifier.
var Nil Id

// Min is the smallest possible Id, equal to Nil.
var Min Id

// Max is the largest possible Id, every bit set.
var Max = Id{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

// ErrOverflow is returned by Increment when the identifier is already Max.
var ErrOverflow = errorString("id: cannot increment max value")

// ErrInvalidLength is returned by FromSlice when the input is not 16 bytes.
type ErrInvalidLength struct {
	Expected, Found int
}

func (e ErrInvalidLength) Error() string {
	return "id: invalid length: expected " + itoa(e.Expected) +
		" bytes, found " + itoa(e.Found)
}

// errorString is a trivial error implementation for sentinel values that
// carry no additional context, mirroring the standard library's errors.New
// without pulling in the errors package for a single allocation-free value.
type errorString string

func (e errorString) Error() string { return string(e) }

// New samples the system clock for a time prefix and a CSPRNG for a 60-bit
// payload, and assembles them into an Id. It fails only if the system
// entropy source cannot be read, which in practice does not happen on any
// supported platform.
func New() (Id, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Nil, err
	}
	payload := binary.BigEndian.Uint64(buf[:]) & payloadMask
	return FromTimeAndPayload(uint64(time.Now().UnixNano()), payload), nil
}

// FromTimeAndPayload assembles an Id from a nanosecond time prefix and a
// payload word. Both inputs are total: nanos and payload are silently
// masked to their respective field widths (64 of the nominal 68 bits for
// the time prefix, given Go has no native 68-bit integer type — see
// FromParts for the exact bit layout; 60 bits for the payload).
func FromTimeAndPayload(nanos uint64, payload uint64) Id {
	return FromParts(nanos>>4, (nanos<<60)|(payload&payloadMask))
}

// FromParts assembles an Id from the high and low 64-bit halves of its
// big-endian 128-bit representation. Together with its inverse Parts, this
// is the primitive that FromTimeAndPayload, TimePrefix, Payload, Increment,
// and Compare are built on top of.
func FromParts(hi, lo uint64) Id {
	var v Id
	binary.BigEndian.PutUint64(v[0:8], hi)
	binary.BigEndian.PutUint64(v[8:16], lo)
	return v
}

// Parts returns the high and low 64-bit halves of the Id's big-endian
// 128-bit representation.
func (v Id) Parts() (hi, lo uint64) {
	return binary.BigEndian.Uint64(v[0:8]), binary.BigEndian.Uint64(v[8:16])
}

// FromBytes constructs an Id from its canonical big-endian 16-byte form.
// Big-endian is mandatory so that byte-wise lexicographic comparison agrees
// with numeric comparison.
func FromBytes(b [16]byte) Id {
	return Id(b)
}

// Bytes returns the canonical big-endian 16-byte representation of the Id.
func (v Id) Bytes() [16]byte {
	return [16]byte(v)
}

// FromSlice constructs an Id from a byte slice. It returns ErrInvalidLength
// if the slice is not exactly 16 bytes long.
func FromSlice(b []byte) (Id, error) {
	var v Id
	if len(b) != len(v) {
		return Nil, ErrInvalidLength{Expected: len(v), Found: len(b)}
	}
	copy(v[:], b)
	return v, nil
}

// TimePrefix returns the time prefix field: nanoseconds since the Unix
// epoch, truncated to the 64 bits Go's integer types can represent.
func (v Id) TimePrefix() uint64 {
	hi, lo := v.Parts()
	return (hi << 4) | (lo >> 60)
}

// Payload returns the 60-bit payload field.
func (v Id) Payload() uint64 {
	_, lo := v.Parts()
	return lo & payloadMask
}

// Micros returns the time prefix projected to microseconds.
func (v Id) Micros() uint64 { return v.TimePrefix() / 1_000 }

// Millis returns the time prefix projected to milliseconds.
func (v Id) Millis() uint64 { return v.TimePrefix() / 1_000_000 }

// Seconds returns the time prefix projected to whole seconds.
func (v Id) Seconds() uint64 { return v.TimePrefix() / 1_000_000_000 }

// SubsecNanos returns the nanoseconds within the time prefix's current
// second.
func (v Id) SubsecNanos() uint64 { return v.TimePrefix() % 1_000_000_000 }

// IsNil reports whether the Id is the all-zero nil value.
func (v Id) IsNil() bool { return v == Nil }

// Increment returns v+1 as an unsigned 128-bit value. It returns
// ErrOverflow if v is already Max.
func (v Id) Increment() (Id, error) {
	if v == Max {
		return v, ErrOverflow
	}
	hi, lo := v.Parts()
	lo++
	if lo == 0 {
		hi++
	}
	return FromParts(hi, lo), nil
}

// Compare returns -1, 0, or +1 depending on whether a is numerically less
// than, equal to, or greater than b. This agrees with byte-wise comparison
// of a.Bytes() and b.Bytes(), and with same-case comparison of a.String()
// and b.String().
func Compare(a, b Id) int {
	ahi, alo := a.Parts()
	bhi, blo := b.Parts()
	if ahi != bhi {
		if ahi < bhi {
			return -1
		}
		return 1
	}
	if alo != blo {
		if alo < blo {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether v is strictly less than other.
func (v Id) Less(other Id) bool { return Compare(v, other) < 0 }

// Encode writes the canonical 26-character Crockford Base32 encoding of v
// into dst and returns it as a string, without heap allocation.
func (v Id) Encode(dst *[26]byte) string {
	return base32.Encode(v.Bytes(), dst)
}

// String returns the canonical 26-character Crockford Base32 encoding of v.
func (v Id) String() string {
	var dst [26]byte
	return v.Encode(&dst)
}

// Parse decodes the canonical textual form of an Id. Decoding is
// case-insensitive; see the base32 package for the full error taxonomy.
func Parse(s string) (Id, error) {
	b, err := base32.Decode(s)
	if err != nil {
		return Nil, err
	}
	return FromBytes(b), nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
