package base32_test

import (
	"testing"

	"github.com/deep-rent/nulid/base32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][16]byte{
		{},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF, 0xFE, 0xDC, 0xBA, 0x98, 0x76, 0x54, 0x32, 0x10},
	}
	for _, v := range cases {
		var dst [26]byte
		s := base32.Encode(v, &dst)
		assert.Len(t, s, base32.EncodedLen)

		decoded, err := base32.Decode(s)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)

		// Decoding is case-insensitive.
		lower, err := base32.Decode(toLower(s))
		require.NoError(t, err)
		assert.Equal(t, v, lower)
	}
}

func TestEncodeAllZero(t *testing.T) {
	var dst [26]byte
	s := base32.Encode([16]byte{}, &dst)
	assert.Equal(t, "00000000000000000000000000", s)
}

func TestOrderPreservation(t *testing.T) {
	pairs := [][2][16]byte{
		{{0}, {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}},
		{{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0}, {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0}},
		{{1}, {2}},
	}
	for _, p := range pairs {
		var da, db [26]byte
		a := base32.Encode(p[0], &da)
		b := base32.Encode(p[1], &db)
		assert.Less(t, a, b, "encode(%v) should sort before encode(%v)", p[0], p[1])
	}
}

func TestDecodeInvalidLength(t *testing.T) {
	_, err := base32.Decode("123")
	require.Error(t, err)
	var e base32.ErrInvalidLength
	require.ErrorAs(t, err, &e)
	assert.Equal(t, base32.EncodedLen, e.Expected)
	assert.Equal(t, 3, e.Found)
}

func TestDecodeInvalidCharacter(t *testing.T) {
	for _, c := range []byte{'I', 'i', 'L', 'l', 'O', 'o', 'U', 'u'} {
		s := "0000000000000000000000000" + string(c)
		_, err := base32.Decode(s)
		require.Error(t, err, "character %q should be rejected", c)
		var e base32.ErrInvalidCharacter
		require.ErrorAs(t, err, &e)
		assert.Equal(t, c, e.Char)
		assert.Equal(t, 25, e.Position)
	}
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
