package attest_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/deep-rent/nulid/attest"
	"github.com/deep-rent/nulid/clock"
	"github.com/deep-rent/nulid/generator"
	"github.com/deep-rent/nulid/jose/jwa"
	"github.com/deep-rent/nulid/jose/jwk"
	"github.com/deep-rent/nulid/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID(t *testing.T) (pub ed25519.PublicKey, priv ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestSignAndVerifyWithKey(t *testing.T) {
	pub, priv := newID(t)

	g := generator.New(
		generator.WithClock(clock.Frozen(time.Unix(1_700_000_000, 0))),
		generator.WithRng(rng.Constant(7)),
	)
	v, err := g.Generate()
	require.NoError(t, err)

	sig, err := attest.Sign(v, priv, jwa.EdDSA)
	require.NoError(t, err)

	key := jwk.New(jwa.EdDSA, "node-1", []byte(pub))
	assert.NoError(t, attest.VerifyWithKey(v, sig, key))
}

func TestVerifyWithKeyRejectsTamperedSignature(t *testing.T) {
	pub, priv := newID(t)

	g := generator.New(generator.WithClock(clock.Frozen(time.Unix(1, 0))), generator.WithRng(rng.Constant(0)))
	v, err := g.Generate()
	require.NoError(t, err)

	sig, err := attest.Sign(v, priv, jwa.EdDSA)
	require.NoError(t, err)
	sig[0] ^= 0xFF

	key := jwk.New(jwa.EdDSA, "node-1", []byte(pub))
	assert.ErrorIs(t, attest.VerifyWithKey(v, sig, key), attest.ErrInvalidSignature)
}

func TestVerifyWithKeyRejectsNilKey(t *testing.T) {
	g := generator.New(generator.WithClock(clock.Frozen(time.Unix(1, 0))), generator.WithRng(rng.Constant(0)))
	v, err := g.Generate()
	require.NoError(t, err)

	assert.ErrorIs(t, attest.VerifyWithKey(v, []byte("sig"), nil), attest.ErrUnknownKey)
}

func TestVerifyResolvesHintFromSet(t *testing.T) {
	pub, priv := newID(t)

	g := generator.New(generator.WithClock(clock.Frozen(time.Unix(1, 0))), generator.WithRng(rng.Constant(1)))
	v, err := g.Generate()
	require.NoError(t, err)

	sig, err := attest.Sign(v, priv, jwa.EdDSA)
	require.NoError(t, err)

	key := jwk.New(jwa.EdDSA, "node-1", []byte(pub))
	set := jwk.NewSet(key)

	assert.NoError(t, attest.Verify(v, sig, key, set))
}

func TestVerifyReturnsErrUnknownKeyForUnmatchedHint(t *testing.T) {
	pub, priv := newID(t)
	_ = priv

	g := generator.New(generator.WithClock(clock.Frozen(time.Unix(1, 0))), generator.WithRng(rng.Constant(2)))
	v, err := g.Generate()
	require.NoError(t, err)

	known := jwk.New(jwa.EdDSA, "node-1", []byte(pub))
	set := jwk.NewSet(known)

	unknownHint := jwk.New(jwa.EdDSA, "node-2", []byte(pub))
	assert.ErrorIs(t, attest.Verify(v, []byte("sig"), unknownHint, set), attest.ErrUnknownKey)
}
