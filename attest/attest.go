// Package attest signs and verifies the canonical bytes of an identifier so
// that a verifier can confirm which node minted it.
//
// This sits outside the core identifier engine and consumes only
// Id.Bytes(), exactly as an adapter is expected to: nothing about the
// internal representation of an Id is visible here, only its canonical
// 16-byte form. Signing itself is delegated to the jose/jwa algorithm
// abstraction, so any of its supported algorithms (RSA, ECDSA, EdDSA over
// Ed25519 or Ed448) can be used to attest a node's identifiers.
package attest

import (
	"crypto"
	"errors"

	"github.com/deep-rent/nulid/id"
	"github.com/deep-rent/nulid/jose/jwa"
	"github.com/deep-rent/nulid/jose/jwk"
)

// ErrUnknownKey indicates Verify was asked to check a signature against a
// key hint that does not resolve in the provided Set.
var ErrUnknownKey = errors.New("attest: no key found for the given hint")

// ErrInvalidSignature indicates the signature does not match the
// identifier's canonical bytes under the resolved key.
var ErrInvalidSignature = errors.New("attest: signature verification failed")

// Sign signs the canonical 16-byte form of v using alg and signer,
// producing a signature a verifier can later check with Verify or
// VerifyWithKey.
func Sign[T crypto.PublicKey](v id.Id, signer crypto.Signer, alg jwa.Algorithm[T]) ([]byte, error) {
	b := v.Bytes()
	return alg.Sign(signer, b[:])
}

// VerifyWithKey checks sig against the canonical bytes of v using key. It
// returns ErrInvalidSignature if the signature does not verify.
func VerifyWithKey(v id.Id, sig []byte, key jwk.Key) error {
	if key == nil {
		return ErrUnknownKey
	}
	b := v.Bytes()
	if !key.Verify(b[:], sig) {
		return ErrInvalidSignature
	}
	return nil
}

// Verify looks up a key in keys using hint (the algorithm and key id a
// verifier would typically carry alongside the signature) and checks sig
// against the canonical bytes of v under that key. It returns ErrUnknownKey
// if no key in the set matches the hint.
func Verify(v id.Id, sig []byte, hint jwk.Hint, keys jwk.Set) error {
	key := keys.Find(hint)
	if key == nil {
		return ErrUnknownKey
	}
	return VerifyWithKey(v, sig, key)
}
