package main

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/deep-rent/nulid/attest"
	"github.com/deep-rent/nulid/flag"
	"github.com/deep-rent/nulid/id"
	"github.com/deep-rent/nulid/jose/jwa"
	"github.com/deep-rent/nulid/jose/jwk"
)

// runAttest implements the "attest" subcommand: sign the canonical bytes of
// an identifier with a private key, or verify a previously produced
// signature against a JWKS file. It exercises the jose/jwa and jose/jwk
// packages end to end, the way a real node operator would use them to prove
// (and a verifier to check) which node minted a given identifier.
func runAttest(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("attest: expected a subcommand, \"sign\" or \"verify\"")
	}
	switch args[0] {
	case "sign":
		return runAttestSign(args[1:])
	case "verify":
		return runAttestVerify(args[1:])
	default:
		return fmt.Errorf("attest: unknown subcommand %q", args[0])
	}
}

func runAttestSign(args []string) error {
	var (
		keyFile string
		alg     string
		raw     string
	)
	fs := flag.New("nulid attest sign")
	fs.Add(&keyFile, "k", "key", "Path to a PEM-encoded PKCS#8 private key")
	fs.Add(&alg, "a", "alg", "JWA signature algorithm, e.g. ES256")
	fs.Add(&raw, "", "id", "Identifier to sign, in its canonical string form")
	fs.Parse(args...)

	if keyFile == "" || alg == "" || raw == "" {
		return fmt.Errorf("attest sign: --key, --alg, and --id are all required")
	}

	v, err := id.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", raw, err)
	}

	signer, err := loadSigner(keyFile)
	if err != nil {
		return err
	}

	sig, err := signWithAlgorithm(alg, v, signer)
	if err != nil {
		return err
	}

	fmt.Println(base64.RawURLEncoding.EncodeToString(sig))
	return nil
}

func runAttestVerify(args []string) error {
	var (
		jwksFile string
		alg      string
		kid      string
		sig      string
		raw      string
	)
	fs := flag.New("nulid attest verify")
	fs.Add(&jwksFile, "j", "jwks", "Path to a JWKS file holding verification keys")
	fs.Add(&alg, "a", "alg", "JWA signature algorithm the signature was produced with")
	fs.Add(&kid, "", "kid", "Key id (\"kid\") of the signing key")
	fs.Add(&sig, "s", "sig", "Base64url-encoded signature to verify")
	fs.Add(&raw, "", "id", "Identifier the signature was produced over")
	fs.Parse(args...)

	if jwksFile == "" || alg == "" || kid == "" || sig == "" || raw == "" {
		return fmt.Errorf("attest verify: --jwks, --alg, --kid, --sig, and --id are all required")
	}

	v, err := id.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", raw, err)
	}

	data, err := os.ReadFile(jwksFile)
	if err != nil {
		return fmt.Errorf("read jwks file %s: %w", jwksFile, err)
	}
	keys, err := jwk.ParseSet(data)
	if err != nil {
		return fmt.Errorf("parse jwks file %s: %w", jwksFile, err)
	}

	sigBytes, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	if err := attest.Verify(v, sigBytes, hint{alg: alg, kid: kid}, keys); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	fmt.Println("signature is valid")
	return nil
}

// hint adapts a pair of algorithm and key id strings into a jwk.Hint, as a
// verifier would typically reconstruct one from a JWS header.
type hint struct{ alg, kid string }

func (h hint) Algorithm() string { return h.alg }
func (h hint) KeyID() string     { return h.kid }

// loadSigner reads a PEM-encoded PKCS#8 private key from path and returns it
// as a crypto.Signer, the form attest.Sign expects.
func loadSigner(path string) (crypto.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file %s: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in %s", path)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse PKCS#8 key in %s: %w", path, err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("key in %s does not implement crypto.Signer", path)
	}
	return signer, nil
}

// signWithAlgorithm dispatches to attest.Sign with the concrete jwa.Algorithm
// matching name, since the Algorithm type's public-key parameter must be
// resolved at compile time rather than looked up in a map.
func signWithAlgorithm(name string, v id.Id, signer crypto.Signer) ([]byte, error) {
	switch name {
	case "RS256":
		return attest.Sign[*rsa.PublicKey](v, signer, jwa.RS256)
	case "RS384":
		return attest.Sign[*rsa.PublicKey](v, signer, jwa.RS384)
	case "RS512":
		return attest.Sign[*rsa.PublicKey](v, signer, jwa.RS512)
	case "PS256":
		return attest.Sign[*rsa.PublicKey](v, signer, jwa.PS256)
	case "PS384":
		return attest.Sign[*rsa.PublicKey](v, signer, jwa.PS384)
	case "PS512":
		return attest.Sign[*rsa.PublicKey](v, signer, jwa.PS512)
	case "ES256":
		return attest.Sign[*ecdsa.PublicKey](v, signer, jwa.ES256)
	case "ES384":
		return attest.Sign[*ecdsa.PublicKey](v, signer, jwa.ES384)
	case "ES512":
		return attest.Sign[*ecdsa.PublicKey](v, signer, jwa.ES512)
	case "EdDSA":
		return attest.Sign[[]byte](v, signer, jwa.EdDSA)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}
