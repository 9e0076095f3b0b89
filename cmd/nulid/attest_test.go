package main_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deep-rent/nulid/id"
	"github.com/deep-rent/nulid/testutil/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttestSignAndVerifyRoundTrip(t *testing.T) {
	exe := build.Binary(t, ".", "nulid")
	dir := t.TempDir()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	keyPath := filepath.Join(dir, "node.key")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{
		Type: "PRIVATE KEY", Bytes: pkcs8,
	}), 0600))

	jwks := fmt.Sprintf(`{"keys":[{
		"kty":"OKP","crv":"Ed25519","use":"sig","alg":"EdDSA","kid":"node-1",
		"x":%q
	}]}`, base64.RawURLEncoding.EncodeToString(pub))
	jwksPath := filepath.Join(dir, "jwks.json")
	require.NoError(t, os.WriteFile(jwksPath, []byte(jwks), 0600))

	v, err := id.New()
	require.NoError(t, err)

	signCmd := exec.Command(exe, "attest", "sign",
		"--key", keyPath, "--alg", "EdDSA", "--id", v.String())
	var signOut bytes.Buffer
	signCmd.Stdout = &signOut
	require.NoError(t, signCmd.Run())
	sig := strings.TrimSpace(signOut.String())
	require.NotEmpty(t, sig)

	verifyCmd := exec.Command(exe, "attest", "verify",
		"--jwks", jwksPath, "--alg", "EdDSA", "--kid", "node-1",
		"--sig", sig, "--id", v.String())
	var verifyOut bytes.Buffer
	verifyCmd.Stdout = &verifyOut
	require.NoError(t, verifyCmd.Run())
	assert.Contains(t, verifyOut.String(), "signature is valid")
}

func TestAttestVerifyRejectsWrongSignature(t *testing.T) {
	exe := build.Binary(t, ".", "nulid")
	dir := t.TempDir()

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	jwks := fmt.Sprintf(`{"keys":[{
		"kty":"OKP","crv":"Ed25519","use":"sig","alg":"EdDSA","kid":"node-1",
		"x":%q
	}]}`, base64.RawURLEncoding.EncodeToString(pub))
	jwksPath := filepath.Join(dir, "jwks.json")
	require.NoError(t, os.WriteFile(jwksPath, []byte(jwks), 0600))

	v, err := id.New()
	require.NoError(t, err)
	bogusSig := base64.RawURLEncoding.EncodeToString(make([]byte, ed25519.SignatureSize))

	cmd := exec.Command(exe, "attest", "verify",
		"--jwks", jwksPath, "--alg", "EdDSA", "--kid", "node-1",
		"--sig", bogusSig, "--id", v.String())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err = cmd.Run()
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "signature verification failed")
}
