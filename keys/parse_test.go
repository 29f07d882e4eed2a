package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKeyForms(t *testing.T) {
	priv := testKey(t)
	pkix, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pkcs1 := x509.MarshalPKCS1PublicKey(&priv.PublicKey)
	privPEM, err := MarshalPrivateKey(priv, ExportOptions{})
	require.NoError(t, err)
	sshPriv, err := MarshalPrivateKey(priv, ExportOptions{Format: FormatOpenSSH})
	require.NoError(t, err)

	b64 := base64.StdEncoding.EncodeToString(pkix)
	var wrapped strings.Builder
	for i := 0; i < len(b64); i += 64 {
		end := i + 64
		if end > len(b64) {
			end = len(b64)
		}
		wrapped.WriteString(b64[i:end])
		wrapped.WriteString("\n")
	}

	forms := map[string]string{
		"pkix pem":         string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix})),
		"pkcs1 pem":        string(pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: pkcs1})),
		"bare base64":      b64,
		"wrapped base64":   wrapped.String(),
		"pkcs1 base64":     base64.StdEncoding.EncodeToString(pkcs1),
		"private pem":      string(privPEM),
		"openssh private":  string(sshPriv),
		"padded with junk": "\n\n  " + b64 + "  \n",
	}
	for name, in := range forms {
		got, err := ParsePublicKey(in)
		require.NoError(t, err, name)
		assert.True(t, priv.PublicKey.Equal(got), name)
	}
}

func TestParsePublicKeyErrors(t *testing.T) {
	_, err := ParsePublicKey("")
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = ParsePublicKey("-----BEGIN PUBLIC KEY-----\nnot base64\n")
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = ParsePublicKey("%%%")
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = ParsePublicKey(base64.StdEncoding.EncodeToString([]byte("hello")))
	assert.True(t, errors.Is(err, ErrInvalidKey))

	sealed, err := MarshalPrivateKey(testKey(t), ExportOptions{Passphrase: "pw"})
	require.NoError(t, err)
	_, err = ParsePublicKey(string(sealed))
	assert.True(t, errors.Is(err, ErrPassphraseRequired))
}

func TestParseRejectsNonRSA(t *testing.T) {
	ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pkix, err := x509.MarshalPKIXPublicKey(&ec.PublicKey)
	require.NoError(t, err)

	_, err = ParsePublicKey(string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix})))
	assert.True(t, errors.Is(err, ErrNotRSA), "got %v", err)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(ec)
	require.NoError(t, err)
	_, err = ParsePrivateKey(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}), "")
	assert.True(t, errors.Is(err, ErrNotRSA), "got %v", err)
}

func TestParsePrivateKeyBase64DER(t *testing.T) {
	priv := testKey(t)
	der := x509.MarshalPKCS1PrivateKey(priv)
	got, err := ParsePrivateKey([]byte(base64.StdEncoding.EncodeToString(der)), "")
	require.NoError(t, err)
	assert.True(t, priv.Equal(got))
}

func TestParsePrivateKeyErrors(t *testing.T) {
	_, err := ParsePrivateKey(nil, "")
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = ParsePrivateKey([]byte("garbage"), "")
	assert.True(t, errors.Is(err, ErrInvalidKey))

	pub, err := MarshalPublicKey(&testKey(t).PublicKey, FormatPEM)
	require.NoError(t, err)
	_, err = ParsePrivateKey(pub, "")
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestKeyID(t *testing.T) {
	pub := &testKey(t).PublicKey
	a, err := KeyID(pub)
	require.NoError(t, err)
	b, err := KeyID(pub)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "b"), "expected base32 CIDv1, got %s", a)

	_, err = KeyID(nil)
	assert.Error(t, err)
}
