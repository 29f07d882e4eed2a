package rsacrypt

import (
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/restcrypt/keys"
)

var (
	sharedKeyOnce sync.Once
	sharedKey     *rsa.PrivateKey
	sharedKeyErr  error
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	sharedKeyOnce.Do(func() {
		sharedKey, sharedKeyErr = keys.GenerateKeyPair(nil, 1024)
	})
	require.NoError(t, sharedKeyErr)
	return sharedKey
}

func publicPEM(t *testing.T, priv *rsa.PrivateKey) string {
	t.Helper()
	s, err := keys.PublicKeyPEM(&priv.PublicKey)
	require.NoError(t, err)
	return s
}
