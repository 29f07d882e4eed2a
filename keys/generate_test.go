package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBits(t *testing.T) {
	for _, bits := range []int{1024, 2048, 3072, 4096} {
		assert.NoError(t, CheckBits(bits))
	}
	for _, bits := range []int{0, 512, 1000, 8192} {
		assert.Error(t, CheckBits(bits))
	}
}

func TestGenerateKeyPair(t *testing.T) {
	priv := testKey(t)
	assert.Equal(t, 1024, priv.N.BitLen())
	assert.Equal(t, 65537, priv.E)
	require.NoError(t, priv.Validate())
}

func TestGenerateKeyPairRejectsBadSize(t *testing.T) {
	_, err := GenerateKeyPair(nil, 768)
	require.Error(t, err)
}
