package cidutil

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIDDeterministic(t *testing.T) {
	der := []byte("not really der but stable bytes")
	a, err := KeyID(der)
	require.NoError(t, err)
	b, err := KeyID(der)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := KeyID([]byte("other bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestKeyIDRoundTrip(t *testing.T) {
	der := []byte{0x30, 0x82, 0x01, 0x22}
	id, err := KeyID(der)
	require.NoError(t, err)

	parsed, err := ParseKeyID(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(cid.Libp2pKey), parsed.Type())
	assert.True(t, MatchesKey(id, der))
	assert.False(t, MatchesKey(id, []byte{0x30}))
}

func TestKeyIDEmpty(t *testing.T) {
	_, err := KeyID(nil)
	require.Error(t, err)
}

func TestParseKeyIDRejectsOtherCodecs(t *testing.T) {
	sum, err := multihash.Sum([]byte("x"), multihash.SHA2_256, -1)
	require.NoError(t, err)
	raw := cid.NewCidV1(cid.Raw, sum).String()

	_, err = ParseKeyID(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotKeyID))

	_, err = ParseKeyID("not-a-cid")
	assert.True(t, errors.Is(err, ErrNotKeyID))
}
