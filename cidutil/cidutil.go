package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var ErrNotKeyID = errors.New("cidutil: not a key id")

// KeyID returns the CIDv1 identifier of a public key: libp2p-key codec over a
// sha2-256 multihash of the key's PKIX DER bytes.
func KeyID(der []byte) (string, error) {
	c, err := KeyCID(der)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// KeyCID is KeyID without the string encoding.
func KeyCID(der []byte) (cid.Cid, error) {
	if len(der) == 0 {
		return cid.Undef, fmt.Errorf("cidutil: empty key")
	}
	sum, err := multihash.Sum(der, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Libp2pKey, sum), nil
}

// ParseKeyID decodes s and checks that it names a key the way KeyID does.
func ParseKeyID(s string) (cid.Cid, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, fmt.Errorf("%w: %v", ErrNotKeyID, err)
	}
	if c.Version() != 1 || c.Type() != cid.Libp2pKey {
		return cid.Undef, fmt.Errorf("%w: codec 0x%x", ErrNotKeyID, c.Type())
	}
	if c.Prefix().MhType != multihash.SHA2_256 {
		return cid.Undef, fmt.Errorf("%w: multihash 0x%x", ErrNotKeyID, c.Prefix().MhType)
	}
	return c, nil
}

// MatchesKey reports whether id is the KeyID of der.
func MatchesKey(id string, der []byte) bool {
	want, err := ParseKeyID(id)
	if err != nil {
		return false
	}
	got, err := KeyCID(der)
	if err != nil {
		return false
	}
	return want.Equals(got)
}
