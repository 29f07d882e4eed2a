// Package testkit holds a conformance suite shared by storage.Directory
// implementations.
package testkit

import (
	"crypto/rsa"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/restcrypt/keys"
	"xdao.co/restcrypt/storage"
)

// NewDirectory constructs a fresh, empty Directory for a test.
// The returned Directory MUST be isolated from other tests.
type NewDirectory func(t *testing.T) storage.Directory

var (
	keysOnce sync.Once
	keyA     *rsa.PrivateKey
	keyB     *rsa.PrivateKey
	keysErr  error
)

// Keys returns two fixed test keys, generated once per process.
func Keys(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()
	keysOnce.Do(func() {
		keyA, keysErr = keys.GenerateKeyPair(nil, 1024)
		if keysErr == nil {
			keyB, keysErr = keys.GenerateKeyPair(nil, 1024)
		}
	})
	require.NoError(t, keysErr)
	return keyA, keyB
}

func RunDirectoryConformance(t *testing.T, newDirectory NewDirectory) {
	t.Helper()
	a, b := Keys(t)

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		dir := newDirectory(t)
		id, err := dir.Put(&a.PublicKey)
		require.NoError(t, err)

		wantID, err := keys.KeyID(&a.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, wantID, id)

		got, err := dir.Get(id)
		require.NoError(t, err)
		assert.True(t, a.PublicKey.Equal(got))
		assert.True(t, dir.Has(id))
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		dir := newDirectory(t)
		id1, err := dir.Put(&a.PublicKey)
		require.NoError(t, err)
		id2, err := dir.Put(&a.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, id1, id2)

		ids, err := dir.List()
		require.NoError(t, err)
		assert.Equal(t, []string{id1}, ids)
	})

	t.Run("GetMissing", func(t *testing.T) {
		dir := newDirectory(t)
		id, err := keys.KeyID(&b.PublicKey)
		require.NoError(t, err)
		_, err = dir.Get(id)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
		assert.False(t, dir.Has(id))
	})

	t.Run("InvalidID", func(t *testing.T) {
		dir := newDirectory(t)
		_, err := dir.Get("not-a-key-id")
		assert.True(t, errors.Is(err, storage.ErrInvalidID))
		assert.False(t, dir.Has("not-a-key-id"))
	})

	t.Run("ListSorted", func(t *testing.T) {
		dir := newDirectory(t)
		idA, err := dir.Put(&a.PublicKey)
		require.NoError(t, err)
		idB, err := dir.Put(&b.PublicKey)
		require.NoError(t, err)

		ids, err := dir.List()
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.ElementsMatch(t, []string{idA, idB}, ids)
		assert.True(t, ids[0] < ids[1])
	})
}
