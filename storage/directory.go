// Package storage defines the recipient key directory: a content-addressed
// store of RSA public keys, each filed under its KeyID.
package storage

import (
	"crypto/rsa"
	"errors"
)

var (
	ErrNotFound   = errors.New("storage: not found")
	ErrInvalidID  = errors.New("storage: invalid key id")
	ErrIDMismatch = errors.New("storage: key id mismatch")
	ErrImmutable  = errors.New("storage: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Directory stores public keys addressed by their KeyID.
//
// Contract:
//   - Put returns keys.KeyID(pub) and is idempotent.
//   - Stored keys are immutable; Get re-derives the id and fails with
//     ErrIDMismatch if the stored bytes no longer match.
//   - Get returns ErrNotFound when the id is absent.
//   - List returns ids in ascending order.
type Directory interface {
	Put(pub *rsa.PublicKey) (string, error)
	Get(keyID string) (*rsa.PublicKey, error)
	Has(keyID string) bool
	List() ([]string, error)
}
