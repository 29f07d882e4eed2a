package rsacrypt

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"xdao.co/restcrypt/keys"
	"xdao.co/restcrypt/utf8codec"
)

// Encryptor is the public-key encryption capability handed to collaborators.
type Encryptor interface {
	SetPublicKey(key string) error
	Encrypt(plaintext string) (string, error)
}

var _ Encryptor = (*PublicKeyEncryptor)(nil)

// PublicKeyEncryptor is a caller-owned Encryptor. It is safe for concurrent
// use; SetPublicKey takes effect for every Encrypt that starts after it
// returns.
type PublicKeyEncryptor struct {
	settings settings

	mu    sync.RWMutex
	pub   *rsa.PublicKey
	keyID string
}

func NewEncryptor(opts ...Option) *PublicKeyEncryptor {
	return &PublicKeyEncryptor{settings: newSettings(opts)}
}

// SetPublicKey parses key (any form keys.ParsePublicKey accepts) and makes it
// the current key. On failure the previous key stays in place.
func (e *PublicKeyEncryptor) SetPublicKey(key string) error {
	pub, err := keys.ParsePublicKey(key)
	if err != nil {
		return wrapError(KindKey, "RSA-KEY-101", "invalid public key", err)
	}
	return e.setKey(pub)
}

// SetRSAPublicKey installs an already parsed key.
func (e *PublicKeyEncryptor) SetRSAPublicKey(pub *rsa.PublicKey) error {
	if pub == nil || pub.N == nil {
		return newError(KindKey, "RSA-KEY-102", "nil public key")
	}
	return e.setKey(pub)
}

func (e *PublicKeyEncryptor) setKey(pub *rsa.PublicKey) error {
	id, err := keys.KeyID(pub)
	if err != nil {
		return wrapError(KindKey, "RSA-KEY-103", "cannot identify public key", err)
	}
	e.mu.Lock()
	e.pub = pub
	e.keyID = id
	e.mu.Unlock()
	e.settings.logger.Debug("public key configured", "key_id", id, "bits", pub.N.BitLen())
	return nil
}

// PublicKey returns the current key, or nil.
func (e *PublicKeyEncryptor) PublicKey() *rsa.PublicKey {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pub
}

// KeyID returns the identifier of the current key, or "".
func (e *PublicKeyEncryptor) KeyID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.keyID
}

// MaxPlaintextLen is the largest message, in bytes, the current key and
// padding can encrypt. It is 0 when no key is set.
func (e *PublicKeyEncryptor) MaxPlaintextLen() int {
	pub := e.PublicKey()
	if pub == nil {
		return 0
	}
	return maxMessageLen(pub, e.settings.padding)
}

func maxMessageLen(pub *rsa.PublicKey, padding Padding) int {
	k := pub.Size()
	var n int
	switch padding {
	case PaddingOAEP:
		n = k - 2*sha256.Size - 2
	default:
		n = k - 11
	}
	if n < 0 {
		return 0
	}
	return n
}

// Encrypt encrypts the UTF-8 bytes of plaintext and returns base64 ciphertext.
func (e *PublicKeyEncryptor) Encrypt(plaintext string) (string, error) {
	ct, err := e.EncryptBytes(utf8codec.Encode(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// EncryptBytes encrypts msg and returns the raw ciphertext.
func (e *PublicKeyEncryptor) EncryptBytes(msg []byte) ([]byte, error) {
	e.mu.RLock()
	pub := e.pub
	e.mu.RUnlock()
	if pub == nil {
		return nil, wrapError(KindEncrypt, "RSA-ENC-101", "encrypt", ErrNoPublicKey)
	}
	if limit := maxMessageLen(pub, e.settings.padding); len(msg) > limit {
		return nil, wrapError(KindEncrypt, "RSA-ENC-102",
			fmt.Sprintf("%d bytes exceeds %d", len(msg), limit), ErrMessageTooLong)
	}

	var ct []byte
	var err error
	switch e.settings.padding {
	case PaddingOAEP:
		ct, err = rsa.EncryptOAEP(sha256.New(), e.settings.random, pub, msg, nil)
	case PaddingPKCS1v15:
		ct, err = rsa.EncryptPKCS1v15(e.settings.random, pub, msg)
	default:
		return nil, newError(KindEncrypt, "RSA-ENC-103", fmt.Sprintf("unknown padding %q", e.settings.padding))
	}
	if err != nil {
		if errors.Is(err, rsa.ErrMessageTooLong) {
			err = ErrMessageTooLong
		}
		return nil, wrapError(KindEncrypt, "RSA-ENC-104", "encrypt", err)
	}
	return ct, nil
}
