package rsacrypt

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"xdao.co/restcrypt/utf8codec"
)

// Decryptor reverses PublicKeyEncryptor on the private key holder's side.
type Decryptor struct {
	settings settings
	priv     *rsa.PrivateKey
}

func NewDecryptor(priv *rsa.PrivateKey, opts ...Option) (*Decryptor, error) {
	if priv == nil {
		return nil, newError(KindKey, "RSA-KEY-201", "nil private key")
	}
	if err := priv.Validate(); err != nil {
		return nil, wrapError(KindKey, "RSA-KEY-202", "invalid private key", err)
	}
	return &Decryptor{settings: newSettings(opts), priv: priv}, nil
}

// PublicKey returns the public half of the decryptor's key.
func (d *Decryptor) PublicKey() *rsa.PublicKey {
	return &d.priv.PublicKey
}

// Decrypt takes base64 ciphertext and returns the plaintext text. Plaintext
// that is not valid UTF-8 fails with a KindEncoding error wrapping
// *utf8codec.DecodeError.
func (d *Decryptor) Decrypt(ciphertext string) (string, error) {
	raw, err := decodeBase64(ciphertext)
	if err != nil {
		return "", wrapError(KindDecrypt, "RSA-DEC-101", "invalid base64 ciphertext", err)
	}
	msg, err := d.DecryptBytes(raw)
	if err != nil {
		return "", err
	}
	text, err := utf8codec.Decode(msg)
	if err != nil {
		return "", wrapError(KindEncoding, "RSA-DEC-201", "plaintext is not UTF-8", err)
	}
	return text, nil
}

// DecryptBytes decrypts raw ciphertext.
func (d *Decryptor) DecryptBytes(ct []byte) ([]byte, error) {
	if len(ct) != d.priv.Size() {
		return nil, wrapError(KindDecrypt, "RSA-DEC-102",
			fmt.Sprintf("ciphertext is %d bytes, key needs %d", len(ct), d.priv.Size()), ErrDecryption)
	}

	var msg []byte
	var err error
	switch d.settings.padding {
	case PaddingOAEP:
		msg, err = rsa.DecryptOAEP(sha256.New(), nil, d.priv, ct, nil)
	case PaddingPKCS1v15:
		msg, err = rsa.DecryptPKCS1v15(nil, d.priv, ct)
	default:
		return nil, newError(KindDecrypt, "RSA-DEC-103", fmt.Sprintf("unknown padding %q", d.settings.padding))
	}
	if err != nil {
		d.settings.logger.Debug("decryption failed", "padding", string(d.settings.padding))
		return nil, wrapError(KindDecrypt, "RSA-DEC-104", "decrypt", ErrDecryption)
	}
	return msg, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	// Prefer standard padded encoding, but accept raw encoding too.
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
