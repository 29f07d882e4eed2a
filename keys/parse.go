package keys

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"filippo.io/age/armor"
	"golang.org/x/crypto/ssh"
)

// ParsePublicKey accepts PKIX or PKCS#1 public keys, PKCS#1, PKCS#8 or
// unencrypted OpenSSH private keys (their public half is returned), in PEM
// or bare base64 DER, and OpenSSH "ssh-rsa" lines.
func ParsePublicKey(s string) (*rsa.PublicKey, error) {
	data := strings.TrimSpace(s)
	if data == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if strings.HasPrefix(data, "ssh-") {
		sshPub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		cpk, ok := sshPub.(ssh.CryptoPublicKey)
		if !ok {
			return nil, ErrNotRSA
		}
		return asRSAPublic(cpk.CryptoPublicKey())
	}

	if strings.HasPrefix(data, armor.Header) {
		return nil, ErrPassphraseRequired
	}

	if strings.HasPrefix(data, "-----BEGIN") {
		block, _ := pem.Decode([]byte(data))
		if block == nil {
			return nil, fmt.Errorf("%w: malformed PEM", ErrInvalidKey)
		}
		if block.Type == blockOpenSSH {
			priv, err := parseOpenSSH([]byte(data), "")
			if err != nil {
				return nil, err
			}
			return &priv.PublicKey, nil
		}
		return publicFromDER(block.Bytes)
	}

	der, err := base64.StdEncoding.DecodeString(stripSpace(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not PEM, base64 or ssh: %v", ErrInvalidKey, err)
	}
	return publicFromDER(der)
}

func publicFromDER(der []byte) (*rsa.PublicKey, error) {
	if pub, err := x509.ParsePKIXPublicKey(der); err == nil {
		return asRSAPublic(pub)
	}
	if pub, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return pub, nil
	}
	if priv, err := privateFromDER(der); err == nil {
		return &priv.PublicKey, nil
	} else if errors.Is(err, ErrNotRSA) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: unrecognized public key encoding", ErrInvalidKey)
}

// ParsePrivateKey accepts everything MarshalPrivateKey produces. Sealed and
// encrypted OpenSSH keys need the passphrase.
func ParsePrivateKey(data []byte, passphrase string) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	text := bytes.TrimSpace(data)

	if isSealed(data) {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		plain, err := unseal(data, passphrase)
		if err != nil {
			return nil, err
		}
		if isSealed(plain) {
			return nil, fmt.Errorf("%w: nested sealing", ErrInvalidKey)
		}
		return ParsePrivateKey(plain, "")
	}

	if bytes.HasPrefix(text, []byte("-----BEGIN")) {
		block, _ := pem.Decode(text)
		if block == nil {
			return nil, fmt.Errorf("%w: malformed PEM", ErrInvalidKey)
		}
		switch block.Type {
		case blockOpenSSH:
			return parseOpenSSH(text, passphrase)
		case blockPKCS1Private, blockPKCS8Private:
			return privateFromDER(block.Bytes)
		default:
			return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrInvalidKey, block.Type)
		}
	}

	if priv, err := privateFromDER(data); err == nil {
		return priv, nil
	}
	der, err := base64.StdEncoding.DecodeString(stripSpace(string(text)))
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognized private key encoding", ErrInvalidKey)
	}
	return privateFromDER(der)
}

func privateFromDER(der []byte) (*rsa.PrivateKey, error) {
	if priv, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return priv, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotRSA, key)
	}
	return priv, nil
}

func parseOpenSSH(pemBytes []byte, passphrase string) (*rsa.PrivateKey, error) {
	var raw any
	var err error
	if passphrase != "" {
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(pemBytes, []byte(passphrase))
	} else {
		raw, err = ssh.ParseRawPrivateKey(pemBytes)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		switch {
		case errors.As(err, &missing):
			return nil, ErrPassphraseRequired
		case errors.Is(err, x509.IncorrectPasswordError):
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	priv, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotRSA, raw)
	}
	return priv, nil
}

func asRSAPublic(key any) (*rsa.PublicKey, error) {
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotRSA, key)
	}
	return pub, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
