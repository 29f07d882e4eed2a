package keys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

type Format string

const (
	FormatPEM     Format = "pem"
	FormatDER     Format = "der"
	FormatOpenSSH Format = "openssh"
)

const (
	blockPKCS1Private = "RSA PRIVATE KEY"
	blockPKCS8Private = "PRIVATE KEY"
	blockPKIXPublic   = "PUBLIC KEY"
	blockPKCS1Public  = "RSA PUBLIC KEY"
	blockOpenSSH      = "OPENSSH PRIVATE KEY"
)

// ParseFormat maps a user-supplied name to a Format. Empty means PEM.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPEM:
		return FormatPEM, nil
	case FormatDER:
		return FormatDER, nil
	case FormatOpenSSH, "ssh":
		return FormatOpenSSH, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ExportOptions controls private key encoding.
type ExportOptions struct {
	Format Format
	// PKCS selects the private key structure for PEM and DER: 1 (default)
	// for RSAPrivateKey, 8 for PrivateKeyInfo.
	PKCS int
	// Passphrase, when set, encrypts the output.
	Passphrase string
	// Comment is stored in OpenSSH keys only.
	Comment string
}

// MarshalPrivateKey encodes priv according to opts.
func MarshalPrivateKey(priv *rsa.PrivateKey, opts ExportOptions) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidKey)
	}
	format := opts.Format
	if format == "" {
		format = FormatPEM
	}

	switch format {
	case FormatOpenSSH:
		var block *pem.Block
		var err error
		if opts.Passphrase != "" {
			block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, opts.Comment, []byte(opts.Passphrase))
		} else {
			block, err = ssh.MarshalPrivateKey(priv, opts.Comment)
		}
		if err != nil {
			return nil, fmt.Errorf("keys: marshal openssh private key: %w", err)
		}
		return pem.EncodeToMemory(block), nil
	case FormatPEM, FormatDER:
		der, blockType, err := privateDER(priv, opts.PKCS)
		if err != nil {
			return nil, err
		}
		out := der
		if format == FormatPEM {
			out = pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
		}
		if opts.Passphrase != "" {
			return seal(out, opts.Passphrase, format == FormatPEM)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func privateDER(priv *rsa.PrivateKey, pkcs int) ([]byte, string, error) {
	switch pkcs {
	case 0, 1:
		return x509.MarshalPKCS1PrivateKey(priv), blockPKCS1Private, nil
	case 8:
		der, err := x509.MarshalPKCS8PrivateKey(priv)
		if err != nil {
			return nil, "", fmt.Errorf("keys: marshal pkcs8: %w", err)
		}
		return der, blockPKCS8Private, nil
	default:
		return nil, "", fmt.Errorf("%w: pkcs %d", ErrUnsupportedFormat, pkcs)
	}
}

// MarshalPublicKey encodes pub as PKIX PEM, PKIX DER or an OpenSSH
// authorized_keys line.
func MarshalPublicKey(pub *rsa.PublicKey, format Format) ([]byte, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrInvalidKey)
	}
	switch format {
	case "", FormatPEM, FormatDER:
		der, err := x509.MarshalPKIXPublicKey(pub)
		if err != nil {
			return nil, fmt.Errorf("keys: marshal public key: %w", err)
		}
		if format == FormatDER {
			return der, nil
		}
		return pem.EncodeToMemory(&pem.Block{Type: blockPKIXPublic, Bytes: der}), nil
	case FormatOpenSSH:
		sshPub, err := ssh.NewPublicKey(pub)
		if err != nil {
			return nil, fmt.Errorf("keys: marshal openssh public key: %w", err)
		}
		return ssh.MarshalAuthorizedKey(sshPub), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// PublicKeyPEM is MarshalPublicKey(pub, FormatPEM) as a string, the form a
// browser client is handed.
func PublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	b, err := MarshalPublicKey(pub, FormatPEM)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
