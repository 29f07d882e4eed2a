package keys

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"xdao.co/restcrypt/cidutil"
)

// KeyID returns the content identifier of pub's PKIX encoding.
func KeyID(pub *rsa.PublicKey) (string, error) {
	if pub == nil {
		return "", fmt.Errorf("%w: nil public key", ErrInvalidKey)
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("keys: marshal public key: %w", err)
	}
	return cidutil.KeyID(der)
}
