package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
)

// DefaultBits is the modulus size used when none is given.
const DefaultBits = 2048

var allowedBits = []int{1024, 2048, 3072, 4096}

// CheckBits rejects modulus sizes other than 1024, 2048, 3072 and 4096.
func CheckBits(bits int) error {
	for _, b := range allowedBits {
		if bits == b {
			return nil
		}
	}
	return fmt.Errorf("keys: unsupported key size %d (want one of %v)", bits, allowedBits)
}

// GenerateKeyPair returns a new RSA key with public exponent 65537.
// A nil random source means crypto/rand.
func GenerateKeyPair(random io.Reader, bits int) (*rsa.PrivateKey, error) {
	if err := CheckBits(bits); err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}
	priv, err := rsa.GenerateKey(random, bits)
	if err != nil {
		return nil, fmt.Errorf("keys: generate %d-bit key: %w", bits, err)
	}
	return priv, nil
}
