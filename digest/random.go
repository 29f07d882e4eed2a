package digest

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	SaltChars  = "AaBbCcDdEeFfGgHhIiJjKkLlMmNnOoPpQqRrSsTtUuVvWwXxYyZz"
	NonceChars = "AaBbCcDdEeFfGgHhIiJjKkLlMmNnOoPpQqRrSsTtUuVvWwXxYyZz0123456789"

	DefaultSaltLen  = 8
	DefaultNonceLen = 8
)

// RandomString draws n characters uniformly from chars using crypto/rand.
func RandomString(n int, chars string) (string, error) {
	if n < 0 {
		return "", errors.New("digest: negative length")
	}
	alphabet := []rune(chars)
	if len(alphabet) == 0 {
		return "", errors.New("digest: empty character set")
	}
	limit := big.NewInt(int64(len(alphabet)))
	out := make([]rune, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// GenerateSalt returns n random letters; n <= 0 means DefaultSaltLen.
func GenerateSalt(n int) (string, error) {
	if n <= 0 {
		n = DefaultSaltLen
	}
	return RandomString(n, SaltChars)
}

// GenerateNonce returns n random letters and digits; n <= 0 means
// DefaultNonceLen.
func GenerateNonce(n int) (string, error) {
	if n <= 0 {
		n = DefaultNonceLen
	}
	return RandomString(n, NonceChars)
}
