// Package digest computes uppercase hex digests and keyed hashes of text and
// generates random salts and nonces.
package digest

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

type Algorithm string

const (
	MD5      Algorithm = "md5"
	SHA1     Algorithm = "sha1"
	SHA256   Algorithm = "sha256"
	SHA512   Algorithm = "sha512"
	SHA3_256 Algorithm = "sha3-256"
	BLAKE3   Algorithm = "blake3"
)

var sums = map[Algorithm]func([]byte) []byte{
	MD5:      func(b []byte) []byte { s := md5.Sum(b); return s[:] },
	SHA1:     func(b []byte) []byte { s := sha1.Sum(b); return s[:] },
	SHA256:   func(b []byte) []byte { s := sha256.Sum256(b); return s[:] },
	SHA512:   func(b []byte) []byte { s := sha512.Sum512(b); return s[:] },
	SHA3_256: func(b []byte) []byte { s := sha3.Sum256(b); return s[:] },
	BLAKE3:   func(b []byte) []byte { s := blake3.Sum256(b); return s[:] },
}

// Algorithms lists the supported algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(sums))
	for alg := range sums {
		names = append(names, string(alg))
	}
	sort.Strings(names)
	return names
}

// Sum returns the uppercase hex digest of data.
func Sum(alg Algorithm, data []byte) (string, error) {
	fn, ok := sums[Algorithm(strings.ToLower(string(alg)))]
	if !ok {
		return "", fmt.Errorf("digest: unsupported algorithm %q", alg)
	}
	return strings.ToUpper(hex.EncodeToString(fn(data))), nil
}

func mustSum(alg Algorithm, value string) string {
	s, _ := Sum(alg, []byte(value))
	return s
}

func MD5Hex(value string) string    { return mustSum(MD5, value) }
func SHA1Hex(value string) string   { return mustSum(SHA1, value) }
func SHA256Hex(value string) string { return mustSum(SHA256, value) }
func SHA512Hex(value string) string { return mustSum(SHA512, value) }

// HMACSHA256 returns the uppercase hex HMAC-SHA256 of value under key.
func HMACSHA256(value, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	_, _ = mac.Write([]byte(value))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
