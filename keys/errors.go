package keys

import "errors"

var (
	ErrNotFound           = errors.New("keys: not found")
	ErrExists             = errors.New("keys: already exists")
	ErrInvalidKey         = errors.New("keys: invalid key")
	ErrNotRSA             = errors.New("keys: not an RSA key")
	ErrUnsupportedFormat  = errors.New("keys: unsupported format")
	ErrPassphraseRequired = errors.New("keys: passphrase required")
	ErrWrongPassphrase    = errors.New("keys: wrong passphrase")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
