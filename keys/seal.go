package keys

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// scryptWorkFactor is the log2 scrypt cost used when sealing. Tests lower it.
var scryptWorkFactor = 18

const sealedBinaryPrefix = "age-encryption.org/"

func isSealed(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte(armor.Header)) ||
		bytes.HasPrefix(data, []byte(sealedBinaryPrefix))
}

// seal encrypts data to an age scrypt recipient. PEM output is armored so the
// file stays text.
func seal(data []byte, passphrase string, armored bool) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("keys: seal: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	var buf bytes.Buffer
	var dst io.Writer = &buf
	var armorWriter io.WriteCloser
	if armored {
		armorWriter = armor.NewWriter(&buf)
		dst = armorWriter
	}

	w, err := age.Encrypt(dst, recipient)
	if err != nil {
		return nil, fmt.Errorf("keys: seal: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("keys: seal: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("keys: seal: %w", err)
	}
	if armorWriter != nil {
		if err := armorWriter.Close(); err != nil {
			return nil, fmt.Errorf("keys: seal: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func unseal(data []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("keys: unseal: %w", err)
	}

	var src io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(armor.Header)) {
		src = armor.NewReader(bytes.NewReader(bytes.TrimSpace(data)))
	}

	r, err := age.Decrypt(src, identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) || errors.Is(err, age.ErrIncorrectIdentity) {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("keys: unseal: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keys: unseal: %w", err)
	}
	return plain, nil
}
