package keys

import (
	"crypto/rsa"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/crypto/ssh"
)

const (
	privateKeyFile = "private.key"
	publicKeyFile  = "public.pem"
)

// KeyStore keeps named RSA key pairs on the local filesystem, one directory
// per name:
//
//	<Directory>/<name>/private.key  (0600, in SaveOptions.Format)
//	<Directory>/<name>/public.pem   (0644, PKIX PEM)
type KeyStore struct {
	Directory string
	Logger    *slog.Logger
}

type KeyEntry struct {
	Name   string
	KeyID  string
	Bits   int
	Sealed bool
}

// SaveOptions controls how Save and Generate write the private key.
type SaveOptions struct {
	// Format of the private key file; empty means PEM.
	Format     Format
	Bits       int
	PKCS       int
	Passphrase string
	Overwrite  bool
	Rand       io.Reader
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".restcrypt", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func CheckKeyName(name string) error {
	if name == "" {
		return errors.New("key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in key name", char)
	}
	return nil
}

func (ks *KeyStore) logger() *slog.Logger {
	if ks.Logger != nil {
		return ks.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (ks *KeyStore) keyDir(name string) string {
	return filepath.Join(ks.Directory, name)
}

// Generate creates a new key pair and saves it under name.
func (ks *KeyStore) Generate(name string, opts SaveOptions) (KeyEntry, error) {
	if err := CheckKeyName(name); err != nil {
		return KeyEntry{}, err
	}
	if !opts.Overwrite && ks.exists(name) {
		return KeyEntry{}, fmt.Errorf("%w: %s", ErrExists, name)
	}
	bits := opts.Bits
	if bits == 0 {
		bits = DefaultBits
	}
	priv, err := GenerateKeyPair(opts.Rand, bits)
	if err != nil {
		return KeyEntry{}, err
	}
	return ks.Save(name, priv, opts)
}

// Save writes priv and its public half under name.
func (ks *KeyStore) Save(name string, priv *rsa.PrivateKey, opts SaveOptions) (KeyEntry, error) {
	if err := CheckKeyName(name); err != nil {
		return KeyEntry{}, err
	}
	privBytes, err := MarshalPrivateKey(priv, ExportOptions{
		Format:     opts.Format,
		PKCS:       opts.PKCS,
		Passphrase: opts.Passphrase,
		Comment:    name,
	})
	if err != nil {
		return KeyEntry{}, err
	}
	pubBytes, err := MarshalPublicKey(&priv.PublicKey, FormatPEM)
	if err != nil {
		return KeyEntry{}, err
	}
	id, err := KeyID(&priv.PublicKey)
	if err != nil {
		return KeyEntry{}, err
	}

	dir := ks.keyDir(name)
	privPath := filepath.Join(dir, privateKeyFile)
	pubPath := filepath.Join(dir, publicKeyFile)
	if err := writeKeyFile(privPath, privBytes, 0o600, opts.Overwrite); err != nil {
		return KeyEntry{}, err
	}
	// The public half is derived, so it is always replaced. A pair is never
	// left half written: without its public file the private key is removed.
	if err := writeKeyFile(pubPath, pubBytes, 0o644, true); err != nil {
		_ = os.Remove(privPath)
		if opts.Overwrite {
			_ = os.Remove(pubPath)
		}
		return KeyEntry{}, err
	}

	entry := KeyEntry{
		Name:   name,
		KeyID:  id,
		Bits:   priv.N.BitLen(),
		Sealed: opts.Passphrase != "",
	}
	ks.logger().Info("saved key pair", "name", name, "key_id", id, "bits", entry.Bits, "sealed", entry.Sealed)
	return entry, nil
}

func writeKeyFile(path string, data []byte, perm os.FileMode, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, perm)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return err
	}
	defer file.Close()
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func (ks *KeyStore) readKeyFile(name, file string) ([]byte, error) {
	if err := CheckKeyName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(ks.keyDir(name), file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return data, nil
}

// isProtected reports whether a stored private key needs a passphrase.
func isProtected(data []byte) bool {
	if isSealed(data) {
		return true
	}
	if block, _ := pem.Decode(data); block != nil && block.Type == blockOpenSSH {
		_, err := ssh.ParseRawPrivateKey(data)
		var missing *ssh.PassphraseMissingError
		return errors.As(err, &missing)
	}
	return false
}

func (ks *KeyStore) exists(name string) bool {
	_, err := os.Stat(filepath.Join(ks.keyDir(name), privateKeyFile))
	return err == nil
}

// PublicKeyPEM returns the stored public key of name.
func (ks *KeyStore) PublicKeyPEM(name string) (string, error) {
	data, err := ks.readKeyFile(name, publicKeyFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (ks *KeyStore) PublicKey(name string) (*rsa.PublicKey, error) {
	s, err := ks.PublicKeyPEM(name)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(s)
}

// PrivateKey loads the private key of name, opening it with passphrase when
// it was sealed.
func (ks *KeyStore) PrivateKey(name, passphrase string) (*rsa.PrivateKey, error) {
	data, err := ks.readKeyFile(name, privateKeyFile)
	if err != nil {
		return nil, err
	}
	priv, err := ParsePrivateKey(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	ks.logger().Debug("loaded private key", "name", name)
	return priv, nil
}

// List returns the stored key pairs sorted by name. Directories without a
// readable public key are skipped.
func (ks *KeyStore) List() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && CheckKeyName(entry.Name()) == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var result []KeyEntry
	for _, name := range names {
		pub, err := ks.PublicKey(name)
		if err != nil {
			ks.logger().Warn("skipping unreadable key", "name", name, "error", err)
			continue
		}
		id, err := KeyID(pub)
		if err != nil {
			return nil, err
		}
		entry := KeyEntry{Name: name, KeyID: id, Bits: pub.N.BitLen()}
		if privBytes, err := ks.readKeyFile(name, privateKeyFile); err == nil {
			entry.Sealed = isProtected(privBytes)
		}
		result = append(result, entry)
	}
	return result, nil
}

// Remove deletes the key pair stored under name.
func (ks *KeyStore) Remove(name string) error {
	if err := CheckKeyName(name); err != nil {
		return err
	}
	dir := ks.keyDir(name)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	ks.logger().Info("removed key pair", "name", name)
	return nil
}
