package localfs

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xdao.co/restcrypt/cidutil"
	"xdao.co/restcrypt/keys"
	"xdao.co/restcrypt/storage"
)

const fileSuffix = ".pem"

// Directory is a filesystem-backed recipient key directory.
//
// Keys are written once as PKIX PEM to <root>/<shard>/<keyID>.pem, where
// shard is the last two characters of the id. Files are read-only after
// creation.
type Directory struct {
	root string
}

var _ storage.Directory = (*Directory)(nil)

// New constructs a Directory rooted at root. The directory will be created if needed.
func New(root string) (*Directory, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Directory{root: root}, nil
}

func (d *Directory) Put(pub *rsa.PublicKey) (string, error) {
	if pub == nil || pub.N == nil {
		return "", keys.ErrInvalidKey
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", err
	}
	id, err := cidutil.KeyID(der)
	if err != nil {
		return "", err
	}
	data := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	path := d.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := d.Get(id)
			if rerr != nil || !existing.Equal(pub) {
				// An unreadable or altered file is never repaired in place.
				return "", storage.ErrImmutable
			}
			return id, nil
		}
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return id, nil
}

func (d *Directory) Get(keyID string) (*rsa.PublicKey, error) {
	if _, err := cidutil.ParseKeyID(keyID); err != nil {
		return nil, storage.ErrInvalidID
	}
	data, err := os.ReadFile(d.pathFor(keyID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil || !cidutil.MatchesKey(keyID, block.Bytes) {
		return nil, storage.ErrIDMismatch
	}
	return keys.ParsePublicKey(string(data))
}

func (d *Directory) Has(keyID string) bool {
	if _, err := cidutil.ParseKeyID(keyID); err != nil {
		return false
	}
	_, err := os.Stat(d.pathFor(keyID))
	return err == nil
}

func (d *Directory) List() ([]string, error) {
	shards, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(d.root, shard.Name()))
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
				continue
			}
			id := strings.TrimSuffix(name, fileSuffix)
			if _, err := cidutil.ParseKeyID(id); err == nil {
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (d *Directory) pathFor(keyID string) string {
	if len(keyID) < 2 {
		return filepath.Join(d.root, keyID+fileSuffix)
	}
	return filepath.Join(d.root, keyID[len(keyID)-2:], keyID+fileSuffix)
}
