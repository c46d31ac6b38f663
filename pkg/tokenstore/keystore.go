package tokenstore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/zalando/go-keyring"
)

const (
	serviceName = "solw"
	keyField    = "token-key"
	keyFileName = "token.key"
	keySize     = 32
)

// KeyStore supplies the AES key the token file is sealed with.
type KeyStore interface {
	// Key returns the key, generating and persisting one on first use.
	Key() ([]byte, error)

	// DeleteKey removes the key. Missing keys are not an error.
	DeleteKey() error
}

// KeyringStore keeps the key in the OS keyring.
type KeyringStore struct{}

func (KeyringStore) Key() ([]byte, error) {
	stored, err := keyring.Get(serviceName, keyField)
	if err == nil {
		key, decErr := hex.DecodeString(stored)
		if decErr != nil {
			return nil, fmt.Errorf("stored key is corrupt: %w", decErr)
		}
		return key, nil
	}
	if err != keyring.ErrNotFound {
		return nil, err
	}
	key, err := newKey()
	if err != nil {
		return nil, err
	}
	if err := keyring.Set(serviceName, keyField, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func (KeyringStore) DeleteKey() error {
	err := keyring.Delete(serviceName, keyField)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

// FileKeyStore keeps the key in a mode 0600 file for hosts without a
// usable keyring (headless servers, containers).
type FileKeyStore struct {
	fs  afero.Fs
	dir string
}

func NewFileKeyStore(fs afero.Fs, dir string) *FileKeyStore {
	return &FileKeyStore{fs: fs, dir: dir}
}

func (f *FileKeyStore) path() string { return filepath.Join(f.dir, keyFileName) }

func (f *FileKeyStore) Key() ([]byte, error) {
	raw, err := afero.ReadFile(f.fs, f.path())
	if err == nil {
		key, decErr := hex.DecodeString(string(raw))
		if decErr != nil {
			return nil, fmt.Errorf("stored key is corrupt: %w", decErr)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	key, err := newKey()
	if err != nil {
		return nil, err
	}
	if err := f.fs.MkdirAll(f.dir, 0o700); err != nil {
		return nil, err
	}
	if err := afero.WriteFile(f.fs, f.path(), []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

func (f *FileKeyStore) DeleteKey() error {
	err := f.fs.Remove(f.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// DefaultKeyStore prefers the OS keyring and falls back to a key file
// when the keyring is unreachable.
func DefaultKeyStore(fs afero.Fs, dir string) KeyStore {
	if _, err := keyring.Get(serviceName, keyField); err == nil || err == keyring.ErrNotFound {
		return KeyringStore{}
	}
	return NewFileKeyStore(fs, dir)
}

func newKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
