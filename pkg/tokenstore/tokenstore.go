// Package tokenstore persists the SkolaOnline refresh token encrypted
// at rest. The AES key lives in the OS keyring (with a key-file
// fallback); the token itself is sealed into a file so the daemon can
// restart without re-login.
package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const tokenFileName = "token.bin"

// Manager reads and writes the encrypted refresh token.
type Manager struct {
	fs   afero.Fs
	dir  string
	key  []byte
	keys KeyStore
}

// New opens the token store under dir. The encryption key is fetched
// (or created) immediately so a broken keyring fails loudly at startup
// rather than on the first refresh.
func New(fs afero.Fs, dir string, keys KeyStore) (*Manager, error) {
	if keys == nil {
		keys = DefaultKeyStore(fs, dir)
	}
	key, err := keys.Key()
	if err != nil {
		return nil, fmt.Errorf("token encryption key: %w", err)
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Manager{fs: fs, dir: dir, key: key, keys: keys}, nil
}

func (m *Manager) path() string { return filepath.Join(m.dir, tokenFileName) }

// Token returns the stored refresh token, or an empty string when the
// user has never logged in.
func (m *Manager) Token() (string, error) {
	raw, err := afero.ReadFile(m.fs, m.path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	plain, err := decryptValue(raw, m.key)
	if err != nil {
		return "", fmt.Errorf("decrypt stored token: %w", err)
	}
	return string(plain), nil
}

// SetToken overwrites the stored refresh token. The write goes through
// a temp file and rename so a crash cannot leave a half-written token.
func (m *Manager) SetToken(token string) error {
	sealed, err := encryptValue(token, m.key)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}
	tmp := m.path() + ".tmp"
	if err := afero.WriteFile(m.fs, tmp, sealed, 0o600); err != nil {
		return err
	}
	if err := m.fs.Rename(tmp, m.path()); err != nil {
		m.fs.Remove(tmp)
		return err
	}
	return nil
}

// DeleteToken removes the token and its key. Used on logout; a missing
// token is not an error.
func (m *Manager) DeleteToken() error {
	if err := m.fs.Remove(m.path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return m.keys.DeleteKey()
}
