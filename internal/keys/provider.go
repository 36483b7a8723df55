// Package keys supplies symmetric keys to the cipher engine. Providers own
// key persistence; callers borrow the returned bytes for the duration of
// one operation and must not retain them.
package keys

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/idelchi/gogen/pkg/key"
)

// Size is the key length in bytes handed to the cipher engine (AES-256).
const Size = 32

// ErrUnavailable marks any failure to retrieve or generate a key.
// It classifies as a security failure at the batch level.
var ErrUnavailable = errors.New("encryption key unavailable")

// Provider returns the symmetric key for cipher operations.
type Provider interface {
	Key() ([]byte, error)
}

// Static is a fixed in-memory key, for tests and callers that manage key
// material themselves.
type Static []byte

// Key returns the static key bytes.
func (s Static) Key() ([]byte, error) {
	if len(s) != Size {
		return nil, fmt.Errorf("%w: static key must be %d bytes, got %d", ErrUnavailable, Size, len(s))
	}

	return s, nil
}

// FileProvider reads a hex-encoded key from a file. A fresh key is
// generated and persisted on first use.
type FileProvider struct {
	// Path of the key file.
	Path string
}

// Key loads the key, generating one if the file does not exist yet.
func (p *FileProvider) Key() ([]byte, error) {
	data, err := os.ReadFile(p.Path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return p.generate()
	case err != nil:
		return nil, fmt.Errorf("%w: reading %q: %w", ErrUnavailable, p.Path, err)
	}

	k, err := key.FromHex(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %w", ErrUnavailable, p.Path, err)
	}

	if len(k) != Size {
		return nil, fmt.Errorf("%w: key in %q must be %d bytes, got %d", ErrUnavailable, p.Path, Size, len(k))
	}

	return k, nil
}

// generate creates a random key and persists it hex-encoded, owner-only.
func (p *FileProvider) generate() ([]byte, error) {
	k := make([]byte, Size)
	if _, err := rand.Read(k); err != nil {
		return nil, fmt.Errorf("%w: generating key: %w", ErrUnavailable, err)
	}

	const ownerReadWrite = 0o600

	if err := os.WriteFile(p.Path, []byte(hex.EncodeToString(k)+"\n"), ownerReadWrite); err != nil {
		return nil, fmt.Errorf("%w: persisting key to %q: %w", ErrUnavailable, p.Path, err)
	}

	return k, nil
}
