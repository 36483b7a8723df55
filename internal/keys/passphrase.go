package keys

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for passphrase-derived keys.
const (
	argonIterations  = 3
	argonMemory      = 64 * 1024 // KiB
	argonParallelism = 4
	saltSize         = 32
)

// PassphraseProvider derives the key from a passphrase with Argon2id.
// The salt is generated once and persisted so derivation stays stable
// across runs; losing the salt file makes existing ciphertext unreadable.
type PassphraseProvider struct {
	// Passphrase is the secret to derive from.
	Passphrase []byte

	// SaltPath is the file the salt is stored in.
	SaltPath string
}

// Key derives the symmetric key, creating and persisting the salt on
// first use.
func (p *PassphraseProvider) Key() ([]byte, error) {
	if len(p.Passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", ErrUnavailable)
	}

	salt, err := p.loadOrCreateSalt()
	if err != nil {
		return nil, err
	}

	return argon2.IDKey(p.Passphrase, salt, argonIterations, argonMemory, argonParallelism, Size), nil
}

func (p *PassphraseProvider) loadOrCreateSalt() ([]byte, error) {
	salt, err := os.ReadFile(p.SaltPath)

	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%w: reading salt %q: %w", ErrUnavailable, p.SaltPath, err)
	default:
		if len(salt) != saltSize {
			return nil, fmt.Errorf("%w: salt in %q must be %d bytes, got %d",
				ErrUnavailable, p.SaltPath, saltSize, len(salt))
		}

		return salt, nil
	}

	salt = make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: generating salt: %w", ErrUnavailable, err)
	}

	const ownerReadWrite = 0o600

	if err := os.WriteFile(p.SaltPath, salt, ownerReadWrite); err != nil {
		return nil, fmt.Errorf("%w: persisting salt to %q: %w", ErrUnavailable, p.SaltPath, err)
	}

	return salt, nil
}
