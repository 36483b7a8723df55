package keys

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStatic(t *testing.T) {
	t.Parallel()

	want := bytes.Repeat([]byte{0x01}, Size)

	got, err := Static(want).Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}

	if !bytes.Equal(got, want) {
		t.Fatal("static key mismatch")
	}

	if _, err := Static(make([]byte, 16)).Key(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("short static key: got %v, want ErrUnavailable", err)
	}
}

func TestFileProviderGeneratesOnFirstUse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "key")
	provider := &FileProvider{Path: path}

	first, err := provider.Key()
	if err != nil {
		t.Fatalf("first Key: %v", err)
	}

	if len(first) != Size {
		t.Fatalf("key length %d, want %d", len(first), Size)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("key file not persisted: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key file permissions %v, want 0600", perm)
	}

	second, err := provider.Key()
	if err != nil {
		t.Fatalf("second Key: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatal("generated key not stable across calls")
	}
}

func TestFileProviderRejectsMalformedKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"not hex", "zz not hex zz"},
		{"wrong length", "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "key")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("writing key file: %v", err)
			}

			provider := &FileProvider{Path: path}

			if _, err := provider.Key(); !errors.Is(err, ErrUnavailable) {
				t.Fatalf("got %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestPassphraseProviderDeterministic(t *testing.T) {
	t.Parallel()

	saltPath := filepath.Join(t.TempDir(), "salt")

	provider := &PassphraseProvider{Passphrase: []byte("correct horse"), SaltPath: saltPath}

	first, err := provider.Key()
	if err != nil {
		t.Fatalf("first Key: %v", err)
	}

	if len(first) != Size {
		t.Fatalf("key length %d, want %d", len(first), Size)
	}

	info, err := os.Stat(saltPath)
	if err != nil {
		t.Fatalf("salt not persisted: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("salt file permissions %v, want 0600", perm)
	}

	// Same passphrase, same persisted salt: same key, across instances.
	again := &PassphraseProvider{Passphrase: []byte("correct horse"), SaltPath: saltPath}

	second, err := again.Key()
	if err != nil {
		t.Fatalf("second Key: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatal("derivation not stable for the same passphrase and salt")
	}

	// Different passphrase: different key.
	other := &PassphraseProvider{Passphrase: []byte("battery staple"), SaltPath: saltPath}

	third, err := other.Key()
	if err != nil {
		t.Fatalf("third Key: %v", err)
	}

	if bytes.Equal(first, third) {
		t.Fatal("different passphrases derived the same key")
	}
}

func TestPassphraseProviderRejectsEmpty(t *testing.T) {
	t.Parallel()

	provider := &PassphraseProvider{SaltPath: filepath.Join(t.TempDir(), "salt")}

	if _, err := provider.Key(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}
