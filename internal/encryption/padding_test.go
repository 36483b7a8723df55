package encryption

import (
	"bytes"
	"crypto/aes"
	"errors"
	"testing"
)

func TestPkcs7Pad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []byte
		wantLen int
		wantPad byte
	}{
		{"empty gains full block", nil, aes.BlockSize, 16},
		{"one byte", []byte{1}, aes.BlockSize, 15},
		{"one short of block", make([]byte, 15), aes.BlockSize, 1},
		{"aligned gains full block", make([]byte, 16), 2 * aes.BlockSize, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			padded := pkcs7Pad(tt.input, aes.BlockSize)

			if len(padded) != tt.wantLen {
				t.Fatalf("padded length %d, want %d", len(padded), tt.wantLen)
			}

			if got := padded[len(padded)-1]; got != tt.wantPad {
				t.Fatalf("padding byte %d, want %d", got, tt.wantPad)
			}
		})
	}
}

func TestPkcs7RoundTrip(t *testing.T) {
	t.Parallel()

	for size := 0; size <= 2*aes.BlockSize; size++ {
		data := bytes.Repeat([]byte{0xab}, size)

		padded := pkcs7Pad(data, aes.BlockSize)

		unpadded, err := pkcs7Unpad(padded)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}

		if !bytes.Equal(unpadded, data) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestPkcs7UnpadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"empty", nil, ErrEmptyData},
		{"zero padding byte", append(make([]byte, 15), 0), ErrInvalidPadding},
		{"padding larger than block", append(make([]byte, 15), 17), ErrInvalidPadding},
		{"padding larger than data", []byte{5}, ErrInvalidPadding},
		{"inconsistent padding bytes", append(bytes.Repeat([]byte{3}, 14), 2, 3), ErrInvalidPadding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := pkcs7Unpad(tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
