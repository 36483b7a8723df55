package encryption

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ProgressFunc receives the cumulative progress of a single stream
// operation as a percentage in [0,100]. Values reported for one operation
// are non-decreasing.
type ProgressFunc func(percent int)

// Engine transforms byte streams with AES-256 in CBC mode and PKCS7
// padding. An Engine is safe for concurrent use; each operation derives
// its own block-chaining state.
type Engine struct {
	block cipher.Block
}

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// NewEngine creates an Engine from a raw 32-byte key.
func NewEngine(key []byte) (*Engine, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return &Engine{block: block}, nil
}

// Encrypt consumes r fully and writes `IV || ciphertext` to w, reporting
// progress after every chunk read. totalSize is the plaintext length and
// is used only for the percentage math; it must be positive. Both streams
// are closed on every exit path.
func (e *Engine) Encrypt(
	ctx context.Context,
	r io.ReadCloser,
	w io.WriteCloser,
	totalSize int64,
	onProgress ProgressFunc,
) (err error) {
	defer closeStreams(r, w, &err)

	if totalSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, totalSize)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return fmt.Errorf("generating IV: %w", err)
	}

	if _, err := w.Write(iv); err != nil {
		return fmt.Errorf("writing IV: %w", err)
	}

	mode := cipher.NewCBCEncrypter(e.block, iv)

	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf) //nolint:staticcheck // slice reuse, not value copy

	var (
		consumed int64
		carry    = make([]byte, 0, aes.BlockSize)
		isEOF    bool
	)

	for !isEOF {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("encrypting: %w", err)
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			chunk := join(carry, buf[:n])

			whole := len(chunk) - len(chunk)%aes.BlockSize
			if whole > 0 {
				ciphertext := make([]byte, whole)
				mode.CryptBlocks(ciphertext, chunk[:whole])

				if _, err := w.Write(ciphertext); err != nil {
					return fmt.Errorf("writing encrypted chunk: %w", err)
				}
			}

			carry = append(carry[:0], chunk[whole:]...)

			consumed += int64(n)
			if onProgress != nil {
				onProgress(percent(consumed, totalSize))
			}
		}

		switch {
		case errors.Is(rerr, io.EOF):
			isEOF = true
		case rerr != nil:
			return fmt.Errorf("reading input: %w", rerr)
		}
	}

	// Final block: PKCS7 always pads, so block-aligned input still gets a
	// trailing padding block.
	padded := pkcs7Pad(carry, aes.BlockSize)
	final := make([]byte, len(padded))
	mode.CryptBlocks(final, padded)

	if _, err := w.Write(final); err != nil {
		return fmt.Errorf("writing final encrypted block: %w", err)
	}

	return nil
}

// Decrypt reads a 16-byte IV from r, decrypts the remaining ciphertext and
// writes the plaintext to w. Blocks are decrypted manually chunk by chunk
// with an explicit final unpadding step; a transparent cipher-wrapping
// reader would buffer internally and stall progress reporting on large
// files. Progress is reported only when the computed percentage increases.
// totalSize is the on-disk size of the encrypted input, IV included, and
// must be positive. Both streams are closed on every exit path.
func (e *Engine) Decrypt(
	ctx context.Context,
	r io.ReadCloser,
	w io.WriteCloser,
	totalSize int64,
	onProgress ProgressFunc,
) (err error) {
	defer closeStreams(r, w, &err)

	if totalSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, totalSize)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		return fmt.Errorf("reading IV: %w", ErrTruncated)
	}

	mode := cipher.NewCBCDecrypter(e.block, iv)

	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf) //nolint:staticcheck // slice reuse, not value copy

	var (
		consumed = int64(aes.BlockSize)
		reported = -1
		carry    = make([]byte, 0, 2*aes.BlockSize)
		isEOF    bool
	)

	for !isEOF {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("decrypting: %w", err)
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			chunk := join(carry, buf[:n])

			// The last complete block is held back: if the stream ends
			// here it carries the padding and needs the final unpad.
			whole := len(chunk) - len(chunk)%aes.BlockSize
			if whole == len(chunk) {
				whole -= aes.BlockSize
			}

			if whole > 0 {
				plaintext := make([]byte, whole)
				mode.CryptBlocks(plaintext, chunk[:whole])

				if _, err := w.Write(plaintext); err != nil {
					return fmt.Errorf("writing decrypted chunk: %w", err)
				}
			}

			carry = append(carry[:0], chunk[whole:]...)

			consumed += int64(n)
			if p := percent(consumed, totalSize); p > reported {
				reported = p

				if onProgress != nil {
					onProgress(p)
				}
			}
		}

		switch {
		case errors.Is(rerr, io.EOF):
			isEOF = true
		case rerr != nil:
			return fmt.Errorf("reading input: %w", rerr)
		}
	}

	switch {
	case len(carry) == 0:
		return fmt.Errorf("reading ciphertext: %w", ErrEmptyData)
	case len(carry)%aes.BlockSize != 0:
		return ErrInvalidBlockSize
	}

	final := make([]byte, len(carry))
	mode.CryptBlocks(final, carry)

	unpadded, err := pkcs7Unpad(final)
	if err != nil {
		return fmt.Errorf("removing padding: %w", err)
	}

	if _, err := w.Write(unpadded); err != nil {
		return fmt.Errorf("writing final decrypted block: %w", err)
	}

	return nil
}

// percent computes floor(consumed*100/total) capped at 100.
func percent(consumed, total int64) int {
	p := int(consumed * 100 / total)

	return min(p, 100)
}

// join concatenates the block carry-over with the freshly read chunk
// without aliasing either input.
func join(carry, chunk []byte) []byte {
	if len(carry) == 0 {
		return chunk
	}

	joined := make([]byte, 0, len(carry)+len(chunk))
	joined = append(joined, carry...)

	return append(joined, chunk...)
}

// closeStreams closes both ends of an operation, preserving the first
// error. Runs on every exit path so callers never leak descriptors.
func closeStreams(r io.Closer, w io.Closer, errp *error) {
	if cerr := w.Close(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("closing output: %w", cerr)
	}

	if cerr := r.Close(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("closing input: %w", cerr)
	}
}
