package encryption

import "errors"

var (
	// ErrEmptyData is returned when attempting to process empty input data.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with AES block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
	// ErrTruncated is returned when the input ends before a complete IV could be read.
	ErrTruncated = errors.New("ciphertext shorter than initialization vector")
	// ErrKeySize is returned when the key is not the required 32 bytes.
	ErrKeySize = errors.New("key must be 32 bytes")
	// ErrInvalidSize is returned when the declared total size is not positive.
	ErrInvalidSize = errors.New("total size must be positive")
)
