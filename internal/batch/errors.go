package batch

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"batchcrypt/internal/encryption"
	"batchcrypt/internal/fileutil"
	"batchcrypt/internal/keys"
)

// Kind partitions per-file failures into the three categories callers can
// act on.
type Kind uint8

const (
	// KindIO covers stream and filesystem failures, including the
	// delete-and-rename commit step and cancellation.
	KindIO Kind = iota
	// KindSecurity covers key and cipher failures.
	KindSecurity
	// KindUnknown is the catch-all; the original message is preserved in
	// the wrapped error.
	KindUnknown
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSecurity:
		return "security"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// ConfigError reports orchestrator misuse: a rejected dispatcher, a
// duplicate in-flight run, or an empty file list. It is returned
// synchronously from Run, never delivered through the event callback.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "batch configuration: " + e.Reason
}

// classify maps any per-file failure to exactly one Kind. The mapping is
// total: anything unrecognized lands in KindUnknown with its message
// intact. Cancellation keeps the I/O surface; callers that care can still
// detect it with errors.Is(err, context.Canceled).
func classify(err error) Kind {
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, keys.ErrUnavailable),
		errors.Is(err, encryption.ErrKeySize),
		errors.Is(err, encryption.ErrInvalidPadding),
		errors.Is(err, encryption.ErrInvalidBlockSize),
		errors.Is(err, encryption.ErrEmptyData):
		return KindSecurity
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, encryption.ErrTruncated),
		errors.Is(err, fileutil.ErrReplace),
		errors.Is(err, encryption.ErrInvalidSize),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.ErrShortWrite),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fs.ErrClosed),
		errors.As(err, &pathErr):
		return KindIO
	default:
		return KindUnknown
	}
}
