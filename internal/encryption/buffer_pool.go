package encryption

import (
	"sync"
)

// chunkSize is the read granularity for streaming operations. Memory use
// per in-flight transform stays bounded by a few chunks regardless of
// file size.
const chunkSize = 1 << 20 // 1 MiB

// bufferPool provides a pool of reusable byte slices for file I/O operations.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, chunkSize)
	},
}
