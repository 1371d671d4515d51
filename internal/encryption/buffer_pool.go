package encryption

import (
	"sync"
)

// ChunkSize is the number of plaintext or ciphertext bytes read per step.
const ChunkSize = 8 * 1024

// bufferPool provides a pool of reusable chunk buffers for stream I/O.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, ChunkSize)

		return &buf
	},
}
