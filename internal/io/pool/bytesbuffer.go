package pool

import (
	"bytes"
	"sync"
)

// BytesBuffer holds the line buffers of the tailers. A buffer is kept for
// the lifetime of a tailing session and grows to the longest line seen.
var BytesBuffer = sync.Pool{
	New: func() interface{} {
		b := bytes.Buffer{}
		b.Grow(256)
		return &b
	},
}

// RecycleBytesBuffer resets the buffer and puts it back to the pool.
func RecycleBytesBuffer(b *bytes.Buffer) {
	b.Reset()
	BytesBuffer.Put(b)
}
