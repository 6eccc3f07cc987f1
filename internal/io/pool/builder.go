package pool

import (
	"strings"
	"sync"
)

// BuilderBuffer holds the builders used to format log messages.
var BuilderBuffer = sync.Pool{
	New: func() interface{} {
		sb := strings.Builder{}
		return &sb
	},
}

// RecycleBuilderBuffer resets the builder and puts it back to the pool.
func RecycleBuilderBuffer(sb *strings.Builder) {
	sb.Reset()
	BuilderBuffer.Put(sb)
}
