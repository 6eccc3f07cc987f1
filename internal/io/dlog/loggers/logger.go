package loggers

import (
	"context"
	"sync"
	"time"
)

// Logger is implemented by all log sinks.
type Logger interface {
	Log(now time.Time, message string)
	Start(ctx context.Context, wg *sync.WaitGroup)
	Flush()
	Rotate()
}
