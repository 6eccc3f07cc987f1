package loggers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type stdout struct {
	mutex sync.Mutex
}

func newStdout() *stdout {
	return &stdout{}
}

func (s *stdout) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Done()
}

func (s *stdout) Log(now time.Time, message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	fmt.Println(message)
}

// Flush is a no-op, stdout is not buffered.
func (s *stdout) Flush() {}

// Rotate is a no-op, there is no file to reopen.
func (s *stdout) Rotate() {}
