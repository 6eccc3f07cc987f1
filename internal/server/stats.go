package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mimecast/dnode/internal/io/dlog"
)

// Used to collect and display various server stats.
type stats struct {
	mutex         sync.Mutex
	currentWaits  int
	lifetimeWaits uint64
	limitExceeded uint64
}

func (s *stats) incrementWaits() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.currentWaits++
	s.lifetimeWaits++
}

func (s *stats) decrementWaits() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.currentWaits--
}

func (s *stats) incrementLimitExceeded() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.limitExceeded++
}

func (s *stats) String() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return fmt.Sprintf("currentWaits=%d%slifetimeWaits=%d%slimitExceeded=%d",
		s.currentWaits, dlog.FieldDelimiter, s.lifetimeWaits, dlog.FieldDelimiter, s.limitExceeded)
}

func (s *stats) logServerStats(waiter Waiter) {
	dlog.Common.Info("STATS", s, waiter.Stats())
}

func (s *stats) start(ctx context.Context, waiter Waiter) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.logServerStats(waiter)
		case <-ctx.Done():
			return
		}
	}
}
