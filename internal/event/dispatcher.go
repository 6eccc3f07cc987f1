package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mimecast/dnode/internal/datas"
	"github.com/mimecast/dnode/internal/io/dlog"
)

// CauseShutdown is the rejection cause of waits pending when the
// dispatcher's context ends.
const CauseShutdown string = "dispatcher shut down"

// RecentLines is the number of most recent lines a dispatcher remembers.
const RecentLines int = 32

// Stats summarises the work done by a dispatcher.
type Stats struct {
	Lines    uint64 `json:"lines"`
	Observed uint64 `json:"observed"`
	Expired  uint64 `json:"expired"`
	Rejected uint64 `json:"rejected"`
	Pending  int    `json:"pending"`
}

func (s Stats) String() string {
	return fmt.Sprintf("Stats(lines:%d,observed:%d,expired:%d,rejected:%d,pending:%d)",
		s.Lines, s.Observed, s.Expired, s.Rejected, s.Pending)
}

// Dispatcher matches a stream of log lines against the set of pending waits
// and resolves every wait exactly once.
type Dispatcher struct {
	markers Markers
	// Interval of the deadline sweep.
	sweepInterval time.Duration

	mutex sync.Mutex
	// All currently pending waits by id.
	pending map[uint64]*waitRequest
	nextID  uint64
	// Set by OnStop, cleared by Reset.
	stopped   bool
	stopCause string
	stats     Stats
	recent    *datas.RBuffer

	cancel    context.CancelFunc
	sweepDone chan struct{}
}

// DefaultSweepInterval is used for a non-positive sweep interval.
const DefaultSweepInterval time.Duration = 50 * time.Millisecond

// NewDispatcher returns a dispatcher and starts its deadline sweep. Waits
// expire at most sweepInterval after their deadline. When ctx ends, pending
// waits are rejected with CauseShutdown.
func NewDispatcher(ctx context.Context, markers Markers, sweepInterval time.Duration) *Dispatcher {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	recent, _ := datas.NewRBuffer(RecentLines)

	d := Dispatcher{
		markers:       markers,
		sweepInterval: sweepInterval,
		pending:       make(map[uint64]*waitRequest),
		recent:        recent,
		cancel:        cancel,
		sweepDone:     make(chan struct{}),
	}

	go d.sweep(ctx)
	return &d
}

// Submit waits for p for at most timeout and returns the outcome. It blocks
// the calling goroutine until the wait resolves.
func (d *Dispatcher) Submit(p Predicate, timeout time.Duration) Outcome {
	return d.Watch(p, timeout).Outcome()
}

// SubmitContext is like Submit, a cancelled ctx rejects the wait with the
// context's error as cause.
func (d *Dispatcher) SubmitContext(ctx context.Context, p Predicate, timeout time.Duration) Outcome {
	return d.Watch(p, timeout).OutcomeContext(ctx)
}

// Watch registers a wait for p without blocking. Lines dispatched after
// Watch returns can resolve it.
func (d *Dispatcher) Watch(p Predicate, timeout time.Duration) *Wait {
	return &Wait{d: d, r: d.register(p, timeout)}
}

func (d *Dispatcher) register(p Predicate, timeout time.Duration) *waitRequest {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	now := time.Now()
	d.nextID++
	r := newWaitRequest(d.nextID, p, now, timeout)

	switch {
	case d.stopped:
		r.resolve(Rejected, now, d.stopCause, "")
		d.stats.Rejected++
		dlog.Common.Debug("Rejecting wait, tailing stopped", p, d.stopCause)
	case timeout <= 0:
		r.resolve(Expired, now, "", "")
		d.stats.Expired++
	default:
		d.pending[r.id] = r
		dlog.Common.Trace("Registered wait", r.id, p, timeout)
	}

	return r
}

func (d *Dispatcher) withdraw(r *waitRequest, cause string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if _, ok := d.pending[r.id]; !ok {
		// Resolved concurrently.
		return
	}
	delete(d.pending, r.id)
	r.resolve(Rejected, time.Now(), cause, "")
	d.stats.Rejected++
}

// OnLine resolves all pending waits matching line as observed at ts. A match
// wins over a deadline which passed but was not swept yet.
func (d *Dispatcher) OnLine(line string, ts time.Time) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stats.Lines++
	d.recent.Add(line)
	for id, r := range d.pending {
		if !r.predicate.Match(line, d.markers) {
			continue
		}
		delete(d.pending, id)
		r.resolve(Observed, ts, "", line)
		d.stats.Observed++
		dlog.Common.Debug("Observed event", r.predicate, r.at.Sub(r.submitted))
	}
}

// OnStop rejects all pending waits with cause. Until Reset, further waits
// are rejected immediately. The first cause is kept when called repeatedly.
func (d *Dispatcher) OnStop(cause string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.stopped {
		d.stopped = true
		d.stopCause = cause
	}

	if len(d.pending) > 0 {
		dlog.Common.Info("Rejecting pending waits", len(d.pending), d.stopCause)
	}
	now := time.Now()
	for id, r := range d.pending {
		delete(d.pending, id)
		r.resolve(Rejected, now, d.stopCause, "")
		d.stats.Rejected++
	}
}

// Reset makes the dispatcher accept waits again for a new tailing session.
func (d *Dispatcher) Reset() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopped = false
	d.stopCause = ""
}

// Stopped reports whether the dispatcher is stopped and why.
func (d *Dispatcher) Stopped() (bool, string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.stopped, d.stopCause
}

// PendingCount returns the number of waits not resolved yet.
func (d *Dispatcher) PendingCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return len(d.pending)
}

// Stats returns a snapshot of the dispatcher statistics.
func (d *Dispatcher) Stats() Stats {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	stats := d.stats
	stats.Pending = len(d.pending)
	return stats
}

// Recent returns the most recent lines, oldest first.
func (d *Dispatcher) Recent() []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.recent.Values()
}

// Close stops the deadline sweep and rejects all pending waits.
func (d *Dispatcher) Close() {
	d.cancel()
	<-d.sweepDone
}

func (d *Dispatcher) sweep(ctx context.Context) {
	defer close(d.sweepDone)

	ticker := time.NewTicker(d.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.expire(time.Now())
		case <-ctx.Done():
			d.OnStop(CauseShutdown)
			return
		}
	}
}

func (d *Dispatcher) expire(now time.Time) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for id, r := range d.pending {
		if !r.expired(now) {
			continue
		}
		delete(d.pending, id)
		r.resolve(Expired, now, "", "")
		d.stats.Expired++
		dlog.Common.Debug("Wait expired", r.predicate, r.deadline.Sub(r.submitted))
	}
}
