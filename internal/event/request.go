package event

import "time"

// A single pending wait. All fields but done are guarded by the dispatcher
// mutex until done is closed, after which they are read-only.
type waitRequest struct {
	id        uint64
	predicate Predicate
	submitted time.Time
	deadline  time.Time
	status    Status
	at        time.Time
	cause     string
	line      string
	done      chan struct{}
}

func newWaitRequest(id uint64, p Predicate, submitted time.Time, timeout time.Duration) *waitRequest {
	return &waitRequest{
		id:        id,
		predicate: p,
		submitted: submitted,
		deadline:  submitted.Add(timeout),
		status:    Pending,
		done:      make(chan struct{}),
	}
}

// Transitions out of Pending. Returns false if already resolved.
func (r *waitRequest) resolve(status Status, at time.Time, cause, line string) bool {
	if r.status != Pending {
		return false
	}

	r.status = status
	r.at = at
	r.cause = cause
	r.line = line
	close(r.done)

	return true
}

func (r *waitRequest) expired(now time.Time) bool {
	return now.After(r.deadline)
}

func (r *waitRequest) outcome() Outcome {
	return Outcome{
		predicate: r.predicate,
		status:    r.status,
		submitted: r.submitted,
		at:        r.at,
		cause:     r.cause,
		line:      r.line,
	}
}
