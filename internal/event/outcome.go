package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the state of a wait.
type Status int

const (
	// Pending waits have not resolved yet. Outcomes are never Pending.
	Pending Status = iota
	// Observed means a matching line was read.
	Observed Status = iota
	// Rejected means tailing stopped before a match.
	Rejected Status = iota
	// Expired means the deadline passed without a match.
	Expired Status = iota
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Observed:
		return "Observed"
	case Rejected:
		return "Rejected"
	case Expired:
		return "Expired"
	}

	panic(fmt.Sprintf("Unknown wait status %d", int(s)))
}

// Outcome is the immutable result of a resolved wait.
type Outcome struct {
	predicate Predicate
	status    Status
	submitted time.Time
	at        time.Time
	cause     string
	line      string
}

// Predicate returns what was waited for.
func (o Outcome) Predicate() Predicate { return o.predicate }

// Status returns how the wait resolved.
func (o Outcome) Status() Status { return o.status }

// Observed reports whether the event was seen.
func (o Outcome) Observed() bool { return o.status == Observed }

// Expired reports whether the event did not occur in time.
func (o Outcome) Expired() bool { return o.status == Expired }

// Rejected reports whether tailing stopped before the event occurred.
func (o Outcome) Rejected() bool { return o.status == Rejected }

// At returns the observation timestamp. It is the resolution time for
// Rejected and Expired outcomes. A line read after the deadline but before
// the next sweep still resolves the wait as Observed, so At is bounded by
// Submitted plus the timeout plus one sweep interval.
func (o Outcome) At() time.Time { return o.at }

// Submitted returns when the wait was submitted.
func (o Outcome) Submitted() time.Time { return o.submitted }

// Latency is the time from submission until resolution.
func (o Outcome) Latency() time.Duration { return o.at.Sub(o.submitted) }

// Cause returns why a Rejected wait was rejected.
func (o Outcome) Cause() string { return o.cause }

// Line returns the log line an Observed wait matched.
func (o Outcome) Line() string { return o.line }

func (o Outcome) String() string {
	switch o.status {
	case Observed:
		return fmt.Sprintf("Outcome(%s,Observed,latency:%v)", o.predicate, o.Latency())
	case Rejected:
		return fmt.Sprintf("Outcome(%s,Rejected,cause:%s)", o.predicate, o.cause)
	default:
		return fmt.Sprintf("Outcome(%s,%s)", o.predicate, o.status)
	}
}

// MarshalJSON is used by the HTTP API.
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Event     string `json:"event"`
		Status    string `json:"status"`
		Submitted string `json:"submitted"`
		At        string `json:"at"`
		LatencyMs int64  `json:"latencyMs"`
		Cause     string `json:"cause,omitempty"`
		Line      string `json:"line,omitempty"`
	}{
		Event:     o.predicate.String(),
		Status:    o.status.String(),
		Submitted: o.submitted.Format(time.RFC3339Nano),
		At:        o.at.Format(time.RFC3339Nano),
		LatencyMs: o.Latency().Milliseconds(),
		Cause:     o.cause,
		Line:      o.line,
	}
	return json.Marshal(out)
}
