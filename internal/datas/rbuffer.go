package datas

import "fmt"

// RBuffer is a circular string buffer keeping the most recent values. It is
// not safe for concurrent use.
type RBuffer struct {
	data []string
	// Position the next value gets written to.
	next int
	full bool
}

// NewRBuffer creates a new string ring buffer.
func NewRBuffer(capacity int) (*RBuffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("RBuffer capacity must not be less than 1")
	}
	return &RBuffer{data: make([]string, capacity)}, nil
}

// Capacity of the buffer.
func (r *RBuffer) Capacity() int {
	return len(r.data)
}

// Len returns the number of values held.
func (r *RBuffer) Len() int {
	if r.full {
		return len(r.data)
	}
	return r.next
}

// Add a value, overwriting the oldest one when full.
func (r *RBuffer) Add(value string) {
	r.data[r.next] = value
	r.next = (r.next + 1) % len(r.data)
	if r.next == 0 {
		r.full = true
	}
}

// Values returns a copy of all values, oldest first.
func (r *RBuffer) Values() []string {
	if !r.full {
		return append([]string(nil), r.data[:r.next]...)
	}

	values := make([]string, 0, len(r.data))
	values = append(values, r.data[r.next:]...)
	return append(values, r.data[:r.next]...)
}

// Reset drops all values.
func (r *RBuffer) Reset() {
	for i := range r.data {
		r.data[i] = ""
	}
	r.next = 0
	r.full = false
}
