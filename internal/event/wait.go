package event

import "context"

// Wait is a registered wait request.
type Wait struct {
	d *Dispatcher
	r *waitRequest
}

// Predicate returns the event waited for.
func (w *Wait) Predicate() Predicate {
	return w.r.predicate
}

// Done is closed once the wait resolved.
func (w *Wait) Done() <-chan struct{} {
	return w.r.done
}

// Outcome blocks until the wait resolved.
func (w *Wait) Outcome() Outcome {
	<-w.r.done
	return w.r.outcome()
}

// OutcomeContext blocks until the wait resolved or ctx ends. In the latter
// case the wait is rejected with the context's error as cause.
func (w *Wait) OutcomeContext(ctx context.Context) Outcome {
	select {
	case <-w.r.done:
	case <-ctx.Done():
		w.Cancel(ctx.Err().Error())
	}
	return w.Outcome()
}

// Cancel rejects the wait with cause unless it resolved already.
func (w *Wait) Cancel(cause string) {
	w.d.withdraw(w.r, cause)
}
