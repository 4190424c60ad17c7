package lazycancel

import (
	"fmt"

	"github.com/anacrolix/chansync"
	g "github.com/anacrolix/generics"
	"github.com/anacrolix/missinggo/v2/panicif"
	"github.com/anacrolix/sync"
)

// CancelledError reports that a Future settled by cancellation. Cause is whatever the canceller
// provided, possibly nil.
type CancelledError struct {
	Cause error
}

func (me *CancelledError) Error() string {
	if me.Cause == nil {
		return "cancelled"
	}
	return fmt.Sprintf("cancelled: %v", me.Cause)
}

func (me *CancelledError) Unwrap() error {
	return me.Cause
}

// Future is a single-assignment holder for the eventual outcome of a pending computation: a
// value, an error, or cancellation. The first settlement wins and later attempts are no-ops.
// The zero value is ready to use.
type Future[T any] struct {
	// Held while committing or reading the outcome. Settlers hold it across the SetOnce
	// transition and the field writes, so anyone who saw Done fire reads fields fully published.
	mu      sync.Mutex
	settled chansync.SetOnce
	value   g.Option[T]
	err     error
}

// Done returns the channel closed when the future settles, whatever the outcome.
func (me *Future[T]) Done() <-chan struct{} {
	return me.settled.Done()
}

// Settled reports whether an outcome has been committed.
func (me *Future[T]) Settled() bool {
	return me.settled.IsSet()
}

// SetValue settles the future successfully. Reports whether this call won settlement.
func (me *Future[T]) SetValue(v T) bool {
	me.mu.Lock()
	defer me.mu.Unlock()
	if !me.settled.Set() {
		return false
	}
	me.value = g.Some(v)
	return true
}

// SetErr settles the future as faulted. err must not be nil. Reports whether this call won
// settlement.
func (me *Future[T]) SetErr(err error) bool {
	panicif.Nil(err)
	me.mu.Lock()
	defer me.mu.Unlock()
	if !me.settled.Set() {
		return false
	}
	me.err = err
	return true
}

// Cancel settles the future as cancelled, with an optional cause. A no-op against an already
// settled future. Reports whether this call won settlement.
func (me *Future[T]) Cancel(cause error) bool {
	me.mu.Lock()
	defer me.mu.Unlock()
	if !me.settled.Set() {
		return false
	}
	me.err = &CancelledError{Cause: cause}
	return true
}

// Cancelled reports whether the future settled by cancellation.
func (me *Future[T]) Cancelled() bool {
	if !me.settled.IsSet() {
		return false
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	_, ok := me.err.(*CancelledError)
	return ok
}

// Result returns the committed outcome without blocking. ErrNotSettled while pending. A
// cancelled future returns a *CancelledError.
func (me *Future[T]) Result() (ret T, err error) {
	me.mu.Lock()
	defer me.mu.Unlock()
	if !me.settled.IsSet() {
		err = ErrNotSettled
		return
	}
	if me.err != nil {
		err = me.err
		return
	}
	panicif.False(me.value.Ok)
	ret = me.value.Value
	return
}
