package lazycancel

import (
	"github.com/anacrolix/chansync"
	"github.com/pkg/errors"
)

// Signal is an externally owned cancellation signal. context.Context satisfies it directly;
// channel-shaped tokens like those from Source.Done or chansync.SetOnce.Done are adapted with
// SignalChan.
type Signal interface {
	Done() <-chan struct{}
}

// SignalChan adapts a closed-on-fire channel to a Signal. Defined channel types with the same
// underlying type convert straight into it.
type SignalChan <-chan struct{}

func (me SignalChan) Done() <-chan struct{} {
	return me
}

// Link is the registration binding a Signal to a Future. It is released automatically once the
// future settles; Close releases it early.
type Link struct {
	unlinked chansync.SetOnce
	released chansync.SetOnce
}

// CancelOn registers signal to cancel the future when it fires. The registration lives until the
// future settles for any reason, then is released unconditionally, so a shared long-lived signal
// doesn't accumulate callbacks from short-lived futures. Binding failures come back as error
// values, never panics, so call sites can compose fallible setup. Never blocks.
func (me *Future[T]) CancelOn(signal Signal) (*Link, error) {
	if me == nil {
		return nil, errors.New("nil future")
	}
	if signal == nil {
		return nil, errors.New("nil signal")
	}
	l := new(Link)
	go func() {
		defer l.released.Set()
		select {
		case <-signal.Done():
			me.Cancel(signalCause(signal))
		case <-me.Done():
		case <-l.unlinked.Done():
		}
	}()
	return l, nil
}

// The cause a Signal reports for firing, if it exposes one. context.Context does.
func signalCause(signal Signal) error {
	if c, ok := signal.(interface{ Err() error }); ok {
		return c.Err()
	}
	return nil
}

// Close releases the registration without waiting for the future to settle. Idempotent and
// always safe, including after automatic release.
func (me *Link) Close() error {
	me.unlinked.Set()
	return nil
}

// Released returns the channel closed once the registration has been torn down, whichever side
// got there first.
func (me *Link) Released() <-chan struct{} {
	return me.released.Done()
}
