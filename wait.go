package lazycancel

import (
	"context"
	"errors"

	g "github.com/anacrolix/generics"
)

// Wait blocks until fut settles, then translates the outcome. Cancellation is an error unless
// cancelledOK, in which case it yields the zero value and no error.
func Wait[T any](fut *Future[T], cancelledOK bool) (T, error) {
	<-fut.Done()
	ret, err := fut.Result()
	if cancelledOK {
		var cancelled *CancelledError
		if errors.As(err, &cancelled) {
			var zero T
			return zero, nil
		}
	}
	return ret, err
}

// WaitAsync returns a buffered channel that receives the settled outcome. Note the asymmetry
// with Wait: no cancellation translation happens here, the raw settlement error is delivered,
// *CancelledError included. Callers that care must inspect the error themselves.
func WaitAsync[T any](fut *Future[T]) <-chan g.Result[T] {
	ch := make(chan g.Result[T], 1)
	go func() {
		<-fut.Done()
		ret, err := fut.Result()
		ch <- g.Result[T]{Ok: ret, Err: err}
	}()
	return ch
}

// WaitContext waits for fut to settle or ctx to fire, whichever is first. If ctx wins its cause
// is returned and the future is left untouched; otherwise the future's own outcome is returned
// unchanged.
func WaitContext[T any](ctx context.Context, fut *Future[T]) (ret T, err error) {
	select {
	case <-ctx.Done():
	case <-fut.Done():
	}
	// A settled future takes priority over a simultaneous context fire.
	if fut.Settled() {
		return fut.Result()
	}
	err = context.Cause(ctx)
	return
}
