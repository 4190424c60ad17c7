package lazycancel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitValue(t *testing.T) {
	var f Future[string]
	go func() {
		time.Sleep(10 * time.Millisecond)
		f.SetValue("done")
	}()
	v, err := Wait(&f, false)
	require.NoError(t, err)
	require.Equal(t, "done", v)
}

func TestWaitError(t *testing.T) {
	var f Future[string]
	boom := errors.New("boom")
	f.SetErr(boom)
	_, err := Wait(&f, false)
	require.ErrorIs(t, err, boom)
}

func TestWaitCancelledTranslation(t *testing.T) {
	var f Future[int]
	f.Cancel(nil)
	_, err := Wait(&f, false)
	var cancelled *CancelledError
	require.ErrorAs(t, err, &cancelled)
	v, err := Wait(&f, true)
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestWaitAsyncDeliversRawCancellation(t *testing.T) {
	var f Future[int]
	ch := WaitAsync(&f)
	f.Cancel(errors.New("because"))
	res := <-ch
	var cancelled *CancelledError
	require.ErrorAs(t, res.Err, &cancelled)
}

func TestWaitAsyncValue(t *testing.T) {
	var f Future[int]
	ch := WaitAsync(&f)
	f.SetValue(9)
	res := <-ch
	require.NoError(t, res.Err)
	require.Equal(t, 9, res.Ok)
}

func TestWaitContextPrefersFutureOutcome(t *testing.T) {
	var f Future[int]
	f.SetValue(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v, err := WaitContext(ctx, &f)
	require.NoError(t, err)
	require.Equal(t, 5, v)
}

func TestWaitContextCancelled(t *testing.T) {
	var f Future[int]
	ctx, cancel := context.WithCancelCause(context.Background())
	boom := errors.New("upstream gave up")
	cancel(boom)
	_, err := WaitContext(ctx, &f)
	require.ErrorIs(t, err, boom)
	require.False(t, f.Settled())
}

func TestWaitContextPropagatesFault(t *testing.T) {
	var f Future[int]
	boom := errors.New("boom")
	go f.SetErr(boom)
	_, err := WaitContext(context.Background(), &f)
	require.ErrorIs(t, err, boom)
}
