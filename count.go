package lazycancel

import (
	"fmt"
	"sync/atomic"
)

// Monotonic event counter. Used to account countdown commits.
type count struct {
	n int64
}

var _ fmt.Stringer = (*count)(nil)

func (me *count) Add(n int64) {
	atomic.AddInt64(&me.n, n)
}

func (me *count) Int64() int64 {
	return atomic.LoadInt64(&me.n)
}

func (me *count) String() string {
	return fmt.Sprintf("%v", me.Int64())
}
