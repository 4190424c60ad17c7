package lazycancel

import (
	"sync/atomic"
	"time"

	"github.com/anacrolix/chansync"
	"github.com/anacrolix/log"
	"github.com/anacrolix/sync"
)

// ArmTrigger selects which observation method starts a Source's countdown.
type ArmTrigger int

const (
	// Reading the cancellation channel with Source.Done arms the countdown. The default.
	ArmOnDone ArmTrigger = iota
	// Only Source.IsCancelled arms the countdown; Source.Done is side-effect free.
	ArmOnStatus
)

// Source is a one-shot cancellation signal whose countdown starts on first qualifying
// observation rather than at construction. The zero value never fires automatically and arms on
// Done. Fields must not be modified after first use.
type Source struct {
	// Delay from arming until the source fires on its own. Zero or negative means it never does;
	// only Cancel fires it.
	Timeout time.Duration
	// Which observation method arms the countdown. IsCancelled always arms, regardless.
	ArmOn ArmTrigger

	initOnce sync.Once
	mu       sync.Mutex
	// Guards the arm transition. Concurrent first observations commit exactly one countdown.
	armed atomic.Bool
	// Countdown commits, for the arm-once property. 0 or 1 per epoch.
	starts count
	// The current epoch's signal. Replaced wholesale by Reset, so a stale timer can only fire a
	// stale epoch.
	fired *chansync.SetOnce
	timer *time.Timer
	// A countdown was handed to the runtime. Forecloses Reset: we won't race an in-flight timer
	// for its epoch.
	timerCommitted bool
	closed         bool
}

func (me *Source) init() {
	me.initOnce.Do(func() {
		me.fired = new(chansync.SetOnce)
	})
}

// Done returns the channel closed when the current epoch's signal fires. Under ArmOnDone the
// first call per epoch arms the countdown; under ArmOnStatus it only observes. Errors after
// Close. The side effect is why this isn't a plain getter.
func (me *Source) Done() (<-chan struct{}, error) {
	me.init()
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.closed {
		return nil, ErrSourceClosed
	}
	if me.ArmOn == ArmOnDone {
		me.armLocked()
	}
	return me.fired.Done(), nil
}

// IsCancelled reports whether the signal has fired. The first call per epoch arms the countdown
// regardless of ArmOn; later calls have no further effect. Errors after Close.
func (me *Source) IsCancelled() (bool, error) {
	me.init()
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.closed {
		return false, ErrSourceClosed
	}
	me.armLocked()
	return me.fired.IsSet(), nil
}

// Cancel fires the signal immediately, whatever the countdown state. Idempotent. Errors after
// Close.
func (me *Source) Cancel() error {
	me.init()
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.closed {
		return ErrSourceClosed
	}
	if me.fired.Set() {
		log.Levelf(log.Debug, "source cancelled manually")
	}
	return nil
}

// Reset attempts to return the source to an unarmed, uncancelled epoch. Fails once a countdown
// has been committed to the runtime, even if it hasn't elapsed: a committed timer can't be
// unscheduled without racing it. Also fails after Close. On success the next qualifying
// observation arms a fresh countdown.
func (me *Source) Reset() bool {
	me.init()
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.closed || me.timerCommitted {
		return false
	}
	me.fired = new(chansync.SetOnce)
	me.armed.Store(false)
	log.Levelf(log.Debug, "source reset to fresh epoch")
	return true
}

// Close releases the timer resource. Observation and Cancel return ErrSourceClosed afterwards.
// Idempotent.
func (me *Source) Close() error {
	me.init()
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.closed {
		return nil
	}
	me.closed = true
	if me.timer != nil {
		me.timer.Stop()
	}
	return nil
}

// Caller must hold mu. The CompareAndSwap is the arm transition: losers see it already taken and
// touch nothing.
func (me *Source) armLocked() {
	if !me.armed.CompareAndSwap(false, true) {
		return
	}
	if me.Timeout <= 0 {
		return
	}
	me.starts.Add(1)
	fired := me.fired
	timeout := me.Timeout
	me.timer = time.AfterFunc(timeout, func() {
		if fired.Set() {
			log.Levelf(log.Debug, "source fired %v after arming", timeout)
		}
	})
	me.timerCommitted = true
	log.Levelf(log.Debug, "source armed with timeout %v", timeout)
}
