package clock

import (
	"sync"
	"time"
)

// Clock is the source of "now"
type Clock interface {
	Now() time.Time
}

// Handle cancels a periodic callback registered with Ticker.Every
type Handle interface {
	Stop()
}

// Ticker registers periodic callbacks
type Ticker interface {
	Every(interval time.Duration, fn func()) Handle
}

// Runtime is everything the timers need from their environment
type Runtime interface {
	Clock
	Ticker
}

// Loop is the production Runtime. Every tick callback and every function
// passed to Do runs while holding the loop lock, so code driven by a Loop
// never observes two callbacks at once.
//
// Every and Handle.Stop must be called from inside the loop (within Do or a
// tick callback). A stopped handle never fires again, even when its ticker
// already delivered a tick that is waiting for the lock.
type Loop struct {
	mu  sync.Mutex
	now func() time.Time
}

// NewLoop creates a loop backed by the system clock
func NewLoop() *Loop {
	return &Loop{now: time.Now}
}

// Now returns the current wall-clock time
func (l *Loop) Now() time.Time {
	return l.now()
}

// Do runs fn on the loop
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Every starts a periodic callback
func (l *Loop) Every(interval time.Duration, fn func()) Handle {
	h := &loopHandle{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go l.run(h, fn)
	return h
}

func (l *Loop) run(h *loopHandle, fn func()) {
	for {
		select {
		case <-h.ticker.C:
			l.mu.Lock()
			if !h.stopped {
				fn()
			}
			l.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

type loopHandle struct {
	ticker  *time.Ticker
	done    chan struct{}
	stopped bool // guarded by the loop lock
}

func (h *loopHandle) Stop() {
	if h.stopped {
		return
	}
	h.stopped = true
	h.ticker.Stop()
	close(h.done)
}
