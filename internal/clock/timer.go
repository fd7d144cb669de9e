package clock

import (
	"log"
	"time"
)

// DefaultTickInterval is how often a running CountdownTimer recomputes its remaining time
const DefaultTickInterval = time.Second

// CountdownCallbacks are invoked by a CountdownTimer. All are optional.
type CountdownCallbacks struct {
	OnSubtract func(Time)
	OnPause    func(Time)
	OnComplete func()
}

// countdownState is a tagged union; only the fields of the active tag are meaningful.
type countdownState struct {
	kind    TimerType
	current Time      // initialized, running, paused
	anchor  time.Time // running
	handle  Handle    // running
}

// CountdownTimer counts a Time down to zero.
//
// Remaining time is never decremented per tick: a running timer stores the
// instant it was (re)started and recomputes the remaining time from the
// elapsed wall-clock time on every tick. Late or dropped ticks therefore
// report a larger decrement instead of drifting.
type CountdownTimer struct {
	runtime   Runtime
	interval  time.Duration
	initial   Time
	state     countdownState
	callbacks CountdownCallbacks
}

// CountdownOption configures a CountdownTimer
type CountdownOption func(*CountdownTimer)

// WithTickInterval overrides DefaultTickInterval
func WithTickInterval(d time.Duration) CountdownOption {
	return func(c *CountdownTimer) {
		if d > 0 {
			c.interval = d
		}
	}
}

// NewCountdownTimer creates a timer in the initialized state
func NewCountdownTimer(rt Runtime, initial Time, callbacks CountdownCallbacks, opts ...CountdownOption) *CountdownTimer {
	c := &CountdownTimer{
		runtime:   rt,
		interval:  DefaultTickInterval,
		initial:   initial,
		state:     countdownState{kind: TimerInitialized, current: initial},
		callbacks: callbacks,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start starts or resumes the countdown
func (c *CountdownTimer) Start() Result {
	if !c.state.kind.CanStart() {
		return failed("cannot start a %s timer", c.state.kind)
	}

	now := c.runtime.Now()
	anchor := now
	if c.state.kind == TimerPaused {
		// Shift the anchor back by what was already consumed so the countdown continues where it left off
		elapsedMs := ToTotalMilliseconds(c.initial) - ToTotalMilliseconds(c.state.current)
		anchor = now.Add(-time.Duration(elapsedMs) * time.Millisecond)
	}

	c.state = countdownState{kind: TimerRunning, current: c.state.current, anchor: anchor}

	var handle Handle
	handle = c.runtime.Every(c.interval, func() {
		c.tick(handle)
	})
	c.state.handle = handle

	return succeeded()
}

// Pause stops a running countdown, keeping its remaining time
func (c *CountdownTimer) Pause() Result {
	if !c.state.kind.CanPause() {
		return failed("cannot pause a %s timer", c.state.kind)
	}

	c.stopTick()
	current := c.state.current
	c.state = countdownState{kind: TimerPaused, current: current}

	if c.callbacks.OnPause != nil {
		c.callbacks.OnPause(current)
	}
	return succeeded()
}

// Reset returns the timer to its initial time from any state
func (c *CountdownTimer) Reset() ResetResult {
	c.stopTick()
	c.state = countdownState{kind: TimerInitialized, current: c.initial}
	return ResetResult{Result: succeeded(), ResetTo: c.initial}
}

// Dispose cancels any pending tick without changing the reported state
func (c *CountdownTimer) Dispose() {
	c.stopTick()
}

// CurrentTimerType returns the state tag
func (c *CountdownTimer) CurrentTimerType() TimerType {
	return c.state.kind
}

// CurrentTime returns the last computed remaining time, zero once completed
func (c *CountdownTimer) CurrentTime() Time {
	return c.state.current
}

// InitialTime returns the time the countdown started from
func (c *CountdownTimer) InitialTime() Time {
	return c.initial
}

func (c *CountdownTimer) stopTick() {
	if c.state.handle != nil {
		c.state.handle.Stop()
		c.state.handle = nil
	}
}

// isLive reports whether h is the tick of the current run
func (c *CountdownTimer) isLive(h Handle) bool {
	return c.state.kind == TimerRunning && c.state.handle == h
}

func (c *CountdownTimer) tick(h Handle) {
	if !c.isLive(h) {
		h.Stop()
		return
	}

	elapsed := c.runtime.Now().Sub(c.state.anchor)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := ToTotalSeconds(c.initial) - int(elapsed/time.Second)

	if remaining >= 0 {
		c.state.current = timeFromTotalSeconds(remaining)
		if c.callbacks.OnSubtract != nil {
			c.callbacks.OnSubtract(c.state.current)
		}
		if remaining > 0 {
			return
		}
		// OnSubtract may have paused, reset or disposed us
		if !c.isLive(h) {
			return
		}
	}

	h.Stop()
	c.state = countdownState{kind: TimerCompleted}
	log.Printf("⏰ Countdown of %s completed", FormatTime(c.initial))
	if c.callbacks.OnComplete != nil {
		c.callbacks.OnComplete()
	}
}
