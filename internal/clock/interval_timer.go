package clock

import (
	"fmt"
	"log"
	"time"
)

// Snapshot is the persistable state of an IntervalTimer
type Snapshot struct {
	Kind           IntervalKind   `json:"kind"`
	Minutes        Minutes        `json:"minutes"`
	Seconds        Seconds        `json:"seconds"`
	FocusIntervals FocusIntervals `json:"focusIntervals"`
}

// Validate checks every field of the snapshot
func (s Snapshot) Validate() error {
	if _, err := ParseIntervalKind(string(s.Kind)); err != nil {
		return err
	}
	if _, err := NewTime(int(s.Minutes), int(s.Seconds)); err != nil {
		return err
	}
	if s.FocusIntervals.Total < 0 {
		return newRangeError("focusIntervals.total", s.FocusIntervals.Total, 0, -1)
	}
	if s.FocusIntervals.Set < 0 {
		return newRangeError("focusIntervals.set", s.FocusIntervals.Set, 0, -1)
	}
	return nil
}

// Time returns the snapshot's remaining time
func (s Snapshot) Time() Time {
	return Time{Minutes: s.Minutes, Seconds: s.Seconds}
}

// activeInterval is the single live countdown, exclusively owned by the IntervalTimer
type activeInterval struct {
	timer *CountdownTimer
	kind  IntervalKind
}

// IntervalTimer runs the focus / short break / long break cycle.
//
// It owns exactly one CountdownTimer at a time and replaces it on every
// transition. Natural completion and SkipInterval share one transition path,
// so both produce the same counters; only the notification differs.
//
// An IntervalTimer is not safe for concurrent use. All methods, like the ticks
// of its Runtime, must run on one loop (see Loop).
type IntervalTimer struct {
	runtime   Runtime
	settings  Settings
	callbacks Callbacks
	tickOpts  []CountdownOption

	active             activeInterval
	focusIntervals     FocusIntervals
	autoResetScheduler *DailyScheduler
}

// Option configures an IntervalTimer
type Option func(*IntervalTimer)

// WithCountdownOptions passes options to every CountdownTimer the IntervalTimer creates
func WithCountdownOptions(opts ...CountdownOption) Option {
	return func(it *IntervalTimer) {
		it.tickOpts = append(it.tickOpts, opts...)
	}
}

// NewIntervalTimer creates a timer at the start of a focus interval and reports that state
func NewIntervalTimer(rt Runtime, settings Settings, callbacks Callbacks, opts ...Option) (*IntervalTimer, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid interval timer settings: %w", err)
	}

	it := &IntervalTimer{
		runtime:   rt,
		settings:  settings,
		callbacks: callbacks,
	}
	for _, opt := range opts {
		opt(it)
	}

	initial := settings.DurationFor(Focus)
	it.active = activeInterval{timer: it.createTimer(initial), kind: Focus}
	it.autoResetScheduler = NewDailyScheduler(rt, settings.ResetTime, func() {
		log.Printf("🔄 Daily auto reset at %s", settings.ResetTime)
		it.ResetTotalIntervals()
	})

	it.callbacks.changeState(TimerInitialized, Focus, initial, it.focusIntervals)
	return it, nil
}

// Start starts or resumes the active interval
func (it *IntervalTimer) Start() Result {
	fresh := it.active.timer.CurrentTimerType() == TimerInitialized
	result := it.active.timer.Start()
	if result.OK() {
		log.Printf("▶️ Started %s interval at %s", it.active.kind, FormatTime(it.active.timer.CurrentTime()))
		if fresh && it.callbacks.OnStartedFreshly != nil {
			it.callbacks.OnStartedFreshly(it.active.kind)
		}
	}
	return result
}

// Pause pauses the active interval
func (it *IntervalTimer) Pause() Result {
	return it.active.timer.Pause()
}

// Reset returns the active interval to its full duration and reports it
func (it *IntervalTimer) Reset() ResetResult {
	result := it.active.timer.Reset()
	if result.OK() {
		it.callbacks.changeState(TimerInitialized, it.active.kind, result.ResetTo, it.focusIntervals)
	}
	return result
}

// SkipInterval ends the active interval early without notifying
func (it *IntervalTimer) SkipInterval() {
	it.active.timer.Pause()
	it.enterNextInterval(false, true)
}

// Retime recreates the active interval with a new duration. It is refused
// while the interval is running.
func (it *IntervalTimer) Retime(minutes int) (bool, error) {
	m, err := EnsureMinutes(minutes)
	if err != nil {
		return false, err
	}
	if it.active.timer.CurrentTimerType() == TimerRunning {
		return false, nil
	}
	it.enterInterval(it.active.kind, Time{Minutes: m})
	return true, nil
}

// Touch performs the single contextual action: start when stopped, abandon a
// running focus interval, skip a running break.
func (it *IntervalTimer) Touch() {
	switch it.active.timer.CurrentTimerType() {
	case TimerInitialized, TimerPaused, TimerCompleted:
		it.Start()
	case TimerRunning:
		if it.active.kind == Focus {
			it.Reset()
		} else {
			it.SkipInterval()
		}
	}
}

// ResetIntervalsSet zeroes the set counter and enters a long break
func (it *IntervalTimer) ResetIntervalsSet() {
	it.focusIntervals.Set = 0
	it.enterInterval(LongBreak, it.settings.DurationFor(LongBreak))
}

// ResetTotalIntervals zeroes both counters and enters a fresh focus interval
func (it *IntervalTimer) ResetTotalIntervals() {
	it.focusIntervals = FocusIntervals{}
	it.enterInterval(Focus, it.settings.DurationFor(Focus))
}

// EnableAutoReset schedules ResetTotalIntervals once a day at the configured reset time
func (it *IntervalTimer) EnableAutoReset() {
	it.autoResetScheduler.Enable()
}

// DisableAutoReset cancels the daily reset
func (it *IntervalTimer) DisableAutoReset() {
	it.autoResetScheduler.Disable()
}

// AutoResetEnabled returns true while the daily reset is scheduled
func (it *IntervalTimer) AutoResetEnabled() bool {
	return it.autoResetScheduler.Enabled()
}

// NextAutoReset returns the next daily reset instant; ok is false while disabled
func (it *IntervalTimer) NextAutoReset() (time.Time, bool) {
	return it.autoResetScheduler.NextTrigger()
}

// Dispose releases the active countdown and the daily reset. Call it before
// discarding the IntervalTimer.
func (it *IntervalTimer) Dispose() {
	it.active.timer.Dispose()
	it.DisableAutoReset()
}

// ApplySnapshot replaces the active interval and the counters. Auto reset
// enablement is left untouched.
func (it *IntervalTimer) ApplySnapshot(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	it.focusIntervals = s.FocusIntervals
	it.enterInterval(s.Kind, s.Time())
	return nil
}

// Snapshot captures the current state for persistence
func (it *IntervalTimer) Snapshot() Snapshot {
	current := it.active.timer.CurrentTime()
	return Snapshot{
		Kind:           it.active.kind,
		Minutes:        current.Minutes,
		Seconds:        current.Seconds,
		FocusIntervals: it.focusIntervals,
	}
}

// Kind returns the kind of the active interval
func (it *IntervalTimer) Kind() IntervalKind {
	return it.active.kind
}

// TimerType returns the state of the active countdown
func (it *IntervalTimer) TimerType() TimerType {
	return it.active.timer.CurrentTimerType()
}

// CurrentTime returns the remaining time of the active interval
func (it *IntervalTimer) CurrentTime() Time {
	return it.active.timer.CurrentTime()
}

// FocusIntervals returns a copy of the counters
func (it *IntervalTimer) FocusIntervals() FocusIntervals {
	return it.focusIntervals
}

// Settings returns the settings the timer was created with
func (it *IntervalTimer) Settings() Settings {
	return it.settings
}

// enterNextInterval is the single transition path for natural completion and skip
func (it *IntervalTimer) enterNextInterval(shouldNotify, skipped bool) {
	ended := it.active.kind

	switch ended {
	case Focus:
		it.focusIntervals.Total++
		it.focusIntervals.Set++
		if it.focusIntervals.Set >= it.settings.LongBreakAfter {
			it.focusIntervals.Set = 0
			it.enterInterval(LongBreak, it.settings.DurationFor(LongBreak))
		} else {
			it.enterInterval(ShortBreak, it.settings.DurationFor(ShortBreak))
		}
	case ShortBreak, LongBreak:
		it.enterInterval(Focus, it.settings.DurationFor(Focus))
	default:
		panic(inconsistent("unknown interval kind %q", ended))
	}

	log.Printf("Ended %s interval (skipped: %v), now %s %d/%d",
		ended, skipped, it.active.kind, it.focusIntervals.Set, it.focusIntervals.Total)

	if it.callbacks.OnIntervalEnded != nil {
		it.callbacks.OnIntervalEnded(ended, skipped)
	}
	if shouldNotify {
		it.callbacks.notify(it.active.kind)
	}
}

// enterInterval disposes the active countdown and replaces it
func (it *IntervalTimer) enterInterval(kind IntervalKind, t Time) {
	it.active.timer.Dispose()
	it.active = activeInterval{timer: it.createTimer(t), kind: kind}
	it.callbacks.changeState(TimerInitialized, kind, t, it.focusIntervals)
}

func (it *IntervalTimer) createTimer(t Time) *CountdownTimer {
	return NewCountdownTimer(it.runtime, t, CountdownCallbacks{
		OnSubtract: func(current Time) {
			it.callbacks.changeState(TimerRunning, it.active.kind, current, it.focusIntervals)
		},
		OnPause: func(current Time) {
			it.callbacks.changeState(TimerPaused, it.active.kind, current, it.focusIntervals)
		},
		OnComplete: func() {
			it.enterNextInterval(true, false)
		},
	}, it.tickOpts...)
}
