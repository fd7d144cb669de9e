// Package clocktest provides a deterministic clock.Runtime for tests.
package clocktest

import (
	"time"

	"intervalTimerService/internal/clock"
)

// Fake is a manually driven clock.Runtime. Time only moves through Advance
// and Set, and periodic callbacks fire only inside Advance, in due order.
// Like the code it drives, a Fake is not safe for concurrent use.
type Fake struct {
	now     time.Time
	entries []*entry
	seq     int
}

type entry struct {
	fake     *Fake
	interval time.Duration
	next     time.Time
	fn       func()
	seq      int
	stopped  bool
}

// NewFake creates a fake runtime at now
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the fake current time
func (f *Fake) Now() time.Time {
	return f.now
}

// Every registers a periodic callback first due one interval from now
func (f *Fake) Every(interval time.Duration, fn func()) clock.Handle {
	if interval <= 0 {
		panic("clocktest: non-positive interval")
	}
	f.seq++
	e := &entry{fake: f, interval: interval, next: f.now.Add(interval), fn: fn, seq: f.seq}
	f.entries = append(f.entries, e)
	return e
}

// Do runs fn immediately. It lets a Fake stand in for a Loop.
func (f *Fake) Do(fn func()) {
	fn()
}

// Stop cancels the callback
func (e *entry) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.fake.remove(e)
}

// Advance moves time forward by d, firing every callback that falls due on the way
func (f *Fake) Advance(d time.Duration) {
	target := f.now.Add(d)
	for {
		e := f.nextDue(target)
		if e == nil {
			break
		}
		f.now = e.next
		e.next = e.next.Add(e.interval)
		e.fn()
	}
	f.now = target
}

// Set jumps the clock to t without firing anything, like a wake from
// suspension. Pending callbacks are rescheduled one interval after t.
func (f *Fake) Set(t time.Time) {
	f.now = t
	for _, e := range f.entries {
		e.next = t.Add(e.interval)
	}
}

// Pending returns the number of live periodic callbacks
func (f *Fake) Pending() int {
	return len(f.entries)
}

func (f *Fake) nextDue(target time.Time) *entry {
	var due *entry
	for _, e := range f.entries {
		if e.next.After(target) {
			continue
		}
		if due == nil || e.next.Before(due.next) || (e.next.Equal(due.next) && e.seq < due.seq) {
			due = e
		}
	}
	return due
}

func (f *Fake) remove(e *entry) {
	for i, candidate := range f.entries {
		if candidate == e {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return
		}
	}
}
