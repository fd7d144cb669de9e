package clock

import (
	"fmt"
	"log"
	"time"
)

// DefaultPollInterval is how often an enabled DailyScheduler checks the clock
const DefaultPollInterval = time.Second

// TimeOfDay is a wall-clock hour and minute
type TimeOfDay struct {
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// NewTimeOfDay builds a validated TimeOfDay
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, newRangeError("hour", hour, 0, 23)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, newRangeError("minute", minute, 0, 59)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(hour, minute)
}

// String formats t as "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant of t on the calendar day of day, in day's location.
// A time of day skipped by a daylight saving change resolves with the offset
// in effect before the change, so 02:30 on a 02:00→03:00 day is 03:30.
func (t TimeOfDay) On(day time.Time) time.Time {
	year, month, date := day.Date()
	at := time.Date(year, month, date, t.Hour, t.Minute, 0, 0, day.Location())

	want := time.Date(year, month, date, t.Hour, t.Minute, 0, 0, time.UTC)
	if gap := want.Sub(wallClock(at)); gap > 0 {
		return at.Add(gap)
	}
	return at
}

// wallClock reads the local date and time of t as if it were UTC
func wallClock(t time.Time) time.Time {
	year, month, date := t.Date()
	hour, minute, sec := t.Clock()
	return time.Date(year, month, date, hour, minute, sec, t.Nanosecond(), time.UTC)
}

// DailyScheduler invokes a callback once per calendar day at a time of day.
//
// After firing, the next trigger moves to the first occurrence of the time of
// day after now, so a suspension or clock jump spanning several days fires the
// callback once and resynchronizes instead of firing once per missed day.
// Every trigger is computed from its own calendar day, which keeps the wall
// time stable across daylight saving changes.
type DailyScheduler struct {
	runtime         Runtime
	interval        time.Duration
	at              TimeOfDay
	onScheduledTime func()

	nextTrigger time.Time
	handle      Handle
}

// NewDailyScheduler creates a disabled scheduler
func NewDailyScheduler(rt Runtime, at TimeOfDay, onScheduledTime func()) *DailyScheduler {
	return &DailyScheduler{
		runtime:         rt,
		interval:        DefaultPollInterval,
		at:              at,
		onScheduledTime: onScheduledTime,
	}
}

// Enable (re)starts the schedule. The first trigger is today's occurrence of
// the time of day, or tomorrow's when today's has already been reached.
func (s *DailyScheduler) Enable() {
	s.Disable()

	s.nextTrigger = s.nextAfter(s.runtime.Now())

	var handle Handle
	handle = s.runtime.Every(s.interval, func() {
		s.poll(handle)
	})
	s.handle = handle

	log.Printf("📅 Daily reset scheduled at %s (next: %s)", s.at, s.nextTrigger.Format(time.RFC3339))
}

// Disable cancels the schedule. It is a no-op when already disabled.
func (s *DailyScheduler) Disable() {
	if s.handle != nil {
		s.handle.Stop()
		s.handle = nil
	}
	s.nextTrigger = time.Time{}
}

// Enabled returns true while a poll is scheduled
func (s *DailyScheduler) Enabled() bool {
	return s.handle != nil
}

// NextTrigger returns the next firing instant; ok is false while disabled
func (s *DailyScheduler) NextTrigger() (next time.Time, ok bool) {
	if s.handle == nil {
		return time.Time{}, false
	}
	return s.nextTrigger, true
}

// TimeOfDay returns the configured time of day
func (s *DailyScheduler) TimeOfDay() TimeOfDay {
	return s.at
}

// nextAfter returns the first occurrence of the time of day strictly after now
func (s *DailyScheduler) nextAfter(now time.Time) time.Time {
	// Noon never falls in a daylight saving gap, so AddDate keeps the calendar day
	year, month, date := now.Date()
	day := time.Date(year, month, date, 12, 0, 0, 0, now.Location())

	next := s.at.On(day)
	for !next.After(now) {
		day = day.AddDate(0, 0, 1)
		next = s.at.On(day)
	}
	return next
}

func (s *DailyScheduler) poll(h Handle) {
	if s.handle != h {
		h.Stop()
		return
	}
	if s.nextTrigger.IsZero() {
		panic(inconsistent("daily scheduler is enabled without a next trigger"))
	}
	if s.runtime.Now().Before(s.nextTrigger) {
		return
	}

	s.onScheduledTime()

	// The callback may have disabled or re-enabled the schedule
	if s.handle != h {
		return
	}
	if s.nextTrigger.IsZero() {
		panic(inconsistent("daily scheduler lost its next trigger while firing"))
	}
	s.nextTrigger = s.nextAfter(s.runtime.Now())
}
