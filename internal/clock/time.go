package clock

import (
	"math"
	"time"
)

// Minutes is a non-negative number of minutes
type Minutes int

// Seconds is a number of seconds in [0,59]
type Seconds int

// Time is a remaining or configured duration expressed as minutes and seconds
type Time struct {
	Minutes Minutes `json:"minutes"`
	Seconds Seconds `json:"seconds"`
}

// MaxMinutes is the largest Minutes value. Any Time up to MaxMinutes:59 fits
// in a time.Duration, and so in milliseconds as well.
const MaxMinutes = int(time.Duration(math.MaxInt64)/time.Minute) - 1

// EnsureMinutes validates n as a Minutes value
func EnsureMinutes(n int) (Minutes, error) {
	if n < 0 || n > MaxMinutes {
		return 0, newRangeError("minutes", n, 0, MaxMinutes)
	}
	return Minutes(n), nil
}

// EnsureSeconds validates n as a Seconds value
func EnsureSeconds(n int) (Seconds, error) {
	if n < 0 || n > 59 {
		return 0, newRangeError("seconds", n, 0, 59)
	}
	return Seconds(n), nil
}

// NewTime builds a validated Time
func NewTime(minutes, seconds int) (Time, error) {
	m, err := EnsureMinutes(minutes)
	if err != nil {
		return Time{}, err
	}
	s, err := EnsureSeconds(seconds)
	if err != nil {
		return Time{}, err
	}
	return Time{Minutes: m, Seconds: s}, nil
}

// MustTime is like NewTime but panics on invalid input. Intended for constants and tests.
func MustTime(minutes, seconds int) Time {
	t, err := NewTime(minutes, seconds)
	if err != nil {
		panic(err)
	}
	return t
}

// ToTotalSeconds converts t to whole seconds
func ToTotalSeconds(t Time) int {
	return int(t.Minutes)*60 + int(t.Seconds)
}

// ToTotalMilliseconds converts t to milliseconds
func ToTotalMilliseconds(t Time) int64 {
	return int64(ToTotalSeconds(t)) * 1000
}

// Duration converts t to a time.Duration
func (t Time) Duration() time.Duration {
	return time.Duration(ToTotalSeconds(t)) * time.Second
}

// timeFromTotalSeconds splits a non-negative second count into a Time
func timeFromTotalSeconds(total int) Time {
	return Time{Minutes: Minutes(total / 60), Seconds: Seconds(total % 60)}
}
