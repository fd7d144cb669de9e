package clock

import "fmt"

// Settings configures an IntervalTimer
type Settings struct {
	FocusIntervalDuration Minutes
	ShortBreakDuration    Minutes
	LongBreakDuration     Minutes
	// LongBreakAfter is the number of focus intervals per set
	LongBreakAfter int
	// ResetTime is when the daily auto reset zeroes the counters
	ResetTime TimeOfDay
}

// DefaultSettings returns the classic 25/5/15 cycle with a long break after four focus intervals
func DefaultSettings() Settings {
	return Settings{
		FocusIntervalDuration: 25,
		ShortBreakDuration:    5,
		LongBreakDuration:     15,
		LongBreakAfter:        4,
		ResetTime:             TimeOfDay{Hour: 0, Minute: 0},
	}
}

// Validate checks every field
func (s Settings) Validate() error {
	durations := []struct {
		name  string
		value Minutes
	}{
		{"focus interval duration", s.FocusIntervalDuration},
		{"short break duration", s.ShortBreakDuration},
		{"long break duration", s.LongBreakDuration},
	}
	for _, d := range durations {
		if _, err := EnsureMinutes(int(d.value)); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	if s.LongBreakAfter < 1 {
		return fmt.Errorf("invalid long break after: %w", newRangeError("longBreakAfter", s.LongBreakAfter, 1, -1))
	}
	if _, err := NewTimeOfDay(s.ResetTime.Hour, s.ResetTime.Minute); err != nil {
		return fmt.Errorf("invalid reset time: %w", err)
	}
	return nil
}

// DurationFor returns the configured full duration of an interval kind
func (s Settings) DurationFor(kind IntervalKind) Time {
	switch kind {
	case ShortBreak:
		return Time{Minutes: s.ShortBreakDuration}
	case LongBreak:
		return Time{Minutes: s.LongBreakDuration}
	default:
		return Time{Minutes: s.FocusIntervalDuration}
	}
}
