package clock

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTime formats t as MM:SS
func FormatTime(t Time) string {
	return fmt.Sprintf("%02d:%02d", t.Minutes, t.Seconds)
}

// FormatStatus renders the compact status line "set/total MM:SS"
func FormatStatus(focusIntervals FocusIntervals, t Time) string {
	return fmt.Sprintf("%d/%d %s", focusIntervals.Set, focusIntervals.Total, FormatTime(t))
}

// FormatIntervalInfo formats interval information for display
func FormatIntervalInfo(timerType TimerType, kind IntervalKind, t Time) string {
	var label string
	switch kind {
	case Focus:
		label = "Focus"
	case ShortBreak:
		label = "Short Break"
	case LongBreak:
		label = "Long Break"
	default:
		return "Unknown Interval"
	}

	switch timerType {
	case TimerInitialized:
		return fmt.Sprintf("%s ready (%s)", label, FormatTime(t))
	case TimerRunning:
		return fmt.Sprintf("%s %s remaining", label, FormatTime(t))
	case TimerPaused:
		return fmt.Sprintf("%s paused (%s)", label, FormatTime(t))
	case TimerCompleted:
		return fmt.Sprintf("%s completed", label)
	default:
		return label
	}
}

// ParseReason explains why ParsePositiveInteger rejected its input
type ParseReason string

const (
	ReasonInvalidNumber      ParseReason = "invalid_number"
	ReasonNonPositiveInteger ParseReason = "non_positive_integer"
)

// ParseError is returned by ParsePositiveInteger
type ParseError struct {
	Input  string
	Reason ParseReason
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// ParsePositiveInteger parses user input such as a retime value
func ParsePositiveInteger(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	f, err := strconv.ParseFloat(trimmed, 64)
	// Values beyond the int64 range cannot be converted exactly
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, &ParseError{Input: s, Reason: ReasonInvalidNumber}
	}
	n := int(f)
	if float64(n) != f || n <= 0 {
		return 0, &ParseError{Input: s, Reason: ReasonNonPositiveInteger}
	}
	return n, nil
}
