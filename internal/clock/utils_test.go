package clock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervalTimerService/internal/clock"
)

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", clock.FormatTime(clock.MustTime(0, 0)))
	assert.Equal(t, "05:07", clock.FormatTime(clock.MustTime(5, 7)))
	assert.Equal(t, "25:00", clock.FormatTime(clock.MustTime(25, 0)))
	assert.Equal(t, "120:59", clock.FormatTime(clock.MustTime(120, 59)))
}

func TestFormatStatus(t *testing.T) {
	status := clock.FormatStatus(clock.FocusIntervals{Total: 7, Set: 2}, clock.MustTime(3, 9))
	assert.Equal(t, "2/7 03:09", status)
}

func TestFormatIntervalInfo(t *testing.T) {
	tests := []struct {
		timerType clock.TimerType
		kind      clock.IntervalKind
		expected  string
	}{
		{clock.TimerInitialized, clock.Focus, "Focus ready (25:00)"},
		{clock.TimerRunning, clock.ShortBreak, "Short Break 25:00 remaining"},
		{clock.TimerPaused, clock.LongBreak, "Long Break paused (25:00)"},
		{clock.TimerCompleted, clock.Focus, "Focus completed"},
		{clock.TimerRunning, "nap", "Unknown Interval"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, clock.FormatIntervalInfo(tt.timerType, tt.kind, clock.MustTime(25, 0)))
	}
}

func TestParsePositiveInteger(t *testing.T) {
	valid := map[string]int{
		"1":    1,
		"25":   25,
		" 42 ": 42,
		"3.0":  3,
		"1e2":  100,
		"+7":   7,
	}
	for input, expected := range valid {
		n, err := clock.ParsePositiveInteger(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, n, input)
	}

	invalid := map[string]clock.ParseReason{
		"":      clock.ReasonInvalidNumber,
		"abc":   clock.ReasonInvalidNumber,
		"12abc": clock.ReasonInvalidNumber,
		"NaN":   clock.ReasonInvalidNumber,
		"Inf":   clock.ReasonInvalidNumber,
		"0":     clock.ReasonNonPositiveInteger,
		"-3":    clock.ReasonNonPositiveInteger,
		"2.5":   clock.ReasonNonPositiveInteger,
		"1e300": clock.ReasonInvalidNumber,
	}
	for input, reason := range invalid {
		_, err := clock.ParsePositiveInteger(input)
		var parseErr *clock.ParseError
		require.True(t, errors.As(err, &parseErr), input)
		assert.Equal(t, reason, parseErr.Reason, input)
		assert.Equal(t, input, parseErr.Input)
	}
}
