package clock_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervalTimerService/internal/clock"
)

func TestEnsureMinutes(t *testing.T) {
	for _, n := range []int{0, 1, 25, 59, 60, 1440} {
		m, err := clock.EnsureMinutes(n)
		require.NoError(t, err)
		assert.Equal(t, clock.Minutes(n), m)
	}

	_, err := clock.EnsureMinutes(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, clock.ErrOutOfRange))
	assert.True(t, clock.IsRangeError(err))

	m, err := clock.EnsureMinutes(clock.MaxMinutes)
	require.NoError(t, err)
	assert.Equal(t, clock.Minutes(clock.MaxMinutes), m)

	for _, n := range []int{clock.MaxMinutes + 1, 1 << 60, math.MaxInt} {
		_, err = clock.EnsureMinutes(n)
		assert.ErrorIs(t, err, clock.ErrOutOfRange, "minutes %d", n)
	}
}

func TestLargestTimeFitsInDuration(t *testing.T) {
	largest := clock.MustTime(clock.MaxMinutes, 59)

	assert.Positive(t, largest.Duration())
	assert.Equal(t, int64(largest.Duration()/time.Millisecond), clock.ToTotalMilliseconds(largest))
	assert.Equal(t, int64(largest.Duration()/time.Second), int64(clock.ToTotalSeconds(largest)))
}

func TestEnsureSeconds(t *testing.T) {
	for n := 0; n <= 59; n++ {
		s, err := clock.EnsureSeconds(n)
		require.NoError(t, err)
		assert.Equal(t, clock.Seconds(n), s)
	}

	for _, n := range []int{-1, 60, 61, 3600} {
		_, err := clock.EnsureSeconds(n)
		assert.ErrorIs(t, err, clock.ErrOutOfRange, "seconds %d", n)
	}
}

func TestNewTime(t *testing.T) {
	tm, err := clock.NewTime(3, 20)
	require.NoError(t, err)
	assert.Equal(t, clock.Time{Minutes: 3, Seconds: 20}, tm)

	_, err = clock.NewTime(-1, 0)
	assert.Error(t, err)
	_, err = clock.NewTime(0, 60)
	assert.Error(t, err)

	assert.Panics(t, func() { clock.MustTime(0, 75) })
}

func TestRangeErrorMessage(t *testing.T) {
	_, err := clock.EnsureSeconds(75)
	assert.EqualError(t, err, "seconds must be an integer between 0 and 59, got 75")

	_, err = clock.EnsureMinutes(-3)
	assert.EqualError(t, err, fmt.Sprintf("minutes must be an integer between 0 and %d, got -3", clock.MaxMinutes))

	_, err = clock.NewTime(1, 0)
	require.NoError(t, err)
	_, err = clock.NewTime(0, -1)
	assert.EqualError(t, err, "seconds must be an integer between 0 and 59, got -1")
}

func TestConversions(t *testing.T) {
	tests := []struct {
		time    clock.Time
		seconds int
	}{
		{clock.MustTime(0, 0), 0},
		{clock.MustTime(0, 59), 59},
		{clock.MustTime(1, 0), 60},
		{clock.MustTime(25, 0), 1500},
		{clock.MustTime(3, 20), 200},
	}

	for _, tt := range tests {
		t.Run(clock.FormatTime(tt.time), func(t *testing.T) {
			assert.Equal(t, tt.seconds, clock.ToTotalSeconds(tt.time))
			assert.Equal(t, int64(tt.seconds)*1000, clock.ToTotalMilliseconds(tt.time))
		})
	}

	// Conversions preserve ordering
	assert.Less(t, clock.ToTotalSeconds(clock.MustTime(0, 59)), clock.ToTotalSeconds(clock.MustTime(1, 0)))
	assert.Less(t, clock.ToTotalMilliseconds(clock.MustTime(1, 59)), clock.ToTotalMilliseconds(clock.MustTime(2, 0)))
}
