package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervalTimerService/internal/clock"
	"intervalTimerService/internal/clock/clocktest"
)

type stateChange struct {
	TimerType      clock.TimerType
	Kind           clock.IntervalKind
	Time           clock.Time
	FocusIntervals clock.FocusIntervals
}

type notification struct {
	Message string
	Kind    clock.IntervalKind
}

type intervalRecorder struct {
	changes       []stateChange
	notifications []notification
	started       []clock.IntervalKind
	ended         []string
}

func (r *intervalRecorder) callbacks() clock.Callbacks {
	return clock.Callbacks{
		OnChangeState: func(tt clock.TimerType, kind clock.IntervalKind, t clock.Time, fi clock.FocusIntervals) {
			r.changes = append(r.changes, stateChange{tt, kind, t, fi})
		},
		Notify: func(message string, ctx clock.NotifierContext) {
			r.notifications = append(r.notifications, notification{message, ctx.Kind})
		},
		OnStartedFreshly: func(kind clock.IntervalKind) {
			r.started = append(r.started, kind)
		},
		OnIntervalEnded: func(kind clock.IntervalKind, skipped bool) {
			label := string(kind)
			if skipped {
				label += ":skipped"
			}
			r.ended = append(r.ended, label)
		},
	}
}

func (r *intervalRecorder) last(t *testing.T) stateChange {
	t.Helper()
	require.NotEmpty(t, r.changes)
	return r.changes[len(r.changes)-1]
}

func (r *intervalRecorder) clear() {
	r.changes = nil
	r.notifications = nil
	r.started = nil
	r.ended = nil
}

func testSettings() clock.Settings {
	return clock.Settings{
		FocusIntervalDuration: 25,
		ShortBreakDuration:    5,
		LongBreakDuration:     15,
		LongBreakAfter:        4,
		ResetTime:             clock.TimeOfDay{Hour: 0, Minute: 0},
	}
}

func newIntervalTimer(t *testing.T, now time.Time, settings clock.Settings) (*clock.IntervalTimer, *intervalRecorder, *clocktest.Fake) {
	t.Helper()
	fake := clocktest.NewFake(now)
	rec := &intervalRecorder{}
	it, err := clock.NewIntervalTimer(fake, settings, rec.callbacks())
	require.NoError(t, err)
	t.Cleanup(it.Dispose)
	return it, rec, fake
}

func TestIntervalTimerInitialState(t *testing.T) {
	it, rec, _ := newIntervalTimer(t, epoch, testSettings())

	assert.Equal(t, clock.Focus, it.Kind())
	assert.Equal(t, clock.TimerInitialized, it.TimerType())
	assert.Equal(t, []stateChange{{clock.TimerInitialized, clock.Focus, clock.MustTime(25, 0), clock.FocusIntervals{}}}, rec.changes)
}

func TestIntervalTimerRejectsInvalidSettings(t *testing.T) {
	settings := testSettings()
	settings.LongBreakAfter = 0
	_, err := clock.NewIntervalTimer(clocktest.NewFake(epoch), settings, clock.Callbacks{})
	assert.ErrorIs(t, err, clock.ErrOutOfRange)

	settings = testSettings()
	settings.ShortBreakDuration = -5
	_, err = clock.NewIntervalTimer(clocktest.NewFake(epoch), settings, clock.Callbacks{})
	assert.ErrorIs(t, err, clock.ErrOutOfRange)
}

func TestIntervalTimerRunningReportsEachSecond(t *testing.T) {
	it, rec, fake := newIntervalTimer(t, epoch, testSettings())
	rec.clear()

	require.True(t, it.Start().OK())
	fake.Advance(time.Second)

	assert.Equal(t, stateChange{clock.TimerRunning, clock.Focus, clock.MustTime(24, 59), clock.FocusIntervals{}}, rec.last(t))
	assert.Equal(t, []clock.IntervalKind{clock.Focus}, rec.started)
}

func TestIntervalTimerPauseAndReset(t *testing.T) {
	it, rec, fake := newIntervalTimer(t, epoch, testSettings())

	it.Start()
	fake.Advance(3 * time.Second)
	require.True(t, it.Pause().OK())
	assert.Equal(t, stateChange{clock.TimerPaused, clock.Focus, clock.MustTime(24, 57), clock.FocusIntervals{}}, rec.last(t))

	assert.False(t, it.Pause().OK())

	result := it.Reset()
	assert.True(t, result.OK())
	assert.Equal(t, stateChange{clock.TimerInitialized, clock.Focus, clock.MustTime(25, 0), clock.FocusIntervals{}}, rec.last(t))

	rec.clear()
	it.Start()
	assert.Equal(t, []clock.IntervalKind{clock.Focus}, rec.started, "start after reset is fresh")
}

func TestIntervalTimerResumeIsNotFresh(t *testing.T) {
	it, rec, fake := newIntervalTimer(t, epoch, testSettings())

	it.Start()
	fake.Advance(time.Second)
	it.Pause()
	it.Start()

	assert.Equal(t, []clock.IntervalKind{clock.Focus}, rec.started)
}

func TestIntervalTimerNaturalCompletionToShortBreak(t *testing.T) {
	settings := testSettings()
	settings.FocusIntervalDuration = 1
	it, rec, fake := newIntervalTimer(t, epoch, settings)
	rec.clear()

	it.Start()
	fake.Advance(time.Minute)

	assert.Equal(t, clock.ShortBreak, it.Kind())
	assert.Equal(t, stateChange{clock.TimerInitialized, clock.ShortBreak, clock.MustTime(5, 0), clock.FocusIntervals{Total: 1, Set: 1}}, rec.last(t))
	assert.Equal(t, []notification{{clock.MessageShortBreak, clock.ShortBreak}}, rec.notifications)
	assert.Equal(t, []string{"focus"}, rec.ended)
	assert.Equal(t, 0, fake.Pending(), "next interval waits for an explicit start")
}

func TestIntervalTimerSkipToShortBreakWithoutNotification(t *testing.T) {
	it, rec, _ := newIntervalTimer(t, epoch, testSettings())
	rec.clear()

	it.SkipInterval()

	assert.Equal(t, clock.ShortBreak, it.Kind())
	assert.Equal(t, stateChange{clock.TimerInitialized, clock.ShortBreak, clock.MustTime(5, 0), clock.FocusIntervals{Total: 1, Set: 1}}, rec.last(t))
	assert.Empty(t, rec.notifications)
	assert.Equal(t, []string{"focus:skipped"}, rec.ended)
}

func TestIntervalTimerSkipRunningReportsPauseFirst(t *testing.T) {
	it, rec, fake := newIntervalTimer(t, epoch, testSettings())
	it.Start()
	fake.Advance(2 * time.Second)
	rec.clear()

	it.SkipInterval()

	require.Len(t, rec.changes, 2)
	assert.Equal(t, clock.TimerPaused, rec.changes[0].TimerType)
	assert.Equal(t, clock.TimerInitialized, rec.changes[1].TimerType)
	assert.Equal(t, 0, fake.Pending())
}

func TestIntervalTimerLongBreakAfterThreshold(t *testing.T) {
	settings := testSettings()
	settings.LongBreakAfter = 2
	it, rec, _ := newIntervalTimer(t, epoch, settings)

	it.SkipInterval() // focus -> short break
	it.SkipInterval() // short break -> focus
	it.SkipInterval() // focus -> long break

	assert.Equal(t, clock.LongBreak, it.Kind())
	assert.Equal(t, clock.FocusIntervals{Total: 2, Set: 0}, it.FocusIntervals())
	assert.Equal(t, clock.MustTime(15, 0), rec.last(t).Time)

	it.SkipInterval() // long break -> focus
	assert.Equal(t, clock.Focus, it.Kind())
	assert.Equal(t, clock.FocusIntervals{Total: 2, Set: 0}, it.FocusIntervals())

	it.SkipInterval() // focus -> short break
	assert.Equal(t, clock.ShortBreak, it.Kind())
	assert.Equal(t, clock.FocusIntervals{Total: 3, Set: 1}, it.FocusIntervals())
}

func TestIntervalTimerMultipleLongBreakCycles(t *testing.T) {
	settings := clock.Settings{FocusIntervalDuration: 1, ShortBreakDuration: 1, LongBreakDuration: 1, LongBreakAfter: 2}
	it, rec, fake := newIntervalTimer(t, epoch, settings)

	var kinds []clock.IntervalKind
	for i := 0; i < 8; i++ {
		it.Start()
		fake.Advance(time.Minute)
		kinds = append(kinds, it.Kind())
	}

	assert.Equal(t, []clock.IntervalKind{
		clock.ShortBreak, clock.Focus, clock.LongBreak, clock.Focus,
		clock.ShortBreak, clock.Focus, clock.LongBreak, clock.Focus,
	}, kinds)
	assert.Equal(t, clock.FocusIntervals{Total: 4, Set: 0}, it.FocusIntervals())
	assert.Len(t, rec.notifications, 8)
	assert.Equal(t, clock.MessageLongBreak, rec.notifications[2].Message)
	assert.Equal(t, clock.MessageFocus, rec.notifications[3].Message)
}

func TestIntervalTimerBreakCompletionKeepsCounters(t *testing.T) {
	settings := testSettings()
	settings.ShortBreakDuration = 1
	it, rec, fake := newIntervalTimer(t, epoch, settings)
	require.NoError(t, it.ApplySnapshot(clock.Snapshot{Kind: clock.ShortBreak, Minutes: 1, FocusIntervals: clock.FocusIntervals{Total: 3, Set: 1}}))
	rec.clear()

	it.Start()
	fake.Advance(time.Minute)

	assert.Equal(t, clock.Focus, it.Kind())
	assert.Equal(t, stateChange{clock.TimerInitialized, clock.Focus, clock.MustTime(25, 0), clock.FocusIntervals{Total: 3, Set: 1}}, rec.last(t))
	assert.Equal(t, []notification{{clock.MessageFocus, clock.Focus}}, rec.notifications)
}

// Natural completion and skip from the same starting state must agree on
// everything except the notification.
func TestIntervalTimerSkipMatchesCompletion(t *testing.T) {
	snapshots := []clock.Snapshot{
		{Kind: clock.Focus, Minutes: 1, FocusIntervals: clock.FocusIntervals{Total: 0, Set: 0}},
		{Kind: clock.Focus, Minutes: 1, FocusIntervals: clock.FocusIntervals{Total: 7, Set: 3}},
		{Kind: clock.ShortBreak, Minutes: 1, FocusIntervals: clock.FocusIntervals{Total: 2, Set: 2}},
		{Kind: clock.LongBreak, Minutes: 1, FocusIntervals: clock.FocusIntervals{Total: 4, Set: 0}},
	}

	for _, snap := range snapshots {
		t.Run(string(snap.Kind), func(t *testing.T) {
			completed, completedRec, fake := newIntervalTimer(t, epoch, testSettings())
			require.NoError(t, completed.ApplySnapshot(snap))
			completed.Start()
			fake.Advance(time.Minute)

			skipped, skippedRec, _ := newIntervalTimer(t, epoch, testSettings())
			require.NoError(t, skipped.ApplySnapshot(snap))
			skipped.SkipInterval()

			assert.Equal(t, completed.Kind(), skipped.Kind())
			assert.Equal(t, completed.FocusIntervals(), skipped.FocusIntervals())
			assert.Equal(t, completedRec.last(t), skippedRec.last(t))
			assert.Len(t, completedRec.notifications, 1)
			assert.Empty(t, skippedRec.notifications)
		})
	}
}

func TestIntervalTimerRetime(t *testing.T) {
	it, rec, fake := newIntervalTimer(t, epoch, testSettings())
	rec.clear()

	updated, err := it.Retime(7)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, stateChange{clock.TimerInitialized, clock.Focus, clock.MustTime(7, 0), clock.FocusIntervals{}}, rec.last(t))

	it.Start()
	rec.clear()
	updated, err = it.Retime(9)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Empty(t, rec.changes)

	it.Pause()
	updated, _ = it.Retime(9)
	assert.True(t, updated)
	assert.Equal(t, clock.MustTime(9, 0), it.CurrentTime())
	assert.Equal(t, clock.TimerInitialized, it.TimerType())
	assert.Equal(t, 0, fake.Pending())

	_, err = it.Retime(-1)
	assert.ErrorIs(t, err, clock.ErrOutOfRange)
}

func TestIntervalTimerRetimeRejectsHugeDurations(t *testing.T) {
	it, rec, fake := newIntervalTimer(t, epoch, testSettings())
	rec.clear()

	updated, err := it.Retime(1 << 60)
	assert.ErrorIs(t, err, clock.ErrOutOfRange)
	assert.False(t, updated)
	assert.Empty(t, rec.changes)
	assert.Equal(t, clock.MustTime(25, 0), it.CurrentTime())

	updated, err = it.Retime(clock.MaxMinutes)
	require.NoError(t, err)
	require.True(t, updated)

	require.True(t, it.Start().OK())
	fake.Advance(time.Second)
	assert.Equal(t, clock.TimerRunning, it.TimerType())
	assert.Equal(t, clock.MustTime(clock.MaxMinutes-1, 59), it.CurrentTime())
	assert.Equal(t, clock.FocusIntervals{}, it.FocusIntervals())
	assert.Empty(t, rec.notifications)
}

func TestIntervalTimerTouch(t *testing.T) {
	t.Run("starts when initialized", func(t *testing.T) {
		it, _, _ := newIntervalTimer(t, epoch, testSettings())
		it.Touch()
		assert.Equal(t, clock.TimerRunning, it.TimerType())
	})

	t.Run("resets a running focus interval", func(t *testing.T) {
		it, rec, fake := newIntervalTimer(t, epoch, testSettings())
		it.Start()
		fake.Advance(5 * time.Second)

		it.Touch()

		assert.Equal(t, clock.Focus, it.Kind())
		assert.Equal(t, clock.TimerInitialized, it.TimerType())
		assert.Equal(t, stateChange{clock.TimerInitialized, clock.Focus, clock.MustTime(25, 0), clock.FocusIntervals{}}, rec.last(t))
	})

	t.Run("resumes when paused", func(t *testing.T) {
		it, _, fake := newIntervalTimer(t, epoch, testSettings())
		it.Start()
		fake.Advance(5 * time.Second)
		it.Pause()

		it.Touch()

		assert.Equal(t, clock.TimerRunning, it.TimerType())
		fake.Advance(time.Second)
		assert.Equal(t, clock.MustTime(24, 54), it.CurrentTime())
	})

	t.Run("skips a running break", func(t *testing.T) {
		it, rec, _ := newIntervalTimer(t, epoch, testSettings())
		require.NoError(t, it.ApplySnapshot(clock.Snapshot{Kind: clock.ShortBreak, Minutes: 5, FocusIntervals: clock.FocusIntervals{Total: 1, Set: 1}}))
		it.Start()
		rec.clear()

		it.Touch()

		assert.Equal(t, clock.Focus, it.Kind())
		assert.Equal(t, clock.FocusIntervals{Total: 1, Set: 1}, it.FocusIntervals())
		assert.Empty(t, rec.notifications)
	})
}

func TestIntervalTimerResetIntervalsSet(t *testing.T) {
	it, rec, _ := newIntervalTimer(t, epoch, testSettings())
	require.NoError(t, it.ApplySnapshot(clock.Snapshot{Kind: clock.Focus, Minutes: 25, FocusIntervals: clock.FocusIntervals{Total: 5, Set: 2}}))

	it.ResetIntervalsSet()

	assert.Equal(t, stateChange{clock.TimerInitialized, clock.LongBreak, clock.MustTime(15, 0), clock.FocusIntervals{Total: 5, Set: 0}}, rec.last(t))

	it.SkipInterval() // long break -> focus
	it.SkipInterval() // focus -> short break
	assert.Equal(t, clock.FocusIntervals{Total: 6, Set: 1}, it.FocusIntervals(), "set counting restarts from 1")
}

func TestIntervalTimerResetTotalIntervals(t *testing.T) {
	it, rec, _ := newIntervalTimer(t, epoch, testSettings())
	require.NoError(t, it.ApplySnapshot(clock.Snapshot{Kind: clock.ShortBreak, Minutes: 2, Seconds: 10, FocusIntervals: clock.FocusIntervals{Total: 5, Set: 2}}))

	it.ResetTotalIntervals()

	assert.Equal(t, stateChange{clock.TimerInitialized, clock.Focus, clock.MustTime(25, 0), clock.FocusIntervals{}}, rec.last(t))
}

func TestIntervalTimerApplySnapshot(t *testing.T) {
	it, rec, _ := newIntervalTimer(t, epoch, testSettings())
	rec.clear()

	snap := clock.Snapshot{Kind: clock.ShortBreak, Minutes: 3, Seconds: 20, FocusIntervals: clock.FocusIntervals{Total: 7, Set: 2}}
	require.NoError(t, it.ApplySnapshot(snap))

	assert.Equal(t, []stateChange{{clock.TimerInitialized, clock.ShortBreak, clock.MustTime(3, 20), clock.FocusIntervals{Total: 7, Set: 2}}}, rec.changes)
	assert.Equal(t, snap, it.Snapshot())

	err := it.ApplySnapshot(clock.Snapshot{Kind: "nap", Minutes: 1})
	assert.Error(t, err)
	err = it.ApplySnapshot(clock.Snapshot{Kind: clock.Focus, Minutes: 1, Seconds: 60})
	assert.ErrorIs(t, err, clock.ErrOutOfRange)
	assert.Equal(t, snap, it.Snapshot(), "rejected snapshot leaves state untouched")
}

func TestIntervalTimerApplySnapshotKeepsAutoReset(t *testing.T) {
	it, _, _ := newIntervalTimer(t, epoch, testSettings())
	it.EnableAutoReset()

	require.NoError(t, it.ApplySnapshot(clock.Snapshot{Kind: clock.Focus, Minutes: 10}))
	assert.True(t, it.AutoResetEnabled())
}

func TestIntervalTimerSnapshotWhileRunning(t *testing.T) {
	it, _, fake := newIntervalTimer(t, epoch, testSettings())
	it.Start()
	fake.Advance(90 * time.Second)

	assert.Equal(t, clock.Snapshot{Kind: clock.Focus, Minutes: 23, Seconds: 30}, it.Snapshot())
}

func TestIntervalTimerAutoReset(t *testing.T) {
	now := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)

	t.Run("resets when the reset time is crossed", func(t *testing.T) {
		it, rec, fake := newIntervalTimer(t, now, testSettings())
		require.NoError(t, it.ApplySnapshot(clock.Snapshot{Kind: clock.ShortBreak, Minutes: 5, FocusIntervals: clock.FocusIntervals{Total: 3, Set: 3}}))
		it.EnableAutoReset()
		rec.clear()

		fake.Advance(time.Second)
		assert.Empty(t, rec.changes)

		fake.Advance(time.Minute)
		assert.Equal(t, []stateChange{{clock.TimerInitialized, clock.Focus, clock.MustTime(25, 0), clock.FocusIntervals{}}}, rec.changes)
	})

	t.Run("does not reset after disable", func(t *testing.T) {
		it, rec, fake := newIntervalTimer(t, now, testSettings())
		it.EnableAutoReset()
		it.DisableAutoReset()
		rec.clear()

		fake.Advance(2 * time.Minute)
		assert.Empty(t, rec.changes)
	})

	t.Run("does not reset after dispose", func(t *testing.T) {
		it, rec, fake := newIntervalTimer(t, now, testSettings())
		it.EnableAutoReset()
		it.Start()
		it.Dispose()
		rec.clear()

		fake.Advance(2 * time.Minute)
		assert.Empty(t, rec.changes)
		assert.Equal(t, 0, fake.Pending())
	})

	t.Run("running countdown and auto reset are independent", func(t *testing.T) {
		it, _, fake := newIntervalTimer(t, now, testSettings())
		it.EnableAutoReset()
		it.Start()
		assert.Equal(t, 2, fake.Pending())

		it.Pause()
		assert.Equal(t, 1, fake.Pending())
		assert.True(t, it.AutoResetEnabled())
	})
}

func TestIntervalTimerNeverOwnsTwoCountdowns(t *testing.T) {
	it, _, fake := newIntervalTimer(t, epoch, testSettings())

	it.Start()
	it.SkipInterval()
	it.Start()
	it.ResetIntervalsSet()
	it.Start()
	it.ResetTotalIntervals()
	it.Start()
	require.NoError(t, it.ApplySnapshot(clock.Snapshot{Kind: clock.Focus, Minutes: 1}))
	it.Start()

	assert.Equal(t, 1, fake.Pending())
}
