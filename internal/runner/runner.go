package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"intervalTimerService/internal/clock"
	"intervalTimerService/internal/history"
	"intervalTimerService/internal/notify"
)

const (
	ioTimeout = 3 * time.Second

	// RunningSaveInterval is the most often a running countdown is saved.
	// Every other state change is saved as it happens.
	RunningSaveInterval = 10 * time.Second
)

// Runtime is a clock.Runtime that can also run host commands on its loop.
// *clock.Loop is the production implementation.
type Runtime interface {
	clock.Runtime
	Do(fn func())
}

// SnapshotStore persists the interval timer state between restarts
type SnapshotStore interface {
	Load(ctx context.Context) (clock.Snapshot, bool, error)
	Save(ctx context.Context, s clock.Snapshot) error
}

// HistoryStore keeps ended intervals
type HistoryStore interface {
	Insert(ctx context.Context, r history.Record) error
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

// Options wires the collaborators of a Runner. Snapshots and History are optional.
type Options struct {
	Settings   clock.Settings
	AutoReset  bool
	Snapshots  SnapshotStore
	History    HistoryStore
	Notifier   notify.Notifier
	Statistics *history.Statistics
}

// State is what the service reports about the timer
type State struct {
	TimerType      clock.TimerType      `json:"timerType"`
	Kind           clock.IntervalKind   `json:"kind"`
	Time           clock.Time           `json:"time"`
	FocusIntervals clock.FocusIntervals `json:"focusIntervals"`
	Status         string               `json:"status"`
	Info           string               `json:"info"`
	AutoReset      bool                 `json:"autoReset"`
	NextReset      *time.Time           `json:"nextReset,omitempty"`
}

// Runner owns the interval timer and everything around it. Every operation
// runs on the runtime's loop, so Runner methods are safe for concurrent use.
type Runner struct {
	rt        Runtime
	timer     *clock.IntervalTimer
	snapshots SnapshotStore
	history   HistoryStore
	stats     *history.Statistics
	notifier  notify.Notifier

	lastSave time.Time
}

// New creates the interval timer, restores the stored snapshot if there is
// one and enables the daily auto reset when configured.
func New(rt Runtime, opts Options) (*Runner, error) {
	r := &Runner{
		rt:        rt,
		snapshots: opts.Snapshots,
		history:   opts.History,
		stats:     opts.Statistics,
		notifier:  opts.Notifier,
	}
	if r.stats == nil {
		r.stats = history.NewStatistics()
	}
	if r.notifier == nil {
		r.notifier = notify.LogNotifier{}
	}

	// Load before the timer exists: its initial state report would overwrite the stored snapshot
	restored, ok := r.loadSnapshot()

	var err error
	rt.Do(func() {
		r.timer, err = clock.NewIntervalTimer(rt, opts.Settings, clock.Callbacks{
			OnChangeState:    r.onChangeState,
			Notify:           r.notifier.Notify,
			OnStartedFreshly: r.onStartedFreshly,
			OnIntervalEnded:  r.onIntervalEnded,
		})
		if err != nil {
			return
		}

		if ok {
			if err := r.timer.ApplySnapshot(restored); err != nil {
				log.Printf("⚠️ Failed to restore snapshot, starting fresh: %v", err)
			} else {
				log.Printf("✅ Restored %s interval at %s (%s)", restored.Kind,
					clock.FormatTime(restored.Time()), clock.FormatStatus(restored.FocusIntervals, restored.Time()))
			}
		}

		if opts.AutoReset {
			r.timer.EnableAutoReset()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interval timer: %w", err)
	}
	return r, nil
}

// Start starts or resumes the active interval
func (r *Runner) Start() (result clock.Result) {
	r.rt.Do(func() { result = r.timer.Start() })
	return result
}

// Pause pauses the active interval
func (r *Runner) Pause() (result clock.Result) {
	r.rt.Do(func() { result = r.timer.Pause() })
	return result
}

// Reset returns the active interval to its full duration
func (r *Runner) Reset() (result clock.ResetResult) {
	r.rt.Do(func() { result = r.timer.Reset() })
	return result
}

// Skip ends the active interval early
func (r *Runner) Skip() {
	r.rt.Do(r.timer.SkipInterval)
}

// Touch performs the contextual start / abandon / skip action
func (r *Runner) Touch() {
	r.rt.Do(r.timer.Touch)
}

// Retime changes the duration of the active interval; refused while running
func (r *Runner) Retime(minutes int) (updated bool, err error) {
	r.rt.Do(func() { updated, err = r.timer.Retime(minutes) })
	return updated, err
}

// ResetIntervalsSet zeroes the set counter and enters a long break
func (r *Runner) ResetIntervalsSet() {
	r.rt.Do(r.timer.ResetIntervalsSet)
}

// ResetTotalIntervals zeroes both counters and enters a fresh focus interval
func (r *Runner) ResetTotalIntervals() {
	r.rt.Do(r.timer.ResetTotalIntervals)
}

// SetAutoReset enables or disables the daily counter reset
func (r *Runner) SetAutoReset(enabled bool) {
	r.rt.Do(func() {
		if enabled {
			r.timer.EnableAutoReset()
		} else {
			r.timer.DisableAutoReset()
			log.Printf("📅 Daily auto reset disabled")
		}
	})
}

// State returns the current timer state
func (r *Runner) State() (state State) {
	r.rt.Do(func() {
		current := r.timer.CurrentTime()
		fi := r.timer.FocusIntervals()
		state = State{
			TimerType:      r.timer.TimerType(),
			Kind:           r.timer.Kind(),
			Time:           current,
			FocusIntervals: fi,
			Status:         clock.FormatStatus(fi, current),
			Info:           clock.FormatIntervalInfo(r.timer.TimerType(), r.timer.Kind(), current),
			AutoReset:      r.timer.AutoResetEnabled(),
		}
		if next, ok := r.timer.NextAutoReset(); ok {
			state.NextReset = &next
		}
	})
	return state
}

// Statistics summarizes the intervals ended since the process started
func (r *Runner) Statistics() history.Summary {
	return r.stats.Summary()
}

// TodayStatistics summarizes the intervals ended since local midnight
func (r *Runner) TodayStatistics() history.Summary {
	return r.stats.SummarySince(history.StartOfDay(r.rt.Now()))
}

// History returns the most recent ended intervals, newest first. It reads the
// history store when there is one, the in-memory statistics otherwise.
func (r *Runner) History(ctx context.Context, limit int) ([]history.Record, error) {
	if r.history == nil {
		return r.stats.Recent(limit), nil
	}
	return r.history.Recent(ctx, limit)
}

// Close releases the timer's ticks
func (r *Runner) Close() {
	r.rt.Do(r.timer.Dispose)
	log.Printf("⏹️ Interval timer disposed")
}

func (r *Runner) loadSnapshot() (clock.Snapshot, bool) {
	if r.snapshots == nil {
		return clock.Snapshot{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	s, ok, err := r.snapshots.Load(ctx)
	if err != nil {
		log.Printf("❌ Failed to load snapshot: %v", err)
		return clock.Snapshot{}, false
	}
	if !ok {
		log.Printf("🔄 No stored snapshot, starting with a fresh focus interval")
	}
	return s, ok
}

func (r *Runner) onChangeState(timerType clock.TimerType, kind clock.IntervalKind, t clock.Time, fi clock.FocusIntervals) {
	if timerType != clock.TimerRunning {
		log.Printf("🔄 %s", clock.FormatIntervalInfo(timerType, kind, t))
	}
	if r.snapshots == nil {
		return
	}

	// Saves run on the loop, a slow store must not stall every tick
	now := r.rt.Now()
	if timerType == clock.TimerRunning && !r.lastSave.IsZero() && now.Sub(r.lastSave) < RunningSaveInterval {
		return
	}
	r.lastSave = now

	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	s := clock.Snapshot{Kind: kind, Minutes: t.Minutes, Seconds: t.Seconds, FocusIntervals: fi}
	if err := r.snapshots.Save(ctx, s); err != nil {
		log.Printf("❌ Failed to save snapshot: %v", err)
	}
}

func (r *Runner) onStartedFreshly(kind clock.IntervalKind) {
	log.Printf("▶️ Fresh %s interval started", kind)
}

func (r *Runner) onIntervalEnded(kind clock.IntervalKind, skipped bool) {
	record := history.NewRecord(kind, skipped, r.rt.Now(), r.timer.FocusIntervals())
	r.stats.Add(record)

	if r.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	if err := r.history.Insert(ctx, record); err != nil {
		log.Printf("❌ Failed to store history record %s: %v", record.ID, err)
	}
}
