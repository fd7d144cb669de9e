package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"intervalTimerService/internal/clock"
)

// Record is one ended interval
type Record struct {
	ID             uuid.UUID            `json:"id"`
	Kind           clock.IntervalKind   `json:"kind"`
	Skipped        bool                 `json:"skipped"`
	EndedAt        time.Time            `json:"endedAt"`
	FocusIntervals clock.FocusIntervals `json:"focusIntervals"`
}

// NewRecord creates a record with a fresh id. focusIntervals are the counters
// after the transition.
func NewRecord(kind clock.IntervalKind, skipped bool, endedAt time.Time, focusIntervals clock.FocusIntervals) Record {
	return Record{
		ID:             uuid.New(),
		Kind:           kind,
		Skipped:        skipped,
		EndedAt:        endedAt,
		FocusIntervals: focusIntervals,
	}
}

// Summary aggregates ended intervals
type Summary struct {
	FocusIntervals int `json:"focusIntervals"`
	ShortBreaks    int `json:"shortBreaks"`
	LongBreaks     int `json:"longBreaks"`
	Skipped        int `json:"skipped"`
	// ProductivityScore is the share of naturally completed intervals that were focus intervals, in percent
	ProductivityScore float64 `json:"productivityScore"`
}

// Statistics keeps the records of the current process in memory
type Statistics struct {
	mu      sync.RWMutex
	records []Record
}

// NewStatistics creates an empty statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{records: make([]Record, 0)}
}

// Add appends a record
func (s *Statistics) Add(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Summary aggregates every record
func (s *Statistics) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return summarize(s.records)
}

// SummarySince aggregates records that ended at or after since
func (s *Statistics) SummarySince(since time.Time) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recent []Record
	for _, r := range s.records {
		if !r.EndedAt.Before(since) {
			recent = append(recent, r)
		}
	}
	return summarize(recent)
}

// Recent returns the most recent n records, newest first
func (s *Statistics) Recent(n int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return []Record{}
	}
	if n > len(s.records) {
		n = len(s.records)
	}

	recent := make([]Record, 0, n)
	for i := len(s.records) - 1; i >= len(s.records)-n; i-- {
		recent = append(recent, s.records[i])
	}
	return recent
}

// Reset drops every record
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]Record, 0)
}

// StartOfDay returns local midnight of t's day
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func summarize(records []Record) Summary {
	var sum Summary
	completed, focusCompleted := 0, 0
	for _, r := range records {
		switch r.Kind {
		case clock.Focus:
			sum.FocusIntervals++
		case clock.ShortBreak:
			sum.ShortBreaks++
		case clock.LongBreak:
			sum.LongBreaks++
		}

		if r.Skipped {
			sum.Skipped++
			continue
		}
		completed++
		if r.Kind == clock.Focus {
			focusCompleted++
		}
	}

	if completed > 0 {
		sum.ProductivityScore = float64(focusCompleted) / float64(completed) * 100.0
	}
	return sum
}
