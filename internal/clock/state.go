package clock

import "fmt"

// TimerType is the state tag of a CountdownTimer
type TimerType string

const (
	TimerInitialized TimerType = "initialized"
	TimerRunning     TimerType = "running"
	TimerPaused      TimerType = "paused"
	TimerCompleted   TimerType = "completed"
)

// CanStart returns true if a timer in this state may be started
func (t TimerType) CanStart() bool {
	return t == TimerInitialized || t == TimerPaused
}

// CanPause returns true if a timer in this state may be paused
func (t TimerType) CanPause() bool {
	return t == TimerRunning
}

// IntervalKind labels the period an IntervalTimer is in
type IntervalKind string

const (
	Focus      IntervalKind = "focus"
	ShortBreak IntervalKind = "shortBreak"
	LongBreak  IntervalKind = "longBreak"
)

// IntervalKindMap maps the wire representation to an IntervalKind
var IntervalKindMap = map[string]IntervalKind{
	"focus":      Focus,
	"shortBreak": ShortBreak,
	"longBreak":  LongBreak,
}

// ParseIntervalKind validates s as an IntervalKind
func ParseIntervalKind(s string) (IntervalKind, error) {
	kind, ok := IntervalKindMap[s]
	if !ok {
		return "", fmt.Errorf("invalid interval kind: %q", s)
	}
	return kind, nil
}

// IsBreak returns true for short and long breaks
func (k IntervalKind) IsBreak() bool {
	return k == ShortBreak || k == LongBreak
}

// ResultType tells whether a requested transition was applied
type ResultType string

const (
	Succeeded ResultType = "succeeded"
	Failed    ResultType = "failed"
)

// Result is returned by transitions that a caller may legitimately request
// in the wrong state. A failed Result had no side effect.
type Result struct {
	Type   ResultType `json:"type"`
	Reason string     `json:"reason,omitempty"`
}

// OK returns true if the transition was applied
func (r Result) OK() bool {
	return r.Type == Succeeded
}

func succeeded() Result {
	return Result{Type: Succeeded}
}

func failed(format string, args ...interface{}) Result {
	return Result{Type: Failed, Reason: fmt.Sprintf(format, args...)}
}

// ResetResult is returned by Reset, which always succeeds
type ResetResult struct {
	Result
	ResetTo Time `json:"resetTo"`
}
