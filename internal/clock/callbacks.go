package clock

// Notification messages, one per destination interval kind
const (
	MessageFocus      = "⏰  Now it's time to focus"
	MessageShortBreak = "☕️  Time for a short break"
	MessageLongBreak  = "🏖️  Time for a long break"
)

// FocusIntervals counts focus intervals that were completed or skipped
type FocusIntervals struct {
	// Total counts since the last total reset
	Total int `json:"total"`
	// Set counts since the last long break
	Set int `json:"set"`
}

// NotifierContext accompanies every notification
type NotifierContext struct {
	Kind IntervalKind `json:"kind"`
}

// ChangeStateFunc receives every state change of an IntervalTimer
type ChangeStateFunc func(timerType TimerType, kind IntervalKind, t Time, focusIntervals FocusIntervals)

// NotifierFunc delivers a user-facing notification
type NotifierFunc func(message string, ctx NotifierContext)

// Callbacks connect an IntervalTimer to its owner. All are optional.
type Callbacks struct {
	OnChangeState ChangeStateFunc
	Notify        NotifierFunc
	// OnStartedFreshly is called when an interval starts from its full duration
	OnStartedFreshly func(kind IntervalKind)
	// OnIntervalEnded is called once per interval exit, natural or skipped,
	// after the next interval has been entered
	OnIntervalEnded func(kind IntervalKind, skipped bool)
}

// MessageFor returns the notification announcing kind
func MessageFor(kind IntervalKind) string {
	switch kind {
	case ShortBreak:
		return MessageShortBreak
	case LongBreak:
		return MessageLongBreak
	default:
		return MessageFocus
	}
}

func (c Callbacks) changeState(timerType TimerType, kind IntervalKind, t Time, focusIntervals FocusIntervals) {
	if c.OnChangeState != nil {
		c.OnChangeState(timerType, kind, t, focusIntervals)
	}
}

func (c Callbacks) notify(kind IntervalKind) {
	if c.Notify != nil {
		c.Notify(MessageFor(kind), NotifierContext{Kind: kind})
	}
}
