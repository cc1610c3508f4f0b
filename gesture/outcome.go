package gesture

// Outcome describes what a single touch event did to the current session.
type Outcome int

const (
	// OutcomePending means the event was accepted and the session is still open
	OutcomePending Outcome = iota
	// OutcomeClick means the session qualified and a click was emitted
	OutcomeClick
	// OutcomeSuppressed means the session ended while an ignored app was frontmost
	OutcomeSuppressed
	// OutcomeTimeout means the session lasted longer than MaxTimeDelta
	OutcomeTimeout
	// OutcomeFingerCount means the finger-count policy rejected the session
	OutcomeFingerCount
	// OutcomeDrag means at least one finger moved further than MaxDistanceDelta
	OutcomeDrag
	// OutcomeCancelled means the last touch was cancelled by the event source
	OutcomeCancelled
	// OutcomeIgnored means the event did not match any tracked touch
	OutcomeIgnored
)

var outcomeNames = map[Outcome]string{
	OutcomePending:     "pending",
	OutcomeClick:       "click",
	OutcomeSuppressed:  "suppressed",
	OutcomeTimeout:     "timeout",
	OutcomeFingerCount: "finger_count",
	OutcomeDrag:        "drag",
	OutcomeCancelled:   "cancelled",
	OutcomeIgnored:     "ignored",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Final reports whether the outcome closed a session.
func (o Outcome) Final() bool {
	return o != OutcomePending && o != OutcomeIgnored
}

// MarshalText lets outcomes appear by name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
