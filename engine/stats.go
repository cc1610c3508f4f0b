package engine

import "time"

// Stats counts what the engine has seen since it started.
type Stats struct {
	Events      int64            `json:"events"`
	Rejected    int64            `json:"rejected"`
	Ignored     int64            `json:"ignored"`
	Sessions    int64            `json:"sessions"`
	Clicks      int64            `json:"clicks"`
	EmitErrors  int64            `json:"emitErrors"`
	Outcomes    map[string]int64 `json:"outcomes"`
	LastClickAt time.Time        `json:"lastClickAt,omitempty"`
	Active      bool             `json:"active"`
	Touches     int              `json:"activeTouches"`
}

func newStats() Stats {
	return Stats{Outcomes: make(map[string]int64)}
}

// Stats returns a snapshot of the counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.stats
	snapshot.Outcomes = make(map[string]int64, len(e.stats.Outcomes))
	for k, v := range e.stats.Outcomes {
		snapshot.Outcomes[k] = v
	}
	snapshot.Active = e.rec.Active()
	snapshot.Touches = e.rec.ActiveTouches()
	return snapshot
}
