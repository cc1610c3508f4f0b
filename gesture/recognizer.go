// Package gesture recognizes multi-finger taps on a trackpad and turns them
// into middle-click requests.
//
// A Recognizer is driven synchronously by the event source, one event at a
// time. It never blocks, never performs I/O and never returns errors: events
// it cannot make sense of are dropped. Only one session exists at a time.
package gesture

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is a normalized trackpad position, both axes in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// distance returns the euclidean distance between two points
func distance(a, b Point) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// TouchPoint tracks one finger from touch-down to touch-up.
type TouchPoint struct {
	ID        int64
	Start     Point
	Current   Point
	StartTime time.Time
}

// Travel returns how far the finger has moved since touch-down.
func (t TouchPoint) Travel() float64 {
	return distance(t.Start, t.Current)
}

// Click is a request to inject one middle click.
type Click struct {
	Position Point     `json:"position"`
	Time     time.Time `json:"time"`
	Fingers  int       `json:"fingers"`
}

// ClickSink receives the clicks produced by a Recognizer. EmitClick is called
// from the event delivery path and must not block.
type ClickSink interface {
	EmitClick(Click)
}

// ClickSinkFunc adapts a function to the ClickSink interface.
type ClickSinkFunc func(Click)

// EmitClick calls f(c).
func (f ClickSinkFunc) EmitClick(c Click) {
	f(c)
}

// session is the state of one gesture, from the first touch-down to the last touch-up
type session struct {
	cfg           Config
	start         time.Time
	active        map[int64]*TouchPoint
	participants  []TouchPoint
	maxConcurrent int
	suppressed    bool
}

func newSession(cfg Config, start time.Time) *session {
	return &session{
		cfg:    cfg,
		start:  start,
		active: make(map[int64]*TouchPoint),
	}
}

// Recognizer decides whether a touch session is a qualifying N-finger tap.
type Recognizer struct {
	cfg     Config
	sink    ClickSink
	current *session
}

// NewRecognizer creates a recognizer. sink may be nil, in which case clicks
// are only reported through the returned outcomes.
func NewRecognizer(cfg Config, sink ClickSink) *Recognizer {
	return &Recognizer{
		cfg:  cfg.Normalize(),
		sink: sink,
	}
}

// Config returns the configuration that the next session will use.
func (r *Recognizer) Config() Config {
	return r.cfg
}

// SetConfig replaces the configuration. A session already in flight keeps the
// configuration it started with.
func (r *Recognizer) SetConfig(cfg Config) {
	r.cfg = cfg.Normalize()
}

// Active reports whether a session is in progress.
func (r *Recognizer) Active() bool {
	return r.current != nil
}

// ActiveTouches returns the number of fingers currently down.
func (r *Recognizer) ActiveTouches() int {
	if r.current == nil {
		return 0
	}
	return len(r.current.active)
}

// Suppressed reports whether the current session has been suppressed.
func (r *Recognizer) Suppressed() bool {
	return r.current != nil && r.current.suppressed
}

// Reset discards the current session without emitting anything.
func (r *Recognizer) Reset() {
	r.current = nil
}

// TouchDown registers a new finger. frontmostBundleID is the application that
// was in front when the finger landed.
func (r *Recognizer) TouchDown(id int64, pos Point, t time.Time, frontmostBundleID string) Outcome {
	if r.current == nil {
		r.current = newSession(r.cfg, t)
	}
	s := r.current

	if _, exists := s.active[id]; exists {
		return OutcomeIgnored
	}

	if !s.suppressed && s.cfg.IsIgnored(frontmostBundleID) {
		s.suppressed = true
	}

	s.active[id] = &TouchPoint{
		ID:        id,
		Start:     pos,
		Current:   pos,
		StartTime: t,
	}
	if n := len(s.active); n > s.maxConcurrent {
		s.maxConcurrent = n
	}

	return OutcomePending
}

// TouchMove updates the position of a finger that is already down.
func (r *Recognizer) TouchMove(id int64, pos Point, t time.Time) Outcome {
	if r.current == nil {
		return OutcomeIgnored
	}
	tp, ok := r.current.active[id]
	if !ok {
		return OutcomeIgnored
	}
	if r.current.suppressed {
		return OutcomePending
	}
	tp.Current = pos
	return OutcomePending
}

// TouchUp lifts a finger. When the last finger lifts the session is evaluated,
// a click is emitted if it qualifies, and the session is discarded.
func (r *Recognizer) TouchUp(id int64, t time.Time) Outcome {
	if r.current == nil {
		return OutcomeIgnored
	}
	s := r.current
	tp, ok := s.active[id]
	if !ok {
		return OutcomeIgnored
	}

	delete(s.active, id)
	s.participants = append(s.participants, *tp)
	if len(s.active) > 0 {
		return OutcomePending
	}

	r.current = nil
	outcome, click := s.evaluate(t)
	if outcome == OutcomeClick && r.sink != nil {
		r.sink.EmitClick(click)
	}
	return outcome
}

// TouchCancelled drops a finger without letting it count toward the result.
// Cancelling the last finger discards the whole session.
func (r *Recognizer) TouchCancelled(id int64) Outcome {
	if r.current == nil {
		return OutcomeIgnored
	}
	s := r.current
	if _, ok := s.active[id]; !ok {
		return OutcomeIgnored
	}

	delete(s.active, id)
	if len(s.active) > 0 {
		return OutcomePending
	}

	r.current = nil
	return OutcomeCancelled
}

// evaluate applies the qualification rules in order: suppression, elapsed time,
// finger count, travel distance
func (s *session) evaluate(end time.Time) (Outcome, Click) {
	if s.suppressed {
		return OutcomeSuppressed, Click{}
	}

	// a lift stamped before its touch-down has no trustworthy duration
	elapsed := end.Sub(s.start)
	if elapsed < 0 || elapsed > s.cfg.MaxTimeDelta {
		return OutcomeTimeout, Click{}
	}

	switch {
	case s.maxConcurrent < s.cfg.Fingers:
		return OutcomeFingerCount, Click{}
	case s.maxConcurrent > s.cfg.Fingers && !s.cfg.AllowMoreFingers:
		return OutcomeFingerCount, Click{}
	}

	for _, tp := range s.participants {
		if tp.Travel() > s.cfg.MaxDistanceDelta {
			return OutcomeDrag, Click{}
		}
	}

	return OutcomeClick, Click{
		Position: s.centroid(),
		Time:     end,
		Fingers:  s.maxConcurrent,
	}
}

func (s *session) centroid() Point {
	xs := make([]float64, len(s.participants))
	ys := make([]float64, len(s.participants))
	for i, tp := range s.participants {
		xs[i] = tp.Current.X
		ys[i] = tp.Current.Y
	}
	return Point{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
	}
}
