// Package engine owns the recognizer on behalf of a running process. It
// feeds it one event at a time, attributes touches to the frontmost app,
// keeps a short history of finished sessions and forwards clicks to an
// emitter.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/middleclick/middleclick/apps"
	"github.com/middleclick/middleclick/emitter"
	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/types"
	"github.com/middleclick/middleclick/utils"
)

// DefaultHistorySize is how many finished sessions are remembered
const DefaultHistorySize = 64

// Options configures an Engine.
type Options struct {
	Config      gesture.Config
	Emitter     emitter.Emitter
	Frontmost   apps.FrontmostProvider
	HistorySize int
}

// SessionRecord summarizes one finished session.
type SessionRecord struct {
	ID         string          `json:"id"`
	App        string          `json:"app,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	EndedAt    time.Time       `json:"endedAt"`
	MaxFingers int             `json:"maxFingers"`
	Outcome    gesture.Outcome `json:"outcome"`
	Click      *gesture.Click  `json:"click,omitempty"`
}

// Result describes the effect of one event.
type Result struct {
	SessionID     string          `json:"sessionId,omitempty"`
	Outcome       gesture.Outcome `json:"outcome"`
	ActiveTouches int             `json:"activeTouches"`
	Click         *gesture.Click  `json:"click,omitempty"`
}

// Engine is safe for concurrent use; events are applied strictly one at a time.
type Engine struct {
	mu        sync.Mutex
	rec       *gesture.Recognizer
	emitter   emitter.Emitter
	frontmost apps.FrontmostProvider
	history   *lru.Cache[string, SessionRecord]
	current   *SessionRecord
	pending   *gesture.Click
	stats     Stats
}

// New creates an engine.
func New(opts Options) (*Engine, error) {
	size := opts.HistorySize
	if size <= 0 {
		size = DefaultHistorySize
	}
	history, err := lru.New[string, SessionRecord](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session history: %w", err)
	}

	e := &Engine{
		emitter:   opts.Emitter,
		frontmost: opts.Frontmost,
		history:   history,
		stats:     newStats(),
	}
	e.rec = gesture.NewRecognizer(opts.Config, gesture.ClickSinkFunc(func(c gesture.Click) {
		e.pending = &c
	}))
	return e, nil
}

// Config returns the configuration new sessions will use.
func (e *Engine) Config() gesture.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Config()
}

// SetConfig replaces the configuration; an in-flight session is unaffected.
func (e *Engine) SetConfig(cfg gesture.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rec.SetConfig(cfg)
	applied := e.rec.Config()
	utils.Verbose("recognition config updated: fingers=%d allowMore=%v maxDistance=%.3f maxTime=%s ignored=%v",
		applied.Fingers, applied.AllowMoreFingers, applied.MaxDistanceDelta, applied.MaxTimeDelta, applied.IgnoredAppBundles)
}

// Reset drops the current session without emitting.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		utils.Verbose("session %s reset", e.current.ID)
	}
	e.rec.Reset()
	e.current = nil
}

// Handle applies one touch event.
func (e *Engine) Handle(ctx context.Context, ev types.TouchEvent) (Result, error) {
	if err := ev.Validate(); err != nil {
		e.mu.Lock()
		e.stats.Rejected++
		e.mu.Unlock()
		return Result{Outcome: gesture.OutcomeIgnored}, err
	}

	// the lookup may shell out, keep it outside the lock
	if ev.Type == types.TouchDown && ev.App == "" && e.frontmost != nil {
		app, err := e.frontmost.FrontmostBundleID(ctx)
		if err != nil {
			utils.Verbose("frontmost lookup failed: %v", err)
		}
		ev.App = app
	}

	e.mu.Lock()
	result, record := e.apply(ev)
	e.mu.Unlock()

	if result.Click != nil {
		e.emit(ctx, *result.Click)
	}
	if record != nil {
		utils.Verbose("session %s finished: %s (fingers=%d, app=%q)", record.ID, record.Outcome, record.MaxFingers, record.App)
	}

	return result, nil
}

// HandleBatch applies events in order and returns one result per event.
// Invalid events are reported in place and do not stop the batch.
func (e *Engine) HandleBatch(ctx context.Context, events []types.TouchEvent) ([]Result, []error) {
	results := make([]Result, 0, len(events))
	var errs []error
	for i, ev := range events {
		res, err := e.Handle(ctx, ev)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %d: %w", i, err))
		}
		results = append(results, res)
	}
	return results, errs
}

// apply runs under e.mu
func (e *Engine) apply(ev types.TouchEvent) (Result, *SessionRecord) {
	e.stats.Events++
	at := ev.Time()
	pos := gesture.Point{X: ev.X, Y: ev.Y}

	var outcome gesture.Outcome
	switch ev.Type {
	case types.TouchDown:
		if !e.rec.Active() {
			e.current = &SessionRecord{ID: uuid.NewString(), StartedAt: at}
			e.stats.Sessions++
		}
		outcome = e.rec.TouchDown(ev.ID, pos, at, ev.App)
		if e.current != nil {
			if e.current.App == "" {
				e.current.App = ev.App
			}
			if n := e.rec.ActiveTouches(); n > e.current.MaxFingers {
				e.current.MaxFingers = n
			}
		}
	case types.TouchMove:
		outcome = e.rec.TouchMove(ev.ID, pos, at)
	case types.TouchUp:
		outcome = e.rec.TouchUp(ev.ID, at)
	case types.TouchCancel:
		outcome = e.rec.TouchCancelled(ev.ID)
	}

	result := Result{
		Outcome:       outcome,
		ActiveTouches: e.rec.ActiveTouches(),
	}
	if e.current != nil {
		result.SessionID = e.current.ID
	}

	if outcome == gesture.OutcomeIgnored {
		e.stats.Ignored++
	}
	if !outcome.Final() {
		return result, nil
	}

	e.stats.Outcomes[outcome.String()]++
	record := e.current
	e.current = nil
	if record == nil {
		return result, nil
	}

	record.EndedAt = at
	record.Outcome = outcome
	if outcome == gesture.OutcomeClick && e.pending != nil {
		click := *e.pending
		record.Click = &click
		result.Click = &click
		e.stats.Clicks++
		e.stats.LastClickAt = click.Time
	}
	e.pending = nil
	e.history.Add(record.ID, *record)

	return result, record
}

func (e *Engine) emit(ctx context.Context, click gesture.Click) {
	if e.emitter == nil {
		return
	}
	if err := e.emitter.Emit(ctx, click); err != nil {
		utils.Warn("failed to inject middle click: %v", err)
		e.mu.Lock()
		e.stats.EmitErrors++
		e.mu.Unlock()
	}
}

// History returns up to limit finished sessions, newest first. A limit of
// zero or less returns everything retained.
func (e *Engine) History(limit int) []SessionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := e.history.Keys()
	out := make([]SessionRecord, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if rec, ok := e.history.Peek(keys[i]); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Session returns a finished session by id.
func (e *Engine) Session(id string) (SessionRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Peek(id)
}
