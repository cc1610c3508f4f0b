// Package emitter delivers recognized clicks to whatever performs the actual
// middle-click injection.
package emitter

import (
	"context"
	"errors"
	"sync"

	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/utils"
)

// Emitter injects a middle click.
type Emitter interface {
	Emit(ctx context.Context, click gesture.Click) error
}

// Func adapts a function to the Emitter interface.
type Func func(ctx context.Context, click gesture.Click) error

// Emit calls f(ctx, click).
func (f Func) Emit(ctx context.Context, click gesture.Click) error {
	return f(ctx, click)
}

// Log writes every click to the log and never fails.
type Log struct{}

func (Log) Emit(_ context.Context, click gesture.Click) error {
	utils.Info("middle click at (%.3f, %.3f) with %d fingers", click.Position.X, click.Position.Y, click.Fingers)
	return nil
}

// Multi emits to every emitter in order and joins their errors.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, click gesture.Click) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, click); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every click it receives. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	clicks []gesture.Click
}

func (r *Recorder) Emit(_ context.Context, click gesture.Click) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, click)
	return nil
}

// Clicks returns a copy of the recorded clicks.
func (r *Recorder) Clicks() []gesture.Click {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]gesture.Click, len(r.clicks))
	copy(out, r.clicks)
	return out
}
