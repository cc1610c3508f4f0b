package types

import (
	"fmt"
	"time"
)

// TouchEventType is the phase of a single finger contact.
type TouchEventType string

const (
	TouchDown   TouchEventType = "down"
	TouchMove   TouchEventType = "move"
	TouchUp     TouchEventType = "up"
	TouchCancel TouchEventType = "cancel"
)

// TouchEvent is one sample delivered by a touch event source.
// Used by the JSON-RPC touch methods and by replay files (one event per line).
type TouchEvent struct {
	Type TouchEventType `json:"type"`
	ID   int64          `json:"id"`
	X    float64        `json:"x,omitempty"`
	Y    float64        `json:"y,omitempty"`
	// T is the event timestamp in milliseconds. Only differences matter, so
	// replay files may start at 0.
	T   int64  `json:"t"`
	App string `json:"app,omitempty"`
}

// Time converts T into a time.Time.
func (e TouchEvent) Time() time.Time {
	return time.UnixMilli(e.T)
}

// Validate checks the event type and coordinate range.
func (e TouchEvent) Validate() error {
	switch e.Type {
	case TouchDown, TouchMove:
		// written as a positive range check so NaN is rejected too
		if !(e.X >= 0 && e.X <= 1 && e.Y >= 0 && e.Y <= 1) {
			return fmt.Errorf("coordinates must be normalized to [0,1], got x=%v, y=%v", e.X, e.Y)
		}
	case TouchUp, TouchCancel:
	default:
		return fmt.Errorf("unknown touch event type %q, expected one of: down, move, up, cancel", e.Type)
	}
	return nil
}
