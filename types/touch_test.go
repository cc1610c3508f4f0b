package types

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouchEvent_Decode(t *testing.T) {
	var ev TouchEvent
	err := json.Unmarshal([]byte(`{"type":"down","id":2,"x":0.1,"y":0.2,"t":150,"app":"com.apple.finder"}`), &ev)
	require.NoError(t, err)

	assert.Equal(t, TouchDown, ev.Type)
	assert.Equal(t, int64(2), ev.ID)
	assert.Equal(t, "com.apple.finder", ev.App)
	assert.Equal(t, time.UnixMilli(150), ev.Time())
	assert.NoError(t, ev.Validate())
}

func TestTouchEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   TouchEvent
		wantErr bool
	}{
		{"down in range", TouchEvent{Type: TouchDown, X: 1, Y: 0}, false},
		{"move out of range", TouchEvent{Type: TouchMove, X: 1.2, Y: 0.5}, true},
		{"up ignores coordinates", TouchEvent{Type: TouchUp, X: -3}, false},
		{"cancel", TouchEvent{Type: TouchCancel}, false},
		{"unknown type", TouchEvent{Type: "hover"}, true},
		{"down with NaN x", TouchEvent{Type: TouchDown, X: math.NaN(), Y: 0.1}, true},
		{"move with NaN y", TouchEvent{Type: TouchMove, X: 0.1, Y: math.NaN()}, true},
		{"down with infinite x", TouchEvent{Type: TouchDown, X: math.Inf(1), Y: 0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
