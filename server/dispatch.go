package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/middleclick/middleclick/types"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP and WebSocket transports
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"touch_down":    touchHandler(types.TouchDown),
		"touch_move":    touchHandler(types.TouchMove),
		"touch_up":      touchHandler(types.TouchUp),
		"touch_cancel":  touchHandler(types.TouchCancel),
		"touch_batch":   handleTouchBatch,
		"config_get":    handleConfigGet,
		"config_set":    handleConfigSet,
		"config_reload": handleConfigReload,
		"ignore_add":    handleIgnoreAdd,
		"ignore_remove": handleIgnoreRemove,
		"stats":         handleStats,
		"history":       handleHistory,
		"reset":         handleReset,
	}
}

// Execute dispatches a method call using the registry
// This is the main entry point for embedded clients
func Execute(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(ctx, params)
}
