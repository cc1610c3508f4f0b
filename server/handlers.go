package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/middleclick/middleclick/commands"
	"github.com/middleclick/middleclick/types"
)

var okResponse = map[string]interface{}{"status": "ok"}

// TouchParams represents the parameters for the touch_* methods
type TouchParams struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	// T is milliseconds since the epoch; the server clock is used when omitted
	T   *int64 `json:"t,omitempty"`
	App string `json:"app,omitempty"`
}

// ConfigSetParams represents the parameters for config_set. Value may be any
// JSON scalar, or a list of bundle ids for ignoredAppBundles.
type ConfigSetParams struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

var now = time.Now

func touchHandler(kind types.TouchEventType) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		if len(params) == 0 {
			return nil, fmt.Errorf("'params' is required with fields: id, x, y")
		}

		var touchParams TouchParams
		if err := json.Unmarshal(params, &touchParams); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id, x, y, t, app", err)
		}

		ev := types.TouchEvent{
			Type: kind,
			ID:   touchParams.ID,
			X:    touchParams.X,
			Y:    touchParams.Y,
			App:  touchParams.App,
		}
		if touchParams.T != nil {
			ev.T = *touchParams.T
		} else {
			ev.T = now().UnixMilli()
		}

		return unwrap(commands.TouchCommand(ctx, ev))
	}
}

func handleTouchBatch(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: events")
	}

	var req commands.TouchBatchRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: events", err)
	}

	return unwrap(commands.TouchBatchCommand(ctx, req))
}

func handleConfigGet(_ context.Context, _ json.RawMessage) (interface{}, error) {
	return unwrap(commands.ConfigGetCommand())
}

func handleConfigSet(_ context.Context, params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: key, value")
	}

	var setParams ConfigSetParams
	if err := json.Unmarshal(params, &setParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: key, value", err)
	}

	value, err := scalarString(setParams.Value)
	if err != nil {
		return nil, err
	}

	return unwrap(commands.ConfigSetCommand(commands.ConfigSetRequest{Key: setParams.Key, Value: value}))
}

func handleConfigReload(_ context.Context, _ json.RawMessage) (interface{}, error) {
	return unwrap(commands.ConfigReloadCommand())
}

func handleIgnoreAdd(_ context.Context, params json.RawMessage) (interface{}, error) {
	req, err := ignoreParams(params)
	if err != nil {
		return nil, err
	}
	return unwrap(commands.IgnoreAddCommand(req))
}

func handleIgnoreRemove(_ context.Context, params json.RawMessage) (interface{}, error) {
	req, err := ignoreParams(params)
	if err != nil {
		return nil, err
	}
	return unwrap(commands.IgnoreRemoveCommand(req))
}

func handleStats(_ context.Context, _ json.RawMessage) (interface{}, error) {
	return unwrap(commands.StatsCommand())
}

func handleHistory(_ context.Context, params json.RawMessage) (interface{}, error) {
	var req commands.HistoryRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v. Expected fields: limit", err)
		}
	}
	return unwrap(commands.HistoryCommand(req))
}

func handleReset(_ context.Context, _ json.RawMessage) (interface{}, error) {
	if _, err := unwrap(commands.ResetCommand()); err != nil {
		return nil, err
	}
	return okResponse, nil
}

func ignoreParams(params json.RawMessage) (commands.IgnoreRequest, error) {
	var req commands.IgnoreRequest
	if len(params) == 0 {
		return req, fmt.Errorf("'params' is required with fields: bundleId")
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return req, fmt.Errorf("invalid parameters: %v. Expected fields: bundleId", err)
	}
	return req, nil
}

// scalarString turns a JSON value into the string form prefs.Apply parses.
// Lists are joined with commas.
func scalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("'value' is required")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ","), nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("invalid value: %w", err)
	}
	switch v.(type) {
	case bool, float64:
		return string(raw), nil
	case nil:
		return "", fmt.Errorf("'value' must not be null")
	default:
		return "", fmt.Errorf("'value' must be a string, number, boolean or list of strings")
	}
}

func unwrap(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}
