package commands

import (
	"fmt"

	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/prefs"
)

// ConfigResponse is the effective configuration and where it came from
type ConfigResponse struct {
	Path   string         `json:"path"`
	Config gesture.Config `json:"config"`
}

// ConfigSetRequest represents the parameters for changing one preference
type ConfigSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// IgnoreRequest represents the parameters for the ignore list commands
type IgnoreRequest struct {
	BundleID string `json:"bundleId"`
}

// ConfigShowCommand returns the stored preferences, with defaults filled in
func ConfigShowCommand() *CommandResponse {
	cfg, path, err := LoadConfig()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(ConfigResponse{Path: path, Config: cfg})
}

// ConfigGetCommand returns the configuration the running engine applies to
// new sessions, falling back to the stored preferences when nothing is running
func ConfigGetCommand() *CommandResponse {
	e := GetEngine()
	if e == nil {
		return ConfigShowCommand()
	}
	path, err := ConfigPath()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(ConfigResponse{Path: path, Config: e.Config()})
}

// ConfigPathCommand returns the preferences file location
func ConfigPathCommand() *CommandResponse {
	path, err := ConfigPath()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(map[string]interface{}{"path": path})
}

// ConfigSetCommand changes one preference, saves it and applies it to the
// running engine, if any
func ConfigSetCommand(req ConfigSetRequest) *CommandResponse {
	if req.Key == "" {
		return NewErrorResponse(fmt.Errorf("key is required"))
	}

	return updateConfig(func(cfg gesture.Config) (gesture.Config, error) {
		return prefs.Apply(cfg, req.Key, req.Value)
	})
}

// ConfigResetCommand removes stored preferences so the defaults apply again
func ConfigResetCommand() *CommandResponse {
	path, err := ConfigPath()
	if err != nil {
		return NewErrorResponse(err)
	}
	if err := prefs.Reset(path); err != nil {
		return NewErrorResponse(err)
	}

	cfg := gesture.DefaultConfig()
	if e := GetEngine(); e != nil {
		e.SetConfig(cfg)
	}
	return NewSuccessResponse(ConfigResponse{Path: path, Config: cfg})
}

// ConfigReloadCommand rereads the preferences file into the running engine
func ConfigReloadCommand() *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	cfg, path, err := LoadConfig()
	if err != nil {
		return NewErrorResponse(err)
	}
	e.SetConfig(cfg)
	return NewSuccessResponse(ConfigResponse{Path: path, Config: cfg})
}

// IgnoreListCommand returns the ignored application bundles
func IgnoreListCommand() *CommandResponse {
	cfg, _, err := LoadConfig()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(map[string]interface{}{"ignoredAppBundles": cfg.IgnoredAppBundles})
}

// IgnoreAddCommand adds an application bundle to the ignore list
func IgnoreAddCommand(req IgnoreRequest) *CommandResponse {
	if req.BundleID == "" {
		return NewErrorResponse(fmt.Errorf("bundle id is required"))
	}
	return updateConfig(func(cfg gesture.Config) (gesture.Config, error) {
		return cfg.WithIgnored(req.BundleID), nil
	})
}

// IgnoreRemoveCommand removes an application bundle from the ignore list
func IgnoreRemoveCommand(req IgnoreRequest) *CommandResponse {
	if req.BundleID == "" {
		return NewErrorResponse(fmt.Errorf("bundle id is required"))
	}
	return updateConfig(func(cfg gesture.Config) (gesture.Config, error) {
		if !cfg.IsIgnored(req.BundleID) {
			return cfg, fmt.Errorf("%s is not in the ignore list", req.BundleID)
		}
		return cfg.WithoutIgnored(req.BundleID), nil
	})
}

func updateConfig(change func(gesture.Config) (gesture.Config, error)) *CommandResponse {
	cfg, path, err := LoadConfig()
	if err != nil {
		return NewErrorResponse(err)
	}

	cfg, err = change(cfg)
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := prefs.Save(path, cfg); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to save preferences: %w", err))
	}

	if e := GetEngine(); e != nil {
		e.SetConfig(cfg)
	}

	return NewSuccessResponse(ConfigResponse{Path: path, Config: cfg})
}
