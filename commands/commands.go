package commands

import (
	"fmt"

	"github.com/middleclick/middleclick/engine"
	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/prefs"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// activeEngine is the engine of the running server.
// It is set once at startup via SetEngine; commands that operate on live
// touch state fail when it has not been set.
var activeEngine *engine.Engine

// configPath is the preferences file commands read and write.
// An empty value means prefs.ResolvePath decides.
var configPath string

// SetEngine sets the engine used by the touch, stats and history commands.
func SetEngine(e *engine.Engine) {
	activeEngine = e
}

// GetEngine returns the current engine, or nil if SetEngine has not been called.
func GetEngine() *engine.Engine {
	return activeEngine
}

// SetConfigPath overrides the preferences file location.
func SetConfigPath(path string) {
	configPath = path
}

// ConfigPath returns the resolved preferences file location.
func ConfigPath() (string, error) {
	return prefs.ResolvePath(configPath)
}

func requireEngine() (*engine.Engine, error) {
	if activeEngine == nil {
		return nil, fmt.Errorf("recognizer is not running")
	}
	return activeEngine, nil
}

// LoadConfig reads the preferences file. Read failures are reported, but the
// returned config is always usable.
func LoadConfig() (gesture.Config, string, error) {
	path, err := ConfigPath()
	if err != nil {
		return gesture.DefaultConfig(), "", err
	}
	cfg, err := prefs.Load(path)
	if err != nil {
		return cfg, path, fmt.Errorf("failed to load preferences from %s: %w", path, err)
	}
	return cfg, path, nil
}
