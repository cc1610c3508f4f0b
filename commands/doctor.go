package commands

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/middleclick/middleclick/apps"
)

// doctorLookupTimeout bounds the frontmost application probe
const doctorLookupTimeout = 3 * time.Second

type DoctorInfo struct {
	MiddleClickVersion string `json:"middleclick_version"`
	OS                 string `json:"os"`
	OSVersion          string `json:"os_version"`
	ConfigPath         string `json:"config_path"`
	ConfigExists       bool   `json:"config_exists"`
	ConfigError        string `json:"config_error,omitempty"`
	OsascriptPath      string `json:"osascript_path,omitempty"`
	FrontmostApp       string `json:"frontmost_app,omitempty"`
	FrontmostError     string `json:"frontmost_error,omitempty"`
	InjectorPath       string `json:"injector_path,omitempty"`
}

func getOsascriptPath() string {
	if runtime.GOOS != "darwin" {
		return ""
	}
	path, err := exec.LookPath("osascript")
	if err != nil {
		return ""
	}
	return path
}

func getOSVersion() string {
	switch runtime.GOOS {
	case "darwin":
		cmd := exec.Command("sw_vers", "-productVersion")
		output, err := cmd.CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "windows":
		cmd := exec.Command("cmd", "/c", "ver")
		output, err := cmd.CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "linux":
		// try reading /etc/os-release
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return ""
		}
		lines := strings.Split(string(data), "\n")
		for _, line := range lines {
			if strings.HasPrefix(line, "PRETTY_NAME=") {
				return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
			}
		}
		return ""
	default:
		return ""
	}
}

// DoctorCommand performs system diagnostics and returns information about the environment.
// injector is the external click injector configured for the server, if any.
func DoctorCommand(version string, injector string) *CommandResponse {
	info := DoctorInfo{
		MiddleClickVersion: version,
		OS:                 runtime.GOOS,
		OSVersion:          getOSVersion(),
		OsascriptPath:      getOsascriptPath(),
	}

	_, path, err := LoadConfig()
	info.ConfigPath = path
	if err != nil {
		info.ConfigError = err.Error()
	}
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			info.ConfigExists = true
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorLookupTimeout)
	defer cancel()
	app, err := apps.System().FrontmostBundleID(ctx)
	if err != nil {
		info.FrontmostError = err.Error()
	}
	info.FrontmostApp = app

	if injector != "" {
		if resolved, err := exec.LookPath(injector); err == nil {
			info.InjectorPath = resolved
		}
	}

	return NewSuccessResponse(info)
}
