//go:build windows

package utils

import (
	"os/exec"
)

// ConfigureProcessGroup is a no-op on Windows since process groups
// work differently. Context cancellation handles process termination.
func ConfigureProcessGroup(cmd *exec.Cmd) {
	// No-op on Windows
}
