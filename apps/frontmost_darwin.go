//go:build darwin

package apps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const frontmostScript = `tell application "System Events" to get bundle identifier of first application process whose frontmost is true`

type systemProvider struct{}

func (systemProvider) FrontmostBundleID(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", frontmostScript)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to query frontmost application: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
