package emitter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/utils"
)

// DefaultCommandTimeout bounds how long an external injector may run
const DefaultCommandTimeout = 2 * time.Second

// waitDelay bounds how long output pipes are drained after the injector is killed
const waitDelay = 500 * time.Millisecond

// Command runs an external program for every click, for example a small
// helper that posts a CGEvent. The click is passed in the environment as
// MIDDLECLICK_X, MIDDLECLICK_Y and MIDDLECLICK_FINGERS.
type Command struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

func (c Command) Emit(ctx context.Context, click gesture.Click) error {
	if c.Path == "" {
		return fmt.Errorf("no injector command configured")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	utils.ConfigureProcessGroup(cmd)
	cmd.WaitDelay = waitDelay
	cmd.Env = append(os.Environ(),
		"MIDDLECLICK_X="+strconv.FormatFloat(click.Position.X, 'f', 6, 64),
		"MIDDLECLICK_Y="+strconv.FormatFloat(click.Position.Y, 'f', 6, 64),
		"MIDDLECLICK_FINGERS="+strconv.Itoa(click.Fingers),
	)

	utils.Verbose("running injector: %s %v", c.Path, c.Args)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("injector %s failed: %w\n%s", c.Path, err, output)
	}
	return nil
}
