package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/middleclick/middleclick/cli"
	"github.com/middleclick/middleclick/commands"
)

func main() {
	// a signal stops a running server gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)

	// drop any half finished session
	if eng := commands.GetEngine(); eng != nil {
		eng.Reset()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
