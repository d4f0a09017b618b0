// Command storyctl is a terminal client for the timeline API. It keeps an
// on-disk page cache so timelines stay readable offline.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/siron93/moms-app/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.New().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "storyctl:", err)
		stop()
		os.Exit(1)
	}
}
