package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mako10k/fzscreech/internal/app"
)

// Application metadata
const (
	AppName    = "fzscreech"
	AppVersion = "1.0.0"
)

func main() {
	metadata := app.ApplicationMetadata{
		Name:    AppName,
		Version: AppVersion,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.ExecuteExternal(ctx, metadata, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		stop()
		os.Exit(app.ExitCode(err))
	}
}
