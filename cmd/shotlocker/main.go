package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/upb/shotlocker/internal/cli"
	"github.com/upb/shotlocker/internal/shared"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)
	if err == nil {
		return 0
	}

	// bootstrap failures were already shown as an alert
	if !shared.IsBootstrapError(err) {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, "Error: "+err.Error())
	}
	if errors.Is(err, cli.ErrSignInRequired) {
		return 2
	}
	return 1
}
