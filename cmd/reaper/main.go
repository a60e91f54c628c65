package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"reaper/internal/services"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		stop()
		os.Exit(1)
	}
}

// errorMessage tells the operator whether anything was touched: pre-flight
// failures happen before any file is read or sent.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case services.IsPreflight(err):
		return "preflight failed, nothing was uploaded: " + err.Error()
	default:
		return err.Error()
	}
}
