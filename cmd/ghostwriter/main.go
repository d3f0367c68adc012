// File: cmd/ghostwriter/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/ghostwriter/cmd"
	"github.com/xkilldash9x/ghostwriter/internal/observability"
)

func main() {
	// Ctrl-C cancels the context; a session in flight closes out with the
	// words typed so far instead of dying mid-keystroke.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	stop()
	observability.Sync()

	if err != nil {
		// An interrupt that unwound cleanly is a normal way to end a
		// session, not a failure.
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
