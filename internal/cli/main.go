package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/logrusorgru/aurora"

	"phototag/internal/application/session"
)

// Main is the entrypoint for the CLI. Call Main from an actual main function.
func Main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := New(Context(ctx))
	if err := app.Run(); err != nil {
		if errors.Is(err, session.ErrBusy) {
			log.Fatal(aurora.Red("Another pass is still running against this store; try again once it finishes."))
		}
		log.Fatal(aurora.Red(err))
	}
}
