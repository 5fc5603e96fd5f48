package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/ratedesk/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, cmd.NewRootCmd())
	stop()
	os.Exit(code)
}
