package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sadopc/dayboard/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{}
	defer app.Close()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
