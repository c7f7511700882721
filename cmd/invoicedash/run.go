package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "invoicedash: start: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "invoicedash: stop: %v\n", err)
		os.Exit(1)
	}
}
