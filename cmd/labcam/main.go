package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Flarenzy/labcam/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.LoadEnvFile(".env"); err != nil {
		log.Fatalf("labcam: %v", err)
	}

	cfg, err := app.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("labcam: %v", err)
	}

	err = app.Run(ctx, cfg, os.Args[1:], app.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, app.ErrUsage):
		fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, app.Usage)
		os.Exit(2)
	default:
		log.Fatalf("labcam: %v", err)
	}
}
