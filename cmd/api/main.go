package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tokenrelay/internal/config"
	"tokenrelay/internal/logging"
	"tokenrelay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer srv.Close()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error(ctx, "server failed", "error", err)
		os.Exit(1)
	}
}
