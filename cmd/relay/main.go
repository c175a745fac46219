package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/geoleowills/SQL-Library-Manager/internal/config"
	"github.com/geoleowills/SQL-Library-Manager/internal/logging"
	"github.com/geoleowills/SQL-Library-Manager/internal/relay"
)

func main() {
	cfg := config.LoadRelay()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	srv, err := relay.New(cfg, logger)
	if err != nil {
		logger.Error("create relay", logging.AttrError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Error("start relay", logging.AttrError, err)
		os.Exit(1)
	}

	<-ctx.Done()

	logger.Info("shutting down")
	if err := srv.Stop(); err != nil {
		logger.Error("stop relay", logging.AttrError, err)
	}
}
