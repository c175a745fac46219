package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/geoleowills/SQL-Library-Manager/internal/config"
	"github.com/geoleowills/SQL-Library-Manager/internal/logging"
	"github.com/geoleowills/SQL-Library-Manager/internal/p2p"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", logging.AttrError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	srv, cleanup, err := initializeServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http server listening", "addr", srv.HTTP.Addr)
		if err := srv.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var (
		host      *p2p.Host
		transport *p2p.HTTPTransport
	)
	if cfg.P2PEnabled() {
		host, transport, err = startP2P(ctx, srv, errCh)
		if err != nil {
			shutdownHTTP(srv)
			return err
		}
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
	}

	shutdownHTTP(srv)
	if transport != nil {
		if cerr := transport.Close(); cerr != nil {
			logger.Error("close p2p transport", logging.AttrError, cerr)
		}
	}
	if host != nil {
		if cerr := host.Stop(); cerr != nil {
			logger.Error("stop p2p host", logging.AttrError, cerr)
		}
	}

	return err
}

func startP2P(ctx context.Context, srv *Server, errCh chan<- error) (*p2p.Host, *p2p.HTTPTransport, error) {
	host, err := p2p.NewHost(srv.Config.RelayAddr, srv.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create p2p host: %w", err)
	}

	if err := host.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("start p2p: %w", err)
	}

	p2p.RegisterPingProtocol(host.Host(), srv.Store, srv.Logger)

	transport, err := p2p.NewHTTPTransport(host.Host(), srv.Router, srv.Logger)
	if err != nil {
		_ = host.Stop()
		return nil, nil, fmt.Errorf("create p2p transport: %w", err)
	}

	go func() {
		if err := transport.Serve(); err != nil {
			errCh <- fmt.Errorf("p2p transport: %w", err)
		}
	}()

	return host, transport, nil
}

func shutdownHTTP(srv *Server) {
	ctx, cancel := context.WithTimeout(context.Background(), srv.Config.ShutdownTimeout)
	defer cancel()

	if err := srv.HTTP.Shutdown(ctx); err != nil {
		srv.Logger.Error("http shutdown", logging.AttrError, err)
	}
}
