package p2p

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	gostream "github.com/libp2p/go-libp2p-gostream"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
)

const (
	HTTPProtocol = "/http/1.1"
	PingProtocol = "/ping/1.0.0"

	pingTimeout = 5 * time.Second
)

// HTTPTransport serves an http.Handler over libp2p streams.
type HTTPTransport struct {
	listener net.Listener
	server   *http.Server
	logger   *slog.Logger
}

func NewHTTPTransport(h host.Host, handler http.Handler, logger *slog.Logger) (*HTTPTransport, error) {
	listener, err := gostream.Listen(h, HTTPProtocol)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPTransport{
		listener: listener,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("component", "p2p_http"),
	}, nil
}

// Serve blocks until the transport is shut down.
func (t *HTTPTransport) Serve() error {
	t.logger.Info("serving http over libp2p", "protocol", HTTPProtocol)
	if err := t.server.Serve(t.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (t *HTTPTransport) Shutdown(ctx context.Context) error {
	return t.server.Shutdown(ctx)
}

func (t *HTTPTransport) Close() error {
	return t.server.Close()
}

// Pinger reports whether the catalog can answer. The store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterPingProtocol answers "pong" while the catalog is reachable and
// "unavailable" otherwise. A nil pinger always answers "pong".
func RegisterPingProtocol(h host.Host, pinger Pinger, logger *slog.Logger) {
	h.SetStreamHandler(PingProtocol, func(s network.Stream) {
		handlePing(s, pinger, logger)
	})
}

func handlePing(s io.ReadWriteCloser, pinger Pinger, logger *slog.Logger) {
	defer s.Close()

	buf := make([]byte, 64)
	if _, err := s.Read(buf); err != nil && err != io.EOF {
		return
	}

	reply := "pong"
	if pinger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			if logger != nil {
				logger.Warn("p2p ping: store unavailable", "error", err)
			}
			reply = "unavailable"
		}
	}

	if _, err := s.Write([]byte(reply)); err != nil && logger != nil {
		logger.Debug("p2p ping: write reply", "error", err)
	}
}
