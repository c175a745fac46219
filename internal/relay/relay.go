// Package relay runs the circuit v2 relay that lets catalog servers behind
// NAT accept libp2p connections.
package relay

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	relayv2 "github.com/libp2p/go-libp2p/p2p/protocol/circuitv2/relay"
	libp2pquic "github.com/libp2p/go-libp2p/p2p/transport/quic"
	"github.com/libp2p/go-libp2p/p2p/transport/tcp"
	"github.com/libp2p/go-libp2p/p2p/transport/websocket"

	"github.com/geoleowills/SQL-Library-Manager/internal/config"
)

type Server struct {
	host    host.Host
	service *relayv2.Relay
	config  *config.RelayConfig
	logger  *slog.Logger
}

func New(cfg *config.RelayConfig, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("relay: nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{config: cfg, logger: logger.With("component", "relay")}, nil
}

// LoadOrCreateKey reads the identity key at path, generating and persisting a
// new Ed25519 key when the file does not exist. A stable key keeps the relay's
// peer id stable across restarts.
func LoadOrCreateKey(path string) (crypto.PrivKey, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return crypto.UnmarshalPrivateKey(data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read key: %w", err)
	}

	priv, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, err
	}

	data, err = crypto.MarshalPrivateKey(priv)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write key: %w", err)
	}
	return priv, nil
}

// ListenAddrs lists the multiaddrs the relay binds. The websocket listener
// takes the port after the TCP one.
func ListenAddrs(cfg *config.RelayConfig) []string {
	addrs := []string{
		fmt.Sprintf("/ip4/%s/tcp/%d", cfg.ListenHost, cfg.ListenPort),
	}

	if cfg.EnableQUIC {
		addrs = append(addrs, fmt.Sprintf("/ip4/%s/udp/%d/quic-v1", cfg.ListenHost, cfg.ListenPort))
	}

	if cfg.EnableWS {
		addrs = append(addrs, fmt.Sprintf("/ip4/%s/tcp/%d/ws", cfg.ListenHost, cfg.ListenPort+1))
	}

	return addrs
}

func (r *Server) Start(ctx context.Context) error {
	priv, err := LoadOrCreateKey(r.config.KeyFile)
	if err != nil {
		return fmt.Errorf("load key: %w", err)
	}

	h, err := libp2p.New(
		libp2p.Identity(priv),
		libp2p.ListenAddrStrings(ListenAddrs(r.config)...),
		libp2p.Transport(tcp.NewTCPTransport),
		libp2p.Transport(websocket.New),
		libp2p.Transport(libp2pquic.NewTransport),
		libp2p.EnableHolePunching(),
	)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}

	// The relay service is started by hand so its limits stay the library defaults.
	svc, err := relayv2.New(h)
	if err != nil {
		_ = h.Close()
		return fmt.Errorf("create relay service: %w", err)
	}
	r.host = h
	r.service = svc

	addrs := make([]string, 0, len(h.Addrs()))
	for _, addr := range h.Addrs() {
		addrs = append(addrs, fmt.Sprintf("%s/p2p/%s", addr, h.ID()))
	}
	r.logger.InfoContext(ctx, "relay started", "peer_id", h.ID().String(), "addrs", addrs)

	return nil
}

func (r *Server) Stop() error {
	if r.host == nil {
		return nil
	}
	if r.service != nil {
		_ = r.service.Close()
	}
	err := r.host.Close()
	r.host = nil
	return err
}

func (r *Server) Host() host.Host {
	return r.host
}
